package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type UserResponseDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Credit    decimal.Decimal `json:"credit"`
	CreatedAt string          `json:"created_at"`
}

type UserListDTO struct {
	Users []UserResponseDTO `json:"users"`
	Meta  PageMetaDTO       `json:"meta"`
}

// GET /api/v1/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(r.Context(), caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertUser(user))
}

// GET /api/v1/admin/users
func (h *UserHandler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page := parseIntDefault(q.Get("page"), 1)
	pageSize := parseIntDefault(q.Get("page_size"), 10)

	users, total, err := h.users.AdminListUsers(r.Context(), caller, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dtos := make([]UserResponseDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, convertUser(user))
	}
	respondJSON(w, http.StatusOK, UserListDTO{
		Users: dtos,
		Meta:  pageMeta(page, pageSize, total),
	})
}

type UpdateCreditRequestDTO struct {
	Credit string `json:"credit"`
}

// PUT /api/v1/admin/users/{user_id}/credit
func (h *UserHandler) UpdateUserCredit(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	var req UpdateCreditRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.users.UpdateUserCredit(r.Context(), caller, userID, req.Credit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertUser(user))
}

func convertUser(user *domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Credit:    user.Credit,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
