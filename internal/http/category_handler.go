package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/service"
)

type CategoryHandler struct {
	catalog *service.CatalogService
}

func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

type CategoryResponseDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	ProductCount int    `json:"product_count"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type CategoryRequestDTO struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type CategoryListDTO struct {
	Categories []CategoryResponseDTO `json:"categories"`
	Meta       PageMetaDTO           `json:"meta"`
}

// GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertCategories(categories))
}

// GET /api/v1/categories/{category_id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "category_id"), 10, 64)
	if err != nil || categoryID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
		return
	}

	category, errGet := h.catalog.GetCategory(r.Context(), categoryID)
	if errGet != nil {
		respondServiceError(w, errGet)
		return
	}
	respondJSON(w, http.StatusOK, convertCategory(category))
}

// GET /api/v1/admin/categories
func (h *CategoryHandler) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page := parseIntDefault(q.Get("page"), 1)
	pageSize := parseIntDefault(q.Get("page_size"), 10)

	categories, total, err := h.catalog.AdminListCategories(r.Context(), caller, q.Get("name"), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CategoryListDTO{
		Categories: convertCategories(categories),
		Meta:       pageMeta(page, pageSize, total),
	})
}

// POST /api/v1/admin/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), caller, service.CategoryInput{
		Name: req.Name,
		Icon: req.Icon,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, convertCategory(category))
}

// PUT /api/v1/admin/categories/{category_id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "category_id"), 10, 64)
	if err != nil || categoryID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
		return
	}

	var req CategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	category, errUpdate := h.catalog.UpdateCategory(r.Context(), caller, categoryID, service.CategoryInput{
		Name: req.Name,
		Icon: req.Icon,
	})
	if errUpdate != nil {
		respondServiceError(w, errUpdate)
		return
	}
	respondJSON(w, http.StatusOK, convertCategory(category))
}

// DELETE /api/v1/admin/categories/{category_id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "category_id"), 10, 64)
	if err != nil || categoryID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
		return
	}

	if errDelete := h.catalog.DeleteCategory(r.Context(), caller, categoryID); errDelete != nil {
		respondServiceError(w, errDelete)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func convertCategory(c *domain.Category) CategoryResponseDTO {
	return CategoryResponseDTO{
		ID:           c.ID,
		Name:         c.Name,
		Icon:         c.Icon,
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}

func convertCategories(categories []*domain.Category) []CategoryResponseDTO {
	dtos := make([]CategoryResponseDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, convertCategory(c))
	}
	return dtos
}
