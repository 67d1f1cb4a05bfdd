package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dddddddrrrr/campus-cart/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// respondServiceError translates service errors into HTTP statuses. The
// storefront shows the details string verbatim, so it carries the specifics
// (product name, balance vs required total).
func respondServiceError(w http.ResponseWriter, err error) {
	var (
		productNotFound     *service.ProductNotFoundError
		insufficientStock   *service.InsufficientStockError
		insufficientBalance *service.InsufficientBalanceError
		invalidTransition   *service.InvalidTransitionError
	)

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.As(err, &productNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, service.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "empty_order", err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.As(err, &insufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.As(err, &insufficientBalance):
		respondError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.As(err, &invalidTransition):
		respondError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, service.ErrDuplicateCategoryName):
		respondError(w, http.StatusConflict, "duplicate_category_name", err.Error())
	case errors.Is(err, service.ErrCategoryNotEmpty):
		respondError(w, http.StatusConflict, "category_not_empty", err.Error())
	case errors.Is(err, service.ErrProductInUse):
		respondError(w, http.StatusConflict, "product_in_use", err.Error())
	case errors.Is(err, service.ErrTransactionFailed):
		respondError(w, http.StatusConflict, "transaction_failed", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
