package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to order")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrUserNotFound     = errors.New("user not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrPermissionDenied = errors.New("permission denied")

	ErrProductInUse          = errors.New("product appears in carts or orders, cannot delete")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryNotEmpty      = errors.New("category still owns products, cannot delete")
	ErrDuplicateCategoryName = errors.New("category name already exists")
	ErrInvalidInput          = errors.New("invalid input")

	// ErrTransactionFailed covers commit-time conflicts that are not one of
	// the specific validation failures. Not retried; reported to the caller.
	ErrTransactionFailed = errors.New("order transaction failed")
)

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d does not exist", e.ProductID)
}

type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s, current stock: %d", e.ProductName, e.Available)
}

type InsufficientBalanceError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance, current balance: ¥%s, order amount: ¥%s",
		e.Balance.StringFixed(2), e.Required.StringFixed(2))
}

type InvalidTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status cannot change from %s to %s", e.From, e.To)
}
