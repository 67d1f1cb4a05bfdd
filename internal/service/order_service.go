package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
)

// orderNumberAttempts bounds the retry loop on order-number collisions.
const orderNumberAttempts = 3

type OrderLine struct {
	ProductID int64
	Quantity  int
}

// CreateOrderRequest carries either an explicit item list or the instruction
// to order whatever is in the caller's cart. When UseCart is set, Items is
// ignored and the cart is drained inside the order transaction.
type CreateOrderRequest struct {
	Items   []OrderLine
	UseCart bool
}

type OrderService interface {
	CreateOrder(ctx context.Context, caller Identity, req CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, caller Identity, orderID int64) (*domain.Order, error)
	ListMyOrders(ctx context.Context, caller Identity) ([]*domain.Order, error)
	AdminListOrders(ctx context.Context, caller Identity, filter repository.OrderFilter) ([]*domain.Order, int, []repository.OrderStatusStat, error)
	UpdateOrderStatus(ctx context.Context, caller Identity, orderID int64, status domain.OrderStatus) (*domain.Order, error)
}

type OrderServiceImpl struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	carts    repository.CartRepository
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	carts repository.CartRepository,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		orders:   orders,
		products: products,
		users:    users,
		carts:    carts,
	}
}

// CreateOrder resolves the line items, validates stock and balance without
// mutating anything, then commits the order atomically. A concurrent mutation
// between validation and commit surfaces as the same typed error the
// validation would have produced, after the transaction rolled back.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, caller Identity, req CreateOrderRequest) (*domain.Order, error) {
	lines := req.Items
	var drainCartID *int64

	if req.UseCart {
		cart, err := s.carts.GetCartWithItems(ctx, caller.UserID)
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return nil, ErrEmptyCart
		}
		lines = make([]OrderLine, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		drainCartID = &cart.ID
	}

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
	}

	items, total, err := s.validate(ctx, caller.UserID, lines)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order := &domain.Order{
			OrderNumber: NewOrderNumber(time.Now()),
			UserID:      caller.UserID,
			Status:      domain.OrderStatusPending,
			TotalAmount: total,
			Items:       items,
		}

		err = s.orders.CreateOrder(ctx, order, drainCartID)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, repository.ErrDuplicateOrderNumber) {
			continue
		}
		return nil, s.translateCommitError(ctx, caller.UserID, total, err)
	}

	return nil, fmt.Errorf("%w: could not allocate a unique order number", ErrTransactionFailed)
}

// validate performs the full pre-commit check: every product exists, every
// quantity is in stock and the buyer can afford the total. It reads only; all
// checks complete before any mutation so failures are specific and repeatable.
func (s *OrderServiceImpl) validate(ctx context.Context, userID string, lines []OrderLine) ([]domain.OrderItem, decimal.Decimal, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load products: %w", err)
	}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, decimal.Zero, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if product.Stock < line.Quantity {
			return nil, decimal.Zero, &InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
			}
		}
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product := products[line.ProductID]
		// The product row is the only price source; nothing client-supplied
		// participates in the total.
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, decimal.Zero, ErrUserNotFound
	}
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load user: %w", err)
	}
	if user.Credit.LessThan(total) {
		return nil, decimal.Zero, &InsufficientBalanceError{
			Balance:  user.Credit,
			Required: total,
		}
	}

	return items, total, nil
}

// translateCommitError maps the repository's conditional-update conflicts back
// to the same typed errors validation produces, with fresh state for the
// message.
func (s *OrderServiceImpl) translateCommitError(ctx context.Context, userID string, total decimal.Decimal, err error) error {
	var stockConflict *repository.StockConflictError
	if errors.As(err, &stockConflict) {
		product, lookupErr := s.products.GetProductByID(ctx, stockConflict.ProductID)
		if lookupErr != nil {
			return &InsufficientStockError{ProductName: fmt.Sprintf("product %d", stockConflict.ProductID)}
		}
		return &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
	}

	if errors.Is(err, repository.ErrCreditConflict) {
		user, lookupErr := s.users.GetUserByID(ctx, userID)
		if lookupErr != nil {
			return &InsufficientBalanceError{Required: total}
		}
		return &InsufficientBalanceError{Balance: user.Credit, Required: total}
	}

	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}

// GetOrder returns the order detail; only an admin or the order's owner may
// read it.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, caller Identity, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if !caller.IsAdmin() && order.UserID != caller.UserID {
		return nil, ErrPermissionDenied
	}
	return order, nil
}

func (s *OrderServiceImpl) ListMyOrders(ctx context.Context, caller Identity) ([]*domain.Order, error) {
	orders, err := s.orders.ListOrdersByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderServiceImpl) AdminListOrders(ctx context.Context, caller Identity, filter repository.OrderFilter) ([]*domain.Order, int, []repository.OrderStatusStat, error) {
	if !caller.IsAdmin() {
		return nil, 0, nil, ErrPermissionDenied
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	return s.orders.AdminListOrders(ctx, filter)
}

// UpdateOrderStatus is admin-only and rejects transitions outside the status
// graph rather than allowing arbitrary overwrites.
func (s *OrderServiceImpl) UpdateOrderStatus(ctx context.Context, caller Identity, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	if !domain.CanTransitionTo(order.Status, status) {
		return nil, &InvalidTransitionError{From: order.Status, To: status}
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status
	return order, nil
}
