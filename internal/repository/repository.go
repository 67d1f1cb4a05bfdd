package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductInUse          = errors.New("product is referenced by carts or orders")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryNotEmpty      = errors.New("category still owns products")
	ErrDuplicateCategoryName = errors.New("category name already exists")
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrDuplicateOrderNumber  = errors.New("order number already exists")

	// ErrCreditConflict is returned when the conditional credit debit inside
	// the order transaction affects zero rows.
	ErrCreditConflict = errors.New("credit below order total at commit time")
)

// StockConflictError is returned when the conditional stock decrement inside
// the order transaction affects zero rows for a product.
type StockConflictError struct {
	ProductID int64
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock below requested quantity for product %d at commit time", e.ProductID)
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]*domain.User, int, error)
	SetUserCredit(ctx context.Context, id string, credit decimal.Decimal) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListFeaturedProducts(ctx context.Context) ([]*domain.Product, error)
	ListDealProducts(ctx context.Context, limit int) ([]*domain.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, name string, page, pageSize int) ([]*domain.Product, int, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	AdminListCategories(ctx context.Context, name string, page, pageSize int) ([]*domain.Category, int, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type CartRepository interface {
	GetCartWithItems(ctx context.Context, userID string) (*domain.Cart, error)
	AddCartItem(ctx context.Context, userID string, productID int64, quantity int) error
	UpdateCartItemQuantity(ctx context.Context, userID string, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID string, productID int64) error
	ClearCart(ctx context.Context, userID string) error
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	OrderNumber string
	Status      *domain.OrderStatus
	UserID      string
	StartDate   *time.Time
	EndDate     *time.Time
	SortBy      string // created_at, total_amount, updated_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}

type OrderStatusStat struct {
	Status      domain.OrderStatus
	Count       int
	TotalAmount decimal.Decimal
}

type OrderRepository interface {
	// CreateOrder persists the order and its items and applies the side
	// effects (credit debit, stock decrements, optional cart drain, outbox
	// event) as one transaction.
	CreateOrder(ctx context.Context, order *domain.Order, drainCartID *int64) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	AdminListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, int, []OrderStatusStat, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type OutboxRepository interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}
