package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
)

// MockOrderRepository implements repository.OrderRepository for testing.
// CreateOrderErrs is consumed one per call so a test can script a collision
// followed by a success.
type MockOrderRepository struct {
	CreateOrderErrs []error
	CreateCalls     int
	CreatedOrders   []*domain.Order
	DrainedCartIDs  []*int64

	Order         *domain.Order
	GetErr        error
	UserOrders    []*domain.Order
	ListErr       error
	AdminOrders   []*domain.Order
	AdminTotal    int
	AdminStats    []repository.OrderStatusStat
	AdminFilter   repository.OrderFilter
	UpdatedStatus *domain.OrderStatus
	UpdateErr     error
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *domain.Order, drainCartID *int64) error {
	call := m.CreateCalls
	m.CreateCalls++
	m.CreatedOrders = append(m.CreatedOrders, order)
	m.DrainedCartIDs = append(m.DrainedCartIDs, drainCartID)
	if call < len(m.CreateOrderErrs) {
		return m.CreateOrderErrs[call]
	}
	return nil
}

func (m *MockOrderRepository) GetOrderByID(_ context.Context, _ int64) (*domain.Order, error) {
	return m.Order, m.GetErr
}

func (m *MockOrderRepository) ListOrdersByUserID(_ context.Context, _ string) ([]*domain.Order, error) {
	return m.UserOrders, m.ListErr
}

func (m *MockOrderRepository) AdminListOrders(_ context.Context, filter repository.OrderFilter) ([]*domain.Order, int, []repository.OrderStatusStat, error) {
	m.AdminFilter = filter
	return m.AdminOrders, m.AdminTotal, m.AdminStats, nil
}

func (m *MockOrderRepository) UpdateOrderStatus(_ context.Context, _ int64, status domain.OrderStatus) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.UpdatedStatus = &status
	return nil
}

// MockProductRepository implements repository.ProductRepository for testing
type MockProductRepository struct {
	Products map[int64]*domain.Product
	Err      error
}

func (m *MockProductRepository) CreateProduct(_ context.Context, _ *domain.Product) error {
	return m.Err
}

func (m *MockProductRepository) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	product, ok := m.Products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *MockProductRepository) GetProductsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	found := make(map[int64]*domain.Product)
	for _, id := range ids {
		if product, ok := m.Products[id]; ok {
			found[id] = product
		}
	}
	return found, nil
}

func (m *MockProductRepository) ListProducts(_ context.Context) ([]*domain.Product, error) {
	return m.all(), m.Err
}

func (m *MockProductRepository) ListFeaturedProducts(_ context.Context) ([]*domain.Product, error) {
	return m.all(), m.Err
}

func (m *MockProductRepository) ListDealProducts(_ context.Context, _ int) ([]*domain.Product, error) {
	return m.all(), m.Err
}

func (m *MockProductRepository) ListProductsByCategory(_ context.Context, _ int64) ([]*domain.Product, error) {
	return m.all(), m.Err
}

func (m *MockProductRepository) SearchProducts(_ context.Context, _ string, _, _ int) ([]*domain.Product, int, error) {
	products := m.all()
	return products, len(products), m.Err
}

func (m *MockProductRepository) UpdateProduct(_ context.Context, _ *domain.Product) error {
	return m.Err
}

func (m *MockProductRepository) DeleteProduct(_ context.Context, _ int64) error {
	return m.Err
}

func (m *MockProductRepository) all() []*domain.Product {
	products := make([]*domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, p)
	}
	return products
}

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	Users     map[string]*domain.User
	Err       error
	SetCredit *decimal.Decimal
}

func (m *MockUserRepository) CreateUser(_ context.Context, _ *domain.User) error {
	return m.Err
}

func (m *MockUserRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserRepository) ListUsers(_ context.Context, _, _ int) ([]*domain.User, int, error) {
	users := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	return users, len(users), m.Err
}

func (m *MockUserRepository) SetUserCredit(_ context.Context, id string, credit decimal.Decimal) error {
	if m.Err != nil {
		return m.Err
	}
	user, ok := m.Users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Credit = credit
	m.SetCredit = &credit
	return nil
}

// MockCartRepository implements repository.CartRepository for testing
type MockCartRepository struct {
	Cart       *domain.Cart
	GetErr     error
	AddErr     error
	UpdateErr  error
	RemoveErr  error
	ClearErr   error
	ClearCalls int
}

func (m *MockCartRepository) GetCartWithItems(_ context.Context, _ string) (*domain.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Cart, nil
}

func (m *MockCartRepository) AddCartItem(_ context.Context, _ string, _ int64, _ int) error {
	return m.AddErr
}

func (m *MockCartRepository) UpdateCartItemQuantity(_ context.Context, _ string, _ int64, _ int) error {
	return m.UpdateErr
}

func (m *MockCartRepository) RemoveCartItem(_ context.Context, _ string, _ int64) error {
	return m.RemoveErr
}

func (m *MockCartRepository) ClearCart(_ context.Context, _ string) error {
	m.ClearCalls++
	return m.ClearErr
}

// MockCategoryRepository implements repository.CategoryRepository for testing
type MockCategoryRepository struct {
	Categories map[int64]*domain.Category
	CreateErr  error
	DeleteErr  error
	UpdateErr  error
	Created    *domain.Category
	DeletedID  int64
}

func (m *MockCategoryRepository) CreateCategory(_ context.Context, category *domain.Category) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	category.ID = int64(len(m.Categories) + 1)
	m.Created = category
	return nil
}

func (m *MockCategoryRepository) GetCategoryByID(_ context.Context, id int64) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *MockCategoryRepository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	return m.all(), nil
}

func (m *MockCategoryRepository) AdminListCategories(_ context.Context, _ string, _, _ int) ([]*domain.Category, int, error) {
	categories := m.all()
	return categories, len(categories), nil
}

func (m *MockCategoryRepository) UpdateCategory(_ context.Context, category *domain.Category) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.Categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	m.Categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) DeleteCategory(_ context.Context, id int64) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	m.DeletedID = id
	delete(m.Categories, id)
	return nil
}

func (m *MockCategoryRepository) all() []*domain.Category {
	categories := make([]*domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		categories = append(categories, c)
	}
	return categories
}

// MockCartCache implements cache.CartCache for testing
type MockCartCache struct {
	Cart        *domain.Cart
	GetErr      error
	SetErr      error
	DeleteErr   error
	SetCalls    int
	DeleteCalls int
}

func (m *MockCartCache) Get(_ context.Context, _ string) (*domain.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Cart, nil
}

func (m *MockCartCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.SetCalls++
	m.Cart = cart
	return m.SetErr
}

func (m *MockCartCache) Delete(_ context.Context, _ string) error {
	m.DeleteCalls++
	return m.DeleteErr
}
