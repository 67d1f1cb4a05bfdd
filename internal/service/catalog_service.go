package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
)

// dealsLimit caps the storefront deals listing.
const dealsLimit = 20

type CategoryInput struct {
	Name string
	Icon string
}

type ProductInput struct {
	Name        string
	Description string
	Price       string // decimal string, parsed server-side
	Stock       int
	CategoryID  int64
	Discount    int
	IsNew       bool
	IsFeatured  bool
	Rating      float64
	ImageURL    string
}

type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetCategoryByID(ctx, id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, ErrCategoryNotFound
	}
	return category, err
}

func (s *CatalogService) AdminListCategories(ctx context.Context, caller Identity, name string, page, pageSize int) ([]*domain.Category, int, error) {
	if !caller.IsAdmin() {
		return nil, 0, ErrPermissionDenied
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.categories.AdminListCategories(ctx, name, page, pageSize)
}

func (s *CatalogService) CreateCategory(ctx context.Context, caller Identity, input CategoryInput) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: category name must not be empty", ErrInvalidInput)
	}

	category := &domain.Category{Name: input.Name, Icon: input.Icon}
	err := s.categories.CreateCategory(ctx, category)
	if errors.Is(err, repository.ErrDuplicateCategoryName) {
		return nil, ErrDuplicateCategoryName
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, caller Identity, id int64, input CategoryInput) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	category, err := s.categories.GetCategoryByID(ctx, id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.Icon != "" {
		category.Icon = input.Icon
	}

	err = s.categories.UpdateCategory(ctx, category)
	if errors.Is(err, repository.ErrDuplicateCategoryName) {
		return nil, ErrDuplicateCategoryName
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, caller Identity, id int64) error {
	if !caller.IsAdmin() {
		return ErrPermissionDenied
	}

	err := s.categories.DeleteCategory(ctx, id)
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repository.ErrCategoryNotEmpty):
		return ErrCategoryNotEmpty
	case err != nil:
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *CatalogService) ListFeaturedProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListFeaturedProducts(ctx)
}

func (s *CatalogService) ListDealProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListDealProducts(ctx, dealsLimit)
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	return s.products.ListProductsByCategory(ctx, categoryID)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetProductByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return product, err
}

func (s *CatalogService) SearchProducts(ctx context.Context, name string, page, pageSize int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.products.SearchProducts(ctx, name, page, pageSize)
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller Identity, input ProductInput) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	err = s.products.CreateProduct(ctx, product)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, caller Identity, id int64, input ProductInput) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}
	product.ID = id

	err = s.products.UpdateProduct(ctx, product)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller Identity, id int64) error {
	if !caller.IsAdmin() {
		return ErrPermissionDenied
	}

	err := s.products.DeleteProduct(ctx, id)
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return &ProductNotFoundError{ProductID: id}
	case errors.Is(err, repository.ErrProductInUse):
		return ErrProductInUse
	case err != nil:
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func productFromInput(input ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: product name must not be empty", ErrInvalidInput)
	}
	price, err := parseAmount(input.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price %q", ErrInvalidInput, input.Price)
	}
	if input.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	if input.Discount < 0 || input.Discount > 100 {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidInput)
	}

	return &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		Discount:    input.Discount,
		IsNew:       input.IsNew,
		IsFeatured:  input.IsFeatured,
		Rating:      input.Rating,
		ImageURL:    input.ImageURL,
	}, nil
}
