package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
)

var admin = Identity{UserID: "admin-id", Role: domain.RoleAdmin}

func TestCreateCategory_Success(t *testing.T) {
	categories := &MockCategoryRepository{Categories: map[int64]*domain.Category{}}
	svc := NewCatalogService(categories, catalog())

	category, err := svc.CreateCategory(context.Background(), admin, CategoryInput{Name: "Lab Equipment", Icon: "flask"})

	require.NoError(t, err)
	assert.Equal(t, "Lab Equipment", category.Name)
	assert.NotZero(t, category.ID)
}

func TestCreateCategory_RequiresAdmin(t *testing.T) {
	svc := NewCatalogService(&MockCategoryRepository{}, catalog())

	_, err := svc.CreateCategory(context.Background(), Identity{UserID: testUserID}, CategoryInput{Name: "X"})

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateCategory_EmptyName(t *testing.T) {
	svc := NewCatalogService(&MockCategoryRepository{}, catalog())

	_, err := svc.CreateCategory(context.Background(), admin, CategoryInput{Name: "   "})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	categories := &MockCategoryRepository{CreateErr: repository.ErrDuplicateCategoryName}
	svc := NewCatalogService(categories, catalog())

	_, err := svc.CreateCategory(context.Background(), admin, CategoryInput{Name: "Electronics"})

	assert.ErrorIs(t, err, ErrDuplicateCategoryName)
}

func TestUpdateCategory_PartialFields(t *testing.T) {
	categories := &MockCategoryRepository{
		Categories: map[int64]*domain.Category{
			1: {ID: 1, Name: "Electronics", Icon: "plug"},
		},
	}
	svc := NewCatalogService(categories, catalog())

	// Empty fields keep their current value.
	category, err := svc.UpdateCategory(context.Background(), admin, 1, CategoryInput{Icon: "chip"})

	require.NoError(t, err)
	assert.Equal(t, "Electronics", category.Name)
	assert.Equal(t, "chip", category.Icon)
}

func TestDeleteCategory_StillOwnsProducts(t *testing.T) {
	categories := &MockCategoryRepository{DeleteErr: repository.ErrCategoryNotEmpty}
	svc := NewCatalogService(categories, catalog())

	err := svc.DeleteCategory(context.Background(), admin, 1)

	assert.ErrorIs(t, err, ErrCategoryNotEmpty)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	categories := &MockCategoryRepository{Categories: map[int64]*domain.Category{}}
	svc := NewCatalogService(categories, catalog())

	err := svc.DeleteCategory(context.Background(), admin, 42)

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := NewCatalogService(&MockCategoryRepository{}, catalog())

	_, err := svc.GetProduct(context.Background(), 42)

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.ProductID)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewCatalogService(&MockCategoryRepository{}, catalog())

	cases := []struct {
		name  string
		input ProductInput
	}{
		{"empty name", ProductInput{Name: "", Price: "1.00"}},
		{"bad price", ProductInput{Name: "Pen", Price: "not-a-number"}},
		{"negative price", ProductInput{Name: "Pen", Price: "-1.00"}},
		{"negative stock", ProductInput{Name: "Pen", Price: "1.00", Stock: -1}},
		{"discount over 100", ProductInput{Name: "Pen", Price: "1.00", Discount: 101}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), admin, tc.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateProduct_RoundsPrice(t *testing.T) {
	products := catalog()
	svc := NewCatalogService(&MockCategoryRepository{}, products)

	product, err := svc.CreateProduct(context.Background(), admin, ProductInput{
		Name:       "Sticker Sheet",
		Price:      "1.999",
		Stock:      10,
		CategoryID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "2.00", product.Price.StringFixed(2))
}

func TestDeleteProduct_BlockedWhileReferenced(t *testing.T) {
	products := catalog()
	products.Err = repository.ErrProductInUse
	svc := NewCatalogService(&MockCategoryRepository{}, products)

	err := svc.DeleteProduct(context.Background(), admin, 1)

	assert.ErrorIs(t, err, ErrProductInUse)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	products := catalog()
	products.Err = repository.ErrCategoryNotFound
	svc := NewCatalogService(&MockCategoryRepository{}, products)

	_, err := svc.CreateProduct(context.Background(), admin, ProductInput{
		Name:  "Pen",
		Price: "1.00",
	})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
