package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
	"github.com/dddddddrrrr/campus-cart/internal/service"
)

// productRepoStub implements repository.ProductRepository for handler tests
type productRepoStub struct {
	products map[int64]*domain.Product
	err      error
}

func (s *productRepoStub) CreateProduct(_ context.Context, _ *domain.Product) error { return s.err }

func (s *productRepoStub) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *productRepoStub) GetProductsByIDs(_ context.Context, _ []int64) (map[int64]*domain.Product, error) {
	return s.products, s.err
}

func (s *productRepoStub) ListProducts(_ context.Context) ([]*domain.Product, error) {
	return s.all(), s.err
}

func (s *productRepoStub) ListFeaturedProducts(_ context.Context) ([]*domain.Product, error) {
	return s.all(), s.err
}

func (s *productRepoStub) ListDealProducts(_ context.Context, _ int) ([]*domain.Product, error) {
	return s.all(), s.err
}

func (s *productRepoStub) ListProductsByCategory(_ context.Context, _ int64) ([]*domain.Product, error) {
	return s.all(), s.err
}

func (s *productRepoStub) SearchProducts(_ context.Context, _ string, _, _ int) ([]*domain.Product, int, error) {
	products := s.all()
	return products, len(products), s.err
}

func (s *productRepoStub) UpdateProduct(_ context.Context, _ *domain.Product) error { return s.err }
func (s *productRepoStub) DeleteProduct(_ context.Context, _ int64) error           { return s.err }

func (s *productRepoStub) all() []*domain.Product {
	products := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	return products
}

// categoryRepoStub implements repository.CategoryRepository for handler tests
type categoryRepoStub struct {
	categories map[int64]*domain.Category
	err        error
}

func (s *categoryRepoStub) CreateCategory(_ context.Context, _ *domain.Category) error { return s.err }

func (s *categoryRepoStub) GetCategoryByID(_ context.Context, id int64) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	category, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryRepoStub) ListCategories(_ context.Context) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	return categories, s.err
}

func (s *categoryRepoStub) AdminListCategories(_ context.Context, _ string, _, _ int) ([]*domain.Category, int, error) {
	categories, err := s.ListCategories(context.Background())
	return categories, len(categories), err
}

func (s *categoryRepoStub) UpdateCategory(_ context.Context, _ *domain.Category) error { return s.err }
func (s *categoryRepoStub) DeleteCategory(_ context.Context, _ int64) error            { return s.err }

func newTestProductHandler(products *productRepoStub) *ProductHandler {
	catalog := service.NewCatalogService(&categoryRepoStub{}, products)
	return NewProductHandler(catalog)
}

func TestGetProduct_Success(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{
		products: map[int64]*domain.Product{
			1: {ID: 1, Name: "Desk Lamp", Price: decimal.RequireFromString("19.90"), Stock: 5},
		},
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request = withURLParam(request, "product_id", "1")

	handler.GetProduct(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response ProductResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Name != "Desk Lamp" {
		t.Errorf("Expected Desk Lamp, got %s", response.Name)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{products: map[int64]*domain.Product{}})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request = withURLParam(request, "product_id", "42")

	handler.GetProduct(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestGetProduct_BadID(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request = withURLParam(request, "product_id", "zero")

	handler.GetProduct(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestListProducts_Success(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{
		products: map[int64]*domain.Product{
			1: {ID: 1, Name: "Desk Lamp", Price: decimal.RequireFromString("19.90")},
			2: {ID: 2, Name: "Poster", Price: decimal.RequireFromString("2.00")},
		},
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	handler.ListProducts(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response []ProductResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 products, got %d", len(response))
	}
}

func TestSearchProducts_Meta(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{
		products: map[int64]*domain.Product{
			1: {ID: 1, Name: "Desk Lamp"},
		},
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/?q=lamp&page=1&page_size=10", nil)

	handler.SearchProducts(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response ProductSearchDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Meta.Total != 1 {
		t.Errorf("Expected total 1, got %d", response.Meta.Total)
	}
	if response.Meta.HasNextPage {
		t.Error("Expected no next page")
	}
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{})

	recorder := httptest.NewRecorder()
	body := strings.NewReader(`{"name":"Pen","price":"1.00","stock":1,"category_id":1}`)
	request := asUser(httptest.NewRequest("POST", "/", body), domain.RoleOrdinary)

	handler.CreateProduct(recorder, request)

	if recorder.Code != http.StatusForbidden {
		t.Errorf("Expected status code %d, got %d", http.StatusForbidden, recorder.Code)
	}
}

func TestCreateProduct_Success(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{})

	recorder := httptest.NewRecorder()
	body := strings.NewReader(`{"name":"Pen","price":"1.50","stock":10,"category_id":1}`)
	request := asUser(httptest.NewRequest("POST", "/", body), domain.RoleAdmin)

	handler.CreateProduct(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}

	var response ProductResponseDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Name != "Pen" {
		t.Errorf("Expected Pen, got %s", response.Name)
	}
}

func TestCreateProduct_BadPrice(t *testing.T) {
	handler := newTestProductHandler(&productRepoStub{})

	recorder := httptest.NewRecorder()
	body := strings.NewReader(`{"name":"Pen","price":"free","stock":10,"category_id":1}`)
	request := asUser(httptest.NewRequest("POST", "/", body), domain.RoleAdmin)

	handler.CreateProduct(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}
