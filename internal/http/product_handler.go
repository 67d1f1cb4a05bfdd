package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type ProductResponseDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"category_id"`
	Discount    int             `json:"discount"`
	IsNew       bool            `json:"is_new"`
	IsFeatured  bool            `json:"is_featured"`
	Rating      float64         `json:"rating"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   string          `json:"created_at"`
}

type ProductRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  int64   `json:"category_id"`
	Discount    int     `json:"discount"`
	IsNew       bool    `json:"is_new"`
	IsFeatured  bool    `json:"is_featured"`
	Rating      float64 `json:"rating"`
	ImageURL    string  `json:"image_url"`
}

type ProductSearchDTO struct {
	Products []ProductResponseDTO `json:"products"`
	Meta     PageMetaDTO          `json:"meta"`
}

// GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertProducts(products))
}

// GET /api/v1/products/featured
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListFeaturedProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertProducts(products))
}

// GET /api/v1/products/deals
func (h *ProductHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListDealProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertProducts(products))
}

// GET /api/v1/products/search?q=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, total, err := h.catalog.SearchProducts(r.Context(),
		q.Get("q"),
		parseIntDefault(q.Get("page"), 1),
		parseIntDefault(q.Get("page_size"), 10))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductSearchDTO{
		Products: convertProducts(products),
		Meta: pageMeta(
			parseIntDefault(q.Get("page"), 1),
			parseIntDefault(q.Get("page_size"), 10),
			total),
	})
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, errGet := h.catalog.GetProduct(r.Context(), productID)
	if errGet != nil {
		respondServiceError(w, errGet)
		return
	}
	respondJSON(w, http.StatusOK, convertProduct(product))
}

// GET /api/v1/categories/{category_id}/products
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "category_id"), 10, 64)
	if err != nil || categoryID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
		return
	}

	products, errList := h.catalog.ListProductsByCategory(r.Context(), categoryID)
	if errList != nil {
		respondServiceError(w, errList)
		return
	}
	respondJSON(w, http.StatusOK, convertProducts(products))
}

// POST /api/v1/admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), caller, productInput(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, convertProduct(product))
}

// PUT /api/v1/admin/products/{product_id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, errUpdate := h.catalog.UpdateProduct(r.Context(), caller, productID, productInput(req))
	if errUpdate != nil {
		respondServiceError(w, errUpdate)
		return
	}
	respondJSON(w, http.StatusOK, convertProduct(product))
}

// DELETE /api/v1/admin/products/{product_id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if errDelete := h.catalog.DeleteProduct(r.Context(), caller, productID); errDelete != nil {
		respondServiceError(w, errDelete)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func productInput(req ProductRequestDTO) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Discount:    req.Discount,
		IsNew:       req.IsNew,
		IsFeatured:  req.IsFeatured,
		Rating:      req.Rating,
		ImageURL:    req.ImageURL,
	}
}

func convertProduct(p *domain.Product) ProductResponseDTO {
	return ProductResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Discount:    p.Discount,
		IsNew:       p.IsNew,
		IsFeatured:  p.IsFeatured,
		Rating:      p.Rating,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func convertProducts(products []*domain.Product) []ProductResponseDTO {
	dtos := make([]ProductResponseDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, convertProduct(p))
	}
	return dtos
}
