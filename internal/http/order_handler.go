package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
	"github.com/dddddddrrrr/campus-cart/internal/service"
)

type OrderHandler struct {
	orders service.OrderService
	carts  *service.CartService
}

func NewOrderHandler(orders service.OrderService, carts *service.CartService) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts}
}

type CreateOrderRequestDTO struct {
	Items   []OrderLineDTO `json:"items"`
	UseCart bool           `json:"use_cart"`
}

type OrderLineDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type OrderItemDTO struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponseDTO struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	UserID      string          `json:"user_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItemDTO  `json:"items"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type CreateOrderResponseDTO struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Order   OrderResponseDTO `json:"order"`
}

// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
			return
		}
		if item.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
			return
		}
		lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orders.CreateOrder(r.Context(), caller, service.CreateOrderRequest{
		Items:   lines,
		UseCart: req.UseCart,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if req.UseCart {
		h.carts.InvalidateCart(caller.UserID)
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponseDTO{
		Success: true,
		Message: "order created",
		Order:   convertOrder(order),
	})
}

// GET /api/v1/orders
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListMyOrders(r.Context(), caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, convertOrder(order))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	order, errGet := h.orders.GetOrder(r.Context(), caller, orderID)
	if errGet != nil {
		respondServiceError(w, errGet)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

type AdminOrderListDTO struct {
	Orders []OrderResponseDTO `json:"orders"`
	Meta   PageMetaDTO        `json:"meta"`
	Stats  []OrderStatDTO     `json:"stats"`
}

type PageMetaDTO struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

type OrderStatDTO struct {
	Status      string          `json:"status"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// GET /api/v1/admin/orders
func (h *OrderHandler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repository.OrderFilter{
		OrderNumber: q.Get("order_number"),
		UserID:      q.Get("user_id"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
		Page:        parseIntDefault(q.Get("page"), 1),
		PageSize:    parseIntDefault(q.Get("page_size"), 10),
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !status.IsValid() {
			respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_start_date", "start_date must be RFC3339")
			return
		}
		filter.StartDate = &start
	}
	if raw := q.Get("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_end_date", "end_date must be RFC3339")
			return
		}
		filter.EndDate = &end
	}

	orders, total, stats, err := h.orders.AdminListOrders(r.Context(), caller, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, convertOrder(order))
	}
	statDTOs := make([]OrderStatDTO, 0, len(stats))
	for _, stat := range stats {
		statDTOs = append(statDTOs, OrderStatDTO{
			Status:      string(stat.Status),
			Count:       stat.Count,
			TotalAmount: stat.TotalAmount,
		})
	}

	respondJSON(w, http.StatusOK, AdminOrderListDTO{
		Orders: dtos,
		Meta:   pageMeta(filter.Page, filter.PageSize, total),
		Stats:  statDTOs,
	})
}

type UpdateOrderStatusRequestDTO struct {
	Status string `json:"status"`
}

// PUT /api/v1/admin/orders/{order_id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, errUpdate := h.orders.UpdateOrderStatus(r.Context(), caller, orderID, domain.OrderStatus(req.Status))
	if errUpdate != nil {
		respondServiceError(w, errUpdate)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

func convertOrder(order *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}

	return OrderResponseDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		Items:       items,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   order.UpdatedAt.Format(time.RFC3339),
	}
}

func pageMeta(page, pageSize, total int) PageMetaDTO {
	totalPages := (total + pageSize - 1) / pageSize
	return PageMetaDTO{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
