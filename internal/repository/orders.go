package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
)

type orderCreatedPayload struct {
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []orderItemPayload `json:"items"`
}

type orderItemPayload struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrder is the transactional committer. Everything below runs in one
// transaction: order + item inserts, the conditional credit debit, the
// conditional stock decrements, the optional cart drain and the outbox event.
// The decrements are conditional so a concurrent purchase that invalidated the
// caller's validation rolls the whole commit back instead of pushing stock or
// credit negative.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order, drainCartID *int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (order_number, user_id, status, total_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		order.OrderNumber,
		order.UserID,
		order.Status,
		order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET credit = credit - $2, updated_at = NOW()
		 WHERE id = $1 AND credit >= $2`,
		order.UserID, order.TotalAmount)
	if err != nil {
		return fmt.Errorf("debit user credit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCreditConflict
	}

	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = NOW()
			 WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrement product stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return &StockConflictError{ProductID: item.ProductID}
		}
	}

	if drainCartID != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1`, *drainCartID); err != nil {
			return fmt.Errorf("drain cart: %w", err)
		}
	}

	payload := orderCreatedPayload{
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order payload: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO order_outbox (aggregate_id, event_type, payload, processed, created_at)
		 VALUES ($1, $2, $3, FALSE, NOW())`,
		order.OrderNumber, "order.created", payloadJSON); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, order_number, user_id, status, total_amount, created_at, updated_at
	          FROM orders WHERE id = $1`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := r.loadOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT id, order_number, user_id, status, total_amount, created_at, updated_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		items, err := r.loadOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}

var orderSortColumns = map[string]string{
	"created_at":   "created_at",
	"total_amount": "total_amount",
	"updated_at":   "updated_at",
}

// AdminListOrders applies the back-office filters and also returns per-status
// count/amount stats over the same filtered set.
func (r *Repository) AdminListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, int, []OrderStatusStat, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OrderNumber != "" {
		conds = append(conds, fmt.Sprintf("order_number ILIKE %s", arg("%"+filter.OrderNumber+"%")))
	}
	if filter.Status != nil {
		conds = append(conds, fmt.Sprintf("status = %s", arg(*filter.Status)))
	}
	if filter.UserID != "" {
		conds = append(conds, fmt.Sprintf("user_id = %s", arg(filter.UserID)))
	}
	if filter.StartDate != nil {
		conds = append(conds, fmt.Sprintf("created_at >= %s", arg(*filter.StartDate)))
	}
	if filter.EndDate != nil {
		conds = append(conds, fmt.Sprintf("created_at <= %s", arg(*filter.EndDate)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM orders %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, nil, fmt.Errorf("count orders: %w", err)
	}

	statsQuery := fmt.Sprintf(
		`SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders %s GROUP BY status`, where)
	statRows, err := r.db.QueryContext(ctx, statsQuery, args...)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("query order stats: %w", err)
	}
	defer statRows.Close()

	var stats []OrderStatusStat
	for statRows.Next() {
		var stat OrderStatusStat
		if err := statRows.Scan(&stat.Status, &stat.Count, &stat.TotalAmount); err != nil {
			return nil, 0, nil, fmt.Errorf("scan order stat row: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := statRows.Err(); err != nil {
		return nil, 0, nil, fmt.Errorf("row iteration error: %w", err)
	}

	sortBy, ok := orderSortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT id, order_number, user_id, status, total_amount, created_at, updated_at
		 FROM orders %s ORDER BY %s %s LIMIT %s OFFSET %s`,
		where, sortBy, sortOrder, arg(filter.PageSize), arg((filter.Page-1)*filter.PageSize))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, nil, err
	}
	for _, order := range orders {
		items, err := r.loadOrderItems(ctx, order.ID)
		if err != nil {
			return nil, 0, nil, err
		}
		order.Items = items
	}

	return orders, total, stats, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, p.name
	          FROM order_items oi
	          JOIN products p ON p.id = oi.product_id
	          WHERE oi.order_id = $1
	          ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.UserID,
			&order.Status,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}
