package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        int64
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        int64
	ProductID int64
	Quantity  int

	// Denormalized from the product row for display; not a price snapshot.
	ProductName string
	UnitPrice   decimal.Decimal
}
