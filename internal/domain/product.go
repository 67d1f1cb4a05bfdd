package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product.Price is the authoritative unit price for order totals; a client
// submits product ids and quantities only, never prices.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int64
	Discount    int // percentage, 0..100
	IsNew       bool
	IsFeatured  bool
	Rating      float64
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
