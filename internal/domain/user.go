package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleOrdinary Role = "ORDINARY"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User credit is the spendable balance; it is debited inside the order
// transaction and never allowed below zero.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Credit    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
