package service

import "github.com/dddddddrrrr/campus-cart/internal/domain"

// Identity is the authenticated caller, passed explicitly into every
// procedure instead of living in ambient state. The auth front populates it.
type Identity struct {
	UserID string
	Role   domain.Role
}

func (id Identity) IsAdmin() bool {
	return id.Role.IsAdmin()
}
