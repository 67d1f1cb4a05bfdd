package service

import (
	"fmt"
	"math/rand"
	"time"
)

// NewOrderNumber builds a human-readable order number: two-digit year, month
// and day, then six zero-padded random digits. Uniqueness is enforced by the
// orders table; the caller retries on a collision.
func NewOrderNumber(now time.Time) string {
	return now.Format("060102") + fmt.Sprintf("%06d", rand.Intn(1000000))
}
