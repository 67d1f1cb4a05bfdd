package domain

import "time"

type Category struct {
	ID   int64
	Name string
	Icon string

	// ProductCount is derived (count of owned products), populated by list queries.
	ProductCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}
