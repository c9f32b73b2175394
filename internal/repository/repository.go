package repository

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CatalogFilter is the set of catalog list parameters: filtering,
// sorting and page-based pagination.
type CatalogFilter struct {
	Name         string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	FreeDelivery *bool
	Available    bool
	CategoryID   int
	Rating       *float64
	Sort         string // price, date, rating, reviews
	SortType     string // inc, dec
	Page         int
	Limit        int
}
