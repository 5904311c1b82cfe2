package catalog

import "github.com/shopspring/decimal"

// Product is a catalog entry. Everything but Stock is immutable once loaded.
type Product struct {
	ID          int64
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Stock       int
}

// Available reports whether at least one unit can be allocated.
func (p Product) Available() bool {
	return p.Stock > 0
}
