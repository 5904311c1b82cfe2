package cache

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrCacheMiss = errors.New("cache miss")

// Receipt is the invoice of a checked-out cart.
type Receipt struct {
	CartID   string          `json:"cart_id"`
	Items    []ReceiptLine   `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	ClosedAt time.Time       `json:"closed_at"`
}

type ReceiptLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type ReceiptCache interface {
	Put(ctx context.Context, receipt *Receipt) error
	Get(ctx context.Context, cartID string) (*Receipt, error)
}
