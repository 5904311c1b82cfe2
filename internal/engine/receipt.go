package engine

import (
	"time"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/pkg/cache"
)

// NewReceipt maps a closed cart to its cached invoice.
func NewReceipt(c *cart.Cart) *cache.Receipt {
	lines := make([]cache.ReceiptLine, len(c.Items))
	for i, item := range c.Items {
		lines[i] = cache.ReceiptLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
	}

	var closedAt time.Time
	if c.ClosedAt != nil {
		closedAt = *c.ClosedAt
	}

	return &cache.Receipt{
		CartID:   c.ID,
		Items:    lines,
		Subtotal: c.Total(),
		Discount: c.Discount.Decimal,
		Total:    c.DiscountedTotal(),
		ClosedAt: closedAt,
	}
}
