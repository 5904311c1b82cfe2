package cart

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// LineItem is one product entry in a cart. Name and UnitPrice are copied from
// the catalog when the item is created; products are immutable apart from
// their stock, so the copy never drifts.
type LineItem struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds line items with distinct product ids.
type Cart struct {
	ID        string
	Items     []LineItem
	Status    Status
	Discount  decimal.NullDecimal
	ClosedAt  *time.Time
	CreatedAt time.Time
}

func New(id string, now time.Time) *Cart {
	return &Cart{
		ID:        id,
		Status:    StatusOpen,
		CreatedAt: now,
	}
}

func (c *Cart) IsOpen() bool {
	return c.Status == StatusOpen
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total is the sum of every subtotal. It is always recomputed.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// DiscountedTotal is Total minus the checkout discount, if any.
func (c *Cart) DiscountedTotal() decimal.Decimal {
	if !c.Discount.Valid {
		return c.Total()
	}
	return c.Total().Sub(c.Discount.Decimal)
}

// Item returns the line item for productID.
func (c *Cart) Item(productID int64) (LineItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// Add increments the quantity of an existing line item or appends a new one.
func (c *Cart) Add(productID int64, name string, unitPrice decimal.Decimal, quantity int) LineItem {
	if i := c.index(productID); i >= 0 {
		c.Items[i].Quantity += quantity
		return c.Items[i]
	}

	item := LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}
	c.Items = append(c.Items, item)
	return item
}

// Remove deletes the line item for productID and returns it.
func (c *Cart) Remove(productID int64) (LineItem, bool) {
	i := c.index(productID)
	if i < 0 {
		return LineItem{}, false
	}
	item := c.Items[i]
	c.Items = slices.Delete(c.Items, i, i+1)
	return item, true
}

// ChangeQuantity adds delta to an item's quantity, flooring at zero. An item
// that reaches zero is removed. It returns the resulting quantity.
func (c *Cart) ChangeQuantity(productID int64, delta int) (int, bool) {
	i := c.index(productID)
	if i < 0 {
		return 0, false
	}

	quantity := max(0, c.Items[i].Quantity+delta)
	if quantity == 0 {
		c.Items = slices.Delete(c.Items, i, i+1)
		return 0, true
	}
	c.Items[i].Quantity = quantity
	return quantity, true
}

// Clear empties the cart and returns the removed items.
func (c *Cart) Clear() []LineItem {
	items := c.Items
	c.Items = nil
	return items
}

// Close marks the cart as checked out. Closed is terminal.
func (c *Cart) Close(discount decimal.Decimal, at time.Time) {
	c.Status = StatusClosed
	c.Discount = decimal.NewNullDecimal(discount)
	c.ClosedAt = &at
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = slices.Clone(c.Items)
	if c.ClosedAt != nil {
		at := *c.ClosedAt
		clone.ClosedAt = &at
	}
	return &clone
}

func (c *Cart) index(productID int64) int {
	return slices.IndexFunc(c.Items, func(item LineItem) bool {
		return item.ProductID == productID
	})
}
