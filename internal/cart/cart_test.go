package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesSameProduct(t *testing.T) {
	c := New("c1", time.Now())

	c.Add(1, "Laptop", decimal.NewFromInt(1000), 2)
	c.Add(2, "Mouse", decimal.NewFromInt(50), 1)
	item := c.Add(1, "Laptop", decimal.NewFromInt(1000), 3)

	assert.Equal(t, 5, item.Quantity)
	require.Len(t, c.Items, 2)
	assert.Equal(t, int64(1), c.Items[0].ProductID)
	assert.True(t, decimal.NewFromInt(5050).Equal(c.Total()))
}

func TestCart_Remove(t *testing.T) {
	c := New("c1", time.Now())
	c.Add(1, "Laptop", decimal.NewFromInt(1000), 2)

	removed, ok := c.Remove(1)
	require.True(t, ok)
	assert.Equal(t, 2, removed.Quantity)
	assert.True(t, c.IsEmpty())

	_, ok = c.Remove(1)
	assert.False(t, ok)
}

func TestCart_ChangeQuantity(t *testing.T) {
	c := New("c1", time.Now())
	c.Add(1, "Laptop", decimal.NewFromInt(1000), 3)

	qty, ok := c.ChangeQuantity(1, 2)
	require.True(t, ok)
	assert.Equal(t, 5, qty)

	qty, ok = c.ChangeQuantity(1, -4)
	require.True(t, ok)
	assert.Equal(t, 1, qty)

	// floors at zero and drops the item
	qty, ok = c.ChangeQuantity(1, -10)
	require.True(t, ok)
	assert.Equal(t, 0, qty)
	assert.True(t, c.IsEmpty())

	_, ok = c.ChangeQuantity(9, 1)
	assert.False(t, ok)
}

func TestCart_CloseAndDiscountedTotal(t *testing.T) {
	c := New("c1", time.Now())
	c.Add(1, "Laptop", decimal.NewFromInt(1000), 3)
	assert.True(t, c.IsOpen())
	assert.False(t, c.Discount.Valid)
	assert.True(t, c.Total().Equal(c.DiscountedTotal()))

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.Close(decimal.NewFromInt(150), at)

	assert.False(t, c.IsOpen())
	require.NotNil(t, c.ClosedAt)
	assert.Equal(t, at, *c.ClosedAt)
	assert.True(t, decimal.NewFromInt(2850).Equal(c.DiscountedTotal()))
}

func TestCart_CloneIsDeep(t *testing.T) {
	c := New("c1", time.Now())
	c.Add(1, "Laptop", decimal.NewFromInt(1000), 1)
	c.Close(decimal.Zero, time.Now())

	clone := c.Clone()
	clone.Items[0].Quantity = 99
	*clone.ClosedAt = time.Time{}

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.False(t, c.ClosedAt.IsZero())
}

func TestCart_Clear(t *testing.T) {
	c := New("c1", time.Now())
	c.Add(1, "Laptop", decimal.NewFromInt(1000), 1)
	c.Add(2, "Mouse", decimal.NewFromInt(10), 4)

	items := c.Clear()
	assert.Len(t, items, 2)
	assert.True(t, c.IsEmpty())
	assert.True(t, c.IsOpen())
	assert.True(t, c.Total().IsZero())
}
