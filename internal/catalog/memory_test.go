package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T) *Memory {
	t.Helper()
	return NewMemory(
		Product{ID: 1, Name: "Laptop", Description: "14 inch", UnitPrice: decimal.NewFromInt(1000), Stock: 10},
		Product{ID: 2, Name: "Mouse", Description: "Wireless", UnitPrice: decimal.RequireFromString("25.50"), Stock: 0},
	)
}

func TestMemory_FindByID(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	p, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
	assert.Equal(t, 10, p.Stock)
	assert.True(t, p.Available())

	_, err = m.FindByID(ctx, 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemory_FindByID_ReturnsCopy(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	p, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	p.Stock = 0

	again, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Stock)
}

func TestMemory_List_KeepsLoadOrder(t *testing.T) {
	m := NewMemory(
		Product{ID: 3, Name: "c"},
		Product{ID: 1, Name: "a"},
		Product{ID: 2, Name: "b"},
	)
	m.Put(Product{ID: 1, Name: "a2"})

	products, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, "a2", products[1].Name)
	assert.Equal(t, 3, m.Len())
}

func TestMemory_AdjustStock(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	m.AdjustStock(ctx, 1, 4)
	p, _ := m.FindByID(ctx, 1)
	assert.Equal(t, 4, p.Stock)

	// negative values are ignored
	m.AdjustStock(ctx, 1, -1)
	p, _ = m.FindByID(ctx, 1)
	assert.Equal(t, 4, p.Stock)

	// unknown ids are ignored
	m.AdjustStock(ctx, 42, 7)
	_, err := m.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrProductNotFound)

	m.AdjustStock(ctx, 2, 0)
	p, _ = m.FindByID(ctx, 2)
	assert.False(t, p.Available())
}
