package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_RequiresSelection(t *testing.T) {
	e, _ := setupEngine(t)
	s := NewSession(e)
	ctx := context.Background()

	_, err := s.Current(ctx)
	assert.ErrorIs(t, err, ErrNoCartSelected)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.AddItem(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrNoCartSelected)
	_, err = s.Checkout(ctx)
	assert.ErrorIs(t, err, ErrNoCartSelected)
}

func TestSession_SelectUnknownCart(t *testing.T) {
	e, _ := setupEngine(t)
	s := NewSession(e)

	_, err := s.Select(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.CurrentID())
}

func TestSession_OperatesOnCurrentCart(t *testing.T) {
	e, products := setupEngine(t)
	s := NewSession(e)
	ctx := context.Background()

	c, err := s.NewCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.CurrentID())

	_, err = s.Select(ctx, c.ID)
	require.NoError(t, err)

	_, err = s.AddItem(ctx, 1, 3)
	require.NoError(t, err)
	_, err = s.UpdateItemQuantity(ctx, 1, 1)
	require.NoError(t, err)
	got, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Items[0].Quantity)

	_, err = s.RemoveItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, products, 1))

	_, err = s.AddItem(ctx, 2, 1)
	require.NoError(t, err)
	got, err = s.Cancel(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestSession_CheckoutMovesToNewCart(t *testing.T) {
	e, _ := setupEngine(t)
	s := NewSession(e)
	ctx := context.Background()

	c, err := s.NewCart(ctx)
	require.NoError(t, err)
	_, err = s.Select(ctx, c.ID)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, 2, 1)
	require.NoError(t, err)

	closed, err := s.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ID, closed.ID)
	assert.False(t, closed.IsOpen())

	assert.NotEqual(t, c.ID, s.CurrentID())
	current, err := s.Current(ctx)
	require.NoError(t, err)
	assert.True(t, current.IsOpen())
	assert.True(t, current.IsEmpty())

	carts, err := s.Carts(ctx)
	require.NoError(t, err)
	assert.Len(t, carts, 2)

	s.Deselect()
	assert.Empty(t, s.CurrentID())
}
