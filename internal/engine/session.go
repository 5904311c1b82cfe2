package engine

import (
	"context"
	"sync"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/catalog"
)

// Session tracks the cart a console user is working on. Operations on the
// session act on the current cart; a successful checkout replaces it with a
// fresh open cart.
type Session struct {
	engine *Engine

	mu      sync.Mutex
	current string
}

func NewSession(e *Engine) *Session {
	return &Session{engine: e}
}

// CurrentID is empty until a cart is selected.
func (s *Session) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) Current(ctx context.Context) (*cart.Cart, error) {
	id := s.CurrentID()
	if id == "" {
		return nil, ErrNoCartSelected
	}
	return s.engine.Cart(ctx, id)
}

// Select makes the cart with the given id current.
func (s *Session) Select(ctx context.Context, id string) (*cart.Cart, error) {
	c, err := s.engine.Cart(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setCurrent(c.ID)
	return c, nil
}

// Deselect leaves the current cart without changing it.
func (s *Session) Deselect() {
	s.setCurrent("")
}

// NewCart creates a cart. The current selection is left as is.
func (s *Session) NewCart(ctx context.Context) (*cart.Cart, error) {
	return s.engine.CreateCart(ctx)
}

func (s *Session) Products(ctx context.Context) ([]catalog.Product, error) {
	return s.engine.Products(ctx)
}

func (s *Session) Carts(ctx context.Context) ([]*cart.Cart, error) {
	return s.engine.Carts(ctx)
}

func (s *Session) AddItem(ctx context.Context, productID int64, quantity int) (*cart.Cart, error) {
	id, err := s.requireCurrent()
	if err != nil {
		return nil, err
	}
	return s.engine.AddItem(ctx, id, productID, quantity)
}

func (s *Session) RemoveItem(ctx context.Context, productID int64) (*cart.Cart, error) {
	id, err := s.requireCurrent()
	if err != nil {
		return nil, err
	}
	return s.engine.RemoveItem(ctx, id, productID)
}

func (s *Session) UpdateItemQuantity(ctx context.Context, productID int64, delta int) (*cart.Cart, error) {
	id, err := s.requireCurrent()
	if err != nil {
		return nil, err
	}
	return s.engine.UpdateItemQuantity(ctx, id, productID, delta)
}

// Checkout closes the current cart and returns it. The session then moves on
// to a newly created open cart.
func (s *Session) Checkout(ctx context.Context) (*cart.Cart, error) {
	id, err := s.requireCurrent()
	if err != nil {
		return nil, err
	}

	closed, err := s.engine.Checkout(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := s.engine.CreateCart(ctx)
	if err != nil {
		return closed, err
	}
	s.setCurrent(next.ID)
	return closed, nil
}

func (s *Session) Cancel(ctx context.Context) (*cart.Cart, error) {
	id, err := s.requireCurrent()
	if err != nil {
		return nil, err
	}
	return s.engine.Cancel(ctx, id)
}

func (s *Session) requireCurrent() (string, error) {
	id := s.CurrentID()
	if id == "" {
		return "", ErrNoCartSelected
	}
	return id, nil
}

func (s *Session) setCurrent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
}
