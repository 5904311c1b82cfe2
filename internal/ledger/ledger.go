// Package ledger is the single place where product stock changes. Every call
// reads and writes the stock counter under one lock, so a call is atomic with
// respect to every other ledger call.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/jcmexdev/shopcart/internal/catalog"
)

var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

type Ledger struct {
	mu      sync.Mutex
	catalog catalog.Repository
}

func New(repo catalog.Repository) *Ledger {
	return &Ledger{catalog: repo}
}

// Stock returns the current stock for a product.
func (l *Ledger) Stock(ctx context.Context, productID int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	product, err := l.lookup(ctx, productID)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// Take allocates quantity units and returns the remaining stock.
func (l *Ledger) Take(ctx context.Context, productID int64, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, err := l.lookup(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product.Stock < quantity {
		return product.Stock, fmt.Errorf("%w: product %d has %d, requested %d",
			ErrInsufficientStock, productID, product.Stock, quantity)
	}

	return l.set(ctx, productID, product.Stock-quantity), nil
}

// Restock returns quantity units to the product and returns the new stock.
func (l *Ledger) Restock(ctx context.Context, productID int64, quantity int) (int, error) {
	if quantity < 0 {
		return 0, ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, err := l.lookup(ctx, productID)
	if err != nil {
		return 0, err
	}
	if quantity == 0 {
		return product.Stock, nil
	}

	return l.set(ctx, productID, product.Stock+quantity), nil
}

// ApplyDelta moves stock opposite to a cart quantity change: the new stock is
// max(0, stock-delta). A negative delta therefore returns |delta| units. A
// delta whose result does not fit in an int is rejected.
func (l *Ledger) ApplyDelta(ctx context.Context, productID int64, delta int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	product, err := l.lookup(ctx, productID)
	if err != nil {
		return 0, err
	}

	if delta < 0 && product.Stock > math.MaxInt+delta {
		return product.Stock, fmt.Errorf("%w: delta %d overflows stock %d",
			ErrInvalidQuantity, delta, product.Stock)
	}

	return l.set(ctx, productID, max(0, product.Stock-delta)), nil
}

func (l *Ledger) lookup(ctx context.Context, productID int64) (catalog.Product, error) {
	product, err := l.catalog.FindByID(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return catalog.Product{}, fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("ledger: find product %d: %w", productID, err)
	}
	return product, nil
}

func (l *Ledger) set(ctx context.Context, productID int64, stock int) int {
	l.catalog.AdjustStock(ctx, productID, stock)
	slog.DebugContext(ctx, "stock adjusted", "product_id", productID, "stock", stock)
	return stock
}
