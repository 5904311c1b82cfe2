// Package engine applies the cart rules: every add, remove, quantity update,
// checkout and cancel validates against catalog stock, mutates the cart and
// moves stock through the ledger as one serialized step.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/cartlog"
	"github.com/jcmexdev/shopcart/internal/catalog"
	"github.com/jcmexdev/shopcart/internal/ledger"
	"github.com/jcmexdev/shopcart/internal/pkg/cache"
)

var (
	// DiscountThreshold is exclusive: a total must be strictly greater.
	DiscountThreshold = decimal.NewFromInt(100000)
	DiscountRate      = decimal.RequireFromString("0.05")
)

type Engine struct {
	// mu makes every operation a single transaction over the cart and the
	// stock counters it touches.
	mu sync.Mutex

	catalog  catalog.Repository
	carts    cart.Repository
	ledger   *ledger.Ledger
	cartLog  cartlog.Repository // nil-safe
	receipts cache.ReceiptCache // nil-safe

	tracer trace.Tracer
	now    func() time.Time
}

type Option func(*Engine)

// WithCartLog records every successful transition in repo.
func WithCartLog(repo cartlog.Repository) Option {
	return func(e *Engine) { e.cartLog = repo }
}

// WithReceiptCache stores a receipt for every checkout.
func WithReceiptCache(c cache.ReceiptCache) Option {
	return func(e *Engine) { e.receipts = c }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(products catalog.Repository, carts cart.Repository, opts ...Option) *Engine {
	e := &Engine{
		catalog: products,
		carts:   carts,
		ledger:  ledger.New(products),
		tracer:  otel.Tracer("github.com/jcmexdev/shopcart/internal/engine"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Products returns a catalog snapshot.
func (e *Engine) Products(ctx context.Context) ([]catalog.Product, error) {
	return e.catalog.List(ctx)
}

// Carts returns every cart; a first cart is created when none exists.
func (e *Engine) Carts(ctx context.Context) ([]*cart.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.carts.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := e.createCart(ctx); err != nil {
			return nil, err
		}
	}
	return e.carts.List(ctx)
}

func (e *Engine) Cart(ctx context.Context, id string) (*cart.Cart, error) {
	c, err := e.carts.Get(ctx, id)
	if errors.Is(err, cart.ErrCartNotFound) {
		return nil, fmt.Errorf("%w: cart %s", ErrNotFound, id)
	}
	return c, err
}

func (e *Engine) CreateCart(ctx context.Context) (_ *cart.Cart, err error) {
	ctx, span := e.tracer.Start(ctx, "engine.CreateCart")
	defer func() { finish(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.createCart(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("cart.id", c.ID))
	return c, nil
}

// createCart expects e.mu to be held.
func (e *Engine) createCart(ctx context.Context) (*cart.Cart, error) {
	c, err := e.carts.Create(ctx)
	if err != nil {
		return nil, err
	}
	e.record(ctx, c, cartlog.EventCartCreated, 0, 0)
	slog.DebugContext(ctx, "cart created", "cart_id", c.ID)
	return c, nil
}

// RemoveCart deletes a cart from the store. Stock held by its items is not
// returned; cancel the cart first for that.
func (e *Engine) RemoveCart(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.carts.Remove(ctx, id); err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return fmt.Errorf("%w: cart %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// AddItem puts quantity units of a product into an open cart, merging with an
// existing line item, and takes the units out of stock.
func (e *Engine) AddItem(ctx context.Context, cartID string, productID int64, quantity int) (_ *cart.Cart, err error) {
	ctx, span := e.start(ctx, "engine.AddItem", cartID, productID, quantity)
	defer func() { finish(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.openCart(ctx, cartID)
	if err != nil {
		return nil, e.rejected(ctx, "add item", cartID, productID, err)
	}

	product, err := e.product(ctx, productID)
	if err != nil {
		return nil, e.rejected(ctx, "add item", cartID, productID, err)
	}

	if quantity <= 0 {
		err = fmt.Errorf("%w: %d must be positive", ErrInvalidQuantity, quantity)
		return nil, e.rejected(ctx, "add item", cartID, productID, err)
	}
	if product.Stock < quantity {
		err = fmt.Errorf("%w: requested %d, only %d in stock", ErrInvalidQuantity, quantity, product.Stock)
		return nil, e.rejected(ctx, "add item", cartID, productID, err)
	}

	if _, err := e.ledger.Take(ctx, productID, quantity); err != nil {
		return nil, e.rejected(ctx, "add item", cartID, productID, e.ledgerError(err))
	}

	item := c.Add(product.ID, product.Name, product.UnitPrice, quantity)
	if err := e.carts.Save(ctx, c); err != nil {
		if _, restockErr := e.ledger.Restock(ctx, productID, quantity); restockErr != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to return stock after save failure",
				"cart_id", cartID, "product_id", productID, "error", restockErr)
		}
		return nil, fmt.Errorf("save cart %s: %w", cartID, err)
	}

	e.record(ctx, c, cartlog.EventItemAdded, productID, quantity)
	slog.DebugContext(ctx, "item added", "cart_id", cartID, "product_id", productID, "quantity", item.Quantity)
	return c, nil
}

// RemoveItem drops a line item entirely and returns its full quantity to stock.
func (e *Engine) RemoveItem(ctx context.Context, cartID string, productID int64) (_ *cart.Cart, err error) {
	ctx, span := e.start(ctx, "engine.RemoveItem", cartID, productID, 0)
	defer func() { finish(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.openCart(ctx, cartID)
	if err != nil {
		return nil, e.rejected(ctx, "remove item", cartID, productID, err)
	}

	item, ok := c.Remove(productID)
	if !ok {
		err = fmt.Errorf("%w: product %d is not in cart %s", ErrNotFound, productID, cartID)
		return nil, e.rejected(ctx, "remove item", cartID, productID, err)
	}

	if err := e.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart %s: %w", cartID, err)
	}
	e.restock(ctx, cartID, item)

	e.record(ctx, c, cartlog.EventItemRemoved, productID, item.Quantity)
	slog.DebugContext(ctx, "item removed", "cart_id", cartID, "product_id", productID, "quantity", item.Quantity)
	return c, nil
}

// UpdateItemQuantity changes a line item by a signed delta. The stock check
// compares the product's stock with delta itself. A negative delta floors the
// item at zero (dropping it) and sets stock to max(0, stock-delta).
func (e *Engine) UpdateItemQuantity(ctx context.Context, cartID string, productID int64, delta int) (_ *cart.Cart, err error) {
	ctx, span := e.start(ctx, "engine.UpdateItemQuantity", cartID, productID, delta)
	defer func() { finish(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.openCart(ctx, cartID)
	if err != nil {
		return nil, e.rejected(ctx, "update quantity", cartID, productID, err)
	}

	if _, ok := c.Item(productID); !ok {
		err = fmt.Errorf("%w: product %d is not in cart %s", ErrNotFound, productID, cartID)
		return nil, e.rejected(ctx, "update quantity", cartID, productID, err)
	}

	product, err := e.product(ctx, productID)
	if err != nil {
		return nil, e.rejected(ctx, "update quantity", cartID, productID, err)
	}
	if product.Stock < delta {
		err = fmt.Errorf("%w: requested %d more, only %d in stock", ErrInvalidQuantity, delta, product.Stock)
		return nil, e.rejected(ctx, "update quantity", cartID, productID, err)
	}
	if delta < 0 && product.Stock > math.MaxInt+delta {
		err = fmt.Errorf("%w: delta %d overflows stock %d", ErrInvalidQuantity, delta, product.Stock)
		return nil, e.rejected(ctx, "update quantity", cartID, productID, err)
	}

	if delta == 0 {
		return c, nil
	}

	quantity, _ := c.ChangeQuantity(productID, delta)
	if err := e.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart %s: %w", cartID, err)
	}
	if _, err := e.ledger.ApplyDelta(ctx, productID, delta); err != nil {
		slog.WarnContext(ctx, "stock not adjusted for quantity update",
			"cart_id", cartID, "product_id", productID, "delta", delta, "error", err)
	}

	e.record(ctx, c, cartlog.EventItemUpdated, productID, quantity)
	slog.DebugContext(ctx, "item quantity updated", "cart_id", cartID, "product_id", productID, "quantity", quantity)
	return c, nil
}

// Checkout closes a non-empty open cart, applying a 5% discount when the
// total is strictly above DiscountThreshold, and returns the closed cart.
func (e *Engine) Checkout(ctx context.Context, cartID string) (_ *cart.Cart, err error) {
	ctx, span := e.start(ctx, "engine.Checkout", cartID, 0, 0)
	defer func() { finish(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.openCart(ctx, cartID)
	if err != nil {
		return nil, e.rejected(ctx, "checkout", cartID, 0, err)
	}
	if c.IsEmpty() {
		err = fmt.Errorf("%w: cart %s is empty", ErrInvalidState, cartID)
		return nil, e.rejected(ctx, "checkout", cartID, 0, err)
	}

	c.Close(Discount(c.Total()), e.now())
	if err := e.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart %s: %w", cartID, err)
	}

	e.record(ctx, c, cartlog.EventCheckedOut, 0, 0)
	e.storeReceipt(ctx, c)
	slog.InfoContext(ctx, "cart checked out",
		"cart_id", cartID,
		"total", c.Total().StringFixed(2),
		"discount", c.Discount.Decimal.StringFixed(2),
	)
	return c, nil
}

// Cancel returns every item's quantity to stock and empties the cart. The
// cart stays open and can be reused.
func (e *Engine) Cancel(ctx context.Context, cartID string) (_ *cart.Cart, err error) {
	ctx, span := e.start(ctx, "engine.Cancel", cartID, 0, 0)
	defer func() { finish(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.openCart(ctx, cartID)
	if err != nil {
		return nil, e.rejected(ctx, "cancel", cartID, 0, err)
	}
	if c.IsEmpty() {
		err = fmt.Errorf("%w: cart %s is empty", ErrInvalidState, cartID)
		return nil, e.rejected(ctx, "cancel", cartID, 0, err)
	}

	items := c.Clear()
	if err := e.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart %s: %w", cartID, err)
	}
	for _, item := range items {
		e.restock(ctx, cartID, item)
	}

	e.record(ctx, c, cartlog.EventCancelled, 0, 0)
	slog.InfoContext(ctx, "cart cancelled", "cart_id", cartID, "items", len(items))
	return c, nil
}

// Discount returns the checkout discount for a cart total.
func Discount(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThan(DiscountThreshold) {
		return total.Mul(DiscountRate)
	}
	return decimal.Zero
}

func (e *Engine) openCart(ctx context.Context, cartID string) (*cart.Cart, error) {
	c, err := e.Cart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !c.IsOpen() {
		return nil, fmt.Errorf("%w: cart %s is closed", ErrInvalidState, cartID)
	}
	return c, nil
}

func (e *Engine) product(ctx context.Context, productID int64) (catalog.Product, error) {
	product, err := e.catalog.FindByID(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return catalog.Product{}, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return product, err
}

// restock returns an item's units. A product that vanished from the catalog
// is skipped with a warning.
func (e *Engine) restock(ctx context.Context, cartID string, item cart.LineItem) {
	if _, err := e.ledger.Restock(ctx, item.ProductID, item.Quantity); err != nil {
		slog.WarnContext(ctx, "stock not returned",
			"cart_id", cartID, "product_id", item.ProductID, "quantity", item.Quantity, "error", err)
	}
}

func (e *Engine) ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrUnknownProduct):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, ledger.ErrInsufficientStock), errors.Is(err, ledger.ErrInvalidQuantity):
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
	default:
		return err
	}
}

func (e *Engine) record(ctx context.Context, c *cart.Cart, event cartlog.Event, productID int64, quantity int) {
	if e.cartLog == nil {
		return
	}
	if err := e.cartLog.Save(ctx, cartlog.NewEntry(ctx, c, event, productID, quantity)); err != nil {
		slog.ErrorContext(ctx, "failed to write cart log", "cart_id", c.ID, "event", event, "error", err)
	}
}

func (e *Engine) storeReceipt(ctx context.Context, c *cart.Cart) {
	if e.receipts == nil {
		return
	}
	if err := e.receipts.Put(ctx, NewReceipt(c)); err != nil {
		slog.ErrorContext(ctx, "failed to cache receipt", "cart_id", c.ID, "error", err)
	}
}

func (e *Engine) rejected(ctx context.Context, op, cartID string, productID int64, err error) error {
	slog.InfoContext(ctx, op+" rejected", "cart_id", cartID, "product_id", productID, "reason", err)
	return err
}

func (e *Engine) start(ctx context.Context, name, cartID string, productID int64, quantity int) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("cart.id", cartID),
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", quantity),
	))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
