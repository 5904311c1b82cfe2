package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/catalog"
	"github.com/jcmexdev/shopcart/internal/engine"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

type fixture struct {
	engine   *engine.Engine
	products *catalog.Memory
	cartID   string
}

func setupApp(t *testing.T) *fixture {
	t.Helper()
	products := catalog.NewMemory(
		catalog.Product{ID: 1, Name: "Laptop", Description: "14 inch", UnitPrice: decimal.NewFromInt(75000), Stock: 5},
		catalog.Product{ID: 2, Name: "Cable", UnitPrice: decimal.RequireFromString("9.5"), Stock: 0},
	)
	e := engine.New(products, cart.NewMemoryStore(), engine.WithClock(func() time.Time { return fixedNow }))
	c, err := e.CreateCart(context.Background())
	require.NoError(t, err)
	return &fixture{engine: e, products: products, cartID: c.ID}
}

func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	app := New(engine.NewSession(f.engine), in, &out)
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func (f *fixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(decimal.Zero))
	assert.Equal(t, "$9.50", Money(decimal.RequireFromString("9.5")))
	assert.Equal(t, "$1,234.50", Money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$142,500.00", Money(decimal.NewFromInt(142500)))
	assert.Equal(t, "$0.01", Money(decimal.RequireFromString("0.005")))
	assert.Equal(t, "-$1,234.50", Money(decimal.RequireFromString("-1234.5")))

	// exact cents beyond float64 precision
	assert.Equal(t, "$12,345,678,901,234,567.89", Money(decimal.RequireFromString("12345678901234567.89")))
	assert.Equal(t, "$123,456,789,012,345,678,901.05", Money(decimal.RequireFromString("123456789012345678901.05")))
}

func TestRun_ExitOption(t *testing.T) {
	f := setupApp(t)
	out := f.run(t, "4")
	assert.Contains(t, out, "SHOPPING CART")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_StopsAtEndOfInput(t *testing.T) {
	f := setupApp(t)
	var out bytes.Buffer
	app := New(engine.NewSession(f.engine), strings.NewReader(""), &out)
	assert.NoError(t, app.Run(context.Background()))
}

func TestRun_MalformedInputReturnsToMenu(t *testing.T) {
	f := setupApp(t)
	out := f.run(t, "abc", "9", "4")
	assert.Contains(t, out, `Invalid input: malformed input: "abc" is not a whole number`)
	assert.Contains(t, out, "Invalid option.")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_CreateAndListCarts(t *testing.T) {
	f := setupApp(t)
	out := f.run(t, "1", "2", "4")
	assert.Contains(t, out, "Cart created: ")
	assert.Contains(t, out, "1 | "+f.cartID+" | Open")
	assert.Contains(t, out, "2 | ")
}

func TestRun_SelectUnknownCart(t *testing.T) {
	f := setupApp(t)
	out := f.run(t, "3", "nope", "4")
	assert.Contains(t, out, "Error: not found: cart nope")
}

func TestRun_AddListAndCheckout(t *testing.T) {
	f := setupApp(t)
	out := f.run(t,
		"3", f.cartID,
		"1", "1", "2", // add 2 laptops
		"3",           // list
		"5",           // checkout
		"7", "4",
	)

	assert.Contains(t, out, "Out of Stock")
	assert.Contains(t, out, "Product added to cart.")
	assert.Contains(t, out, "Total: $150,000.00")
	assert.Contains(t, out, "INVOICE")
	assert.Contains(t, out, "Date: 14-03-2025 15:09:26")
	assert.Contains(t, out, "Subtotal: $150,000.00")
	assert.Contains(t, out, "Discount: $7,500.00")
	assert.Contains(t, out, "Total: $142,500.00")
	assert.Contains(t, out, "Now using new cart")
	assert.Equal(t, 3, f.stock(t, 1))

	closed, err := f.engine.Cart(context.Background(), f.cartID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
}

func TestRun_AddRejected(t *testing.T) {
	f := setupApp(t)
	out := f.run(t, "3", f.cartID, "1", "1", "6", "1", "x", "7", "4")

	assert.Contains(t, out, "Error: invalid quantity")
	assert.Contains(t, out, `Invalid input: malformed input: "x" is not a product id`)
	assert.Equal(t, 5, f.stock(t, 1))
}

func TestRun_RemoveAndUpdateOnEmptyCart(t *testing.T) {
	f := setupApp(t)
	out := f.run(t, "3", f.cartID, "2", "4", "7", "4")
	assert.Equal(t, 2, strings.Count(out, "The cart is empty."))
}

func TestRun_UpdateRemoveAndCancel(t *testing.T) {
	f := setupApp(t)
	out := f.run(t,
		"3", f.cartID,
		"1", "1", "3", // add 3
		"4", "1", "-1", // update by -1
		"2", "1", // remove
		"1", "1", "2", // add 2
		"6", // cancel
		"6", // cancel empty cart
		"7", "4",
	)

	assert.Contains(t, out, "Quantity updated.")
	assert.Contains(t, out, "Product removed from cart.")
	assert.Contains(t, out, "Cart cancelled. Items returned to stock.")
	assert.Contains(t, out, "Error: invalid state: cart "+f.cartID+" is empty")
	assert.Equal(t, 5, f.stock(t, 1))
}

func TestRun_ClosedCartMenu(t *testing.T) {
	f := setupApp(t)
	ctx := context.Background()
	_, err := f.engine.AddItem(ctx, f.cartID, 1, 1)
	require.NoError(t, err)
	_, err = f.engine.Checkout(ctx, f.cartID)
	require.NoError(t, err)

	out := f.run(t, "3", f.cartID, "1", "2", "4")

	assert.Contains(t, out, "Closed cart")
	assert.Contains(t, out, "(closed)")
	assert.Contains(t, out, "Date: 14-03-2025 15:09:26")
	assert.Contains(t, out, "Discount: $0.00")
	assert.Contains(t, out, "Total with discount: $75,000.00")
	assert.NotContains(t, out, "Add product")
}
