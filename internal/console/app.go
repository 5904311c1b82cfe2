// Package console runs the interactive text menus of the shopping cart.
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/jcmexdev/shopcart/internal/engine"
)

const mainMenu = `
===== SHOPPING CART =====
1. Create cart
2. List carts
3. Select cart
4. Exit
`

const openCartMenu = `
----- Cart menu -----
1. Add product
2. Remove product
3. List items
4. Update quantity
5. Checkout
6. Cancel cart
7. Back
`

const closedCartMenu = `
----- Closed cart -----
1. List items
2. Back
`

// App reads menu choices from in and writes prompts and results to out.
type App struct {
	session *engine.Session
	in      *bufio.Scanner
	out     io.Writer
}

func New(session *engine.Session, in io.Reader, out io.Writer) *App {
	return &App{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run shows the main menu until the user exits, the input ends or ctx is
// cancelled. Only read failures other than io.EOF are returned.
func (a *App) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		a.print(mainMenu)
		choice, err := a.readInt("Choose an option: ")
		if err != nil {
			if a.recoverInput(err) {
				continue
			}
			return stop(err)
		}

		switch choice {
		case 1:
			a.createCart(ctx)
		case 2:
			a.listCarts(ctx)
		case 3:
			if err := a.selectCart(ctx); err != nil {
				return stop(err)
			}
		case 4:
			a.print("Goodbye!\n")
			return nil
		default:
			a.print("Invalid option.\n")
		}
	}
	return nil
}

func (a *App) createCart(ctx context.Context) {
	c, err := a.session.NewCart(ctx)
	if err != nil {
		a.showError(ctx, err)
		return
	}
	a.printf("Cart created: %s\n", c.ID)
}

func (a *App) listCarts(ctx context.Context) {
	carts, err := a.session.Carts(ctx)
	if err != nil {
		a.showError(ctx, err)
		return
	}
	a.printCarts(carts)
}

func (a *App) selectCart(ctx context.Context) error {
	id, err := a.readLine("Cart ID: ")
	if err != nil {
		return err
	}
	if _, err := a.session.Select(ctx, id); err != nil {
		a.showError(ctx, err)
		return nil
	}
	defer a.session.Deselect()

	return a.cartLoop(ctx)
}

// cartLoop shows the menu matching the current cart's state until the user
// goes back.
func (a *App) cartLoop(ctx context.Context) error {
	for ctx.Err() == nil {
		c, err := a.session.Current(ctx)
		if err != nil {
			a.showError(ctx, err)
			return nil
		}

		var back bool
		if c.IsOpen() {
			back, err = a.openCartStep(ctx)
		} else {
			back, err = a.closedCartStep(ctx)
		}
		if err != nil {
			if a.recoverInput(err) {
				continue
			}
			return err
		}
		if back {
			return nil
		}
	}
	return nil
}

func (a *App) openCartStep(ctx context.Context) (bool, error) {
	a.print(openCartMenu)
	choice, err := a.readInt("Choose an option: ")
	if err != nil {
		return false, err
	}

	switch choice {
	case 1:
		return false, a.addProduct(ctx)
	case 2:
		return false, a.removeProduct(ctx)
	case 3:
		a.listItems(ctx)
	case 4:
		return false, a.updateQuantity(ctx)
	case 5:
		a.checkout(ctx)
	case 6:
		a.cancel(ctx)
	case 7:
		return true, nil
	default:
		a.print("Invalid option.\n")
	}
	return false, nil
}

func (a *App) closedCartStep(ctx context.Context) (bool, error) {
	a.print(closedCartMenu)
	choice, err := a.readInt("Choose an option: ")
	if err != nil {
		return false, err
	}

	switch choice {
	case 1:
		c, err := a.session.Current(ctx)
		if err != nil {
			a.showError(ctx, err)
			return false, nil
		}
		a.printClosedCart(c)
	case 2:
		return true, nil
	default:
		a.print("Invalid option.\n")
	}
	return false, nil
}

func (a *App) addProduct(ctx context.Context) error {
	products, err := a.session.Products(ctx)
	if err != nil {
		a.showError(ctx, err)
		return nil
	}
	a.printCatalog(products)

	productID, err := a.readID("Product ID: ")
	if err != nil {
		return err
	}
	quantity, err := a.readInt("Quantity: ")
	if err != nil {
		return err
	}

	if _, err := a.session.AddItem(ctx, productID, quantity); err != nil {
		a.showError(ctx, err)
		return nil
	}
	a.print("Product added to cart.\n")
	return nil
}

// currentWithItems prints the current cart and reports whether it has items
// to act on.
func (a *App) currentWithItems(ctx context.Context) bool {
	c, err := a.session.Current(ctx)
	if err != nil {
		a.showError(ctx, err)
		return false
	}
	a.printCart(c)
	return !c.IsEmpty()
}

func (a *App) removeProduct(ctx context.Context) error {
	if !a.currentWithItems(ctx) {
		return nil
	}

	productID, err := a.readID("Product ID to remove: ")
	if err != nil {
		return err
	}
	if _, err := a.session.RemoveItem(ctx, productID); err != nil {
		a.showError(ctx, err)
		return nil
	}
	a.print("Product removed from cart.\n")
	return nil
}

func (a *App) listItems(ctx context.Context) {
	c, err := a.session.Current(ctx)
	if err != nil {
		a.showError(ctx, err)
		return
	}
	a.printCart(c)
}

func (a *App) updateQuantity(ctx context.Context) error {
	if !a.currentWithItems(ctx) {
		return nil
	}

	productID, err := a.readID("Product ID to update: ")
	if err != nil {
		return err
	}
	delta, err := a.readInt("Quantity change (+/-): ")
	if err != nil {
		return err
	}
	if _, err := a.session.UpdateItemQuantity(ctx, productID, delta); err != nil {
		a.showError(ctx, err)
		return nil
	}
	a.print("Quantity updated.\n")
	return nil
}

func (a *App) checkout(ctx context.Context) {
	closed, err := a.session.Checkout(ctx)
	if err != nil {
		a.showError(ctx, err)
		return
	}
	a.printInvoice(closed)
	a.printf("Thank you for your purchase! Now using new cart %s\n", a.session.CurrentID())
}

func (a *App) cancel(ctx context.Context) {
	if _, err := a.session.Cancel(ctx); err != nil {
		a.showError(ctx, err)
		return
	}
	a.print("Cart cancelled. Items returned to stock.\n")
}

func (a *App) showError(ctx context.Context, err error) {
	if !errors.Is(err, engine.ErrNotFound) &&
		!errors.Is(err, engine.ErrInvalidQuantity) &&
		!errors.Is(err, engine.ErrInvalidState) {
		slog.ErrorContext(ctx, "console operation failed", "error", err)
	}
	a.printf("Error: %v\n", err)
}

// recoverInput prints malformed input and reports whether the menu can continue.
func (a *App) recoverInput(err error) bool {
	if !errors.Is(err, ErrMalformedInput) {
		return false
	}
	a.printf("Invalid input: %v\n", err)
	return true
}

func stop(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
