package console

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/catalog"
)

const dateLayout = "02-01-2006 15:04:05"

var printer = message.NewPrinter(language.English)

// Money renders an amount as $1,234.50, rounded to cents.
func Money(d decimal.Decimal) string {
	whole, cents, _ := strings.Cut(d.Abs().StringFixed(2), ".")

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + "$" + group(whole) + "." + cents
}

// group adds thousands separators to a run of digits. Values past int64 are
// grouped by hand.
func group(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return printer.Sprintf("%d", n)
	}

	var b strings.Builder
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

func (a *App) print(s string) {
	fmt.Fprint(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) printCatalog(products []catalog.Product) {
	if len(products) == 0 {
		a.print("The catalog is empty.\n")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tDescription\tPrice\tStock")
	for _, p := range products {
		stock := fmt.Sprint(p.Stock)
		if !p.Available() {
			stock = "Out of Stock"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Description, Money(p.UnitPrice), stock)
	}
	w.Flush()
}

func (a *App) printItems(c *cart.Cart) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tProduct\tQty\tUnit price\tSubtotal")
	for _, item := range c.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			item.ProductID, item.Name, item.Quantity, Money(item.UnitPrice), Money(item.Subtotal()))
	}
	w.Flush()
}

func (a *App) printCart(c *cart.Cart) {
	a.printf("Cart %s\n", c.ID)
	if c.IsEmpty() {
		a.print("The cart is empty.\n")
		return
	}
	a.printItems(c)
	a.printf("Total: %s\n", Money(c.Total()))
}

func (a *App) printClosedCart(c *cart.Cart) {
	a.printf("Cart %s (closed)\n", c.ID)
	if c.ClosedAt != nil {
		a.printf("Date: %s\n", c.ClosedAt.Format(dateLayout))
	}
	a.printItems(c)
	a.printf("Total: %s\n", Money(c.Total()))
	a.printf("Discount: %s\n", Money(c.Discount.Decimal))
	a.printf("Total with discount: %s\n", Money(c.DiscountedTotal()))
}

func (a *App) printInvoice(c *cart.Cart) {
	at := time.Time{}
	if c.ClosedAt != nil {
		at = *c.ClosedAt
	}

	a.print("========== INVOICE ==========\n")
	a.printf("Date: %s\n", at.Format(dateLayout))
	a.printf("Cart: %s\n", c.ID)
	a.printItems(c)
	a.printf("Subtotal: %s\n", Money(c.Total()))
	a.printf("Discount: %s\n", Money(c.Discount.Decimal))
	a.printf("Total: %s\n", Money(c.DiscountedTotal()))
	a.print("=============================\n")
}

func (a *App) printCarts(carts []*cart.Cart) {
	w := tabwriter.NewWriter(a.out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "#\t| ID\t| Status")
	for i, c := range carts {
		status := "Open"
		if !c.IsOpen() {
			status = "Closed"
		}
		fmt.Fprintf(w, "%d\t| %s\t| %s\n", i+1, c.ID, status)
	}
	w.Flush()
}
