package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// Repository is the port the cart engine depends on. The in-memory arena is
// the only implementation today; a persistent backend plugs in here.
type Repository interface {
	// FindByID returns a copy of the product or ErrProductNotFound.
	FindByID(ctx context.Context, id int64) (Product, error)

	// List returns a snapshot of every product in load order.
	List(ctx context.Context) ([]Product, error)

	// AdjustStock sets the stock of a product. Negative values and unknown
	// ids are ignored.
	AdjustStock(ctx context.Context, id int64, newStock int)
}
