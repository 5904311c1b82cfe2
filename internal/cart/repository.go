package cart

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

// Repository owns every cart. Implementations hand out copies: a caller
// mutates its copy and persists it with Save.
type Repository interface {
	// Create stores a new open, empty cart with a fresh id.
	Create(ctx context.Context) (*Cart, error)

	Get(ctx context.Context, id string) (*Cart, error)

	// List returns every cart in creation order. When no cart exists yet
	// one is created, so the result is never empty.
	List(ctx context.Context) ([]*Cart, error)

	Count(ctx context.Context) (int, error)

	// Save replaces a stored cart. Unknown ids return ErrCartNotFound.
	Save(ctx context.Context, c *Cart) error

	Remove(ctx context.Context, id string) error
}
