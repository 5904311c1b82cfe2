package engine

import (
	"errors"
	"fmt"
)

// Failure kinds. Every rejected operation wraps exactly one of them and leaves
// carts and stock unchanged. Storage failures are returned wrapped as-is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidState    = errors.New("invalid state")
)

var ErrNoCartSelected = fmt.Errorf("%w: no cart selected", ErrInvalidState)
