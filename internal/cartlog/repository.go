package cartlog

import "context"

// Repository persists cart log entries. The engine treats a nil Repository as
// "logging disabled".
type Repository interface {
	// Save appends an entry; the log is never updated in place.
	Save(ctx context.Context, entry *Entry) error

	// ListByCart returns the entries of one cart, oldest first.
	ListByCart(ctx context.Context, cartID string) ([]Entry, error)
}
