// Package cartlog defines the audit trail of cart transitions.
//
// Every successful cart mutation appends one Entry. The log is never read by
// the cart rules themselves; it exists so an operator can see how a cart got
// to its current state and jump to the matching trace via TraceID.
package cartlog

import "time"

// Event names a cart transition.
type Event string

const (
	EventCartCreated Event = "CART_CREATED"
	EventItemAdded   Event = "ITEM_ADDED"
	EventItemRemoved Event = "ITEM_REMOVED"
	EventItemUpdated Event = "ITEM_UPDATED"
	EventCheckedOut  Event = "CHECKED_OUT"
	EventCancelled   Event = "CANCELLED"
)

// Entry is a single row in the cart_log table.
type Entry struct {
	CartID string
	Event  Event

	// ProductID and Quantity are zero for cart-level events.
	ProductID int64
	Quantity  int

	// Total and Discount are decimal strings captured after the transition.
	Total    string
	Discount string

	TraceID string
	SpanID  string

	RecordedAt time.Time
}
