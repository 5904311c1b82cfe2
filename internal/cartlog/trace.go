package cartlog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/shopcart/internal/cart"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when
// no valid span is present.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}

	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry for c after the transition has been applied.
func NewEntry(ctx context.Context, c *cart.Cart, event Event, productID int64, quantity int) *Entry {
	ti := ExtractTraceInfo(ctx)

	discount := decimal.Zero
	if c.Discount.Valid {
		discount = c.Discount.Decimal
	}

	return &Entry{
		CartID:     c.ID,
		Event:      event,
		ProductID:  productID,
		Quantity:   quantity,
		Total:      c.Total().StringFixed(2),
		Discount:   discount.StringFixed(2),
		TraceID:    ti.TraceID,
		SpanID:     ti.SpanID,
		RecordedAt: time.Now().UTC(),
	}
}
