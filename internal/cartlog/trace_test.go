package cartlog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/shopcart/internal/cart"
)

func TestExtractTraceInfo_NoSpan(t *testing.T) {
	assert.Equal(t, TraceInfo{}, ExtractTraceInfo(context.Background()))
}

func TestExtractTraceInfo_WithSpan(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	ti := ExtractTraceInfo(ctx)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", ti.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", ti.SpanID)
}

func TestNewEntry(t *testing.T) {
	c := cart.New("c1", time.Now())
	c.Add(1, "Laptop", decimal.NewFromInt(1000), 3)

	entry := NewEntry(context.Background(), c, EventItemAdded, 1, 3)
	assert.Equal(t, "c1", entry.CartID)
	assert.Equal(t, EventItemAdded, entry.Event)
	assert.Equal(t, "3000.00", entry.Total)
	assert.Equal(t, "0.00", entry.Discount)
	assert.False(t, entry.RecordedAt.IsZero())

	c.Close(decimal.NewFromInt(150), time.Now())
	entry = NewEntry(context.Background(), c, EventCheckedOut, 0, 0)
	assert.Equal(t, "150.00", entry.Discount)
}
