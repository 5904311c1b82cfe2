// Package sqlite provides a SQLite-backed implementation of cartlog.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/shopcart/internal/cartlog"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

// The table is append-only: one row per cart transition.
const schema = `
CREATE TABLE IF NOT EXISTS cart_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    cart_id     TEXT    NOT NULL,
    event       TEXT    NOT NULL,
    product_id  INTEGER NOT NULL DEFAULT 0,
    quantity    INTEGER NOT NULL DEFAULT 0,
    total       TEXT    NOT NULL DEFAULT '0.00',
    discount    TEXT    NOT NULL DEFAULT '0.00',
    trace_id    TEXT    NOT NULL DEFAULT '',
    span_id     TEXT    NOT NULL DEFAULT '',
    recorded_at TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cart_log_cart_id ON cart_log(cart_id, id);
CREATE INDEX IF NOT EXISTS idx_cart_log_trace_id ON cart_log(trace_id);
`

const timeLayout = "2006-01-02T15:04:05.999999999Z"

var _ cartlog.Repository = (*Repository)(nil)

// Repository is the SQLite implementation of cartlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/cart_log.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Save(ctx context.Context, entry *cartlog.Entry) error {
	const q = `
		INSERT INTO cart_log
			(cart_id, event, product_id, quantity, total, discount, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.CartID,
		string(entry.Event),
		entry.ProductID,
		entry.Quantity,
		entry.Total,
		entry.Discount,
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save cart log for %q: %w", entry.CartID, err)
	}
	return nil
}

func (r *Repository) ListByCart(ctx context.Context, cartID string) ([]cartlog.Entry, error) {
	const q = `
		SELECT cart_id, event, product_id, quantity, total, discount, trace_id, span_id, recorded_at
		FROM   cart_log
		WHERE  cart_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, cartID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list cart log for %q: %w", cartID, err)
	}
	defer rows.Close()

	var entries []cartlog.Entry
	for rows.Next() {
		var (
			entry      cartlog.Entry
			recordedAt string
		)
		err := rows.Scan(
			&entry.CartID,
			&entry.Event,
			&entry.ProductID,
			&entry.Quantity,
			&entry.Total,
			&entry.Discount,
			&entry.TraceID,
			&entry.SpanID,
			&recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan cart log: %w", err)
		}

		entry.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse time %q: %w", recordedAt, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: row iteration: %w", err)
	}
	return entries, nil
}
