// Package csvfile reads the product catalog from a semicolon-delimited file
// with the header row "id;name;description;price;stock".
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopcart/internal/catalog"
)

const columns = 5

// RowError describes a row that was skipped.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) ([]catalog.Product, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csvfile: open %q: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses every row after the header. Rows that do not have exactly five
// columns, or whose numeric columns do not parse, are skipped and reported.
func Load(r io.Reader) ([]catalog.Product, []RowError, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var (
		products []catalog.Product
		skipped  []RowError
		header   = true
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		isHeader := header
		header = false

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped = append(skipped, RowError{Line: parseErr.Line, Reason: parseErr.Err.Error()})
			continue
		}
		if err != nil {
			return products, skipped, fmt.Errorf("csvfile: read: %w", err)
		}
		if isHeader {
			continue
		}

		line, _ := reader.FieldPos(0)

		product, reason := parseRow(record)
		if reason != "" {
			skipped = append(skipped, RowError{Line: line, Reason: reason})
			continue
		}
		products = append(products, product)
	}

	return products, skipped, nil
}

func parseRow(record []string) (catalog.Product, string) {
	if len(record) != columns {
		return catalog.Product{}, fmt.Sprintf("expected %d columns, got %d", columns, len(record))
	}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return catalog.Product{}, fmt.Sprintf("invalid id %q", record[0])
	}

	price, err := decimal.NewFromString(record[3])
	if err != nil || price.IsNegative() {
		return catalog.Product{}, fmt.Sprintf("invalid price %q", record[3])
	}

	stock, err := strconv.Atoi(record[4])
	if err != nil || stock < 0 {
		return catalog.Product{}, fmt.Sprintf("invalid stock %q", record[4])
	}

	return catalog.Product{
		ID:          id,
		Name:        record[1],
		Description: record[2],
		UnitPrice:   price,
		Stock:       stock,
	}, ""
}
