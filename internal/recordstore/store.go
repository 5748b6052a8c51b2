// Package recordstore is the port onto the spreadsheet backend: three named
// tables, each a header-rowed grid addressed by 1-based row position. The
// store exposes no transactional semantics — every call is one independent
// round trip, exactly like the spreadsheet API it models.
package recordstore

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrTableNotFound is returned when the named table does not exist in the
// backing spreadsheet.
var ErrTableNotFound = errors.New("table not found")

// Store reads and mutates row-addressed tables. Row and column indexes are
// 1-based; row 1 is the header row. Implementations are not required to be
// safe for concurrent use — callers serialize access.
type Store interface {
	// ReadAll returns every row of the table including the header row.
	// An existing but empty table yields an empty slice, not an error.
	ReadAll(ctx context.Context, table string) ([][]string, error)

	// AppendRow appends one row after the last non-empty row.
	AppendRow(ctx context.Context, table string, row []string) error

	// UpdateCell overwrites a single cell in place.
	UpdateCell(ctx context.Context, table string, row, col int, value string) error

	// DeleteRow removes the row entirely, shifting later rows up.
	DeleteRow(ctx context.Context, table string, row int) error

	// EnsureTable creates the table if it is missing and writes the header
	// row if the table is empty. Existing data is never touched.
	EnsureTable(ctx context.Context, table string, headers []string) error
}

// Open builds a Store from the environment: Google Sheets when SPREADSHEET_ID
// is set, otherwise a local workbook when WORKBOOK_PATH is set.
func Open(ctx context.Context) (Store, error) {
	if id := os.Getenv("SPREADSHEET_ID"); id != "" {
		store, err := NewSheetsStore(ctx, id, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if err != nil {
			return nil, fmt.Errorf("sheets store: %w", err)
		}
		return store, nil
	}
	if path := os.Getenv("WORKBOOK_PATH"); path != "" {
		store, err := OpenWorkbook(path)
		if err != nil {
			return nil, fmt.Errorf("workbook store: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("no record store configured: set SPREADSHEET_ID or WORKBOOK_PATH")
}
