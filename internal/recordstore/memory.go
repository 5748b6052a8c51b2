package recordstore

import (
	"context"
	"fmt"
)

// MemoryStore keeps tables in process memory. It backs the test suite and the
// offline mode; semantics match the remote backends (1-based rows, header in
// row 1, ragged rows allowed).
type MemoryStore struct {
	tables map[string][][]string
}

// NewMemoryStore returns an empty store with no tables.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

func (m *MemoryStore) ReadAll(_ context.Context, table string) ([][]string, error) {
	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(_ context.Context, table string, row []string) error {
	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	m.tables[table] = append(rows, append([]string(nil), row...))
	return nil
}

func (m *MemoryStore) UpdateCell(_ context.Context, table string, row, col int, value string) error {
	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	if row < 1 || col < 1 {
		return fmt.Errorf("cell (%d,%d) out of range", row, col)
	}
	for len(rows) < row {
		rows = append(rows, nil)
	}
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col-1] = value
	m.tables[table] = rows
	return nil
}

func (m *MemoryStore) DeleteRow(_ context.Context, table string, row int) error {
	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	if row < 1 || row > len(rows) {
		return fmt.Errorf("row %d out of range for %s", row, table)
	}
	m.tables[table] = append(rows[:row-1], rows[row:]...)
	return nil
}

func (m *MemoryStore) EnsureTable(_ context.Context, table string, headers []string) error {
	rows, ok := m.tables[table]
	if !ok || len(rows) == 0 {
		m.tables[table] = [][]string{append([]string(nil), headers...)}
	}
	return nil
}
