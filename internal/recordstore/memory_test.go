package recordstore_test

import (
	"context"
	"errors"
	"testing"

	"realtoros/internal/recordstore"
)

func TestMemoryStore_TableNotFound(t *testing.T) {
	store := recordstore.NewMemoryStore()
	ctx := context.Background()

	if _, err := store.ReadAll(ctx, "Nope"); !errors.Is(err, recordstore.ErrTableNotFound) {
		t.Errorf("ReadAll: want ErrTableNotFound, got %v", err)
	}
	if err := store.AppendRow(ctx, "Nope", []string{"x"}); !errors.Is(err, recordstore.ErrTableNotFound) {
		t.Errorf("AppendRow: want ErrTableNotFound, got %v", err)
	}
}

func TestMemoryStore_ReadAllReturnsCopies(t *testing.T) {
	store := recordstore.NewMemoryStore()
	ctx := context.Background()
	if err := store.EnsureTable(ctx, "T", []string{"A", "B"}); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if err := store.AppendRow(ctx, "T", []string{"1", "2"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	rows, _ := store.ReadAll(ctx, "T")
	rows[1][0] = "mutated"

	again, _ := store.ReadAll(ctx, "T")
	if again[1][0] != "1" {
		t.Error("mutating a ReadAll result must not affect the store")
	}
}

func TestMemoryStore_UpdateCellPadsRaggedRows(t *testing.T) {
	store := recordstore.NewMemoryStore()
	ctx := context.Background()
	_ = store.EnsureTable(ctx, "T", []string{"A", "B", "C"})
	_ = store.AppendRow(ctx, "T", []string{"only-one"})

	if err := store.UpdateCell(ctx, "T", 2, 3, "filled"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	rows, _ := store.ReadAll(ctx, "T")
	if got := rows[1]; len(got) != 3 || got[2] != "filled" || got[1] != "" {
		t.Errorf("row after padded update = %v", got)
	}
}

func TestMemoryStore_DeleteRowShiftsUp(t *testing.T) {
	store := recordstore.NewMemoryStore()
	ctx := context.Background()
	_ = store.EnsureTable(ctx, "T", []string{"ID"})
	_ = store.AppendRow(ctx, "T", []string{"first"})
	_ = store.AppendRow(ctx, "T", []string{"second"})
	_ = store.AppendRow(ctx, "T", []string{"third"})

	if err := store.DeleteRow(ctx, "T", 3); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	rows, _ := store.ReadAll(ctx, "T")
	if len(rows) != 3 {
		t.Fatalf("want 3 rows after delete, got %d", len(rows))
	}
	if rows[1][0] != "first" || rows[2][0] != "third" {
		t.Errorf("rows after delete = %v", rows[1:])
	}

	if err := store.DeleteRow(ctx, "T", 9); err == nil {
		t.Error("out-of-range delete should fail")
	}
}

func TestMemoryStore_EnsureTableKeepsData(t *testing.T) {
	store := recordstore.NewMemoryStore()
	ctx := context.Background()
	_ = store.EnsureTable(ctx, "T", []string{"A"})
	_ = store.AppendRow(ctx, "T", []string{"kept"})

	// Second ensure is a no-op on a populated table.
	if err := store.EnsureTable(ctx, "T", []string{"A"}); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	rows, _ := store.ReadAll(ctx, "T")
	if len(rows) != 2 || rows[1][0] != "kept" {
		t.Errorf("ensure wiped data: %v", rows)
	}
}
