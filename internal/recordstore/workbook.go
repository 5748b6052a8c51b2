package recordstore

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// WorkbookStore persists tables as sheets of a local .xlsx workbook. Every
// mutation saves the file, matching the remote backends' call-per-write model.
type WorkbookStore struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens the workbook at path, creating a fresh file when none
// exists yet.
func OpenWorkbook(path string) (*WorkbookStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook %s: %w", path, err)
		}
		return &WorkbookStore{path: path, file: f}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &WorkbookStore{path: path, file: f}, nil
}

// Close releases the underlying workbook handle.
func (w *WorkbookStore) Close() error {
	return w.file.Close()
}

func (w *WorkbookStore) sheetExists(table string) (bool, error) {
	idx, err := w.file.GetSheetIndex(table)
	if err != nil {
		return false, err
	}
	return idx >= 0, nil
}

func (w *WorkbookStore) ReadAll(_ context.Context, table string) ([][]string, error) {
	ok, err := w.sheetExists(table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	rows, err := w.file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", table, err)
	}
	return rows, nil
}

func (w *WorkbookStore) AppendRow(ctx context.Context, table string, row []string) error {
	rows, err := w.ReadAll(ctx, table)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := w.file.SetSheetRow(table, cell, &values); err != nil {
		return fmt.Errorf("append to %s: %w", table, err)
	}
	return w.save()
}

func (w *WorkbookStore) UpdateCell(_ context.Context, table string, row, col int, value string) error {
	ok, err := w.sheetExists(table)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStr(table, cell, value); err != nil {
		return fmt.Errorf("update %s!%s: %w", table, cell, err)
	}
	return w.save()
}

func (w *WorkbookStore) DeleteRow(_ context.Context, table string, row int) error {
	ok, err := w.sheetExists(table)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	if err := w.file.RemoveRow(table, row); err != nil {
		return fmt.Errorf("delete row %d from %s: %w", row, table, err)
	}
	return w.save()
}

func (w *WorkbookStore) EnsureTable(ctx context.Context, table string, headers []string) error {
	ok, err := w.sheetExists(table)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := w.file.NewSheet(table); err != nil {
			return fmt.Errorf("create sheet %s: %w", table, err)
		}
	}
	rows, err := w.file.GetRows(table)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", table, err)
	}
	if len(rows) == 0 {
		values := make([]interface{}, len(headers))
		for i, h := range headers {
			values[i] = h
		}
		if err := w.file.SetSheetRow(table, "A1", &values); err != nil {
			return fmt.Errorf("write headers to %s: %w", table, err)
		}
	}
	return w.save()
}

func (w *WorkbookStore) save() error {
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	return nil
}
