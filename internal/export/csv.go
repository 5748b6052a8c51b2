// Package export renders loaded data into the download formats: CSV, a
// multi-sheet workbook, a tabular PDF, and the insight text report. Everything
// here renders values computed elsewhere; there is no business logic.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"realtoros/internal/core"
	"realtoros/internal/recordstore"
)

// WriteSalesLedgerCSV writes the ledger with its canonical header row.
func WriteSalesLedgerCSV(w io.Writer, sales []core.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordstore.SalesLedgerHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range sales {
		if err := cw.Write(s.Fields()); err != nil {
			return fmt.Errorf("write sale %s: %w", s.SaleID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransactionsCSV writes the transactions with their canonical header row.
func WriteTransactionsCSV(w io.Writer, txns []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordstore.TransactionHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range txns {
		if err := cw.Write(t.Fields()); err != nil {
			return fmt.Errorf("write transaction %s: %w", t.TransactionID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseSalesLedgerCSV reads a ledger export back into sales. The header row
// must match the canonical headers exactly.
func ParseSalesLedgerCSV(r io.Reader) ([]core.Sale, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv: missing header row")
	}
	header := records[0]
	want := recordstore.SalesLedgerHeaders
	if len(header) != len(want) {
		return nil, fmt.Errorf("header mismatch: got %d columns, want %d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			return nil, fmt.Errorf("header mismatch at column %d: got %q, want %q", i+1, header[i], want[i])
		}
	}
	var sales []core.Sale
	for i, rec := range records[1:] {
		sales = append(sales, core.SaleFromRow(rec, i+2))
	}
	return sales, nil
}
