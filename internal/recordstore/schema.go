package recordstore

import (
	"context"
	"errors"
	"fmt"
)

// Table names in the backing spreadsheet.
const (
	TableTransactions = "Transactions"
	TableSalesLedger  = "Sales_Ledger"
	TableTargets      = "Targets"
)

// Header rows are order-significant: the schema check requires an exact match.
var (
	TransactionHeaders = []string{
		"Transaction_ID", "Date", "Agent", "Location", "Client_ID",
		"Amount", "Payment_Type", "Phone", "Sale_ID", "Notes",
	}
	SalesLedgerHeaders = []string{
		"Sale_ID", "Client_ID", "Client_Name", "Phone", "Agent",
		"Location", "Total_Sale_Price", "Amount_Paid", "Balance",
		"Sale_Date", "Status", "Notes",
	}
	TargetHeaders = []string{
		"Year", "Period_Type", "Period_Number", "Target_Amount", "Last_Updated", "Notes",
	}
)

// ExpectedHeaders returns the canonical header row for a table.
func ExpectedHeaders(table string) ([]string, error) {
	switch table {
	case TableTransactions:
		return TransactionHeaders, nil
	case TableSalesLedger:
		return SalesLedgerHeaders, nil
	case TableTargets:
		return TargetHeaders, nil
	}
	return nil, fmt.Errorf("unknown table %q", table)
}

// AllTables lists every table the application manages.
func AllTables() []string {
	return []string{TableTransactions, TableSalesLedger, TableTargets}
}

// TableStatus is the diagnosis of one table's structure.
type TableStatus struct {
	Table    string   `json:"table"`
	Exists   bool     `json:"exists"`
	Headers  []string `json:"headers,omitempty"`
	Expected []string `json:"expected"`
	Match    bool     `json:"match"`
	DataRows int      `json:"data_rows"`
}

// Initialize creates all three tables and writes their headers where missing.
func Initialize(ctx context.Context, store Store) error {
	for _, table := range AllTables() {
		headers, _ := ExpectedHeaders(table)
		if err := store.EnsureTable(ctx, table, headers); err != nil {
			return fmt.Errorf("ensure %s: %w", table, err)
		}
	}
	return nil
}

// CheckTables diagnoses every table: existence, header match, and data row
// count. A missing table is reported, not treated as an error.
func CheckTables(ctx context.Context, store Store) ([]TableStatus, error) {
	var statuses []TableStatus
	for _, table := range AllTables() {
		expected, _ := ExpectedHeaders(table)
		status := TableStatus{Table: table, Expected: expected}

		rows, err := store.ReadAll(ctx, table)
		switch {
		case err == nil:
			status.Exists = true
			if len(rows) > 0 {
				status.Headers = rows[0]
				status.Match = headersEqual(rows[0], expected)
				status.DataRows = len(rows) - 1
			}
		case errors.Is(err, ErrTableNotFound):
			// reported via Exists=false
		default:
			return nil, fmt.Errorf("read %s: %w", table, err)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// RepairHeaders rewrites row 1 of every mismatched table to the canonical
// headers, one cell at a time. Missing tables are created first. Destructive
// if columns were reordered with data present, so operators should back up
// before running it.
func RepairHeaders(ctx context.Context, store Store) error {
	statuses, err := CheckTables(ctx, store)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		if !status.Exists {
			if err := store.EnsureTable(ctx, status.Table, status.Expected); err != nil {
				return fmt.Errorf("ensure %s: %w", status.Table, err)
			}
			continue
		}
		if status.Match {
			continue
		}
		for i, h := range status.Expected {
			if err := store.UpdateCell(ctx, status.Table, 1, i+1, h); err != nil {
				return fmt.Errorf("repair %s header col %d: %w", status.Table, i+1, err)
			}
		}
	}
	return nil
}

func headersEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
