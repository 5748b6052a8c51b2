package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"realtoros/internal/core"
	"realtoros/internal/recordstore"
)

// TransactionsWorkbook builds a single-sheet workbook of all transactions.
func TransactionsWorkbook(txns []core.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	if err := renameDefaultSheet(f, sheet); err != nil {
		return nil, err
	}
	if err := writeSheet(f, sheet, recordstore.TransactionHeaders, transactionRows(txns)); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

// SalesLedgerWorkbook builds a single-sheet workbook of the sales ledger.
func SalesLedgerWorkbook(sales []core.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales Ledger"
	if err := renameDefaultSheet(f, sheet); err != nil {
		return nil, err
	}
	if err := writeSheet(f, sheet, recordstore.SalesLedgerHeaders, saleRows(sales)); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

// CombinedReportWorkbook builds the three-sheet report: Transactions, Sales
// Ledger, and a Summary sheet of headline metrics.
func CombinedReportWorkbook(txns []core.Transaction, sales []core.Sale, stats core.SummaryStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := renameDefaultSheet(f, "Transactions"); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Transactions", recordstore.TransactionHeaders, transactionRows(txns)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Sales Ledger"); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	if err := writeSheet(f, "Sales Ledger", recordstore.SalesLedgerHeaders, saleRows(sales)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	summary := [][]string{
		{"Total Transactions", fmt.Sprintf("%d", stats.TransactionCount)},
		{"Total Revenue", "KSh " + core.FormatKSh(stats.TotalRevenue)},
		{"New Business", "KSh " + core.FormatKSh(stats.NewSaleRevenue)},
		{"Installment Revenue", "KSh " + core.FormatKSh(stats.InstallmentRevenue)},
		{"Total Sales", fmt.Sprintf("%d", stats.SaleCount)},
		{"Outstanding Balance", "KSh " + core.FormatKSh(stats.OutstandingBalance)},
	}
	if err := writeSheet(f, "Summary", []string{"Metric", "Value"}, summary); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

func transactionRows(txns []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, t.Fields())
	}
	return rows
}

func saleRows(sales []core.Sale) [][]string {
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, s.Fields())
	}
	return rows
}

func renameDefaultSheet(f *excelize.File, name string) error {
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d on %s: %w", row, sheet, err)
	}
	return nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
