package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"realtoros/internal/core"
)

// SalesReportPDF renders the printable report: headline metrics followed by a
// ledger table. Landscape A4 so the twelve ledger columns fit.
func SalesReportPDF(sales []core.Sale, stats core.SummaryStats, now time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "RealtorOS Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+now.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	summary := [][2]string{
		{"Total Transactions", fmt.Sprintf("%d", stats.TransactionCount)},
		{"Total Revenue", "KSh " + core.FormatKSh(stats.TotalRevenue)},
		{"Total Sales", fmt.Sprintf("%d", stats.SaleCount)},
		{"Total Collected", "KSh " + core.FormatKSh(stats.TotalCollected)},
		{"Outstanding Balance", "KSh " + core.FormatKSh(stats.OutstandingBalance)},
		{"Fully Paid / Installment", fmt.Sprintf("%d / %d", stats.FullyPaidCount, stats.InstallmentCount)},
	}
	for _, row := range summary {
		pdf.CellFormat(60, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Sales Ledger", "", 1, "L", false, 0, "")

	headers := []string{"Sale ID", "Client", "Agent", "Location", "Total", "Paid", "Balance", "Date", "Status"}
	widths := []float64{42, 40, 28, 32, 28, 28, 28, 22, 29}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, s := range sales {
		cells := []string{
			s.SaleID, s.ClientName, s.Agent, s.Location,
			core.FormatKSh(s.TotalPrice), core.FormatKSh(s.AmountPaid), core.FormatKSh(s.Balance),
			s.SaleDate.Format(core.DateLayout), string(s.Status),
		}
		for i, c := range cells {
			align := "L"
			if i >= 4 && i <= 6 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
