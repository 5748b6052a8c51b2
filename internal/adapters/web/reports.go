package web

import (
	"fmt"
	"net/http"
	"time"
)

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// ── Downloads ─────────────────────────────────────────────────────────────────

const (
	csvMime  = "text/csv"
	xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfMime  = "application/pdf"
)

// writeDownload sends bytes as a file attachment with a dated filename.
func writeDownload(w http.ResponseWriter, data []byte, prefix, ext, mime string) {
	name := fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

func (h *Handler) exportTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportTransactionsCSV(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDownload(w, data, "transactions", "csv", csvMime)
}

func (h *Handler) exportSalesCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportSalesLedgerCSV(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDownload(w, data, "sales_ledger", "csv", csvMime)
}

func (h *Handler) exportTransactionsExcel(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportTransactionsExcel(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDownload(w, data, "transactions", "xlsx", xlsxMime)
}

func (h *Handler) exportSalesExcel(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportSalesLedgerExcel(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDownload(w, data, "sales_ledger", "xlsx", xlsxMime)
}

func (h *Handler) exportCombinedReport(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportCombinedReport(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDownload(w, data, "sales_report", "xlsx", xlsxMime)
}

func (h *Handler) exportReportPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportSalesReportPDF(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDownload(w, data, "sales_report", "pdf", pdfMime)
}
