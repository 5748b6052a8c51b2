package web

import (
	"net/http"

	"realtoros/internal/core"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"sales": sales, "count": len(sales)})
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req core.CreateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sale, txn, err := h.svc.CreateSale(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"sale": sale, "transaction": txn})
}

func (h *Handler) importSale(w http.ResponseWriter, r *http.Request) {
	var req core.ImportSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sale, err := h.svc.ImportHistoricalSale(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"sale": sale})
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "saleID")
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	for _, s := range sales {
		if s.SaleID == saleID {
			writeJSON(w, map[string]any{"sale": s})
			return
		}
	}
	writeError(w, r, "sale "+saleID+" not found", "NOT_FOUND", http.StatusNotFound)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSale(r.Context(), chi.URLParam(r, "saleID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// recordPayment handles POST /api/sales/{saleID}/payments. The sale ID comes
// from the URL; any sale_id in the body is ignored.
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req core.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SaleID = chi.URLParam(r, "saleID")
	txn, sale, err := h.svc.RecordPayment(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"transaction": txn, "sale": sale})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"transactions": txns, "count": len(txns)})
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTransaction(r.Context(), chi.URLParam(r, "transactionID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}
