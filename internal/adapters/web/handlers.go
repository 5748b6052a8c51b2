// Package web is the JSON API adapter. It translates HTTP requests into
// ApplicationService calls and domain errors into status codes; it holds no
// business logic of its own.
package web

import (
	"net/http"

	"realtoros/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the auth configuration.
type Handler struct {
	svc           app.ApplicationService
	jwtSecret     string
	adminPassword string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret, adminPassword string) http.Handler {
	h := &Handler{
		svc:           svc,
		jwtSecret:     jwtSecret,
		adminPassword: adminPassword,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API ─────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/dashboard", h.dashboard)
		r.Post("/api/refresh", h.refresh)

		// Sales ledger
		r.Get("/api/sales", h.listSales)
		r.Post("/api/sales", h.createSale)
		r.Post("/api/sales/import", h.importSale)
		r.Get("/api/sales/{saleID}", h.getSale)
		r.Delete("/api/sales/{saleID}", h.deleteSale)
		r.Post("/api/sales/{saleID}/payments", h.recordPayment)

		// Transactions
		r.Get("/api/transactions", h.listTransactions)
		r.Delete("/api/transactions/{transactionID}", h.deleteTransaction)

		// Targets
		r.Get("/api/targets", h.listTargets)
		r.Post("/api/targets", h.setTarget)
		r.Get("/api/targets/suggest", h.suggestTargets)
		r.Post("/api/targets/quick-set", h.quickSetTargets)

		// Agent roster
		r.Get("/api/agents", h.listAgents)
		r.Post("/api/agents", h.addAgent)
		r.Delete("/api/agents/{name}", h.removeAgent)

		// AI insights
		r.Post("/api/insights", h.generateInsights)

		// Downloads
		r.Get("/api/export/transactions.csv", h.exportTransactionsCSV)
		r.Get("/api/export/sales.csv", h.exportSalesCSV)
		r.Get("/api/export/transactions.xlsx", h.exportTransactionsExcel)
		r.Get("/api/export/sales.xlsx", h.exportSalesExcel)
		r.Get("/api/export/report.xlsx", h.exportCombinedReport)
		r.Get("/api/export/report.pdf", h.exportReportPDF)

		// Schema maintenance
		r.Get("/api/admin/schema", h.checkSchema)
		r.Post("/api/admin/schema/repair", h.repairSchema)
		r.Post("/api/admin/schema/init", h.initSchema)
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// refresh reloads every table snapshot from the record store.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Refresh(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "refreshed"})
}
