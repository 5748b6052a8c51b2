package app

import (
	"context"

	"realtoros/internal/ai"
	"realtoros/internal/core"
	"realtoros/internal/recordstore"
)

// ApplicationService is the single interface all UI adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no HTML, and no display logic of any kind.
type ApplicationService interface {
	// Refresh reloads every table snapshot from the record store and rebuilds
	// the sale row index.
	Refresh(ctx context.Context) error

	// Dashboard returns the current-period revenue position with target
	// progress and headline totals.
	Dashboard(ctx context.Context) (*DashboardResult, error)

	// CreateSale records a new sale and, if an initial payment was made, its
	// "New Sale" transaction. The transaction is nil for zero-deposit sales.
	CreateSale(ctx context.Context, req core.CreateSaleRequest) (*core.Sale, *core.Transaction, error)

	// ImportHistoricalSale brings a pre-existing sale into the ledger without
	// emitting a transaction, so current revenue figures are unaffected.
	ImportHistoricalSale(ctx context.Context, req core.ImportSaleRequest) (*core.Sale, error)

	// RecordPayment records an installment against an open sale and updates
	// the sale's paid amount, balance and status.
	RecordPayment(ctx context.Context, req core.RecordPaymentRequest) (*core.Transaction, *core.Sale, error)

	// ListSales returns the current ledger snapshot in table order.
	ListSales(ctx context.Context) ([]core.Sale, error)

	// ListTransactions returns the current transactions snapshot in table order.
	ListTransactions(ctx context.Context) ([]core.Transaction, error)

	// DeleteTransaction removes a transaction row. The owning sale's figures
	// are NOT recalculated.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// DeleteSale removes a ledger row. Its transactions are NOT removed.
	DeleteSale(ctx context.Context, saleID string) error

	// SuggestTargets projects period targets from the last 90 days of revenue.
	SuggestTargets(ctx context.Context) (core.TargetSuggestion, error)

	// SetTarget appends one target row.
	SetTarget(ctx context.Context, req core.SetTargetRequest) (*core.Target, error)

	// QuickSetTargets appends week, month, quarter and year targets for the
	// current date in one call.
	QuickSetTargets(ctx context.Context, amounts core.TargetSuggestion) ([]core.Target, error)

	// ListTargets returns every target row in table order.
	ListTargets(ctx context.Context) ([]core.Target, error)

	// ListAgents returns the agent roster.
	ListAgents() []string

	// AddAgent adds a name to the roster. Duplicates are rejected.
	AddAgent(name string) error

	// RemoveAgent removes a name from the roster. The manager cannot be removed.
	RemoveAgent(name string) error

	// GenerateInsights runs one AI analysis over the current data snapshot.
	// question is only consulted for the custom insight type.
	GenerateInsights(ctx context.Context, typ ai.InsightType, question string) (*InsightResult, error)

	// ExportTransactionsCSV renders the transactions table as CSV.
	ExportTransactionsCSV(ctx context.Context) ([]byte, error)

	// ExportSalesLedgerCSV renders the sales ledger as CSV.
	ExportSalesLedgerCSV(ctx context.Context) ([]byte, error)

	// ExportTransactionsExcel renders the transactions table as a workbook.
	ExportTransactionsExcel(ctx context.Context) ([]byte, error)

	// ExportSalesLedgerExcel renders the sales ledger as a workbook.
	ExportSalesLedgerExcel(ctx context.Context) ([]byte, error)

	// ExportCombinedReport renders the three-sheet workbook: transactions,
	// ledger and summary metrics.
	ExportCombinedReport(ctx context.Context) ([]byte, error)

	// ExportSalesReportPDF renders the printable summary-plus-ledger report.
	ExportSalesReportPDF(ctx context.Context) ([]byte, error)

	// CheckSchema reports the existence and header state of every table.
	CheckSchema(ctx context.Context) ([]recordstore.TableStatus, error)

	// RepairSchema rewrites mismatched header rows to the canonical headers.
	RepairSchema(ctx context.Context) error

	// Initialize creates any missing tables with their canonical headers.
	Initialize(ctx context.Context) error
}
