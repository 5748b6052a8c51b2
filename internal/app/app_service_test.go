package app_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"realtoros/internal/ai"
	"realtoros/internal/app"
	"realtoros/internal/core"
	"realtoros/internal/recordstore"
)

// stubAgent records the request and returns a canned report.
type stubAgent struct {
	lastReq ai.InsightRequest
}

func (s *stubAgent) GenerateInsights(_ context.Context, req ai.InsightRequest) (*ai.InsightReport, error) {
	s.lastReq = req
	return &ai.InsightReport{
		Headline:   "Steady quarter",
		Assessment: "Collections are on track.",
		Confidence: 0.9,
	}, nil
}

func newTestService(t *testing.T) (app.ApplicationService, *stubAgent) {
	t.Helper()
	store := recordstore.NewMemoryStore()
	ctx := context.Background()
	if err := recordstore.Initialize(ctx, store); err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	agent := &stubAgent{}
	svc := app.NewAppService(store, core.NewLedger(store), core.NewTargets(store), agent)
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	return svc, agent
}

func TestAppService_SaleLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sale, txn, err := svc.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		Agent:          "Agent 1",
		Location:       "Kitengela",
		TotalPrice:     decimal.NewFromInt(1000000),
		InitialPayment: decimal.NewFromInt(400000),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if txn == nil {
		t.Fatal("expected initial payment transaction")
	}

	// The snapshot was refreshed by the write.
	sales, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if len(sales) != 1 || sales[0].SaleID != sale.SaleID {
		t.Fatalf("snapshot sales = %+v", sales)
	}

	// Payment goes through the cached row index.
	_, updated, err := svc.RecordPayment(ctx, core.RecordPaymentRequest{
		SaleID: sale.SaleID,
		Amount: decimal.NewFromInt(600000),
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if updated.Status != core.StatusFullyPaid {
		t.Errorf("status = %s, want %s", updated.Status, core.StatusFullyPaid)
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !dash.Report.TotalRevenue.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("total revenue = %s, want 1000000", dash.Report.TotalRevenue)
	}
	if dash.Report.OutstandingSales != 0 {
		t.Errorf("outstanding sales = %d, want 0", dash.Report.OutstandingSales)
	}
	if dash.Summary.TransactionCount != 2 {
		t.Errorf("transaction count = %d, want 2", dash.Summary.TransactionCount)
	}

	// Deleting the sale leaves its transactions and refreshes the snapshot.
	if err := svc.DeleteSale(ctx, sale.SaleID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	sales, _ = svc.ListSales(ctx)
	if len(sales) != 0 {
		t.Errorf("sales after delete = %d, want 0", len(sales))
	}
	txns, _ := svc.ListTransactions(ctx)
	if len(txns) != 2 {
		t.Errorf("transactions after sale delete = %d, want 2", len(txns))
	}
}

func TestAppService_TargetsFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// No history: suggestion falls back to the fixed defaults.
	suggestion, err := svc.SuggestTargets(ctx)
	if err != nil {
		t.Fatalf("SuggestTargets: %v", err)
	}
	if !suggestion.Month.Equal(decimal.NewFromInt(2000000)) {
		t.Errorf("default month suggestion = %s, want 2000000", suggestion.Month)
	}

	rows, err := svc.QuickSetTargets(ctx, suggestion)
	if err != nil {
		t.Fatalf("QuickSetTargets: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("quick set rows = %d, want 4", len(rows))
	}
	stored, _ := svc.ListTargets(ctx)
	if len(stored) != 4 {
		t.Errorf("stored targets = %d, want 4", len(stored))
	}

	// The dashboard now reports target progress for the current month.
	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !dash.Report.Month.HasTarget {
		t.Error("month target should be visible on the dashboard")
	}
}

func TestAppService_AgentRoster(t *testing.T) {
	svc, _ := newTestService(t)

	agents := svc.ListAgents()
	if len(agents) != 3 || agents[0] != app.ManagerName {
		t.Fatalf("seed roster = %v", agents)
	}

	if err := svc.AddAgent("Naomi"); err != nil {
		t.Fatalf("AddAgent: %v", err)
	}
	if err := svc.AddAgent(" naomi "); err == nil {
		t.Error("case-insensitive duplicate should be rejected")
	}
	if err := svc.AddAgent("  "); err == nil {
		t.Error("blank name should be rejected")
	}

	if err := svc.RemoveAgent(app.ManagerName); err == nil {
		t.Error("manager must not be removable")
	}
	if err := svc.RemoveAgent("Agent 2"); err != nil {
		t.Errorf("RemoveAgent: %v", err)
	}
	if err := svc.RemoveAgent("Agent 2"); err == nil {
		t.Error("second removal should fail")
	}

	agents = svc.ListAgents()
	if len(agents) != 3 {
		t.Errorf("roster after changes = %v", agents)
	}
}

func TestAppService_Insights(t *testing.T) {
	svc, agent := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		Agent:          "Agent 1",
		Location:       "Kitengela",
		TotalPrice:     decimal.NewFromInt(1000000),
		InitialPayment: decimal.NewFromInt(400000),
	}); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	result, err := svc.GenerateInsights(ctx, ai.InsightRisk, "")
	if err != nil {
		t.Fatalf("GenerateInsights: %v", err)
	}
	if result.Label != "Risk Assessment (Outstanding Balances)" {
		t.Errorf("label = %q", result.Label)
	}
	if !strings.Contains(result.Text, "Steady quarter") {
		t.Error("insight text missing the report headline")
	}

	// Risk analysis feeds the outstanding-sale detail into the prompt.
	if !strings.Contains(agent.lastReq.OutstandingDetail, "Grace Wanjiku") {
		t.Errorf("outstanding detail = %q", agent.lastReq.OutstandingDetail)
	}
	if !strings.Contains(agent.lastReq.DataSummary, "SALES LEDGER:") {
		t.Error("data summary block missing from request")
	}
}

func TestAppService_InsightsWithoutAgent(t *testing.T) {
	store := recordstore.NewMemoryStore()
	ctx := context.Background()
	if err := recordstore.Initialize(ctx, store); err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	svc := app.NewAppService(store, core.NewLedger(store), core.NewTargets(store), nil)

	if _, err := svc.GenerateInsights(ctx, ai.InsightPerformance, ""); err == nil {
		t.Error("missing agent should error, not panic")
	}
}

func TestAppService_Exports(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		Agent:          "Agent 1",
		Location:       "Kitengela",
		TotalPrice:     decimal.NewFromInt(1000000),
		InitialPayment: decimal.NewFromInt(400000),
	}); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	csvData, err := svc.ExportSalesLedgerCSV(ctx)
	if err != nil {
		t.Fatalf("ExportSalesLedgerCSV: %v", err)
	}
	if !bytes.HasPrefix(csvData, []byte("Sale_ID,")) {
		t.Errorf("ledger CSV starts with %q", csvData[:min(20, len(csvData))])
	}

	xlsxData, err := svc.ExportCombinedReport(ctx)
	if err != nil {
		t.Fatalf("ExportCombinedReport: %v", err)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(xlsxData, []byte("PK")) {
		t.Error("combined report is not a zip container")
	}

	pdfData, err := svc.ExportSalesReportPDF(ctx)
	if err != nil {
		t.Fatalf("ExportSalesReportPDF: %v", err)
	}
	if !bytes.HasPrefix(pdfData, []byte("%PDF-")) {
		t.Error("report is not a PDF")
	}
}

func TestAppService_SchemaMaintenance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	statuses, err := svc.CheckSchema(ctx)
	if err != nil {
		t.Fatalf("CheckSchema: %v", err)
	}
	for _, st := range statuses {
		if !st.Exists || !st.Match {
			t.Errorf("%s: exists=%v match=%v", st.Table, st.Exists, st.Match)
		}
	}
	if err := svc.RepairSchema(ctx); err != nil {
		t.Errorf("RepairSchema on healthy store: %v", err)
	}
}
