package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"realtoros/internal/ai"
	"realtoros/internal/core"
	"realtoros/internal/export"
	"realtoros/internal/recordstore"
)

// ManagerName is the fixed roster entry that cannot be removed.
const ManagerName = "Manager"

type appService struct {
	store   recordstore.Store
	ledger  *core.Ledger
	targets *core.Targets
	agent   ai.AgentService
	now     func() time.Time

	mu       sync.RWMutex
	sales    []core.Sale
	txns     []core.Transaction
	targetRs []core.Target
	saleRows map[string]int
	roster   []string
}

// NewAppService constructs an appService that satisfies ApplicationService.
// The AI agent may be nil; insight generation then returns an error instead
// of calling out.
func NewAppService(store recordstore.Store, ledger *core.Ledger, targets *core.Targets, agent ai.AgentService) ApplicationService {
	s := &appService{
		store:    store,
		ledger:   ledger,
		targets:  targets,
		agent:    agent,
		now:      time.Now,
		saleRows: map[string]int{},
		roster:   []string{ManagerName, "Agent 1", "Agent 2"},
	}
	ledger.SetRowLocator(s)
	return s
}

// SaleRow implements core.RowLocator from the cached snapshot.
func (s *appService) SaleRow(saleID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.saleRows[saleID]
	return pos, ok
}

// Refresh reloads every table and rebuilds the sale row index.
func (s *appService) Refresh(ctx context.Context) error {
	sales, err := s.ledger.ListSales(ctx)
	if err != nil {
		return err
	}
	txns, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return err
	}
	targets, err := s.targets.ListTargets(ctx)
	if err != nil {
		return err
	}

	rows := make(map[string]int, len(sales))
	for _, sale := range sales {
		rows[sale.SaleID] = sale.Row
	}

	s.mu.Lock()
	s.sales, s.txns, s.targetRs, s.saleRows = sales, txns, targets, rows
	s.mu.Unlock()
	return nil
}

// snapshot returns the cached tables, loading them first if nothing has been
// loaded yet.
func (s *appService) snapshot(ctx context.Context) ([]core.Sale, []core.Transaction, []core.Target, error) {
	s.mu.RLock()
	loaded := s.sales != nil || s.txns != nil || s.targetRs != nil
	s.mu.RUnlock()
	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, nil, nil, err
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sales, s.txns, s.targetRs, nil
}

func (s *appService) Dashboard(ctx context.Context) (*DashboardResult, error) {
	sales, txns, targets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &DashboardResult{
		Report:  core.BuildDashboard(txns, sales, targets, now),
		Summary: core.BuildSummaryStats(txns, sales, now),
	}, nil
}

func (s *appService) CreateSale(ctx context.Context, req core.CreateSaleRequest) (*core.Sale, *core.Transaction, error) {
	sale, txn, err := s.ledger.CreateSale(ctx, req)
	if sale != nil {
		// Even a partial write changed the tables.
		if rerr := s.Refresh(ctx); rerr != nil && err == nil {
			err = rerr
		}
	}
	return sale, txn, err
}

func (s *appService) ImportHistoricalSale(ctx context.Context, req core.ImportSaleRequest) (*core.Sale, error) {
	sale, err := s.ledger.ImportHistoricalSale(ctx, req)
	if err != nil {
		return nil, err
	}
	return sale, s.Refresh(ctx)
}

func (s *appService) RecordPayment(ctx context.Context, req core.RecordPaymentRequest) (*core.Transaction, *core.Sale, error) {
	txn, sale, err := s.ledger.RecordPayment(ctx, req)
	if txn != nil {
		if rerr := s.Refresh(ctx); rerr != nil && err == nil {
			err = rerr
		}
	}
	return txn, sale, err
}

func (s *appService) ListSales(ctx context.Context) ([]core.Sale, error) {
	sales, _, _, err := s.snapshot(ctx)
	return sales, err
}

func (s *appService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	_, txns, _, err := s.snapshot(ctx)
	return txns, err
}

func (s *appService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.ledger.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *appService) DeleteSale(ctx context.Context, saleID string) error {
	if err := s.ledger.DeleteSale(ctx, saleID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *appService) SuggestTargets(ctx context.Context) (core.TargetSuggestion, error) {
	_, txns, _, err := s.snapshot(ctx)
	if err != nil {
		return core.TargetSuggestion{}, err
	}
	return core.SuggestTargets(txns, s.now()), nil
}

func (s *appService) SetTarget(ctx context.Context, req core.SetTargetRequest) (*core.Target, error) {
	t, err := s.targets.SetTarget(ctx, req)
	if err != nil {
		return nil, err
	}
	return t, s.Refresh(ctx)
}

func (s *appService) QuickSetTargets(ctx context.Context, amounts core.TargetSuggestion) ([]core.Target, error) {
	rows, err := s.targets.QuickSetCurrentPeriod(ctx, amounts, s.now())
	if len(rows) > 0 {
		if rerr := s.Refresh(ctx); rerr != nil && err == nil {
			err = rerr
		}
	}
	return rows, err
}

func (s *appService) ListTargets(ctx context.Context) ([]core.Target, error) {
	_, _, targets, err := s.snapshot(ctx)
	return targets, err
}

// ── Agent roster ──────────────────────────────────────────────────────────────
//
// The roster is session state, not a table. It seeds the sale form's agent
// picker and resets on restart.

func (s *appService) ListAgents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.roster))
	copy(out, s.roster)
	return out
}

func (s *appService) AddAgent(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("agent name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.roster {
		if strings.EqualFold(a, name) {
			return fmt.Errorf("agent %q already exists", name)
		}
	}
	s.roster = append(s.roster, name)
	return nil
}

func (s *appService) RemoveAgent(name string) error {
	if strings.EqualFold(name, ManagerName) {
		return fmt.Errorf("the manager cannot be removed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.roster {
		if strings.EqualFold(a, name) {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("agent %q not found", name)
}

// ── Insights and exports ──────────────────────────────────────────────────────

func (s *appService) GenerateInsights(ctx context.Context, typ ai.InsightType, question string) (*InsightResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("AI insights are not configured: missing API key")
	}
	sales, txns, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	stats := core.BuildSummaryStats(txns, sales, now)

	req := ai.InsightRequest{
		Type:        typ,
		DataSummary: stats.Text(),
		Question:    question,
	}
	if typ == ai.InsightRisk {
		req.OutstandingDetail = core.OutstandingDetail(sales)
	}
	report, err := s.agent.GenerateInsights(ctx, req)
	if err != nil {
		return nil, err
	}
	return &InsightResult{
		Type:   typ,
		Label:  typ.Label(),
		Report: report,
		Text:   export.InsightText(typ, report, stats, now),
	}, nil
}

func (s *appService) ExportTransactionsCSV(ctx context.Context) ([]byte, error) {
	_, txns, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteTransactionsCSV(&buf, txns); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *appService) ExportSalesLedgerCSV(ctx context.Context) ([]byte, error) {
	sales, _, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteSalesLedgerCSV(&buf, sales); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *appService) ExportTransactionsExcel(ctx context.Context) ([]byte, error) {
	_, txns, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return export.TransactionsWorkbook(txns)
}

func (s *appService) ExportSalesLedgerExcel(ctx context.Context) ([]byte, error) {
	sales, _, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return export.SalesLedgerWorkbook(sales)
}

func (s *appService) ExportCombinedReport(ctx context.Context) ([]byte, error) {
	sales, txns, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats := core.BuildSummaryStats(txns, sales, s.now())
	return export.CombinedReportWorkbook(txns, sales, stats)
}

func (s *appService) ExportSalesReportPDF(ctx context.Context) ([]byte, error) {
	sales, txns, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	stats := core.BuildSummaryStats(txns, sales, now)
	return export.SalesReportPDF(sales, stats, now)
}

// ── Schema maintenance ────────────────────────────────────────────────────────

func (s *appService) CheckSchema(ctx context.Context) ([]recordstore.TableStatus, error) {
	return recordstore.CheckTables(ctx, s.store)
}

func (s *appService) RepairSchema(ctx context.Context) error {
	if err := recordstore.RepairHeaders(ctx, s.store); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *appService) Initialize(ctx context.Context) error {
	if err := recordstore.Initialize(ctx, s.store); err != nil {
		return err
	}
	return s.Refresh(ctx)
}
