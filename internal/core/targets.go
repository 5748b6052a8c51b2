package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"realtoros/internal/recordstore"
)

// TargetSuggestion holds suggested revenue targets for each period length.
type TargetSuggestion struct {
	Week    decimal.Decimal `json:"week"`
	Month   decimal.Decimal `json:"month"`
	Quarter decimal.Decimal `json:"quarter"`
	Year    decimal.Decimal `json:"year"`
}

var (
	defaultSuggestion = TargetSuggestion{
		Week:    decimal.NewFromInt(500000),
		Month:   decimal.NewFromInt(2000000),
		Quarter: decimal.NewFromInt(6000000),
		Year:    decimal.NewFromInt(25000000),
	}
	uplift = decimal.RequireFromString("1.1")
)

// SuggestTargets projects targets from recent revenue: the last 90 days of
// transactions averaged to a month, with a 10% uplift on the month, quarter
// and year figures. With no transactions at all the fixed defaults are
// returned; with transactions but none in the window, the all-time sum is
// averaged instead. A reproducible formula, not a forecast.
func SuggestTargets(txns []Transaction, now time.Time) TargetSuggestion {
	if len(txns) == 0 {
		return defaultSuggestion
	}

	cutoff := now.AddDate(0, 0, -90)
	recent := decimal.Zero
	all := decimal.Zero
	anyRecent := false
	for _, t := range txns {
		all = all.Add(t.Amount)
		if !t.Date.Before(cutoff) {
			recent = recent.Add(t.Amount)
			anyRecent = true
		}
	}

	three := decimal.NewFromInt(3)
	avgMonthly := recent.Div(three)
	if !anyRecent {
		avgMonthly = all.Div(three)
	}

	return TargetSuggestion{
		Week:    avgMonthly.Div(decimal.NewFromInt(4)),
		Month:   avgMonthly.Mul(uplift),
		Quarter: avgMonthly.Mul(three).Mul(uplift),
		Year:    avgMonthly.Mul(decimal.NewFromInt(12)).Mul(uplift),
	}
}

// FirstMatchingTarget returns the first target row for (year, period type,
// period number). Duplicates can coexist — the Targets table is append-only
// and the dashboard takes the first match, matching the historical behavior.
func FirstMatchingTarget(targets []Target, year int, pt PeriodType, num int) (Target, bool) {
	for _, t := range targets {
		if t.Year == year && t.PeriodType == pt && t.PeriodNumber == num {
			return t, true
		}
	}
	return Target{}, false
}

// TargetService manages revenue target rows.
type TargetService interface {
	SetTarget(ctx context.Context, req SetTargetRequest) (*Target, error)
	QuickSetCurrentPeriod(ctx context.Context, amounts TargetSuggestion, now time.Time) ([]Target, error)
	ListTargets(ctx context.Context) ([]Target, error)
}

// Targets implements TargetService over the record store.
type Targets struct {
	store recordstore.Store
	now   func() time.Time
}

// NewTargets constructs a Targets service.
func NewTargets(store recordstore.Store) *Targets {
	return &Targets{store: store, now: time.Now}
}

// SetTarget appends one target row. Existing rows for the same period are
// left in place (append-only history, first match wins on lookup).
func (s *Targets) SetTarget(ctx context.Context, req SetTargetRequest) (*Target, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t := Target{
		Year:         req.Year,
		PeriodType:   req.PeriodType,
		PeriodNumber: req.PeriodNumber,
		TargetAmount: req.Amount,
		LastUpdated:  s.now(),
		Notes:        req.Notes,
	}
	if err := s.store.AppendRow(ctx, recordstore.TableTargets, t.Fields()); err != nil {
		return nil, fmt.Errorf("append target: %w", err)
	}
	return &t, nil
}

// QuickSetCurrentPeriod appends targets for the week, month, quarter and year
// containing now, in one pass. The year row always uses period number 1.
func (s *Targets) QuickSetCurrentPeriod(ctx context.Context, amounts TargetSuggestion, now time.Time) ([]Target, error) {
	week := WeekNumber(now)
	month := int(now.Month())
	quarter := QuarterOf(now)
	year := now.Year()

	rows := []Target{
		{Year: year, PeriodType: PeriodWeek, PeriodNumber: week, TargetAmount: amounts.Week,
			Notes: fmt.Sprintf("Week %d target", week)},
		{Year: year, PeriodType: PeriodMonth, PeriodNumber: month, TargetAmount: amounts.Month,
			Notes: fmt.Sprintf("Month %d target", month)},
		{Year: year, PeriodType: PeriodQuarter, PeriodNumber: quarter, TargetAmount: amounts.Quarter,
			Notes: fmt.Sprintf("Q%d target", quarter)},
		{Year: year, PeriodType: PeriodYear, PeriodNumber: 1, TargetAmount: amounts.Year,
			Notes: fmt.Sprintf("%d target", year)},
	}
	for i := range rows {
		rows[i].LastUpdated = s.now()
		if err := s.store.AppendRow(ctx, recordstore.TableTargets, rows[i].Fields()); err != nil {
			return rows[:i], fmt.Errorf("append %s target: %w", rows[i].PeriodType, err)
		}
	}
	return rows, nil
}

// ListTargets returns every target row in table order.
func (s *Targets) ListTargets(ctx context.Context) ([]Target, error) {
	rows, err := s.store.ReadAll(ctx, recordstore.TableTargets)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}
	var targets []Target
	for i, row := range dataRows(rows) {
		targets = append(targets, TargetFromRow(row, i+2))
	}
	return targets, nil
}
