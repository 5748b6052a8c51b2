package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ── Calendar bucketing ────────────────────────────────────────────────────────

// WeekNumber returns the ISO 8601 week number of t.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// QuarterOf returns the calendar quarter of t: fixed three-month buckets
// aligned to January.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

// PeriodProgress compares actual revenue in a calendar period against the
// first matching target row, if any.
type PeriodProgress struct {
	PeriodNumber int             `json:"period_number"`
	Actual       decimal.Decimal `json:"actual"`
	Target       decimal.Decimal `json:"target"`
	HasTarget    bool            `json:"has_target"`
	Percent      float64         `json:"percent"`
}

// DashboardReport is the read-side aggregate behind the executive dashboard.
// Pure computation over already-loaded rows; no mutation.
type DashboardReport struct {
	Week    PeriodProgress `json:"week"`
	Month   PeriodProgress `json:"month"`
	Quarter PeriodProgress `json:"quarter"`
	Year    PeriodProgress `json:"year"`

	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	NewSaleRevenue     decimal.Decimal `json:"new_sale_revenue"`
	InstallmentRevenue decimal.Decimal `json:"installment_revenue"`

	TotalSales         int             `json:"total_sales"`
	OutstandingSales   int             `json:"outstanding_sales"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

// BuildDashboard computes current-period actuals and target progress as of
// now. Week filtering uses the ISO week number combined with the calendar
// year; quarter and month are calendar buckets of the same year.
func BuildDashboard(txns []Transaction, sales []Sale, targets []Target, now time.Time) DashboardReport {
	curWeek, curMonth, curQuarter, curYear := WeekNumber(now), int(now.Month()), QuarterOf(now), now.Year()

	var week, month, quarter, year decimal.Decimal
	r := DashboardReport{}
	for _, t := range txns {
		r.TotalRevenue = r.TotalRevenue.Add(t.Amount)
		switch t.PaymentType {
		case PaymentNewSale:
			r.NewSaleRevenue = r.NewSaleRevenue.Add(t.Amount)
		case PaymentInstallment:
			r.InstallmentRevenue = r.InstallmentRevenue.Add(t.Amount)
		}
		if t.Date.Year() != curYear {
			continue
		}
		year = year.Add(t.Amount)
		if WeekNumber(t.Date) == curWeek {
			week = week.Add(t.Amount)
		}
		if int(t.Date.Month()) == curMonth {
			month = month.Add(t.Amount)
		}
		if QuarterOf(t.Date) == curQuarter {
			quarter = quarter.Add(t.Amount)
		}
	}

	r.Week = periodProgress(week, targets, curYear, PeriodWeek, curWeek)
	r.Month = periodProgress(month, targets, curYear, PeriodMonth, curMonth)
	r.Quarter = periodProgress(quarter, targets, curYear, PeriodQuarter, curQuarter)
	r.Year = periodProgress(year, targets, curYear, PeriodYear, 1)

	r.TotalSales = len(sales)
	for _, s := range sales {
		if s.Status != StatusFullyPaid {
			r.OutstandingSales++
			r.OutstandingBalance = r.OutstandingBalance.Add(s.Balance)
		}
	}
	return r
}

func periodProgress(actual decimal.Decimal, targets []Target, year int, pt PeriodType, num int) PeriodProgress {
	p := PeriodProgress{PeriodNumber: num, Actual: actual}
	if t, ok := FirstMatchingTarget(targets, year, pt, num); ok && t.TargetAmount.IsPositive() {
		p.Target = t.TargetAmount
		p.HasTarget = true
		pct, _ := actual.Div(t.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
		p.Percent = pct
	}
	return p
}

// ── Breakdowns and summary ────────────────────────────────────────────────────

// GroupStat is a count and sum for one grouping key.
type GroupStat struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// GroupByAgent sums transaction amounts per agent, sorted by agent name.
func GroupByAgent(txns []Transaction) []GroupStat {
	return groupBy(txns, func(t Transaction) string { return t.Agent })
}

// GroupByLocation sums transaction amounts per location, sorted by location.
func GroupByLocation(txns []Transaction) []GroupStat {
	return groupBy(txns, func(t Transaction) string { return t.Location })
}

func groupBy(txns []Transaction, key func(Transaction) string) []GroupStat {
	byKey := map[string]*GroupStat{}
	for _, t := range txns {
		k := key(t)
		g, ok := byKey[k]
		if !ok {
			g = &GroupStat{Key: k}
			byKey[k] = g
		}
		g.Count++
		g.Total = g.Total.Add(t.Amount)
	}
	out := make([]GroupStat, 0, len(byKey))
	for _, g := range byKey {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// recentCount is how many trailing transactions the summary lists.
const recentCount = 10

// SummaryStats flattens the whole business position into one structure. It
// feeds the AI prompt, the combined report, and the insight text export.
type SummaryStats struct {
	GeneratedAt time.Time `json:"generated_at"`

	TransactionCount   int             `json:"transaction_count"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	NewSaleRevenue     decimal.Decimal `json:"new_sale_revenue"`
	InstallmentRevenue decimal.Decimal `json:"installment_revenue"`

	SaleCount          int             `json:"sale_count"`
	TotalSalesValue    decimal.Decimal `json:"total_sales_value"`
	TotalCollected     decimal.Decimal `json:"total_collected"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	FullyPaidCount     int             `json:"fully_paid_count"`
	InstallmentCount   int             `json:"installment_count"`

	ByAgent    []GroupStat   `json:"by_agent"`
	ByLocation []GroupStat   `json:"by_location"`
	Recent     []Transaction `json:"recent"`
}

// BuildSummaryStats aggregates transactions and sales as of now.
func BuildSummaryStats(txns []Transaction, sales []Sale, now time.Time) SummaryStats {
	s := SummaryStats{
		GeneratedAt:      now,
		TransactionCount: len(txns),
		SaleCount:        len(sales),
		ByAgent:          GroupByAgent(txns),
		ByLocation:       GroupByLocation(txns),
	}
	for _, t := range txns {
		s.TotalRevenue = s.TotalRevenue.Add(t.Amount)
		switch t.PaymentType {
		case PaymentNewSale:
			s.NewSaleRevenue = s.NewSaleRevenue.Add(t.Amount)
		case PaymentInstallment:
			s.InstallmentRevenue = s.InstallmentRevenue.Add(t.Amount)
		}
	}
	for _, sale := range sales {
		s.TotalSalesValue = s.TotalSalesValue.Add(sale.TotalPrice)
		s.TotalCollected = s.TotalCollected.Add(sale.AmountPaid)
		s.OutstandingBalance = s.OutstandingBalance.Add(sale.Balance)
		if sale.Status == StatusFullyPaid {
			s.FullyPaidCount++
		} else {
			s.InstallmentCount++
		}
	}
	if len(txns) > recentCount {
		s.Recent = txns[len(txns)-recentCount:]
	} else {
		s.Recent = txns
	}
	return s
}

// Text renders the summary in the fixed block format consumed by the AI
// prompt and the insight export.
func (s SummaryStats) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Date: %s\n\n", s.GeneratedAt.Format(DateLayout))
	fmt.Fprintf(&b, "TRANSACTIONS DATA:\n")
	fmt.Fprintf(&b, "- Total Transactions: %d\n", s.TransactionCount)
	fmt.Fprintf(&b, "- Total Revenue: KSh %s\n", FormatKSh(s.TotalRevenue))
	fmt.Fprintf(&b, "- New Sales Revenue: KSh %s\n", FormatKSh(s.NewSaleRevenue))
	fmt.Fprintf(&b, "- Installment Revenue: KSh %s\n\n", FormatKSh(s.InstallmentRevenue))
	fmt.Fprintf(&b, "SALES LEDGER:\n")
	fmt.Fprintf(&b, "- Total Sales: %d\n", s.SaleCount)
	fmt.Fprintf(&b, "- Total Sales Value: KSh %s\n", FormatKSh(s.TotalSalesValue))
	fmt.Fprintf(&b, "- Total Collected: KSh %s\n", FormatKSh(s.TotalCollected))
	fmt.Fprintf(&b, "- Outstanding Balance: KSh %s\n", FormatKSh(s.OutstandingBalance))
	fmt.Fprintf(&b, "- Fully Paid Sales: %d\n", s.FullyPaidCount)
	fmt.Fprintf(&b, "- Sales on Installment: %d\n\n", s.InstallmentCount)
	fmt.Fprintf(&b, "AGENT PERFORMANCE:\n")
	for _, g := range s.ByAgent {
		fmt.Fprintf(&b, "- %s: %d payments, KSh %s\n", g.Key, g.Count, FormatKSh(g.Total))
	}
	fmt.Fprintf(&b, "\nLOCATION BREAKDOWN:\n")
	for _, g := range s.ByLocation {
		fmt.Fprintf(&b, "- %s: %d payments, KSh %s\n", g.Key, g.Count, FormatKSh(g.Total))
	}
	fmt.Fprintf(&b, "\nRECENT TRANSACTIONS (Last %d):\n", len(s.Recent))
	for _, t := range s.Recent {
		fmt.Fprintf(&b, "- %s | %s | %s | KSh %s | %s\n",
			t.Date.Format(DateLayout), t.Agent, t.Location, FormatKSh(t.Amount), t.PaymentType)
	}
	return b.String()
}

// OutstandingDetail lists every sale that is not fully paid, one line each.
// Used by the risk-assessment prompt.
func OutstandingDetail(sales []Sale) string {
	var b strings.Builder
	for _, s := range sales {
		if s.Status == StatusFullyPaid {
			continue
		}
		fmt.Fprintf(&b, "- %s | %s | %s | total KSh %s | paid KSh %s | balance KSh %s | since %s\n",
			s.ClientName, s.Agent, s.Location,
			FormatKSh(s.TotalPrice), FormatKSh(s.AmountPaid), FormatKSh(s.Balance),
			s.SaleDate.Format(DateLayout))
	}
	return b.String()
}

// FormatKSh renders an amount rounded to whole shillings with thousands
// separators, e.g. 2500000 → "2,500,000".
func FormatKSh(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
