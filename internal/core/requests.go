package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError marks input rejected before any write. Adapters map it to
// a user-visible message rather than a server fault.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// CreateSaleRequest records a new sale, optionally with an initial payment.
type CreateSaleRequest struct {
	SaleDate       string          `json:"sale_date"`
	ClientName     string          `json:"client_name"`
	Phone          string          `json:"phone"`
	Agent          string          `json:"agent"`
	Location       string          `json:"location"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	InitialPayment decimal.Decimal `json:"initial_payment"`
	Notes          string          `json:"notes"`
}

// Normalize trims identity fields and defaults a blank sale date to today.
func (r *CreateSaleRequest) Normalize(now time.Time) {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Agent = strings.TrimSpace(r.Agent)
	r.Location = strings.TrimSpace(r.Location)
	r.SaleDate = strings.TrimSpace(r.SaleDate)
	if r.SaleDate == "" {
		r.SaleDate = now.Format(DateLayout)
	}
}

// Validate enforces the creation preconditions: identity fields present,
// non-negative total, and 0 ≤ initial payment ≤ total price.
func (r *CreateSaleRequest) Validate() error {
	if r.ClientName == "" {
		return validationf("client name is required")
	}
	if r.Phone == "" {
		return validationf("phone number is required")
	}
	if _, err := time.Parse(DateLayout, r.SaleDate); err != nil {
		return validationf("invalid sale date %q: want YYYY-MM-DD", r.SaleDate)
	}
	if r.TotalPrice.IsNegative() {
		return validationf("total sale price cannot be negative")
	}
	if r.InitialPayment.IsNegative() {
		return validationf("initial payment cannot be negative")
	}
	if r.InitialPayment.GreaterThan(r.TotalPrice) {
		return validationf("initial payment %s exceeds total price %s",
			r.InitialPayment, r.TotalPrice)
	}
	return nil
}

// ImportSaleRequest brings a pre-existing sale under balance tracking.
// The already-paid portion is intentionally excluded from revenue.
type ImportSaleRequest struct {
	OriginalSaleDate string          `json:"original_sale_date"`
	ClientName       string          `json:"client_name"`
	Phone            string          `json:"phone"`
	Agent            string          `json:"agent"`
	Location         string          `json:"location"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	AmountPaid       decimal.Decimal `json:"amount_already_paid"`
	Notes            string          `json:"notes"`
}

func (r *ImportSaleRequest) Normalize() {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Agent = strings.TrimSpace(r.Agent)
	r.Location = strings.TrimSpace(r.Location)
	r.OriginalSaleDate = strings.TrimSpace(r.OriginalSaleDate)
}

// Validate additionally requires a strictly positive remaining balance —
// a fully paid historical sale has nothing left to track.
func (r *ImportSaleRequest) Validate() error {
	if r.ClientName == "" {
		return validationf("client name is required")
	}
	if r.Phone == "" {
		return validationf("phone number is required")
	}
	if _, err := time.Parse(DateLayout, r.OriginalSaleDate); err != nil {
		return validationf("invalid original sale date %q: want YYYY-MM-DD", r.OriginalSaleDate)
	}
	if r.TotalPrice.IsNegative() {
		return validationf("total sale price cannot be negative")
	}
	if r.AmountPaid.IsNegative() {
		return validationf("amount already paid cannot be negative")
	}
	if r.AmountPaid.GreaterThan(r.TotalPrice) {
		return validationf("amount paid %s exceeds total price %s", r.AmountPaid, r.TotalPrice)
	}
	if !r.TotalPrice.Sub(r.AmountPaid).IsPositive() {
		return validationf("cannot import a fully paid sale: remaining balance must be > 0")
	}
	return nil
}

// RecordPaymentRequest logs an installment against an open sale.
type RecordPaymentRequest struct {
	SaleID      string          `json:"sale_id"`
	PaymentDate string          `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
}

func (r *RecordPaymentRequest) Normalize(now time.Time) {
	r.SaleID = strings.TrimSpace(r.SaleID)
	r.PaymentDate = strings.TrimSpace(r.PaymentDate)
	if r.PaymentDate == "" {
		r.PaymentDate = now.Format(DateLayout)
	}
}

// Validate checks the request in isolation; the balance cap is enforced by
// the ledger against the sale's current state.
func (r *RecordPaymentRequest) Validate() error {
	if r.SaleID == "" {
		return validationf("sale ID is required")
	}
	if _, err := time.Parse(DateLayout, r.PaymentDate); err != nil {
		return validationf("invalid payment date %q: want YYYY-MM-DD", r.PaymentDate)
	}
	if !r.Amount.IsPositive() {
		return validationf("payment amount must be greater than 0")
	}
	return nil
}

// SetTargetRequest appends one revenue target row.
type SetTargetRequest struct {
	Year         int             `json:"year"`
	PeriodType   PeriodType      `json:"period_type"`
	PeriodNumber int             `json:"period_number"`
	Amount       decimal.Decimal `json:"amount"`
	Notes        string          `json:"notes"`
}

func (r *SetTargetRequest) Validate() error {
	if r.Year < 2000 || r.Year > 2100 {
		return validationf("year %d out of range", r.Year)
	}
	switch r.PeriodType {
	case PeriodWeek:
		if r.PeriodNumber < 1 || r.PeriodNumber > 53 {
			return validationf("week number %d out of range 1-53", r.PeriodNumber)
		}
	case PeriodMonth:
		if r.PeriodNumber < 1 || r.PeriodNumber > 12 {
			return validationf("month number %d out of range 1-12", r.PeriodNumber)
		}
	case PeriodQuarter:
		if r.PeriodNumber < 1 || r.PeriodNumber > 4 {
			return validationf("quarter %d out of range 1-4", r.PeriodNumber)
		}
	case PeriodYear:
		if r.PeriodNumber != 1 {
			return validationf("year targets use period number 1")
		}
	default:
		return validationf("unknown period type %q", r.PeriodType)
	}
	if r.Amount.IsNegative() {
		return validationf("target amount cannot be negative")
	}
	return nil
}
