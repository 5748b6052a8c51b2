package core

import (
	"time"

	"github.com/shopspring/decimal"

	"realtoros/internal/recordstore"
)

// SaleStatus is the lifecycle state of a sale. The only transition is
// Installment Plan → Fully Paid, driven by a payment bringing the balance to
// exactly zero. There is no way back (refunds are out of scope).
type SaleStatus string

const (
	StatusInstallmentPlan SaleStatus = "Installment Plan"
	StatusFullyPaid       SaleStatus = "Fully Paid"
)

// PaymentType classifies a transaction: the initial payment on a new sale,
// or a later installment against an open balance.
type PaymentType string

const (
	PaymentNewSale     PaymentType = "New Sale"
	PaymentInstallment PaymentType = "Installment"
)

// DateLayout is the wire format for all dates in the record store.
const DateLayout = "2006-01-02"

// Sale is one row of the Sales_Ledger table.
type Sale struct {
	SaleID     string          `json:"sale_id"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Phone      string          `json:"phone"`
	Agent      string          `json:"agent"`
	Location   string          `json:"location"`
	TotalPrice decimal.Decimal `json:"total_sale_price"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Balance    decimal.Decimal `json:"balance"`
	SaleDate   time.Time       `json:"sale_date"`
	Status     SaleStatus      `json:"status"`
	Notes      string          `json:"notes"`

	// Row is the 1-based position of this sale in the table at load time
	// (0 when unknown). Positions go stale after any deletion.
	Row int `json:"-"`
}

// Transaction is one row of the Transactions table: an immutable record of
// money received. Transactions are the sole source of revenue figures.
type Transaction struct {
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Agent         string          `json:"agent"`
	Location      string          `json:"location"`
	ClientID      string          `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   PaymentType     `json:"payment_type"`
	Phone         string          `json:"phone"`
	SaleID        string          `json:"sale_id"`
	Notes         string          `json:"notes"`

	Row int `json:"-"`
}

// PeriodType names a calendar bucket for revenue targets.
type PeriodType string

const (
	PeriodWeek    PeriodType = "Week"
	PeriodMonth   PeriodType = "Month"
	PeriodQuarter PeriodType = "Quarter"
	PeriodYear    PeriodType = "Year"
)

// Target is one row of the Targets table. Multiple rows may exist for the
// same (year, period type, period number); lookups take the first match.
type Target struct {
	Year         int             `json:"year"`
	PeriodType   PeriodType      `json:"period_type"`
	PeriodNumber int             `json:"period_number"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	LastUpdated  time.Time       `json:"last_updated"`
	Notes        string          `json:"notes"`

	Row int `json:"-"`
}

// ── Row codecs ────────────────────────────────────────────────────────────────
//
// Rows travel as strings in header order. Parsing is lenient on numerics and
// dates (blank or malformed → zero value) because spreadsheet cells are
// user-editable outside the application.

func (s Sale) Fields() []string {
	return []string{
		s.SaleID, s.ClientID, s.ClientName, s.Phone, s.Agent, s.Location,
		s.TotalPrice.String(), s.AmountPaid.String(), s.Balance.String(),
		s.SaleDate.Format(DateLayout), string(s.Status), s.Notes,
	}
}

// SaleFromRow decodes a Sales_Ledger data row. pos is the 1-based table row.
func SaleFromRow(row []string, pos int) Sale {
	row = padRow(row, len(recordstore.SalesLedgerHeaders))
	return Sale{
		SaleID:     row[0],
		ClientID:   row[1],
		ClientName: row[2],
		Phone:      row[3],
		Agent:      row[4],
		Location:   row[5],
		TotalPrice: parseAmount(row[6]),
		AmountPaid: parseAmount(row[7]),
		Balance:    parseAmount(row[8]),
		SaleDate:   parseDate(row[9]),
		Status:     SaleStatus(row[10]),
		Notes:      row[11],
		Row:        pos,
	}
}

func (t Transaction) Fields() []string {
	return []string{
		t.TransactionID, t.Date.Format(DateLayout), t.Agent, t.Location,
		t.ClientID, t.Amount.String(), string(t.PaymentType), t.Phone,
		t.SaleID, t.Notes,
	}
}

// TransactionFromRow decodes a Transactions data row.
func TransactionFromRow(row []string, pos int) Transaction {
	row = padRow(row, len(recordstore.TransactionHeaders))
	return Transaction{
		TransactionID: row[0],
		Date:          parseDate(row[1]),
		Agent:         row[2],
		Location:      row[3],
		ClientID:      row[4],
		Amount:        parseAmount(row[5]),
		PaymentType:   PaymentType(row[6]),
		Phone:         row[7],
		SaleID:        row[8],
		Notes:         row[9],
		Row:           pos,
	}
}

func (t Target) Fields() []string {
	return []string{
		intString(t.Year), string(t.PeriodType), intString(t.PeriodNumber),
		t.TargetAmount.String(), t.LastUpdated.Format(DateLayout), t.Notes,
	}
}

// TargetFromRow decodes a Targets data row.
func TargetFromRow(row []string, pos int) Target {
	row = padRow(row, len(recordstore.TargetHeaders))
	return Target{
		Year:         parseInt(row[0]),
		PeriodType:   PeriodType(row[1]),
		PeriodNumber: parseInt(row[2]),
		TargetAmount: parseAmount(row[3]),
		LastUpdated:  parseDate(row[4]),
		Notes:        row[5],
		Row:          pos,
	}
}
