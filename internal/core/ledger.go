package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realtoros/internal/recordstore"
)

var (
	// ErrSaleNotFound is returned when no ledger row matches the sale ID.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrTransactionNotFound is returned when no row matches the transaction ID.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Sales_Ledger columns touched by a payment, 1-based.
const (
	colAmountPaid = 8
	colBalance    = 9
	colStatus     = 11
)

// DivergenceError reports a partial write: the first of two dependent writes
// succeeded and the second failed, leaving the Transactions and Sales_Ledger
// tables inconsistent. There is no compensating write or retry — callers must
// surface this loudly so the operator can reconcile by hand.
type DivergenceError struct {
	SaleID        string
	TransactionID string
	Err           error
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("ledger divergence: transaction %s recorded but sale %s not updated: %v",
		e.TransactionID, e.SaleID, e.Err)
}

func (e *DivergenceError) Unwrap() error { return e.Err }

// RowLocator supplies a cached sale ID → row position hint so the engine can
// skip the linear scan. The hint is verified against the live row before use;
// a stale hint falls back to scanning.
type RowLocator interface {
	SaleRow(saleID string) (int, bool)
}

// LedgerService maintains the arithmetic and state-machine correctness of
// sales and their derived transactions.
type LedgerService interface {
	CreateSale(ctx context.Context, req CreateSaleRequest) (*Sale, *Transaction, error)
	ImportHistoricalSale(ctx context.Context, req ImportSaleRequest) (*Sale, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*Transaction, *Sale, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	DeleteSale(ctx context.Context, saleID string) error
	ListSales(ctx context.Context) ([]Sale, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
	FindSale(ctx context.Context, saleID string) (*Sale, error)
}

// Ledger implements LedgerService over the record store. The store offers no
// transactions, so multi-write operations are sequential and non-atomic; the
// write order (transaction first, then ledger cells) matches the original
// bookkeeping flow and the divergence it can produce is reported as
// *DivergenceError.
type Ledger struct {
	store   recordstore.Store
	locator RowLocator
	now     func() time.Time
}

// NewLedger constructs a Ledger over the given store.
func NewLedger(store recordstore.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// SetRowLocator installs the row-position index maintained by the caller.
func (l *Ledger) SetRowLocator(loc RowLocator) { l.locator = loc }

// CreateSale appends a new sale and, when the initial payment is non-zero,
// exactly one "New Sale" transaction referencing it. A zero initial payment
// produces no transaction. The returned Transaction is nil in that case.
func (l *Ledger) CreateSale(ctx context.Context, req CreateSaleRequest) (*Sale, *Transaction, error) {
	req.Normalize(l.now())
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	saleDate, _ := time.Parse(DateLayout, req.SaleDate)

	balance := req.TotalPrice.Sub(req.InitialPayment)
	status := StatusInstallmentPlan
	if balance.IsZero() {
		status = StatusFullyPaid
	}

	sale := Sale{
		SaleID:     NewSaleID(l.now()),
		ClientID:   NewClientID(),
		ClientName: req.ClientName,
		Phone:      req.Phone,
		Agent:      req.Agent,
		Location:   req.Location,
		TotalPrice: req.TotalPrice,
		AmountPaid: req.InitialPayment,
		Balance:    balance,
		SaleDate:   saleDate,
		Status:     status,
		Notes:      req.Notes,
	}

	if err := l.store.AppendRow(ctx, recordstore.TableSalesLedger, sale.Fields()); err != nil {
		return nil, nil, fmt.Errorf("append sale: %w", err)
	}

	if !req.InitialPayment.IsPositive() {
		return &sale, nil, nil
	}

	txn := Transaction{
		TransactionID: NewTransactionID(),
		Date:          saleDate,
		Agent:         sale.Agent,
		Location:      sale.Location,
		ClientID:      sale.ClientID,
		Amount:        req.InitialPayment,
		PaymentType:   PaymentNewSale,
		Phone:         sale.Phone,
		SaleID:        sale.SaleID,
		Notes:         req.Notes,
	}
	if err := l.store.AppendRow(ctx, recordstore.TableTransactions, txn.Fields()); err != nil {
		// The sale row is already written; report the gap rather than
		// pretending the whole operation failed cleanly.
		return &sale, nil, &DivergenceError{SaleID: sale.SaleID, TransactionID: txn.TransactionID, Err: err}
	}
	return &sale, &txn, nil
}

// ImportHistoricalSale appends a sale carrying a legacy balance. No
// transaction is emitted for the already-paid portion, so current-period
// revenue is unaffected; only future payments count.
func (l *Ledger) ImportHistoricalSale(ctx context.Context, req ImportSaleRequest) (*Sale, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	saleDate, _ := time.Parse(DateLayout, req.OriginalSaleDate)

	notes := "[HISTORICAL IMPORT] Legacy sale imported into system"
	if req.Notes != "" {
		notes = "[HISTORICAL IMPORT] " + req.Notes
	}

	sale := Sale{
		SaleID:     NewLegacySaleID(l.now()),
		ClientID:   NewClientID(),
		ClientName: req.ClientName,
		Phone:      req.Phone,
		Agent:      req.Agent,
		Location:   req.Location,
		TotalPrice: req.TotalPrice,
		AmountPaid: req.AmountPaid,
		Balance:    req.TotalPrice.Sub(req.AmountPaid),
		SaleDate:   saleDate,
		Status:     StatusInstallmentPlan,
		Notes:      notes,
	}
	if err := l.store.AppendRow(ctx, recordstore.TableSalesLedger, sale.Fields()); err != nil {
		return nil, fmt.Errorf("append historical sale: %w", err)
	}
	return &sale, nil
}

// RecordPayment appends one "Installment" transaction and then updates the
// sale's Amount_Paid, Balance and Status cells in place. The two writes are
// independent network calls: if the cell updates fail after the transaction
// append succeeded, the returned error is a *DivergenceError.
func (l *Ledger) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*Transaction, *Sale, error) {
	req.Normalize(l.now())
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	paymentDate, _ := time.Parse(DateLayout, req.PaymentDate)

	sale, err := l.findSaleRow(ctx, req.SaleID)
	if err != nil {
		return nil, nil, err
	}
	if sale.Status == StatusFullyPaid {
		return nil, nil, validationf("sale %s is already fully paid", sale.SaleID)
	}
	if req.Amount.GreaterThan(sale.Balance) {
		return nil, nil, validationf("payment %s exceeds outstanding balance %s",
			req.Amount, sale.Balance)
	}

	txn := Transaction{
		TransactionID: NewTransactionID(),
		Date:          paymentDate,
		Agent:         sale.Agent,
		Location:      sale.Location,
		ClientID:      sale.ClientID,
		Amount:        req.Amount,
		PaymentType:   PaymentInstallment,
		Phone:         sale.Phone,
		SaleID:        sale.SaleID,
		Notes:         req.Notes,
	}
	if err := l.store.AppendRow(ctx, recordstore.TableTransactions, txn.Fields()); err != nil {
		return nil, nil, fmt.Errorf("append transaction: %w", err)
	}

	sale.AmountPaid = sale.AmountPaid.Add(req.Amount)
	sale.Balance = sale.TotalPrice.Sub(sale.AmountPaid)
	sale.Status = StatusInstallmentPlan
	if sale.Balance.IsZero() {
		sale.Status = StatusFullyPaid
	}

	updates := []struct {
		col   int
		value string
	}{
		{colAmountPaid, sale.AmountPaid.String()},
		{colBalance, sale.Balance.String()},
		{colStatus, string(sale.Status)},
	}
	for _, u := range updates {
		if err := l.store.UpdateCell(ctx, recordstore.TableSalesLedger, sale.Row, u.col, u.value); err != nil {
			return &txn, nil, &DivergenceError{SaleID: sale.SaleID, TransactionID: txn.TransactionID, Err: err}
		}
	}
	return &txn, sale, nil
}

// DeleteTransaction removes the matching Transactions row. It does NOT touch
// the Sales_Ledger: the sale's Amount_Paid and Balance keep counting the
// deleted payment. Destructive and irreversible.
func (l *Ledger) DeleteTransaction(ctx context.Context, transactionID string) error {
	return l.deleteByID(ctx, recordstore.TableTransactions, transactionID, ErrTransactionNotFound)
}

// DeleteSale removes the matching Sales_Ledger row. Related transactions are
// NOT deleted — the two tables can go out of sync by design.
func (l *Ledger) DeleteSale(ctx context.Context, saleID string) error {
	return l.deleteByID(ctx, recordstore.TableSalesLedger, saleID, ErrSaleNotFound)
}

func (l *Ledger) deleteByID(ctx context.Context, table, id string, notFound error) error {
	rows, err := l.store.ReadAll(ctx, table)
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	for i, row := range dataRows(rows) {
		if len(row) > 0 && row[0] == id {
			if err := l.store.DeleteRow(ctx, table, i+2); err != nil {
				return fmt.Errorf("delete row: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", id, notFound)
}

// ListSales returns every ledger row in table order.
func (l *Ledger) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := l.store.ReadAll(ctx, recordstore.TableSalesLedger)
	if err != nil {
		return nil, fmt.Errorf("read sales ledger: %w", err)
	}
	var sales []Sale
	for i, row := range dataRows(rows) {
		sales = append(sales, SaleFromRow(row, i+2))
	}
	return sales, nil
}

// ListTransactions returns every transaction row in table order.
func (l *Ledger) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := l.store.ReadAll(ctx, recordstore.TableTransactions)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	var txns []Transaction
	for i, row := range dataRows(rows) {
		txns = append(txns, TransactionFromRow(row, i+2))
	}
	return txns, nil
}

// FindSale returns the sale with the given ID, or ErrSaleNotFound.
func (l *Ledger) FindSale(ctx context.Context, saleID string) (*Sale, error) {
	return l.findSaleRow(ctx, saleID)
}

// findSaleRow locates the unique ledger row for a sale ID. The row locator
// hint is tried first and verified against the live data; on a miss or a
// stale hint the table is scanned.
func (l *Ledger) findSaleRow(ctx context.Context, saleID string) (*Sale, error) {
	rows, err := l.store.ReadAll(ctx, recordstore.TableSalesLedger)
	if err != nil {
		return nil, fmt.Errorf("read sales ledger: %w", err)
	}
	if l.locator != nil {
		if pos, ok := l.locator.SaleRow(saleID); ok && pos >= 2 && pos <= len(rows) {
			if row := rows[pos-1]; len(row) > 0 && row[0] == saleID {
				s := SaleFromRow(row, pos)
				return &s, nil
			}
		}
	}
	for i, row := range dataRows(rows) {
		if len(row) > 0 && row[0] == saleID {
			s := SaleFromRow(row, i+2)
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", saleID, ErrSaleNotFound)
}

// dataRows strips the header row.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
