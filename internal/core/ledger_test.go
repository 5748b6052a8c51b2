package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"realtoros/internal/core"
	"realtoros/internal/recordstore"
)

func newTestStore(t *testing.T) *recordstore.MemoryStore {
	t.Helper()
	store := recordstore.NewMemoryStore()
	if err := recordstore.Initialize(context.Background(), store); err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	return store
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCreateSale_WithInitialPayment(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	sale, txn, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		Agent:          "Agent 1",
		Location:       "Kitengela",
		TotalPrice:     mustDecimal(t, "1200000"),
		InitialPayment: mustDecimal(t, "400000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !strings.HasPrefix(sale.SaleID, "SALE-") {
		t.Errorf("sale ID %q missing SALE- prefix", sale.SaleID)
	}
	if !strings.HasPrefix(sale.ClientID, "CLIENT-") {
		t.Errorf("client ID %q missing CLIENT- prefix", sale.ClientID)
	}
	if got := sale.Balance.String(); got != "800000" {
		t.Errorf("balance = %s, want 800000", got)
	}
	if sale.Status != core.StatusInstallmentPlan {
		t.Errorf("status = %s, want %s", sale.Status, core.StatusInstallmentPlan)
	}

	if txn == nil {
		t.Fatal("expected a New Sale transaction for a non-zero deposit")
	}
	if txn.PaymentType != core.PaymentNewSale {
		t.Errorf("payment type = %s, want %s", txn.PaymentType, core.PaymentNewSale)
	}
	if !txn.Amount.Equal(sale.AmountPaid) {
		t.Errorf("transaction amount %s != initial payment %s", txn.Amount, sale.AmountPaid)
	}
	if txn.SaleID != sale.SaleID {
		t.Errorf("transaction sale ID %q != %q", txn.SaleID, sale.SaleID)
	}

	txns, err := ledger.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("want exactly 1 transaction, got %d", len(txns))
	}
}

func TestCreateSale_ZeroDeposit(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	sale, txn, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName: "Peter Omondi",
		Phone:      "+254711333444",
		TotalPrice: mustDecimal(t, "850000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if txn != nil {
		t.Errorf("zero deposit must not emit a transaction, got %+v", txn)
	}
	if !sale.Balance.Equal(sale.TotalPrice) {
		t.Errorf("balance %s should equal total price %s", sale.Balance, sale.TotalPrice)
	}
	if sale.Status != core.StatusInstallmentPlan {
		t.Errorf("status = %s, want %s", sale.Status, core.StatusInstallmentPlan)
	}

	txns, _ := ledger.ListTransactions(ctx)
	if len(txns) != 0 {
		t.Errorf("want no transactions, got %d", len(txns))
	}
}

func TestCreateSale_FullPaymentUpfront(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)

	sale, txn, err := ledger.CreateSale(context.Background(), core.CreateSaleRequest{
		ClientName:     "Mary Njeri",
		Phone:          "+254722555666",
		TotalPrice:     mustDecimal(t, "850000"),
		InitialPayment: mustDecimal(t, "850000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if sale.Status != core.StatusFullyPaid {
		t.Errorf("status = %s, want %s", sale.Status, core.StatusFullyPaid)
	}
	if !sale.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", sale.Balance)
	}
	if txn == nil {
		t.Error("full upfront payment should still emit the New Sale transaction")
	}
}

func TestCreateSale_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  core.CreateSaleRequest
	}{
		{"missing client name", core.CreateSaleRequest{
			Phone: "+254700000000", TotalPrice: mustDecimal(t, "100")}},
		{"missing phone", core.CreateSaleRequest{
			ClientName: "X", TotalPrice: mustDecimal(t, "100")}},
		{"negative total", core.CreateSaleRequest{
			ClientName: "X", Phone: "+254700000000", TotalPrice: mustDecimal(t, "-1")}},
		{"deposit exceeds total", core.CreateSaleRequest{
			ClientName: "X", Phone: "+254700000000",
			TotalPrice: mustDecimal(t, "100"), InitialPayment: mustDecimal(t, "200")}},
		{"bad date", core.CreateSaleRequest{
			ClientName: "X", Phone: "+254700000000",
			TotalPrice: mustDecimal(t, "100"), SaleDate: "13/01/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ledger := core.NewLedger(store)
			_, _, err := ledger.CreateSale(context.Background(), tt.req)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("want ValidationError, got %v", err)
			}
			sales, _ := ledger.ListSales(context.Background())
			if len(sales) != 0 {
				t.Errorf("rejected request must not write rows, got %d sales", len(sales))
			}
		})
	}
}

func TestRecordPayment_PartialThenFinal(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	sale, _, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		TotalPrice:     mustDecimal(t, "1000000"),
		InitialPayment: mustDecimal(t, "400000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	txn, updated, err := ledger.RecordPayment(ctx, core.RecordPaymentRequest{
		SaleID: sale.SaleID,
		Amount: mustDecimal(t, "200000"),
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if txn.PaymentType != core.PaymentInstallment {
		t.Errorf("payment type = %s, want %s", txn.PaymentType, core.PaymentInstallment)
	}
	if got := updated.Balance.String(); got != "400000" {
		t.Errorf("balance = %s, want 400000", got)
	}
	if updated.Status != core.StatusInstallmentPlan {
		t.Errorf("status = %s, want %s", updated.Status, core.StatusInstallmentPlan)
	}

	// The ledger row itself must carry the new figures, not just the return value.
	reread, err := ledger.FindSale(ctx, sale.SaleID)
	if err != nil {
		t.Fatalf("FindSale: %v", err)
	}
	if got := reread.AmountPaid.String(); got != "600000" {
		t.Errorf("stored amount paid = %s, want 600000", got)
	}

	// Final installment flips the status.
	_, updated, err = ledger.RecordPayment(ctx, core.RecordPaymentRequest{
		SaleID: sale.SaleID,
		Amount: mustDecimal(t, "400000"),
	})
	if err != nil {
		t.Fatalf("final RecordPayment: %v", err)
	}
	if updated.Status != core.StatusFullyPaid {
		t.Errorf("status = %s, want %s", updated.Status, core.StatusFullyPaid)
	}
	if !updated.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", updated.Balance)
	}

	// Paying a settled sale is rejected.
	_, _, err = ledger.RecordPayment(ctx, core.RecordPaymentRequest{
		SaleID: sale.SaleID,
		Amount: mustDecimal(t, "1"),
	})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("payment on fully paid sale: want ValidationError, got %v", err)
	}
}

func TestRecordPayment_Overpayment(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	sale, _, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		TotalPrice:     mustDecimal(t, "1000000"),
		InitialPayment: mustDecimal(t, "400000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	before, _ := ledger.ListTransactions(ctx)

	_, _, err = ledger.RecordPayment(ctx, core.RecordPaymentRequest{
		SaleID: sale.SaleID,
		Amount: mustDecimal(t, "600001"),
	})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}

	// Rejection must leave both tables untouched.
	after, _ := ledger.ListTransactions(ctx)
	if len(after) != len(before) {
		t.Errorf("transaction count changed on rejected payment: %d -> %d", len(before), len(after))
	}
	reread, _ := ledger.FindSale(ctx, sale.SaleID)
	if !reread.Balance.Equal(sale.Balance) {
		t.Errorf("balance changed on rejected payment: %s -> %s", sale.Balance, reread.Balance)
	}
}

func TestRecordPayment_UnknownSale(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)

	_, _, err := ledger.RecordPayment(context.Background(), core.RecordPaymentRequest{
		SaleID: "SALE-19990101000000",
		Amount: mustDecimal(t, "100"),
	})
	if !errors.Is(err, core.ErrSaleNotFound) {
		t.Errorf("want ErrSaleNotFound, got %v", err)
	}
}

func TestImportHistoricalSale(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	sale, err := ledger.ImportHistoricalSale(ctx, core.ImportSaleRequest{
		OriginalSaleDate: "2024-11-05",
		ClientName:       "Joseph Kiprop",
		Phone:            "+254733777888",
		TotalPrice:       mustDecimal(t, "1800000"),
		AmountPaid:       mustDecimal(t, "900000"),
	})
	if err != nil {
		t.Fatalf("ImportHistoricalSale: %v", err)
	}
	if !strings.HasPrefix(sale.SaleID, "LEGACY-") {
		t.Errorf("sale ID %q missing LEGACY- prefix", sale.SaleID)
	}
	if !strings.HasPrefix(sale.Notes, "[HISTORICAL IMPORT] ") {
		t.Errorf("notes %q missing import marker", sale.Notes)
	}
	if got := sale.Balance.String(); got != "900000" {
		t.Errorf("balance = %s, want 900000", got)
	}

	// The already-paid portion never becomes revenue.
	txns, _ := ledger.ListTransactions(ctx)
	if len(txns) != 0 {
		t.Errorf("historical import must not emit transactions, got %d", len(txns))
	}

	// Payments against the imported sale work like any other.
	txn, updated, err := ledger.RecordPayment(ctx, core.RecordPaymentRequest{
		SaleID: sale.SaleID,
		Amount: mustDecimal(t, "900000"),
	})
	if err != nil {
		t.Fatalf("RecordPayment on legacy sale: %v", err)
	}
	if txn.PaymentType != core.PaymentInstallment {
		t.Errorf("payment type = %s, want %s", txn.PaymentType, core.PaymentInstallment)
	}
	if updated.Status != core.StatusFullyPaid {
		t.Errorf("status = %s, want %s", updated.Status, core.StatusFullyPaid)
	}
}

func TestImportHistoricalSale_RejectsSettled(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)

	_, err := ledger.ImportHistoricalSale(context.Background(), core.ImportSaleRequest{
		OriginalSaleDate: "2024-11-05",
		ClientName:       "Joseph Kiprop",
		Phone:            "+254733777888",
		TotalPrice:       mustDecimal(t, "1800000"),
		AmountPaid:       mustDecimal(t, "1800000"),
	})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("want ValidationError for zero remaining balance, got %v", err)
	}
}

func TestDeleteTransaction_LeavesSaleFigures(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	sale, txn, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		TotalPrice:     mustDecimal(t, "1000000"),
		InitialPayment: mustDecimal(t, "400000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if err := ledger.DeleteTransaction(ctx, txn.TransactionID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	txns, _ := ledger.ListTransactions(ctx)
	if len(txns) != 0 {
		t.Errorf("want 0 transactions after delete, got %d", len(txns))
	}

	// Deliberately non-cascading: the sale keeps counting the deleted payment.
	reread, _ := ledger.FindSale(ctx, sale.SaleID)
	if got := reread.AmountPaid.String(); got != "400000" {
		t.Errorf("amount paid = %s, want 400000 (untouched)", got)
	}

	if err := ledger.DeleteTransaction(ctx, txn.TransactionID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Errorf("second delete: want ErrTransactionNotFound, got %v", err)
	}
}

func TestDeleteSale_KeepsTransactions(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	sale, _, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		TotalPrice:     mustDecimal(t, "1000000"),
		InitialPayment: mustDecimal(t, "400000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if err := ledger.DeleteSale(ctx, sale.SaleID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if _, err := ledger.FindSale(ctx, sale.SaleID); !errors.Is(err, core.ErrSaleNotFound) {
		t.Errorf("want ErrSaleNotFound after delete, got %v", err)
	}
	txns, _ := ledger.ListTransactions(ctx)
	if len(txns) != 1 {
		t.Errorf("transactions must survive a sale delete, got %d", len(txns))
	}
}

// flakyStore fails cell updates while letting every other call through, to
// simulate the second half of a payment write dying mid-flight.
type flakyStore struct {
	recordstore.Store
	failUpdates bool
}

func (f *flakyStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if f.failUpdates {
		return errors.New("quota exceeded")
	}
	return f.Store.UpdateCell(ctx, table, row, col, value)
}

func TestRecordPayment_DivergenceOnUpdateFailure(t *testing.T) {
	inner := newTestStore(t)
	flaky := &flakyStore{Store: inner}
	ledger := core.NewLedger(flaky)
	ctx := context.Background()

	sale, _, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName:     "Grace Wanjiku",
		Phone:          "+254700111222",
		TotalPrice:     mustDecimal(t, "1000000"),
		InitialPayment: mustDecimal(t, "400000"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	flaky.failUpdates = true
	txn, _, err := ledger.RecordPayment(ctx, core.RecordPaymentRequest{
		SaleID: sale.SaleID,
		Amount: mustDecimal(t, "100000"),
	})

	var derr *core.DivergenceError
	if !errors.As(err, &derr) {
		t.Fatalf("want DivergenceError, got %v", err)
	}
	if derr.SaleID != sale.SaleID {
		t.Errorf("divergence sale ID = %q, want %q", derr.SaleID, sale.SaleID)
	}
	if txn == nil || derr.TransactionID != txn.TransactionID {
		t.Errorf("divergence must name the orphaned transaction")
	}

	// The orphan is really in the table while the sale kept its old figures.
	txns, _ := ledger.ListTransactions(ctx)
	if len(txns) != 2 {
		t.Errorf("want the orphaned transaction persisted, got %d transactions", len(txns))
	}
	reread, _ := ledger.FindSale(ctx, sale.SaleID)
	if got := reread.AmountPaid.String(); got != "400000" {
		t.Errorf("amount paid = %s, want 400000 (update failed)", got)
	}
}

// wrongLocator always points at the header row, which can never match a sale.
type wrongLocator struct{}

func (wrongLocator) SaleRow(string) (int, bool) { return 2, true }

func TestFindSale_StaleLocatorFallsBackToScan(t *testing.T) {
	store := newTestStore(t)
	ledger := core.NewLedger(store)
	ctx := context.Background()

	first, _, err := ledger.CreateSale(ctx, core.CreateSaleRequest{
		ClientName: "A", Phone: "1", TotalPrice: mustDecimal(t, "100"),
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	// Imported so the two IDs differ even within the same clock second.
	second, err := ledger.ImportHistoricalSale(ctx, core.ImportSaleRequest{
		OriginalSaleDate: "2024-01-15",
		ClientName:       "B", Phone: "2",
		TotalPrice: mustDecimal(t, "200"), AmountPaid: mustDecimal(t, "50"),
	})
	if err != nil {
		t.Fatalf("ImportHistoricalSale: %v", err)
	}

	// The locator claims every sale lives in row 2, which is only true for
	// the first one. Lookups for the second must still succeed via the scan.
	ledger.SetRowLocator(wrongLocator{})

	got, err := ledger.FindSale(ctx, second.SaleID)
	if err != nil {
		t.Fatalf("FindSale: %v", err)
	}
	if got.SaleID != second.SaleID {
		t.Errorf("found %q, want %q", got.SaleID, second.SaleID)
	}
	if got.SaleID == first.SaleID {
		t.Error("stale hint returned the wrong sale")
	}
}
