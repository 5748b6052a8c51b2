// seed loads demo data through the real ledger engine so every derived figure
// (balances, statuses, transactions) is produced by the same code paths the
// server uses. Intended for a fresh workbook or spreadsheet.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"time"

	"realtoros/internal/core"
	"realtoros/internal/recordstore"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	store, err := recordstore.Open(ctx)
	if err != nil {
		log.Fatalf("record store: %v", err)
	}
	if err := recordstore.Initialize(ctx, store); err != nil {
		log.Fatalf("initialize tables: %v", err)
	}

	ledger := core.NewLedger(store)
	targets := core.NewTargets(store)

	sales := []core.CreateSaleRequest{
		{ClientName: "Grace Wanjiku", Phone: "+254700111222", Agent: "Agent 1", Location: "Kitengela",
			TotalPrice: decimal.NewFromInt(1200000), InitialPayment: decimal.NewFromInt(400000),
			Notes: "Plot 14, phase 2"},
		{ClientName: "Peter Omondi", Phone: "+254711333444", Agent: "Agent 2", Location: "Juja Farm",
			TotalPrice: decimal.NewFromInt(850000), InitialPayment: decimal.NewFromInt(850000),
			Notes: "Cash buyer"},
		{ClientName: "Mary Njeri", Phone: "+254722555666", Agent: "Manager", Location: "Kitengela",
			TotalPrice: decimal.NewFromInt(2500000), InitialPayment: decimal.NewFromInt(500000)},
	}
	var openSaleID string
	for _, req := range sales {
		sale, _, err := ledger.CreateSale(ctx, req)
		if err != nil {
			log.Fatalf("create sale for %s: %v", req.ClientName, err)
		}
		log.Printf("created %s for %s (%s)", sale.SaleID, sale.ClientName, sale.Status)
		if sale.Status != core.StatusFullyPaid {
			openSaleID = sale.SaleID
		}
	}

	if openSaleID != "" {
		txn, sale, err := ledger.RecordPayment(ctx, core.RecordPaymentRequest{
			SaleID: openSaleID,
			Amount: decimal.NewFromInt(250000),
			Notes:  "First installment",
		})
		if err != nil {
			log.Fatalf("record payment: %v", err)
		}
		log.Printf("recorded %s against %s, balance now %s", txn.TransactionID, sale.SaleID, sale.Balance)
	}

	legacy := core.ImportSaleRequest{
		OriginalSaleDate: "2024-11-05",
		ClientName:       "Joseph Kiprop",
		Phone:            "+254733777888",
		Agent:            "Agent 1",
		Location:         "Ngong",
		TotalPrice:       decimal.NewFromInt(1800000),
		AmountPaid:       decimal.NewFromInt(900000),
		Notes:            "Carried over from the old register",
	}
	sale, err := ledger.ImportHistoricalSale(ctx, legacy)
	if err != nil {
		log.Fatalf("import historical sale: %v", err)
	}
	log.Printf("imported %s with outstanding balance %s", sale.SaleID, sale.Balance)

	txns, err := ledger.ListTransactions(ctx)
	if err != nil {
		log.Fatalf("list transactions: %v", err)
	}
	suggestion := core.SuggestTargets(txns, time.Now())
	rows, err := targets.QuickSetCurrentPeriod(ctx, suggestion, time.Now())
	if err != nil {
		log.Fatalf("quick-set targets: %v", err)
	}
	log.Printf("wrote %d target rows from suggestion", len(rows))

	log.Println("seed complete")
}
