// checkup verifies the record store schema: every table present, every header
// row matching the canonical headers. With -repair it rewrites bad header
// rows; with -init it creates missing tables first.
//
// Usage: go run ./cmd/checkup [-init] [-repair]
package main

import (
	"context"
	"flag"
	"log"

	"realtoros/internal/recordstore"

	"github.com/joho/godotenv"
)

func main() {
	initTables := flag.Bool("init", false, "create missing tables with canonical headers")
	repair := flag.Bool("repair", false, "rewrite mismatched header rows")
	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()
	store, err := recordstore.Open(ctx)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	log.Println("[CONNECT] success")

	if *initTables {
		if err := recordstore.Initialize(ctx, store); err != nil {
			log.Fatalf("[INIT] %v", err)
		}
		log.Println("[INIT] all tables present")
	}

	statuses, err := recordstore.CheckTables(ctx, store)
	if err != nil {
		log.Fatalf("[CHECK] %v", err)
	}
	bad := 0
	for _, st := range statuses {
		switch {
		case !st.Exists:
			bad++
			log.Printf("[CHECK] %-14s MISSING", st.Table)
		case !st.Match:
			bad++
			log.Printf("[CHECK] %-14s header mismatch: got %v", st.Table, st.Headers)
		default:
			log.Printf("[CHECK] %-14s ok (%d data rows)", st.Table, st.DataRows)
		}
	}

	if bad == 0 {
		log.Println("[DONE] schema is healthy")
		return
	}
	if !*repair {
		log.Fatalf("[DONE] %d table(s) need attention; rerun with -repair", bad)
	}

	if err := recordstore.RepairHeaders(ctx, store); err != nil {
		log.Fatalf("[REPAIR] %v", err)
	}
	log.Println("[REPAIR] headers rewritten")
	log.Println("[DONE] schema repaired")
}
