package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "realtoros/internal/adapters/web"
	"realtoros/internal/ai"
	"realtoros/internal/app"
	"realtoros/internal/core"
	"realtoros/internal/recordstore"

	"github.com/joho/godotenv"
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

	var agent ai.AgentService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set, AI insights disabled")
	}

	svc := app.NewAppService(store, ledger, targets, agent)
	if err := svc.Refresh(ctx); err != nil {
		log.Fatalf("initial load: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret, adminPassword)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
