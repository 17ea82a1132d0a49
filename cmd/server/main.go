package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "invoice-admin/internal/adapters/web"
	"invoice-admin/internal/app"
	"invoice-admin/internal/core"
	"invoice-admin/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	seq := core.NewSequenceStore(pool)
	creds := core.NewBcryptCredentials()
	directory := core.NewDirectoryService(pool, seq, creds)
	resolver := core.NewResolver(pool)
	ledger := core.NewLedgerService(pool)

	svc := app.NewAppService(directory, resolver, ledger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
