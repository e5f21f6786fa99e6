package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/keirara04/labmarket-backend/internal/config"
	"github.com/keirara04/labmarket-backend/internal/db"
	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/server"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config load error: %v", err)
	}

	srv := server.New(nil, cfg, gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// Attach the DB in the background so /healthz answers while Cloud SQL
	// spins up.
	go func() {
		if cfg == nil {
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(
			&model.Listing{},
			&model.Transaction{},
			&model.Review{},
			&model.TrustLedgerEntry{},
			&model.Notification{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
