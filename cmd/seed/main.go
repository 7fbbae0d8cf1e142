// Command seed creates the database schema and seeds the configured admin
// allow-list. Safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-group-transfer/internal/config"
	pg "telegram-group-transfer/internal/infra/db/postgres"
	"telegram-group-transfer/internal/infra/logging"
	"telegram-group-transfer/internal/usecase"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		user_id    BIGINT PRIMARY KEY,
		username   TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		added_by   BIGINT NOT NULL DEFAULT 0,
		added_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS transfer_runs (
		id            UUID PRIMARY KEY,
		job_id        TEXT NOT NULL UNIQUE,
		requester_id  BIGINT NOT NULL,
		source        TEXT NOT NULL,
		target        TEXT NOT NULL,
		state         TEXT NOT NULL,
		total_scraped INT NOT NULL DEFAULT 0,
		succeeded     INT NOT NULL DEFAULT 0,
		skipped       INT NOT NULL DEFAULT 0,
		failed        INT NOT NULL DEFAULT 0,
		started_at    TIMESTAMPTZ NOT NULL,
		finished_at   TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_transfer_runs_requester
		ON transfer_runs (requester_id, started_at DESC);`,
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("schema statement %d: %v", i+1, err)
		}
	}

	adminRepo := pg.NewAdminRepo(pool)
	adminUC := usecase.NewAdminUseCase(adminRepo, logger)
	if err := adminUC.Seed(ctx, cfg.Bot.AdminIDs); err != nil {
		log.Fatalf("seed admins: %v", err)
	}

	admins, err := adminUC.List(ctx)
	if err != nil {
		log.Fatalf("list admins: %v", err)
	}
	fmt.Printf("schema ready, %d admin(s) present\n", len(admins))
}
