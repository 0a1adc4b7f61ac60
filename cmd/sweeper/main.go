package main

import (
	"context"
	"log"
	"time"

	"competency-hub/internal/app"
	"competency-hub/internal/config"
	"competency-hub/internal/database/migration"
	"competency-hub/internal/repository"
	"competency-hub/internal/sweep"
	"competency-hub/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{FS: migrations.FS}
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ledger := repository.NewPostgresEmployeeSkillRepository(c.DB)
	sweeper := sweep.NewSweeper(ledger, c.Notifier, log.Default())

	notified, err := sweeper.Run(ctx)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
	log.Printf("sweep done, %d notifications sent", notified)
}
