package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
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

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	r := migration.Runner{FS: migrations.FS}
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		migCancel()
		log.Fatalf("migration failed: %v", err)
	}
	migCancel()

	bootstrap, cleanup, err := app.Bootstrap(c)
	if err != nil {
		log.Fatalf("failed to bootstrap app: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	ledger := repository.NewPostgresEmployeeSkillRepository(c.DB)
	sweeper := sweep.NewSweeper(ledger, c.Notifier, log.Default())
	scheduler := sweep.NewScheduler(sweeper, cfg.Sweep.Interval, log.Default())
	go scheduler.Start(sweepCtx)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-sigCh:
		sweepCancel()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
