package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"competency-hub/internal/app"
	"competency-hub/internal/config"
	"competency-hub/internal/database/migration"
	"competency-hub/internal/importer"
	"competency-hub/internal/repository"
	"competency-hub/migrations"
)

func main() {
	file := flag.String("file", "", "path to the role library CSV export")
	source := flag.String("source", "role_library_csv", "import source label recorded on each profile")
	flag.Parse()

	path := strings.TrimSpace(*file)
	if path == "" {
		log.Fatalf("provide -file with the CSV export path")
	}

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

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	lib, err := importer.Parse(f, strings.TrimSpace(*source), time.Now().UTC())
	if err != nil {
		log.Fatalf("failed to parse role library: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	loader := importer.NewLoader(
		repository.NewPostgresSkillRepository(c.DB),
		repository.NewPostgresRoleProfileRepository(c.DB),
		repository.NewPostgresLevelRepository(c.DB),
		log.Default(),
	)

	stats, err := loader.Load(ctx, lib)
	if err != nil {
		log.Fatalf("failed to load role library: %v", err)
	}
	log.Printf("import done, skills=%d roles=%d lines=%d skipped=%d", stats.Skills, stats.Roles, stats.Lines, stats.SkippedLines)
}
