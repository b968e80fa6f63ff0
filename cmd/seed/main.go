// Command seed populates the sandbox tables and the assignment content
// store. Run once before first start, or whenever fixtures change.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ciphersql/sandbox/internal/config"
	"github.com/ciphersql/sandbox/internal/db"
	"github.com/ciphersql/sandbox/internal/seed"
	"github.com/ciphersql/sandbox/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dir := cfg.SeedDir
	if cfg.SeedBucket != "" {
		tmp, err := os.MkdirTemp("", "ciphersql-seed-")
		if err != nil {
			log.Fatalf("temp dir: %v", err)
		}
		defer os.RemoveAll(tmp)

		if err := seed.FetchBucket(ctx, cfg, tmp); err != nil {
			log.Fatalf("fetch fixtures: %v", err)
		}
		dir = tmp
	}

	// Sandbox tables
	pool, err := pgxpool.New(ctx, cfg.SandboxURL)
	if err != nil {
		log.Fatalf("sandbox open: %v", err)
	}
	defer pool.Close()

	scripts, err := seed.Scripts(dir)
	if err != nil {
		log.Fatalf("list scripts: %v", err)
	}
	for _, script := range scripts {
		sql, err := os.ReadFile(script)
		if err != nil {
			log.Fatalf("read %s: %v", script, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			log.Fatalf("apply %s: %v", script, err)
		}
		log.Printf("applied %s", filepath.Base(script))
	}

	// Assignment fixtures
	fixturePath := filepath.Join(dir, "assignments.yaml")
	assignments, err := seed.LoadAssignments(fixturePath)
	if err != nil {
		log.Fatalf("load assignments: %v", err)
	}

	content, err := db.OpenContent(cfg.ContentDBPath)
	if err != nil {
		log.Fatalf("content store open: %v", err)
	}
	defer content.Close()

	if err := db.MigrateContent(content); err != nil {
		log.Fatalf("content store migrate: %v", err)
	}
	if err := service.NewAssignmentService(content).ReplaceAll(ctx, assignments); err != nil {
		log.Fatalf("replace assignments: %v", err)
	}

	log.Printf("seed complete: %d scripts, %d assignments", len(scripts), len(assignments))
}
