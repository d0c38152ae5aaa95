package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/config"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func init() {
	time.Local = time.UTC
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration files without executing them")
	dir := flag.String("dir", "migrations", "Directory containing migration SQL files")
	flag.Parse()

	_ = godotenv.Load()

	log := logger.L

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		log.Fatalf("failed to list migrations: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no migration files found in %s", *dir)
	}
	sort.Strings(files)

	if *dryRun {
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	db, err := sqlx.Connect("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	for _, f := range files {
		contents, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("failed to read %s: %v", f, err)
		}

		log.Infow("applying migration", "file", f)
		if _, err := db.Exec(string(contents)); err != nil {
			log.Fatalf("migration %s failed: %v", f, err)
		}
	}

	log.Infow("migrations applied", "count", len(files))
}
