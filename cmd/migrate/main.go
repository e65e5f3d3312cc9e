package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"luxcheck/adapters/postgres"
	"luxcheck/domain/core"
	"luxcheck/domain/verdict"
	"luxcheck/internal/batch"
	"luxcheck/internal/migration"
	"luxcheck/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	var resultsDir string
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if len(os.Args) > 2 {
		resultsDir = os.Args[2]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> [batch_results_dir]  (or set DATABASE_URL)")
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", migrator.Version())

	if resultsDir == "" {
		return
	}

	// Import results written by `luxcheck batch --out`
	files, err := findResultFiles(resultsDir)
	if err != nil {
		log.Fatalf("Failed to find result files: %v", err)
	}
	log.Printf("Found %d result files to import", len(files))

	repo := postgres.NewComplianceRunRepository(db)
	imported := 0
	skipped := 0

	for _, file := range files {
		run, err := loadRunFromFile(file)
		if err != nil {
			log.Printf("Failed to load result from %s: %v", file, err)
			skipped++
			continue
		}

		if err := repo.Save(ctx, run); err != nil {
			log.Printf("Failed to save run %s: %v", run.ID, err)
			skipped++
			continue
		}

		imported++
		log.Printf("Imported run %s from %s", run.ID, filepath.Base(file))
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

func findResultFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, batch.OutputSuffix) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// loadRunFromFile builds a run from a stored result. The ID is derived from the file
// path so importing the same folder twice updates instead of duplicating.
func loadRunFromFile(filePath string) (*models.ComplianceRun, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var result verdict.ComplianceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}

	run := &models.ComplianceRun{
		ID:                core.RunID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()),
		ReportName:        strings.TrimSuffix(filepath.Base(filePath), batch.OutputSuffix) + ".json",
		OverallCompliance: result.OverallCompliance,
		Result:            result,
		CreatedAt:         result.Timestamp,
	}
	if result.Summary != nil {
		run.PassRate = result.Summary.PassRate
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return run, nil
}
