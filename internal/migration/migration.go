package migration

import (
	"context"

	"luxcheck/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.1.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createComplianceRunsTable(ctx, db); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to create compliance_runs table")
	}

	if err := r.addCatalogFingerprintColumn(ctx, db); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to add catalog_fingerprint column")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createComplianceRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS compliance_runs (
			id UUID PRIMARY KEY,
			report_name TEXT NOT NULL DEFAULT '',
			project_name TEXT NOT NULL DEFAULT '',
			overall_compliance VARCHAR(32) NOT NULL,
			pass_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			result JSONB NOT NULL,
			report JSONB,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// addCatalogFingerprintColumn upgrades 1.0.0 schemas, which did not record the catalog version
func (r *MigrationRunner) addCatalogFingerprintColumn(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		ALTER TABLE compliance_runs ADD COLUMN IF NOT EXISTS catalog_fingerprint VARCHAR(64) NOT NULL DEFAULT ''
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_compliance_runs_created_at ON compliance_runs (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_compliance_runs_status ON compliance_runs (overall_compliance)
	`)
	return err
}
