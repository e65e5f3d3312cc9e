package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/internal/errors"
	"luxcheck/models"
	"luxcheck/ports"

	"github.com/jmoiron/sqlx"
)

// DefaultListLimit caps List when the caller passes no limit
const DefaultListLimit = 50

// ComplianceRunRepositoryImpl implements ComplianceRunRepository for PostgreSQL
type ComplianceRunRepositoryImpl struct {
	db *sqlx.DB
}

// NewComplianceRunRepository creates a new PostgreSQL compliance run repository
func NewComplianceRunRepository(db *sqlx.DB) ports.ComplianceRunRepository {
	return &ComplianceRunRepositoryImpl{db: db}
}

const selectRunColumns = `
	SELECT id, report_name, project_name, overall_compliance, pass_rate, catalog_fingerprint, result, report, created_at
	FROM compliance_runs
`

// Save inserts a run, replacing any run with the same ID
func (r *ComplianceRunRepositoryImpl) Save(ctx context.Context, run *models.ComplianceRun) error {
	result, err := json.Marshal(run.Result)
	if err != nil {
		return errors.Wrap(err, "failed to encode compliance result")
	}

	var reportJSON []byte
	if run.Report != nil {
		if reportJSON, err = json.Marshal(run.Report); err != nil {
			return errors.Wrap(err, "failed to encode report")
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO compliance_runs (id, report_name, project_name, overall_compliance, pass_rate, catalog_fingerprint, result, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			report_name = EXCLUDED.report_name,
			project_name = EXCLUDED.project_name,
			overall_compliance = EXCLUDED.overall_compliance,
			pass_rate = EXCLUDED.pass_rate,
			catalog_fingerprint = EXCLUDED.catalog_fingerprint,
			result = EXCLUDED.result,
			report = EXCLUDED.report
	`, run.ID, run.ReportName, run.ProjectName, run.OverallCompliance, run.PassRate,
		run.CatalogFingerprint, result, nullableJSON(reportJSON), run.CreatedAt)
	if err != nil {
		return dbError(err, "failed to save compliance run")
	}
	return nil
}

// Get returns a run by ID
func (r *ComplianceRunRepositoryImpl) Get(ctx context.Context, id core.RunID) (*models.ComplianceRun, error) {
	row := r.db.QueryRowxContext(ctx, selectRunColumns+` WHERE id = $1`, id)

	run, err := scanRun(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithCode(errors.CodeNotFound, core.NewNotFoundError("compliance run", id.String()))
	}
	if err != nil {
		return nil, dbError(err, "failed to load compliance run")
	}
	return run, nil
}

// List returns the most recent runs first
func (r *ComplianceRunRepositoryImpl) List(ctx context.Context, limit int) ([]*models.ComplianceRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryxContext(ctx, selectRunColumns+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, dbError(err, "failed to list compliance runs")
	}
	defer rows.Close()

	runs := make([]*models.ComplianceRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, dbError(err, "failed to read compliance run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to list compliance runs")
	}
	return runs, nil
}

// CountByStatus counts stored runs per overall status
func (r *ComplianceRunRepositoryImpl) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT overall_compliance, COUNT(*) AS count
		FROM compliance_runs
		GROUP BY overall_compliance
		ORDER BY overall_compliance
	`)
	if err != nil {
		return nil, dbError(err, "failed to count compliance runs")
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*models.ComplianceRun, error) {
	var run models.ComplianceRun
	var result, reportJSON []byte
	err := row.Scan(
		&run.ID,
		&run.ReportName,
		&run.ProjectName,
		&run.OverallCompliance,
		&run.PassRate,
		&run.CatalogFingerprint,
		&result,
		&reportJSON,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(result, &run.Result); err != nil {
		return nil, errors.Wrap(err, "failed to decode compliance result")
	}
	if len(reportJSON) > 0 {
		run.Report = new(report.Record)
		if err := json.Unmarshal(reportJSON, run.Report); err != nil {
			return nil, errors.Wrap(err, "failed to decode report")
		}
	}
	return &run, nil
}

// nullableJSON stores absent documents as SQL NULL
func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return data
}

func dbError(err error, message string) error {
	if errors.IsAppError(err) {
		return errors.Wrap(err, message)
	}
	return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), message)
}
