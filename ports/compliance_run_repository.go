package ports

import (
	"context"

	"luxcheck/domain/core"
	"luxcheck/models"
)

// ComplianceRunRepository stores compliance runs
type ComplianceRunRepository interface {
	// Save inserts a run, replacing any run with the same ID
	Save(ctx context.Context, run *models.ComplianceRun) error

	// Get returns a run by ID, an error matching core.ErrNotFound when it does not exist
	Get(ctx context.Context, id core.RunID) (*models.ComplianceRun, error)

	// List returns the most recent runs first, at most limit
	List(ctx context.Context, limit int) ([]*models.ComplianceRun, error)

	// CountByStatus counts stored runs per overall status
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}
