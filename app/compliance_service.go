package app

import (
	"context"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/verdict"
	"luxcheck/internal"
	"luxcheck/internal/design"
	"luxcheck/internal/errors"
	"luxcheck/models"
	"luxcheck/ports"
)

// ReportChecker produces the compliance result of one report
type ReportChecker interface {
	CheckCompliance(rec *report.Record) verdict.ComplianceResult
}

// ComplianceService runs compliance checks and keeps their history when a repository is configured
type ComplianceService struct {
	checker     ReportChecker
	runs        ports.ComplianceRunRepository
	source      string
	fingerprint core.Hash
	clock       core.Clock
	logger      *internal.Logger
}

// ServiceOption configures a ComplianceService
type ServiceOption func(*ComplianceService)

// WithRunRepository enables run persistence
func WithRunRepository(runs ports.ComplianceRunRepository) ServiceOption {
	return func(s *ComplianceService) { s.runs = runs }
}

// WithCatalogSource records which catalog produced the results
func WithCatalogSource(source string, fingerprint core.Hash) ServiceOption {
	return func(s *ComplianceService) {
		s.source = source
		s.fingerprint = fingerprint
	}
}

// WithServiceClock sets the clock used for run timestamps
func WithServiceClock(clock core.Clock) ServiceOption {
	return func(s *ComplianceService) { s.clock = clock }
}

// WithServiceLogger sets the service logger
func WithServiceLogger(logger *internal.Logger) ServiceOption {
	return func(s *ComplianceService) { s.logger = logger }
}

// NewComplianceService creates a compliance service. Without a repository it is stateless.
func NewComplianceService(checker ReportChecker, opts ...ServiceOption) *ComplianceService {
	s := &ComplianceService{
		checker: checker,
		clock:   core.SystemClock,
		logger:  internal.DefaultLogger.WithPrefix("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Persistent reports whether runs are stored
func (s *ComplianceService) Persistent() bool {
	return s.runs != nil
}

// Check runs the compliance check of rec and stores the run when persistence is on.
// The name identifies the report, usually its file name.
func (s *ComplianceService) Check(ctx context.Context, rec *report.Record, name string) (*models.ComplianceRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := s.checker.CheckCompliance(rec)

	run := &models.ComplianceRun{
		ID:                 core.NewRunID(),
		ReportName:         name,
		OverallCompliance:  result.OverallCompliance,
		CatalogFingerprint: s.fingerprint,
		Result:             result,
		Report:             rec,
		CreatedAt:          s.clock(),
	}
	if rec != nil {
		run.ProjectName = rec.Metadata.ProjectName
	}
	if result.Summary != nil {
		run.PassRate = result.Summary.PassRate
	}

	s.logger.Info("checked %q: %s (%d room results)", name, result.OverallCompliance, len(result.Checks))
	if result.OverallCompliance == verdict.StatusError {
		s.logger.Warn("compliance check of %q failed: %s", name, result.Error)
	}

	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			return nil, errors.Wrapf(err, "failed to store compliance run %s", run.ID)
		}
		s.logger.Debug("stored run %s", run.ID)
	}
	return run, nil
}

// Detailed runs Check and returns the report data alongside the result
func (s *ComplianceService) Detailed(ctx context.Context, rec *report.Record, name string) (*models.DetailedCheck, error) {
	run, err := s.Check(ctx, rec, name)
	if err != nil {
		return nil, err
	}
	return &models.DetailedCheck{
		RunID:         run.ID,
		ReportData:    rec,
		Compliance:    run.Result,
		CatalogSource: s.source,
	}, nil
}

// Design generates the report of a planned installation and checks it like an
// extracted one. The run is stored under the report title when persistence is on.
func (s *ComplianceService) Design(ctx context.Context, req design.Request) (*models.DesignReport, error) {
	rec, err := design.Generate(req)
	if err != nil {
		return nil, err
	}
	run, err := s.Check(ctx, rec, rec.Metadata.ReportTitle)
	if err != nil {
		return nil, err
	}
	return &models.DesignReport{
		ReportID:         run.ID,
		GeneratedAt:      run.CreatedAt,
		ReportData:       rec,
		ComplianceResult: run.Result,
		InputParameters:  req,
	}, nil
}

// Get returns a stored run
func (s *ComplianceService) Get(ctx context.Context, id core.RunID) (*models.ComplianceRun, error) {
	if s.runs == nil {
		return nil, errors.Unavailable("run history")
	}
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		if core.IsNotFoundError(err) && !errors.IsAppError(err) {
			return nil, errors.WithCode(errors.CodeNotFound, err)
		}
		return nil, err
	}
	return run, nil
}

// List returns the most recent stored runs
func (s *ComplianceService) List(ctx context.Context, limit int) ([]*models.ComplianceRun, error) {
	if s.runs == nil {
		return nil, errors.Unavailable("run history")
	}
	return s.runs.List(ctx, limit)
}

// Stats counts stored runs per overall status
func (s *ComplianceService) Stats(ctx context.Context) ([]models.StatusCount, error) {
	if s.runs == nil {
		return nil, errors.Unavailable("run history")
	}
	return s.runs.CountByStatus(ctx)
}
