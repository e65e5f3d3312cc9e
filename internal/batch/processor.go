// Package batch checks every report of a folder concurrently and summarizes the outcome.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/verdict"
	"luxcheck/internal"
	"luxcheck/internal/errors"
	"luxcheck/models"
)

const (
	// OutputSuffix is appended to the report name of every written result
	OutputSuffix = "_compliance.json"
	// SummaryFile is written to the output directory after a batch
	SummaryFile = "batch_summary.json"

	DefaultWorkers = 4
)

// Checker runs one compliance check, usually app.ComplianceService
type Checker interface {
	Check(ctx context.Context, rec *report.Record, name string) (*models.ComplianceRun, error)
}

// FileResult is the outcome for one report file
type FileResult struct {
	File     string         `json:"file"`
	RunID    core.RunID     `json:"run_id,omitempty"`
	Status   verdict.Status `json:"status,omitempty"`
	PassRate *float64       `json:"pass_rate,omitempty"`
	Output   string         `json:"output,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// OK reports whether the file was checked
func (r FileResult) OK() bool {
	return r.Error == ""
}

// PassRateStats describes the pass rates of the checked reports
type PassRateStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary is the outcome of a batch
type Summary struct {
	ID           core.BatchID           `json:"batch_id"`
	Directory    string                 `json:"input_folder"`
	OutputDir    string                 `json:"output_folder,omitempty"`
	TotalFiles   int                    `json:"total_files"`
	Successful   int                    `json:"successful"`
	Failed       int                    `json:"failed"`
	StatusCounts map[verdict.Status]int `json:"status_counts"`
	PassRate     *PassRateStats         `json:"pass_rate,omitempty"`
	Duration     time.Duration          `json:"duration_ns"`
	Files        []FileResult           `json:"file_results"`
}

// Processor checks the reports of a directory with a bounded worker pool
type Processor struct {
	checker Checker
	workers int
	outDir  string
	logger  *internal.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithWorkers bounds the number of reports checked concurrently
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithOutputDir writes each result and the batch summary into dir
func WithOutputDir(dir string) Option {
	return func(p *Processor) { p.outDir = dir }
}

// WithLogger sets the processor logger
func WithLogger(logger *internal.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// NewProcessor creates a batch processor
func NewProcessor(checker Checker, opts ...Option) *Processor {
	p := &Processor{
		checker: checker,
		workers: DefaultWorkers,
		logger:  internal.DefaultLogger.WithPrefix("batch"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReportFiles lists the report files of dir in name order. Earlier outputs are skipped.
func ReportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		if strings.HasSuffix(name, OutputSuffix) || name == SummaryFile {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// ProcessDir checks every report of dir. A report that cannot be read or checked is
// recorded in the summary and does not stop the batch; only cancellation does.
func (p *Processor) ProcessDir(ctx context.Context, dir string) (*Summary, error) {
	start := time.Now()

	files, err := ReportFiles(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list reports in %s", dir)
	}

	if p.outDir != "" {
		if err := os.MkdirAll(p.outDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create output directory %s", p.outDir)
		}
	}

	p.logger.Info("checking %d reports in %s with %d workers", len(files), dir, p.workers)

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.processFile(gctx, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := summarize(results)
	summary.ID = core.NewBatchID()
	summary.Directory = dir
	summary.OutputDir = p.outDir
	summary.Duration = time.Since(start)

	if p.outDir != "" {
		if err := writeJSON(filepath.Join(p.outDir, SummaryFile), summary); err != nil {
			return nil, err
		}
	}

	p.logger.Info("batch finished: %d checked, %d failed in %s", summary.Successful, summary.Failed, summary.Duration)
	return summary, nil
}

func (p *Processor) processFile(ctx context.Context, path string) FileResult {
	name := filepath.Base(path)
	result := FileResult{File: name}

	rec, err := report.ReadFile(path)
	if err != nil {
		p.logger.Warn("skipping %s: %v", name, err)
		result.Error = err.Error()
		return result
	}

	run, err := p.checker.Check(ctx, rec, name)
	if err != nil {
		p.logger.Warn("check of %s failed: %v", name, err)
		result.Error = err.Error()
		return result
	}

	result.RunID = run.ID
	result.Status = run.OverallCompliance
	if run.Result.Summary != nil {
		rate := run.Result.Summary.PassRate
		result.PassRate = &rate
	}

	if p.outDir != "" {
		out := filepath.Join(p.outDir, strings.TrimSuffix(name, filepath.Ext(name))+OutputSuffix)
		if err := writeJSON(out, run.Result); err != nil {
			result.Error = err.Error()
			return result
		}
		result.Output = out
	}

	p.logger.Debug("%s: %s", name, run.OverallCompliance)
	return result
}

func summarize(results []FileResult) *Summary {
	s := &Summary{
		TotalFiles:   len(results),
		StatusCounts: make(map[verdict.Status]int),
		Files:        results,
	}

	var rates []float64
	for _, r := range results {
		if !r.OK() {
			s.Failed++
			continue
		}
		s.Successful++
		s.StatusCounts[r.Status]++
		if r.PassRate != nil {
			rates = append(rates, *r.PassRate)
		}
	}

	if len(rates) > 0 {
		s.PassRate = passRateStats(rates)
	}
	return s
}

// passRateStats ignores library errors, which only occur on empty input
func passRateStats(rates []float64) *PassRateStats {
	mean, _ := stats.Mean(rates)
	median, _ := stats.Median(rates)
	minimum, _ := stats.Min(rates)
	maximum, _ := stats.Max(rates)
	return &PassRateStats{
		Mean:   mean,
		Median: median,
		Min:    minimum,
		Max:    maximum,
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
