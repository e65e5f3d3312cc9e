package testkit

import (
	"context"
	"sort"
	"sync"

	"luxcheck/domain/core"
	"luxcheck/domain/verdict"
	"luxcheck/models"
)

// MemoryRunRepository is an in-memory ports.ComplianceRunRepository
type MemoryRunRepository struct {
	mu   sync.Mutex
	runs map[core.RunID]*models.ComplianceRun

	// SaveErr, when set, is returned by every Save
	SaveErr error
}

// NewMemoryRunRepository creates an empty repository
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{runs: make(map[core.RunID]*models.ComplianceRun)}
}

func (m *MemoryRunRepository) Save(ctx context.Context, run *models.ComplianceRun) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *run
	m.runs[run.ID] = &stored
	return nil
}

func (m *MemoryRunRepository) Get(ctx context.Context, id core.RunID) (*models.ComplianceRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, core.NewNotFoundError("compliance run", id.String())
	}
	stored := *run
	return &stored, nil
}

func (m *MemoryRunRepository) List(ctx context.Context, limit int) ([]*models.ComplianceRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]*models.ComplianceRun, 0, len(m.runs))
	for _, run := range m.runs {
		stored := *run
		runs = append(runs, &stored)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MemoryRunRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[verdict.Status]int)
	for _, run := range m.runs {
		counts[run.OverallCompliance]++
	}
	out := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// Len returns the number of stored runs
func (m *MemoryRunRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}
