package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxcheck/domain/core"
	"luxcheck/domain/verdict"
)

func TestLoadRunFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hall7_compliance.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"overall_compliance": "FAIL",
		"checks": [{"room": "Hall", "status": "FAIL"}],
		"summary": {"total_rooms": 1, "failed": 1, "pass_rate": 0},
		"timestamp": "2026-03-14T09:30:00Z"
	}`), 0o644))

	run, err := loadRunFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "hall7.json", run.ReportName)
	assert.Equal(t, verdict.StatusFail, run.OverallCompliance)
	assert.Equal(t, 2026, run.CreatedAt.Year())
	_, err = core.ParseRunID(run.ID.String())
	assert.NoError(t, err)

	again, err := loadRunFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, run.ID, again.ID)
}

func TestFindResultFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_compliance.json", "b.json", "batch_summary.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{}`), 0o644))
	}

	files, err := findResultFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a_compliance.json", filepath.Base(files[0]))
}
