package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxcheck/adapters/excel"
	"luxcheck/domain/standard"
	"luxcheck/internal"
	"luxcheck/internal/alias"
)

func newLoader(t *testing.T) (*Loader, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := internal.NewLoggerTo(&logs, internal.LogLevelWarn)
	return NewLoader(alias.New(alias.DefaultTable()), WithLogger(logger)), &logs
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		status   Status
		records  int
		warnings int
		metadata bool
	}{
		{"bare list", `[{"task_or_activity": "Office work", "Em_r_lx": 500, "Uo": 0.6}]`, StatusOK, 1, 0, false},
		{"wrapped list", `{"version": "EN 12464-1", "standards": [{"task": "Storage areas", "lux": 100}]}`, StatusOK, 1, 0, true},
		{"empty list", `[]`, StatusEmpty, 0, 1, false},
		{"wrapped empty list", `{"standards": []}`, StatusEmpty, 0, 1, false},
		{"object without standards", `{"rooms": []}`, StatusUnrecognized, 0, 1, false},
		{"standards not a list", `{"standards": {"a": 1}}`, StatusUnrecognized, 0, 1, false},
		{"scalar document", `42`, StatusUnrecognized, 0, 1, false},
		{"broken json", `[{"task":`, StatusParseError, 0, 1, false},
		{"blank input", `   `, StatusParseError, 0, 1, false},
		{"non object items skipped", `[1, "x", {"task_or_activity": "Office work", "Em_r_lx": 500}]`, StatusOK, 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newLoader(t)
			out := loader.Load([]byte(tt.data))

			require.NotNil(t, out.Catalog)
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, tt.records, out.Catalog.Len())
			assert.Len(t, out.Warnings, tt.warnings)
			assert.Equal(t, tt.metadata, out.Catalog.Metadata != nil)
		})
	}
}

func TestLoadNormalizesAndValidates(t *testing.T) {
	loader, _ := newLoader(t)
	out := loader.Load([]byte(`[
		{"Ref": "5.26.2", "Activity": "Writing, typing", "Lux": "500", "Uniformity": 0.6, "UGR": 19, "CRI": 80},
		{"task_or_activity": "Broken", "Em_r_lx": 500, "Ra": 180}
	]`))
	require.Equal(t, StatusOK, out.Status)
	require.Equal(t, 2, out.Catalog.Len())

	first := out.Catalog.Standards[0]
	assert.Equal(t, "5.26.2", first.RefNo)
	assert.Equal(t, "Writing, typing", first.TaskOrActivity)
	assert.Equal(t, 500.0, *first.EmRequired)
	assert.Equal(t, 0.6, *first.Uniformity)
	assert.Equal(t, 19.0, *first.Glare)
	assert.Equal(t, 80.0, *first.Ra)
	assert.False(t, first.NeedsReview)

	second := out.Catalog.Standards[1]
	assert.Nil(t, second.Ra)
	assert.True(t, second.NeedsReview)
	assert.Equal(t, []string{"Ra 180 > 100"}, second.ValidationIssues)
	assert.Equal(t, 1, out.Catalog.Stats().NeedingReview)
}

func TestLoadFingerprint(t *testing.T) {
	loader, _ := newLoader(t)
	a := loader.Load([]byte(`[{"task_or_activity": "A", "Em_r_lx": 100}]`))
	b := loader.Load([]byte(`[{"task_or_activity": "A", "Em_r_lx": 100}]`))
	c := loader.Load([]byte(`[{"task_or_activity": "B", "Em_r_lx": 100}]`))

	assert.False(t, a.Catalog.Fingerprint.IsEmpty())
	assert.Equal(t, a.Catalog.Fingerprint, b.Catalog.Fingerprint)
	assert.NotEqual(t, a.Catalog.Fingerprint, c.Catalog.Fingerprint)
}

func TestLoadLogsWarnings(t *testing.T) {
	loader, logs := newLoader(t)
	loader.Load([]byte(`{"rooms": []}`))
	assert.Contains(t, logs.String(), "[WARN] unrecognized standards format")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(dir, "standards.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"task_or_activity": "Office work", "Em_r_lx": 500}]`), 0o644))

		loader, _ := newLoader(t)
		out := loader.LoadFile(path)
		assert.Equal(t, StatusOK, out.Status)
		assert.Equal(t, path, out.Source)
	})

	t.Run("missing file", func(t *testing.T) {
		loader, _ := newLoader(t)
		out := loader.LoadFile(filepath.Join(dir, "missing.json"))
		assert.Equal(t, StatusReadError, out.Status)
		assert.Equal(t, 0, out.Catalog.Len())
	})

	t.Run("csv with alias headers", func(t *testing.T) {
		path := filepath.Join(dir, "standards.csv")
		content := "Task,Lux,Uniformity,UGR\nOffice work,500,0.6,19\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		loader, _ := newLoader(t)
		out := loader.LoadFile(path)
		require.Equal(t, StatusOK, out.Status)
		rec := out.Catalog.Standards[0]
		assert.Equal(t, "Office work", rec.TaskOrActivity)
		assert.Equal(t, 0.6, *rec.Uniformity)
	})

	t.Run("xlsx export round trip", func(t *testing.T) {
		path := filepath.Join(dir, "standards.xlsx")
		em, uo := 300.0, 0.4
		require.NoError(t, excel.ExportStandards(path, []standard.RequirementRecord{
			{TaskOrActivity: "General assembly work", EmRequired: &em, Uniformity: &uo},
		}))

		loader, _ := newLoader(t)
		out := loader.LoadFile(path)
		require.Equal(t, StatusOK, out.Status)
		assert.Equal(t, "General assembly work", out.Catalog.Standards[0].TaskOrActivity)
		assert.Equal(t, 300.0, *out.Catalog.Standards[0].EmRequired)
	})
}
