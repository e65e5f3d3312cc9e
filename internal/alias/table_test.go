package alias

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxcheck/domain/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTableJSON(t *testing.T) {
	path := writeFile(t, "aliases.json", `{
		"parameters": {"average_lux": ["em"], "uniformity": ["u0"]},
		"places": {"Lab": ["laboratory", "lab"]}
	}`)

	table, err := LoadTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"em"}, table.ParameterAliases("average_lux"))
	assert.Equal(t, "average_lux", table.Parameters[0].Canonical, "file groups sorted by name")
	assert.Nil(t, table.ParameterAliases("min_lux"))
	assert.Equal(t, DefaultTable().Fields, table.Fields, "missing section keeps defaults")

	place, ok := New(table).NormalizePlace("Chemistry laboratory")
	assert.True(t, ok)
	assert.Equal(t, "Lab", place)
}

func TestLoadTableYAML(t *testing.T) {
	path := writeFile(t, "aliases.yaml", `
fields:
  Em_r_lx: [target, lux]
  Uo: [uniformity]
ranges:
  - field: Uo
    max: 1
`)

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, table.Fields, 2)
	require.Len(t, table.Ranges, 1)

	n := New(table)
	assert.Equal(t, "Em_r_lx", n.NormalizeKey("Target"))
	assert.Equal(t, "UGR", n.NormalizeKey("UGR"), "groups replaced, not merged")

	v := n.ValidateLightingValues(core.FieldsOf("Uo", 2.0, "Ra", 500.0))
	assert.Equal(t, []string{"Uo 2 > 1"}, v.Issues)
}

func TestLoadTableErrors(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadTable(writeFile(t, "broken.json", `{"fields": [`))
	assert.Error(t, err)
}

func TestParameterAliases(t *testing.T) {
	table := DefaultTable()
	assert.Contains(t, table.ParameterAliases("average_lux"), "ē")
	assert.Contains(t, table.ParameterAliases("color_rendering_ra"), "cri")
}
