package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"luxcheck/domain/core"
)

func TestUsageReport(t *testing.T) {
	n := New(DefaultTable())
	records := []*core.Fields{
		core.FieldsOf("Lux", 500.0, "UGR", 19.0, "comment_x", "a"),
		core.FieldsOf("Em_r_lx", 300.0, "illuminance", 200.0),
		core.FieldsOf("ugr", 22.0),
	}

	u := n.UsageReport(records)

	assert.Equal(t, 3, u.TotalRecords)
	assert.Equal(t, []string{"Em_r_lx", "RUGL"}, u.CanonicalFieldsFound)
	assert.Equal(t, 3, u.FieldUsage["Em_r_lx"])
	assert.Equal(t, 2, u.FieldUsage["RUGL"])
	assert.Equal(t, []string{"Lux", "illuminance"}, u.AliasMappings["Em_r_lx"])
	assert.Equal(t, []string{"UGR", "ugr"}, u.AliasMappings["RUGL"])
	assert.NotContains(t, u.FieldUsage, "comment_x")
}
