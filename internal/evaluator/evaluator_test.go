package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/standard"
	"luxcheck/domain/verdict"
	"luxcheck/internal/alias"
	"luxcheck/internal/testkit"
)

func source(kv ...any) report.MeasurementSource {
	return report.MeasurementSource{Label: "scene:test", Values: core.FieldsOf(kv...)}
}

func TestEvaluateRoom(t *testing.T) {
	office := testkit.Requirement("Offices", "Office work", 500, 0.6, 0)

	tests := []struct {
		name       string
		record     standard.RequirementRecord
		values     report.MeasurementSource
		wantStatus verdict.Status
		wantChecks []string
	}{
		{"all compliant", office, source("average_lux", 600.0, "uniformity", 0.65), verdict.StatusPass, []string{"lux", "uniformity"}},
		{"lux fails", office, source("average_lux", 400.0, "uniformity", 0.65), verdict.StatusFail, []string{"lux", "uniformity"}},
		{"uniformity fails", office, source("average_lux", 600.0, "uniformity", 0.5), verdict.StatusFail, []string{"lux", "uniformity"}},
		{"exact boundary passes", office, source("average_lux", 500.0, "uniformity", 0.6), verdict.StatusPass, []string{"lux", "uniformity"}},
		{"no targets means no checks", testkit.Requirement("Misc", "Glare only", 0, 0, 0), source("average_lux", 1.0), verdict.StatusPass, nil},
	}

	e := New(alias.DefaultTable())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.record
			got := e.EvaluateRoom(testkit.Room("Room1", ""), "Office work", tt.values, &rec)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, "Room1", got.Room)
			assert.Equal(t, "Office work", got.UtilisationProfile)
			assert.Equal(t, "scene:test", got.MeasurementSource)
			require.NotNil(t, got.Standard)
			assert.Equal(t, rec.TaskOrActivity, got.Standard.TaskOrActivity)

			var names []string
			for name := range got.Checks {
				names = append(names, name)
			}
			assert.ElementsMatch(t, tt.wantChecks, names)
		})
	}
}

func TestMarginSign(t *testing.T) {
	e := New(alias.DefaultTable())
	rec := testkit.Requirement("Offices", "Office work", 500, 0.6, 80)

	for _, lux := range []float64{0, 120, 499.5, 500, 501, 2000} {
		got := e.EvaluateRoom(testkit.Room("R", ""), "Office work", source("average_lux", lux, "uniformity", 0.7, "CRI", 79.0), &rec)
		for name, check := range got.Checks {
			require.NotNil(t, check.Compliant, name)
			if *check.Compliant {
				assert.Equal(t, *check.Actual-check.Required, *check.Margin, name)
				assert.GreaterOrEqual(t, *check.Margin, 0.0, name)
			} else {
				assert.Equal(t, check.Required-*check.Actual, *check.Margin, name)
				assert.Greater(t, *check.Margin, 0.0, name)
			}
		}
	}
}

func TestScenarioBMargin(t *testing.T) {
	e := New(alias.DefaultTable())
	rec := testkit.Requirement("Offices", "Office work", 500, 0.6, 0)

	got := e.EvaluateRoom(testkit.Room("Room1", "Office work"), "Office work", source("average_lux", 400.0, "uniformity", 0.65), &rec)

	lux := got.Checks[verdict.ParamLux]
	assert.False(t, *lux.Compliant)
	assert.Equal(t, 100.0, *lux.Margin)
	assert.Equal(t, verdict.StatusFail, got.Status)
}

func TestColourRenderingIsInformational(t *testing.T) {
	e := New(alias.DefaultTable())
	rec := testkit.Requirement("Offices", "Office work", 500, 0.6, 80)

	t.Run("failing Ra keeps PASS", func(t *testing.T) {
		got := e.EvaluateRoom(testkit.Room("R", ""), "Office work", source("average_lux", 600.0, "uniformity", 0.7, "CRI", 60.0), &rec)

		ra := got.Checks[verdict.ParamRa]
		assert.Equal(t, verdict.StatusPass, got.Status)
		assert.False(t, *ra.Compliant)
		assert.Equal(t, 20.0, *ra.Margin)
		assert.True(t, *ra.Found)
		assert.Equal(t, "CRI", ra.Source)
		assert.Equal(t, "Found as CRI", ra.Note)
		assert.True(t, ra.Informational)
	})

	t.Run("missing Ra keeps PASS", func(t *testing.T) {
		got := e.EvaluateRoom(testkit.Room("R", ""), "Office work", source("average_lux", 600.0, "uniformity", 0.7), &rec)

		ra := got.Checks[verdict.ParamRa]
		assert.Equal(t, verdict.StatusPass, got.Status)
		assert.False(t, *ra.Found)
		assert.Nil(t, ra.Compliant)
		assert.Nil(t, ra.Actual)
		assert.Nil(t, ra.Margin)
		assert.Equal(t, "Ra/CRI not found in report (checked: cri, colour rendering, color rendering, cri_ra, ra)", ra.Note)
	})

	t.Run("literal parameter key", func(t *testing.T) {
		got := e.EvaluateRoom(testkit.Room("R", ""), "Office work", source("color_rendering_ra", 85.0), &rec)
		ra := got.Checks[verdict.ParamRa]
		assert.True(t, *ra.Compliant)
		assert.Equal(t, "color_rendering_ra", ra.Source)
	})
}

func TestShortAliasSubstringMatching(t *testing.T) {
	rec := testkit.Requirement("Offices", "Office work", 500, 0.6, 80)
	room := testkit.Room("R", "")

	t.Run("two letter alias is not a substring by default", func(t *testing.T) {
		got := New(alias.DefaultTable()).EvaluateRoom(room, "Office work", source("uniformity", 0.7, "Ra_avg", 85.0), &rec)

		ra := got.Checks[verdict.ParamRa]
		assert.False(t, *ra.Found)
		assert.Nil(t, ra.Actual)
	})

	t.Run("min length one matches every alias as a substring", func(t *testing.T) {
		e := New(alias.DefaultTable(), WithMinSubstringLength(1))
		got := e.EvaluateRoom(room, "Office work", source("uniformity", 0.7, "Ra_avg", 85.0), &rec)

		ra := got.Checks[verdict.ParamRa]
		require.True(t, *ra.Found)
		assert.Equal(t, 85.0, *ra.Actual)
		assert.Equal(t, "Ra_avg", ra.Source)
		assert.True(t, *ra.Compliant)
	})

	t.Run("min length one also reads ra inside average_lux", func(t *testing.T) {
		e := New(alias.DefaultTable(), WithMinSubstringLength(1))
		got := e.EvaluateRoom(room, "Office work", source("average_lux", 600.0, "Ra_avg", 85.0), &rec)

		ra := got.Checks[verdict.ParamRa]
		require.True(t, *ra.Found)
		assert.Equal(t, "average_lux", ra.Source)
	})
}

func TestMissingMandatoryValueCountsAsZero(t *testing.T) {
	e := New(alias.DefaultTable())
	rec := testkit.Requirement("Offices", "Office work", 500, 0.6, 0)

	got := e.EvaluateRoom(report.Room{}, "Office work", source("scene_name", "Empty"), &rec)

	lux := got.Checks[verdict.ParamLux]
	assert.Equal(t, verdict.StatusFail, got.Status)
	assert.Equal(t, UnknownRoom, got.Room)
	assert.Equal(t, 0.0, *lux.Actual)
	assert.Equal(t, 500.0, *lux.Margin)
	assert.False(t, *lux.Found)
	assert.NotEmpty(t, lux.Note)
}

func TestUpperIlluminanceFallback(t *testing.T) {
	e := New(alias.DefaultTable())
	rec := standard.RequirementRecord{TaskOrActivity: "Stage", EmRequired: testkit.Float(0), EmUpper: testkit.Float(750)}

	got := e.EvaluateRoom(testkit.Room("R", ""), "Stage", source("average_lux", 800.0), &rec)
	assert.Equal(t, 750.0, got.Checks[verdict.ParamLux].Required)
	assert.NotContains(t, got.Checks, verdict.ParamUniformity)
}

func TestLocatorFind(t *testing.T) {
	values := core.FieldsOf(
		"scene_name", "Hall",
		"Ē", 420.0,
		"Emin/Eavg", "0,55",
		"Average rating", 3.0,
		"broken_ra", nil,
		"CRI value", "n/a",
	)
	l := Locator{MinSubstringLength: DefaultMinSubstringLength}

	tests := []struct {
		name      string
		parameter string
		aliases   []string
		want      Lookup
	}{
		{"case-insensitive alias", "average_lux", []string{"ē", "eavg"}, Lookup{420, "Ē", true}},
		{"numeric string with comma", "uniformity", []string{"uniformity", "uo", "emin/eavg"}, Lookup{0.55, "Emin/Eavg", true}},
		{"short alias does not match inside keys", "color_rendering_ra", []string{"ra"}, Lookup{}},
		{"non numeric value skipped", "color_rendering_ra", []string{"cri"}, Lookup{}},
		{"substring match", "rating", []string{"rating"}, Lookup{3, "Average rating", true}},
		{"nothing registered", "max_lux", nil, Lookup{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Find(values, tt.parameter, tt.aliases))
		})
	}

	t.Run("short alias matches whole key", func(t *testing.T) {
		got := l.Find(core.FieldsOf("average_lux", 300.0, "Ra", 82.0), "color_rendering_ra", []string{"cri", "ra"})
		assert.Equal(t, Lookup{82, "Ra", true}, got)
	})

	t.Run("substring length can be lowered", func(t *testing.T) {
		got := Locator{MinSubstringLength: 1}.Find(core.FieldsOf("average_lux", 300.0), "color_rendering_ra", []string{"ra"})
		assert.Equal(t, Lookup{300, "average_lux", true}, got)
	})

	t.Run("empty values", func(t *testing.T) {
		assert.Equal(t, Lookup{}, l.Find(nil, "average_lux", []string{"lux"}))
	})
}
