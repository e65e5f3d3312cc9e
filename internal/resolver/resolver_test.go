package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxcheck/domain/standard"
	"luxcheck/internal/testkit"
)

func TestResolveRules(t *testing.T) {
	exactNoUo := testkit.Requirement("Offices", "Reception desk", 300, 0, 80)
	exactWithUo := testkit.Requirement("Offices", "Reception desk", 300, 0.6, 80)
	noLighting := testkit.Requirement("Misc", "Plant room", 0, 0, 0)
	partial := testkit.Requirement("Educational buildings", "Classrooms, tutorial rooms", 500, 0.6, 80)
	industrialNoUo := testkit.Requirement("Industrial", "Warehouse picking", 150, 0, 0)
	generic := testkit.Requirement("Offices", "Writing, typing, office tasks", 500, 0.6, 80)
	onlyUo := testkit.Requirement("Health care", "Examination", 1000, 0.7, 90)

	tests := []struct {
		name     string
		catalog  []standard.RequirementRecord
		profile  string
		wantTask string
		wantRule Rule
	}{
		{"exact with uniformity preferred over earlier exact", []standard.RequirementRecord{exactNoUo, exactWithUo}, "reception DESK", "Reception desk", RuleExactUniformity},
		{"exact without uniformity", []standard.RequirementRecord{noLighting, exactNoUo}, "Reception desk", "Reception desk", RuleExact},
		{"exact record without lighting is skipped", []standard.RequirementRecord{testkit.Requirement("Misc", "Plant room", 0, 0, 0), onlyUo}, "Plant room", "Examination", RuleLastResort},
		{"partial substring of task", []standard.RequirementRecord{partial}, "tutorial", "Classrooms, tutorial rooms", RulePartialUniformity},
		{"partial substring of category", []standard.RequirementRecord{partial}, "educational", "Classrooms, tutorial rooms", RulePartialUniformity},
		{"partial token match", []standard.RequirementRecord{partial}, "Chemistry classrooms", "Classrooms, tutorial rooms", RulePartialUniformity},
		{"domain keyword without uniformity", []standard.RequirementRecord{industrialNoUo, onlyUo}, "Factory floor", "Warehouse picking", RuleDomainKeyword},
		{"generic activity", []standard.RequirementRecord{industrialNoUo, generic}, "Lobby", "Writing, typing, office tasks", RuleGenericActivity},
		{"last resort", []standard.RequirementRecord{exactNoUo, onlyUo}, "Underwater Basket Weaving Room", "Examination", RuleLastResort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := New(testkit.Catalog(tt.catalog...)).Resolve(tt.profile)
			require.True(t, ok)
			assert.Equal(t, tt.wantTask, m.Record.TaskOrActivity)
			assert.Equal(t, tt.wantRule, m.Rule)
		})
	}
}

func TestExactUniformityBeatsPartial(t *testing.T) {
	// The partial candidate comes first in the catalog and lacks a uniformity target.
	partialNoUo := testkit.Requirement("Offices", "Office work areas", 500, 0, 80)
	exact := testkit.Requirement("Offices", "Office work", 500, 0.6, 80)

	m, ok := New(testkit.Catalog(partialNoUo, exact)).Resolve("Office work")
	require.True(t, ok)
	assert.Equal(t, RuleExactUniformity, m.Rule)
	assert.Equal(t, "Office work", m.Record.TaskOrActivity)
}

func TestResolveNoMatch(t *testing.T) {
	noUniformity := testkit.Catalog(
		testkit.Requirement("Offices", "Reception desk", 300, 0, 80),
		testkit.Requirement("Misc", "Plant room", 0, 0, 0),
	)

	tests := []struct {
		name    string
		catalog *standard.Catalog
		profile string
	}{
		{"nil catalog", nil, "Office work"},
		{"empty catalog", testkit.Catalog(), "Office work"},
		{"no uniformity record to fall back to", noUniformity, "Underwater Basket Weaving Room"},
		{"blank profile", testkit.StandardCatalog(), "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.catalog)
			_, ok := r.Resolve(tt.profile)
			assert.False(t, ok)
			assert.Nil(t, r.FindMatchingStandard(tt.profile))
		})
	}
}

func TestResolveStandardCatalog(t *testing.T) {
	r := New(testkit.StandardCatalog())

	tests := []struct {
		profile  string
		wantTask string
	}{
		{"Office work", "Office work"},
		{"General assembly work", "General assembly work"},
		{"Traffic zones inside buildings - Corridors", "Traffic zones inside buildings - Corridors"},
		{"Storage areas", "Storage areas"},
		{"General lighting", "General assembly work"},
		{"Underwater Basket Weaving Room", "Office work"},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			rec := r.FindMatchingStandard(tt.profile)
			require.NotNil(t, rec)
			assert.Equal(t, tt.wantTask, rec.TaskOrActivity)
		})
	}
}

func TestCustomKeywords(t *testing.T) {
	lab := testkit.Requirement("Laboratories", "Laboratory benches", 500, 0, 80)
	other := testkit.Requirement("Health care", "Examination", 1000, 0.7, 90)

	r := New(testkit.Catalog(lab, other), WithDomainKeywords("Lab"), WithGenericKeywords("nothing"))
	m, ok := r.Resolve("Wet lab 3")
	require.True(t, ok)
	assert.Equal(t, RuleDomainKeyword, m.Rule)

	m, ok = r.Resolve("Lobby")
	require.True(t, ok)
	assert.Equal(t, RuleLastResort, m.Rule)
}

func TestResolveDoesNotMutateCatalog(t *testing.T) {
	cat := testkit.StandardCatalog()
	before := testkit.MustJSON(t, cat)

	r := New(cat)
	r.Resolve("Office work")
	r.Resolve("nothing at all")

	assert.JSONEq(t, string(before), string(testkit.MustJSON(t, cat)))
}

func TestRequirements(t *testing.T) {
	r := New(testkit.StandardCatalog())

	got := r.Requirements("office work")
	require.True(t, got.Found)
	assert.Equal(t, "5.26.1", got.Standard.RefNo)
	assert.Equal(t, RuleExactUniformity, got.MatchRule)
	assert.Equal(t, 500.0, *got.Targets[standard.FieldEmRequired])
	assert.Equal(t, 19.0, *got.Targets[standard.FieldGlare])
	assert.Nil(t, got.Targets[standard.FieldEmUpper])

	missing := New(testkit.Catalog()).Requirements("office work")
	assert.False(t, missing.Found)
	assert.Equal(t, "No standard found for this room type", missing.Message)
}
