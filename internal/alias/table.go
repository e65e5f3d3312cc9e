package alias

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group maps one canonical name to its known spellings
type Group struct {
	Canonical string
	Aliases   []string
}

// RangeRule bounds a numeric field. A nil bound is open.
type RangeRule struct {
	Field string   `json:"field" yaml:"field"`
	Min   *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Unit  string   `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Table is the alias configuration shared by the normalizer and the evaluator.
//
// Fields maps catalog/record keys (Em_r_lx, Uo, ...), Parameters maps measured report
// values (average_lux, uniformity, color_rendering_ra, ...) and Places maps room names.
// Group order matters: the first group claiming an alias wins.
type Table struct {
	Fields     []Group
	Parameters []Group
	Places     []Group
	Ranges     []RangeRule
}

// ParameterAliases returns the registered aliases of a measured parameter
func (t Table) ParameterAliases(parameter string) []string {
	for _, g := range t.Parameters {
		if g.Canonical == parameter {
			return g.Aliases
		}
	}
	return nil
}

func bound(v float64) *float64 { return &v }

// DefaultTable returns the built-in alias table
func DefaultTable() Table {
	return Table{
		Fields: []Group{
			{"Em_r_lx", []string{"em_r_lx", "em", "e_m", "average lux", "maintained lux", "target lux",
				"maintained illuminance", "required illuminance", "reference illuminance",
				"illuminance", "lux", "lx", "em_r", "maintained_illuminance"}},
			{"Em_u_lx", []string{"em_u_lx", "upper lux", "max lux", "maximum lux", "recommended lux",
				"upper illuminance", "max illuminance", "em_u"}},
			{"Uo", []string{"uo", "u0", "uniformity", "emin/eavg", "min/avg", "illuminance uniformity",
				"uniformity ratio", "uniformity factor", "u_o", "uniformity_index"}},
			{"RUGL", []string{"rugl", "ugr", "glare index", "unified glare rating", "glare rating",
				"ugr limit", "glare limit", "unified_glare_rating", "glare_rating"}},
			{"Ra", []string{"ra", "cri", "color rendering index", "r_a", "colour rendering index",
				"color rendering", "colour rendering", "cri_ra", "rendering_index"}},
			{"R9", []string{"r9", "cri_r9", "red rendering", "red color rendering", "r_9",
				"red_rendering", "cri_red"}},
			{"CCT", []string{"cct", "ct", "colour temperature", "k", "kelvin", "color temperature",
				"correlated colour temperature", "correlated color temperature",
				"colour_temp", "color_temp", "kelvin_temp"}},
			{"Ez_lx", []string{"ez_lx", "background lux", "surround illuminance", "e_z", "ez",
				"background illuminance", "surround lux", "ambient illuminance"}},
			{"luminous_flux_lm", []string{"luminous flux", "flux", "lm", "φ", "phi", "luminous output",
				"light flux", "light output", "luminous_flux", "light_flux"}},
			{"power_w", []string{"power", "wattage", "lamp power", "p", "w", "watts", "electrical power",
				"lamp wattage", "fixture power", "luminous_power"}},
			{"mounting_height_m", []string{"mounting height", "suspension height", "hm", "height",
				"mounting_height", "suspension_height", "fixture height", "lamp height", "h_m"}},
			{"luminous_efficacy_lm_per_w", []string{"lm/w", "efficacy", "η", "eta", "luminous efficiency",
				"efficiency", "luminous_efficacy", "light_efficiency", "lm_per_w", "lumens_per_watt"}},
			{"Em_wall_lx", []string{"em_wall_lx", "wall lux", "wall illuminance", "wall lighting",
				"wall_illuminance", "em_wall", "wall_lux"}},
			{"Em_ceiling_lx", []string{"em_ceiling_lx", "ceiling lux", "ceiling illuminance",
				"ceiling lighting", "ceiling_illuminance", "em_ceiling", "ceiling_lux"}},
			{"specific_requirements", []string{"specific requirements", "requirements", "notes",
				"comments", "additional requirements", "special requirements", "remarks",
				"specific_reqs", "additional_notes"}},
			{"ref_no", []string{"ref_no", "reference", "ref", "reference number", "standard ref",
				"table ref", "clause ref", "reference_no", "standard_reference"}},
			{"category", []string{"category", "type", "classification", "group", "area type",
				"space type", "zone type", "category_type"}},
			{"task_or_activity", []string{"task_or_activity", "task", "activity", "description",
				"task description", "activity description", "space description", "task_description",
				"activity_description", "space_type"}},
		},
		Parameters: []Group{
			{"average_lux", []string{"ē", "eavg", "average lux", "lux", "illumination", "lighting level"}},
			{"min_lux", []string{"emin", "minimum lux", "e_min"}},
			{"max_lux", []string{"emax", "maximum lux", "e_max"}},
			{"uniformity", []string{"uniformity", "uo", "emin/eavg", "e_min/e_avg"}},
			{"color_rendering_ra", []string{"cri", "colour rendering", "color rendering", "cri_ra", "ra"}},
			{"glare_related", []string{"g1", "g2", "index"}},
			{"power_w", []string{"power", "watt", "p"}},
			{"luminous_flux_lm", []string{"lm", "lumens", "φluminaire"}},
			{"luminous_efficacy_lm_per_w", []string{"lm/w", "efficacy", "luminous efficacy"}},
		},
		Places: []Group{
			{"Factory", []string{"factory", "the factory", "industrial hall", "workshop", "production hall"}},
			{"Office", []string{"office", "workplace", "open office", "meeting room"}},
			{"Classroom", []string{"classroom", "lecture hall", "study room"}},
			{"Corridor", []string{"corridor", "hallway", "passage", "hall"}},
			{"Warehouse", []string{"warehouse", "storage hall", "stock room"}},
			{"Parking", []string{"parking", "garage", "car park"}},
			{"Hospital Ward", []string{"ward", "patient room"}},
			{"Retail", []string{"shop", "store", "retail"}},
			{"IT Room", []string{"server room", "it room"}},
		},
		Ranges: []RangeRule{
			{Field: "Ra", Max: bound(100)},
			{Field: "Uo", Max: bound(1)},
			{Field: "Em_r_lx", Min: bound(20), Max: bound(20000)},
			{Field: "RUGL", Min: bound(10), Max: bound(40)},
			{Field: "CCT", Min: bound(2000), Max: bound(10000), Unit: "K"},
		},
	}
}

// tableFile is the on-disk shape, compatible with the extractor's aliases.json
type tableFile struct {
	Fields     map[string][]string `json:"fields" yaml:"fields"`
	Parameters map[string][]string `json:"parameters" yaml:"parameters"`
	Places     map[string][]string `json:"places" yaml:"places"`
	Ranges     []RangeRule         `json:"ranges" yaml:"ranges"`
}

// LoadTable reads an alias table from a JSON or YAML file. Sections missing from the
// file keep the built-in defaults; groups read from a file are ordered by canonical name.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read alias table %s: %w", path, err)
	}

	var file tableFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse alias table %s: %w", path, err)
	}

	table := DefaultTable()
	if len(file.Fields) > 0 {
		table.Fields = groupsOf(file.Fields)
	}
	if len(file.Parameters) > 0 {
		table.Parameters = groupsOf(file.Parameters)
	}
	if len(file.Places) > 0 {
		table.Places = groupsOf(file.Places)
	}
	if len(file.Ranges) > 0 {
		table.Ranges = file.Ranges
	}
	return table, nil
}

func groupsOf(m map[string][]string) []Group {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		groups = append(groups, Group{Canonical: name, Aliases: m[name]})
	}
	return groups
}
