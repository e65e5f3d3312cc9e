package alias

import (
	"strings"
	"unicode"

	"luxcheck/domain/core"
)

// Normalizer maps free-form keys onto canonical names using a Table.
// It is immutable after New and safe for concurrent use.
type Normalizer struct {
	table  Table
	exact  map[string]string // lower-cased name or alias -> canonical
	fuzzy  map[string]string // separator-collapsed name or alias -> canonical
	places map[string]string
}

// New indexes a table. Canonical names are indexed before aliases so that a canonical
// name always resolves to itself; among aliases the first group wins.
func New(table Table) *Normalizer {
	n := &Normalizer{
		table:  table,
		exact:  make(map[string]string),
		fuzzy:  make(map[string]string),
		places: make(map[string]string),
	}

	for _, g := range table.Fields {
		n.index(g.Canonical, g.Canonical)
	}
	for _, g := range table.Fields {
		for _, a := range g.Aliases {
			n.index(a, g.Canonical)
		}
	}

	for _, g := range table.Places {
		for _, name := range append([]string{g.Canonical}, g.Aliases...) {
			key := strings.ToLower(strings.TrimSpace(name))
			if _, taken := n.places[key]; !taken {
				n.places[key] = g.Canonical
			}
		}
	}
	return n
}

func (n *Normalizer) index(name, canonical string) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if _, taken := n.exact[lower]; !taken {
		n.exact[lower] = canonical
	}
	clean := collapseSeparators(lower)
	if _, taken := n.fuzzy[clean]; !taken {
		n.fuzzy[clean] = canonical
	}
}

// Table returns the table the normalizer was built from
func (n *Normalizer) Table() Table {
	return n.table
}

// NormalizeKey returns the canonical name for key, or key unchanged when nothing matches
func (n *Normalizer) NormalizeKey(key string) string {
	lower := strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := n.exact[lower]; ok {
		return canonical
	}
	if canonical, ok := n.fuzzy[collapseSeparators(lower)]; ok {
		return canonical
	}
	return key
}

// NormalizeRecord returns a copy of rec with canonical keys. Values are untouched;
// when two keys normalize to the same name the later value wins.
func (n *Normalizer) NormalizeRecord(rec *core.Fields) *core.Fields {
	out := core.NewFields()
	for _, key := range rec.Keys() {
		value, _ := rec.Get(key)
		out.Set(n.NormalizeKey(key), value)
	}
	return out
}

// Aliases returns the aliases registered for a canonical field
func (n *Normalizer) Aliases(canonical string) []string {
	for _, g := range n.table.Fields {
		if g.Canonical == canonical {
			out := make([]string, len(g.Aliases))
			copy(out, g.Aliases)
			return out
		}
	}
	return nil
}

// CanonicalFields lists the canonical field names in table order
func (n *Normalizer) CanonicalFields() []string {
	out := make([]string, 0, len(n.table.Fields))
	for _, g := range n.table.Fields {
		out = append(out, g.Canonical)
	}
	return out
}

// NormalizePlace maps a room or area name onto a known place. Whole-name matches are
// preferred; otherwise the first place whose alias occurs in the name is returned.
func (n *Normalizer) NormalizePlace(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return "", false
	}
	if place, ok := n.places[lower]; ok {
		return place, true
	}
	for _, g := range n.table.Places {
		for _, a := range g.Aliases {
			if a != "" && strings.Contains(lower, strings.ToLower(a)) {
				return g.Canonical, true
			}
		}
	}
	return "", false
}

// Field types reported by DetectFieldType
const (
	TypeIlluminance        = "illuminance"
	TypeUniformity         = "uniformity"
	TypeGlare              = "glare"
	TypeColorRendering     = "color_rendering"
	TypeColorTemperature   = "color_temperature"
	TypeLuminousParameters = "luminous_parameters"
	TypePower              = "power"
	TypeGeometry           = "geometry"
	TypeEfficiency         = "efficiency"
	TypeOther              = "other"
)

var fieldTypeRules = []struct {
	kind     string
	keywords []string
}{
	{TypeIlluminance, []string{"lux", "lx", "illuminance", "em_"}},
	{TypeUniformity, []string{"uniformity", "uo", "u0"}},
	{TypeGlare, []string{"ugr", "glare", "rugl"}},
	{TypeColorRendering, []string{"ra", "cri", "rendering"}},
	{TypeColorTemperature, []string{"cct", "temperature", "kelvin"}},
	{TypeLuminousParameters, []string{"flux", "lm", "luminous"}},
	{TypePower, []string{"power", "watt", "w"}},
	{TypeGeometry, []string{"height", "mounting"}},
	{TypeEfficiency, []string{"efficacy", "efficiency", "lm/w"}},
}

// DetectFieldType classifies a field name by keyword. Rules are checked in order, so
// "luminous_power" is a luminous parameter and not a power.
func DetectFieldType(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range fieldTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind
			}
		}
	}
	return TypeOther
}

// collapseSeparators replaces runs of '_', '-' and whitespace with a single '_'
func collapseSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
