package alias

import (
	"sort"

	"luxcheck/domain/core"
)

// Usage summarizes which spellings a set of records used for each canonical field
type Usage struct {
	TotalRecords         int                 `json:"total_records"`
	FieldUsage           map[string]int      `json:"field_usage"`
	AliasMappings        map[string][]string `json:"alias_mappings"`
	CanonicalFieldsFound []string            `json:"canonical_fields_found"`
}

// UsageReport counts canonical field usage over records. Only keys that the table
// recognizes are counted; alias spellings are listed sorted per field.
func (n *Normalizer) UsageReport(records []*core.Fields) Usage {
	u := Usage{
		TotalRecords:  len(records),
		FieldUsage:    make(map[string]int),
		AliasMappings: make(map[string][]string),
	}

	spellings := make(map[string]map[string]struct{})
	for _, rec := range records {
		for _, key := range rec.Keys() {
			canonical := n.NormalizeKey(key)
			if !n.isCanonical(canonical) {
				continue
			}
			if _, seen := u.FieldUsage[canonical]; !seen {
				u.CanonicalFieldsFound = append(u.CanonicalFieldsFound, canonical)
			}
			u.FieldUsage[canonical]++

			if key != canonical {
				if spellings[canonical] == nil {
					spellings[canonical] = make(map[string]struct{})
				}
				spellings[canonical][key] = struct{}{}
			}
		}
	}

	for canonical, keys := range spellings {
		list := make([]string, 0, len(keys))
		for k := range keys {
			list = append(list, k)
		}
		sort.Strings(list)
		u.AliasMappings[canonical] = list
	}
	return u
}

func (n *Normalizer) isCanonical(name string) bool {
	for _, g := range n.table.Fields {
		if g.Canonical == name {
			return true
		}
	}
	return false
}
