package standard

import (
	"strings"

	"luxcheck/domain/core"
)

// Catalog field names. They double as the canonical names of the alias table.
const (
	FieldRefNo                = "ref_no"
	FieldCategory             = "category"
	FieldTaskOrActivity       = "task_or_activity"
	FieldEmRequired           = "Em_r_lx"
	FieldEmUpper              = "Em_u_lx"
	FieldUniformity           = "Uo"
	FieldRa                   = "Ra"
	FieldGlare                = "RUGL"
	FieldBackground           = "Ez_lx"
	FieldWall                 = "Em_wall_lx"
	FieldCeiling              = "Em_ceiling_lx"
	FieldSpecificRequirements = "specific_requirements"
	FieldValidationIssues     = "validation_issues"
	FieldNeedsReview          = "needs_review"
)

// LightingFields are the numeric targets that make a record carry lighting requirements
var LightingFields = []string{
	FieldEmRequired, FieldEmUpper, FieldUniformity, FieldRa,
	FieldGlare, FieldBackground, FieldWall, FieldCeiling,
}

// RequirementRecord is one row of the regulatory standards catalog.
// Numeric targets are nil when the catalog leaves them empty.
type RequirementRecord struct {
	RefNo          string `json:"ref_no,omitempty"`
	Category       string `json:"category"`
	TaskOrActivity string `json:"task_or_activity"`

	EmRequired *float64 `json:"Em_r_lx"`       // maintained illuminance, lx
	EmUpper    *float64 `json:"Em_u_lx"`       // upper illuminance, lx
	Uniformity *float64 `json:"Uo"`            // Emin/Eavg
	Ra         *float64 `json:"Ra"`            // colour rendering index
	Glare      *float64 `json:"RUGL"`          // UGR limit
	Background *float64 `json:"Ez_lx"`         // background/surround illuminance, lx
	Wall       *float64 `json:"Em_wall_lx"`    // wall illuminance, lx
	Ceiling    *float64 `json:"Em_ceiling_lx"` // ceiling illuminance, lx

	SpecificRequirements string `json:"specific_requirements,omitempty"`

	NeedsReview      bool     `json:"needs_review,omitempty"`
	ValidationIssues []string `json:"validation_issues,omitempty"`
}

// Value returns the numeric target stored under a catalog field name
func (r *RequirementRecord) Value(field string) *float64 {
	switch field {
	case FieldEmRequired:
		return r.EmRequired
	case FieldEmUpper:
		return r.EmUpper
	case FieldUniformity:
		return r.Uniformity
	case FieldRa:
		return r.Ra
	case FieldGlare:
		return r.Glare
	case FieldBackground:
		return r.Background
	case FieldWall:
		return r.Wall
	case FieldCeiling:
		return r.Ceiling
	}
	return nil
}

// HasLightingRequirements reports whether any lighting target is set to a non-zero number
func (r *RequirementRecord) HasLightingRequirements() bool {
	for _, field := range LightingFields {
		if v := r.Value(field); v != nil && *v != 0 {
			return true
		}
	}
	return false
}

// HasUniformityRequirement reports whether Uo is set to a non-zero number
func (r *RequirementRecord) HasUniformityRequirement() bool {
	return r.Uniformity != nil && *r.Uniformity != 0
}

// Ref returns the identifying fields of the record
func (r *RequirementRecord) Ref() Ref {
	return Ref{RefNo: r.RefNo, Category: r.Category, TaskOrActivity: r.TaskOrActivity}
}

// Ref identifies a requirement record in results
type Ref struct {
	RefNo          string `json:"ref_no"`
	Category       string `json:"category"`
	TaskOrActivity string `json:"task_or_activity"`
}

// FromFields builds a record from a normalized raw record. Unknown keys are ignored;
// numeric targets accept numbers and numeric strings.
func FromFields(f *core.Fields) RequirementRecord {
	rec := RequirementRecord{
		RefNo:                textOf(f, FieldRefNo),
		Category:             textOf(f, FieldCategory),
		TaskOrActivity:       textOf(f, FieldTaskOrActivity),
		EmRequired:           f.Float(FieldEmRequired),
		EmUpper:              f.Float(FieldEmUpper),
		Uniformity:           f.Float(FieldUniformity),
		Ra:                   f.Float(FieldRa),
		Glare:                f.Float(FieldGlare),
		Background:           f.Float(FieldBackground),
		Wall:                 f.Float(FieldWall),
		Ceiling:              f.Float(FieldCeiling),
		SpecificRequirements: textOf(f, FieldSpecificRequirements),
	}

	if v, ok := f.Get(FieldNeedsReview); ok {
		rec.NeedsReview, _ = v.(bool)
	}
	if v, ok := f.Get(FieldValidationIssues); ok {
		switch issues := v.(type) {
		case []string:
			rec.ValidationIssues = append(rec.ValidationIssues, issues...)
		case []any:
			for _, issue := range issues {
				if s, ok := issue.(string); ok {
					rec.ValidationIssues = append(rec.ValidationIssues, s)
				}
			}
		}
	}
	return rec
}

// textOf reads a text column. Reference numbers are sometimes numeric in hand-made catalogs.
func textOf(f *core.Fields, key string) string {
	v, ok := f.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(formatNumber(t))
	}
	return ""
}
