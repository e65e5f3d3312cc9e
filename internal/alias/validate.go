package alias

import (
	"fmt"
	"strconv"

	"luxcheck/domain/core"
	"luxcheck/domain/standard"
)

// Validation is the outcome of range-checking one record
type Validation struct {
	Issues      []string `json:"validation_issues,omitempty"`
	NeedsReview bool     `json:"needs_review"`
}

// ValidateLightingValues range-checks the lighting values of a normalized record in
// place. Out-of-range and non-numeric values are set to null and reported; the record
// is flagged for review when there is at least one issue.
func (n *Normalizer) ValidateLightingValues(rec *core.Fields) Validation {
	var v Validation
	for _, rule := range n.table.Ranges {
		raw, ok := rec.Get(rule.Field)
		if !ok || raw == nil {
			continue
		}

		value, numeric := core.ToFloat(raw)
		if !numeric {
			if s, isString := raw.(string); isString && s == "" {
				continue
			}
			v.Issues = append(v.Issues, fmt.Sprintf("%s value %q is not numeric", rule.Field, fmt.Sprint(raw)))
			rec.Set(rule.Field, nil)
			continue
		}

		if issue := rule.check(value); issue != "" {
			v.Issues = append(v.Issues, issue)
			rec.Set(rule.Field, nil)
		}
	}

	v.NeedsReview = len(v.Issues) > 0
	if v.NeedsReview {
		rec.Set(standard.FieldValidationIssues, v.Issues)
	}
	rec.Set(standard.FieldNeedsReview, v.NeedsReview)
	return v
}

// check returns an issue message when value violates the rule
func (r RangeRule) check(value float64) string {
	tooLow := r.Min != nil && value < *r.Min
	tooHigh := r.Max != nil && value > *r.Max
	if !tooLow && !tooHigh {
		return ""
	}

	if r.Min == nil {
		return fmt.Sprintf("%s %s > %s", r.Field, num(value), num(*r.Max))
	}
	if r.Max == nil {
		return fmt.Sprintf("%s %s < %s", r.Field, num(value), num(*r.Min))
	}

	msg := fmt.Sprintf("%s %s outside range %s-%s", r.Field, num(value), num(*r.Min), num(*r.Max))
	if r.Unit != "" {
		msg += " " + r.Unit
	}
	return msg
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
