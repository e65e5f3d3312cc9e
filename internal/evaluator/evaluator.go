// Package evaluator compares one room's measured values with a requirement record.
package evaluator

import (
	"fmt"
	"strings"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/standard"
	"luxcheck/domain/verdict"
	"luxcheck/internal/alias"
)

// Measured parameter names in the alias table
const (
	MeasuredLux        = "average_lux"
	MeasuredUniformity = "uniformity"
	MeasuredRa         = "color_rendering_ra"
)

// UnknownRoom names rooms that have no name in the report
const UnknownRoom = "Unknown"

// Evaluator checks illuminance, uniformity and colour rendering. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	table   alias.Table
	locator Locator
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithMinSubstringLength overrides DefaultMinSubstringLength; 1 lets every alias
// match as a substring
func WithMinSubstringLength(n int) Option {
	return func(e *Evaluator) { e.locator.MinSubstringLength = n }
}

// New creates an evaluator whose measured-parameter aliases come from table
func New(table alias.Table, opts ...Option) *Evaluator {
	e := &Evaluator{
		table:   table,
		locator: Locator{MinSubstringLength: DefaultMinSubstringLength},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateRoom runs the checks of record against the measured values of source.
// The room fails on the first failing illuminance or uniformity check; colour
// rendering is recorded but never changes the status.
func (e *Evaluator) EvaluateRoom(room report.Room, profile string, source report.MeasurementSource, record *standard.RequirementRecord) verdict.RoomResult {
	ref := record.Ref()
	result := verdict.RoomResult{
		Room:               RoomName(room),
		UtilisationProfile: profile,
		Standard:           &ref,
		MeasurementSource:  source.Label,
		Checks:             make(map[string]verdict.ComplianceCheck),
		Status:             verdict.StatusPass,
	}

	if required := requiredLux(record); required > 0 {
		check := e.mandatory(source, MeasuredLux, required)
		result.Checks[verdict.ParamLux] = check
		if check.Failed() {
			result.Status = verdict.StatusFail
		}
	}

	if required := orZero(record.Uniformity); required > 0 {
		check := e.mandatory(source, MeasuredUniformity, required)
		result.Checks[verdict.ParamUniformity] = check
		if check.Failed() {
			result.Status = verdict.StatusFail
		}
	}

	if required := orZero(record.Ra); required > 0 {
		result.Checks[verdict.ParamRa] = e.informational(source, MeasuredRa, required)
	}

	return result
}

// mandatory evaluates a blocking check. A value missing from the report counts as 0.
func (e *Evaluator) mandatory(source report.MeasurementSource, parameter string, required float64) verdict.ComplianceCheck {
	found := e.locator.Find(source.Values, parameter, e.table.ParameterAliases(parameter))
	check := compare(required, found.Value)
	check.Found = core.Bool(found.Found)
	if found.Found {
		check.Source = found.Key
	} else {
		check.Note = fmt.Sprintf("%s not found in %s, treated as 0", parameter, source.Label)
	}
	return check
}

// informational evaluates a check that is reported but never blocking
func (e *Evaluator) informational(source report.MeasurementSource, parameter string, required float64) verdict.ComplianceCheck {
	aliases := e.table.ParameterAliases(parameter)
	found := e.locator.Find(source.Values, parameter, aliases)
	if !found.Found {
		return verdict.ComplianceCheck{
			Required:      required,
			Found:         core.Bool(false),
			Note:          fmt.Sprintf("Ra/CRI not found in report (checked: %s)", strings.Join(aliases, ", ")),
			Informational: true,
		}
	}

	check := compare(required, found.Value)
	check.Found = core.Bool(true)
	check.Source = found.Key
	check.Note = "Found as " + found.Key
	check.Informational = true
	return check
}

// compare applies the >= rule. Margin is actual-required when compliant and
// required-actual otherwise, so it is never negative.
func compare(required, actual float64) verdict.ComplianceCheck {
	compliant := actual >= required
	margin := required - actual
	if compliant {
		margin = actual - required
	}
	return verdict.ComplianceCheck{
		Required:  required,
		Actual:    &actual,
		Compliant: &compliant,
		Margin:    &margin,
	}
}

// requiredLux is Em_r_lx, or Em_u_lx when that is absent or zero
func requiredLux(record *standard.RequirementRecord) float64 {
	if v := orZero(record.EmRequired); v != 0 {
		return v
	}
	return orZero(record.EmUpper)
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// RoomName is the name a room is reported under
func RoomName(room report.Room) string {
	if room.Name == "" {
		return UnknownRoom
	}
	return room.Name
}
