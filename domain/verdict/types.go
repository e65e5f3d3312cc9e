package verdict

import (
	"time"

	"luxcheck/domain/standard"
)

// Status is a room or report compliance status
type Status string

const (
	StatusPass            Status = "PASS"
	StatusFail            Status = "FAIL"
	StatusNoStandardFound Status = "NO_STANDARD_FOUND"

	// Report-level only
	StatusPartial  Status = "PARTIAL"
	StatusNoChecks Status = "NO_CHECKS"
	StatusUnknown  Status = "UNKNOWN"
	StatusError    Status = "ERROR"
)

// Checked parameter names
const (
	ParamLux        = "lux"
	ParamUniformity = "uniformity"
	ParamRa         = "ra"
)

// ComplianceCheck is the outcome for one parameter of one room.
// Compliant, Actual and Margin are nil when the value could not be found in the report.
type ComplianceCheck struct {
	Required  float64  `json:"required"`
	Actual    *float64 `json:"actual"`
	Compliant *bool    `json:"compliant"`
	Margin    *float64 `json:"margin"`

	// Trace of where the measured value came from
	Found  *bool  `json:"found,omitempty"`
	Source string `json:"source,omitempty"`
	Note   string `json:"note,omitempty"`

	// Informational checks never change the room status
	Informational bool `json:"informational,omitempty"`
}

// Failed reports whether the check was evaluated and did not comply
func (c ComplianceCheck) Failed() bool {
	return c.Compliant != nil && !*c.Compliant
}

// RoomResult is the compliance outcome of one room
type RoomResult struct {
	Room               string                     `json:"room"`
	UtilisationProfile string                     `json:"utilisation_profile"`
	Standard           *standard.Ref              `json:"standard,omitempty"`
	MatchRule          string                     `json:"match_rule,omitempty"`
	MeasurementSource  string                     `json:"measurement_source,omitempty"`
	Checks             map[string]ComplianceCheck `json:"checks,omitempty"`
	Status             Status                     `json:"status"`
	Message            string                     `json:"message,omitempty"`
}

// Summary counts room outcomes. PassRate is a percentage.
type Summary struct {
	TotalRooms      int     `json:"total_rooms"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	NoStandardFound int     `json:"no_standard_found"`
	PassRate        float64 `json:"pass_rate"`
}

// ComplianceResult is the report-level outcome
type ComplianceResult struct {
	OverallCompliance Status       `json:"overall_compliance"`
	Checks            []RoomResult `json:"checks"`
	Summary           *Summary     `json:"summary,omitempty"`
	Error             string       `json:"error,omitempty"`
	Timestamp         time.Time    `json:"timestamp"`
}

// Summarize counts room statuses
func Summarize(rooms []RoomResult) Summary {
	s := Summary{TotalRooms: len(rooms)}
	for _, r := range rooms {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusNoStandardFound:
			s.NoStandardFound++
		}
	}
	if s.TotalRooms > 0 {
		s.PassRate = float64(s.Passed) / float64(s.TotalRooms) * 100
	}
	return s
}

// Overall rolls room statuses up into the report status.
// Priority: no rooms, any FAIL, any NO_STANDARD_FOUND, all PASS.
func Overall(rooms []RoomResult) Status {
	if len(rooms) == 0 {
		return StatusNoChecks
	}

	var anyFail, anyMissing bool
	allPass := true
	for _, r := range rooms {
		switch r.Status {
		case StatusFail:
			anyFail = true
		case StatusNoStandardFound:
			anyMissing = true
		}
		if r.Status != StatusPass {
			allPass = false
		}
	}

	switch {
	case anyFail:
		return StatusFail
	case anyMissing:
		return StatusPartial
	case allPass:
		return StatusPass
	default:
		return StatusUnknown
	}
}
