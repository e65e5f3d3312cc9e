package models

import (
	"time"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/verdict"
)

// ComplianceRun is one stored compliance check of a report
type ComplianceRun struct {
	ID                 core.RunID               `json:"id" db:"id"`
	ReportName         string                   `json:"report_name" db:"report_name"`
	ProjectName        string                   `json:"project_name" db:"project_name"`
	OverallCompliance  verdict.Status           `json:"overall_compliance" db:"overall_compliance"`
	PassRate           float64                  `json:"pass_rate" db:"pass_rate"`
	CatalogFingerprint core.Hash                `json:"catalog_fingerprint,omitempty" db:"catalog_fingerprint"`
	Result             verdict.ComplianceResult `json:"result"`
	Report             *report.Record           `json:"report,omitempty"`
	CreatedAt          time.Time                `json:"created_at" db:"created_at"`
}

// DetailedCheck pairs the submitted report data with its result
type DetailedCheck struct {
	RunID         core.RunID               `json:"run_id"`
	ReportData    *report.Record           `json:"report_data"`
	Compliance    verdict.ComplianceResult `json:"compliance"`
	CatalogSource string                   `json:"standards_source,omitempty"`
}

// StatusCount is the number of stored runs with one overall status
type StatusCount struct {
	Status verdict.Status `json:"status" db:"overall_compliance"`
	Count  int            `json:"count" db:"count"`
}

// DesignReport is a generated design report together with its compliance check
type DesignReport struct {
	ReportID         core.RunID               `json:"report_id"`
	GeneratedAt      time.Time                `json:"generated_at"`
	ReportData       *report.Record           `json:"report_data"`
	ComplianceResult verdict.ComplianceResult `json:"compliance_result"`
	InputParameters  any                      `json:"input_parameters"`
}
