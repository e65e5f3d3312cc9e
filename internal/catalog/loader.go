// Package catalog loads the regulatory standards table from JSON or spreadsheet sources.
//
// Loading never fails: every problem is reported through LoadOutcome so callers can
// tell a legitimately empty catalog from a broken file.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"luxcheck/adapters/excel"
	"luxcheck/domain/core"
	"luxcheck/domain/standard"
	"luxcheck/internal"
	"luxcheck/internal/alias"
)

// Status classifies the outcome of a catalog load
type Status string

const (
	StatusOK           Status = "ok"
	StatusEmpty        Status = "empty"
	StatusUnrecognized Status = "unrecognized"
	StatusParseError   Status = "parse_error"
	StatusReadError    Status = "read_error"
)

// standardsKey holds the record list in wrapped catalogs
const standardsKey = "standards"

// LoadOutcome is the result of loading a catalog. Catalog is never nil.
type LoadOutcome struct {
	Catalog  *standard.Catalog `json:"-"`
	Status   Status            `json:"status"`
	Source   string            `json:"source"`
	Warnings []string          `json:"warnings,omitempty"`
}

// OK reports whether at least one record was loaded
func (o LoadOutcome) OK() bool {
	return o.Status == StatusOK
}

// Loader normalizes and validates every record it reads
type Loader struct {
	normalizer *alias.Normalizer
	logger     *internal.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger used for load warnings
func WithLogger(logger *internal.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader using the given alias normalizer
func NewLoader(normalizer *alias.Normalizer, opts ...Option) *Loader {
	l := &Loader{normalizer: normalizer}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = internal.DefaultLogger.WithPrefix("catalog")
	}
	return l
}

// LoadFile reads a catalog file. Spreadsheets go through the excel adapter,
// everything else is parsed as JSON.
func (l *Loader) LoadFile(path string) LoadOutcome {
	if excel.IsSpreadsheet(path) {
		sheet, err := excel.NewStandardsReader(path, excel.WithKeyMapper(l.normalizer)).Read()
		if err != nil {
			return l.fail(StatusReadError, path, fmt.Sprintf("failed to read spreadsheet: %v", err))
		}
		out := l.LoadRecords(sheet.Rows)
		out.Source = path
		return out
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return l.fail(StatusReadError, path, fmt.Sprintf("failed to read standards file: %v", err))
	}
	out := l.Load(data)
	out.Source = path
	return out
}

// Load parses a JSON catalog: either a bare list of records or an object whose
// "standards" key holds the list. Other top-level keys become catalog metadata.
func (l *Loader) Load(data []byte) (out LoadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = l.fail(StatusParseError, out.Source, fmt.Sprintf("unexpected failure while loading standards: %v", r))
		}
	}()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return l.fail(StatusParseError, "", "standards data is empty")
	}

	var items []json.RawMessage
	metadata := map[string]any{}

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return l.fail(StatusParseError, "", fmt.Sprintf("invalid standards JSON: %v", err))
		}
	case '{':
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return l.fail(StatusParseError, "", fmt.Sprintf("invalid standards JSON: %v", err))
		}
		raw, ok := doc[standardsKey]
		if !ok {
			return l.fail(StatusUnrecognized, "", "unrecognized standards format: object has no \"standards\" key")
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return l.fail(StatusUnrecognized, "", "unrecognized standards format: \"standards\" is not a list")
		}
		for key, value := range doc {
			if key == standardsKey {
				continue
			}
			var v any
			if err := json.Unmarshal(value, &v); err == nil {
				metadata[key] = v
			}
		}
	default:
		if !json.Valid(trimmed) {
			return l.fail(StatusParseError, "", "invalid standards JSON")
		}
		return l.fail(StatusUnrecognized, "", "unrecognized standards format: expected a list or an object")
	}

	var records []*core.Fields
	var warnings []string
	for i, item := range items {
		rec := core.NewFields()
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			warnings = append(warnings, fmt.Sprintf("skipped standards item %d: not an object", i))
			continue
		}
		if err := rec.UnmarshalJSON(item); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped standards item %d: %v", i, err))
			continue
		}
		records = append(records, rec)
	}

	out = l.LoadRecords(records)
	out.Warnings = append(warnings, out.Warnings...)
	if len(metadata) > 0 {
		out.Catalog.Metadata = metadata
	}
	out.Catalog.Fingerprint = core.NewHash(trimmed)
	l.logger.Debug("catalog fingerprint %s", out.Catalog.Fingerprint.Short())
	for _, w := range warnings {
		l.logger.Warn("%s", w)
	}
	return out
}

// LoadRecords builds a catalog from raw records: keys are alias-normalized and
// lighting values range-checked before each record is typed.
func (l *Loader) LoadRecords(records []*core.Fields) LoadOutcome {
	cat := &standard.Catalog{Standards: make([]standard.RequirementRecord, 0, len(records))}
	for _, raw := range records {
		normalized := l.normalizer.NormalizeRecord(raw)
		if v := l.normalizer.ValidateLightingValues(normalized); v.NeedsReview {
			l.logger.Debug("standard %q needs review: %v", normalized.String(standard.FieldTaskOrActivity), v.Issues)
		}
		cat.Standards = append(cat.Standards, standard.FromFields(normalized))
	}

	out := LoadOutcome{Catalog: cat, Status: StatusOK, Source: "records"}
	if cat.Len() == 0 {
		out.Status = StatusEmpty
		out.Warnings = append(out.Warnings, "standards catalog contains no records")
		l.logger.Warn("standards catalog contains no records")
		return out
	}

	stats := cat.Stats()
	l.logger.Info("loaded %d standards (%d with uniformity requirements, %d need review)",
		stats.Total, stats.WithUniformity, stats.NeedingReview)
	return out
}

func (l *Loader) fail(status Status, source, warning string) LoadOutcome {
	l.logger.Warn("%s", warning)
	return LoadOutcome{
		Catalog:  &standard.Catalog{},
		Status:   status,
		Source:   source,
		Warnings: []string{warning},
	}
}
