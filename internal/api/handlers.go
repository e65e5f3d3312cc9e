package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/standard"
	"luxcheck/internal/alias"
	"luxcheck/internal/catalog"
	"luxcheck/internal/design"
	"luxcheck/internal/errors"
	"luxcheck/internal/render"
)

// sampleSize is the number of records shown by the standards endpoint
const sampleSize = 5

// defaultReportName names reports submitted without ?name=
const defaultReportName = "report.json"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Lighting Compliance Checker API",
		"endpoints": map[string]string{
			"GET /health":                            "Service health",
			"GET /standards":                         "Loaded standards catalog",
			"GET /standards/requirements?room_type=": "Requirements for a room type",
			"POST /compliance/check":                 "Check an extracted report",
			"POST /compliance/check/detailed":        "Check a report and echo its data",
			"POST /aliases/normalize":                "Normalize and validate a record",
			"POST /design/report":                    "Generate and check a planned design",
			"GET /runs":                              "Stored compliance runs",
			"GET /runs/{id}/report":                  "Rendered compliance report",
		},
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !s.catalog.OK() {
		status = "degraded"
	}
	history := "disabled"
	if s.service.Persistent() {
		history = "enabled"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"components": map[string]any{
			"compliance_checker": "ready",
			"standards_loaded":   s.catalog.OK(),
			"standards_status":   s.catalog.Status,
			"run_history":        history,
		},
	})
}

type standardsInfo struct {
	Status      catalog.Status               `json:"status"`
	Source      string                       `json:"source"`
	Warnings    []string                     `json:"warnings,omitempty"`
	Fingerprint core.Hash                    `json:"fingerprint,omitempty"`
	Stats       standard.Stats               `json:"stats"`
	Metadata    map[string]any               `json:"metadata,omitempty"`
	Sample      []standard.RequirementRecord `json:"sample_standards"`
}

func (s *Server) handleStandards(w http.ResponseWriter, r *http.Request) {
	cat := s.catalog.Catalog
	sample := make([]standard.RequirementRecord, 0, sampleSize)
	if cat != nil {
		n := min(sampleSize, len(cat.Standards))
		sample = append(sample, cat.Standards[:n]...)
	}

	info := standardsInfo{
		Status:   s.catalog.Status,
		Source:   s.catalog.Source,
		Warnings: s.catalog.Warnings,
		Stats:    cat.Stats(),
		Sample:   sample,
	}
	if cat != nil {
		info.Fingerprint = cat.Fingerprint
		info.Metadata = cat.Metadata
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request) {
	roomType := strings.TrimSpace(r.URL.Query().Get("room_type"))
	if roomType == "" {
		s.writeError(w, errors.InvalidInput("room_type is required"))
		return
	}
	s.writeJSON(w, http.StatusOK, s.resolver.Requirements(roomType))
}

func (s *Server) readReport(w http.ResponseWriter, r *http.Request) (*report.Record, string, error) {
	data, err := s.readBody(w, r)
	if err != nil {
		return nil, "", err
	}
	rec, err := report.Parse(data)
	if err != nil {
		return nil, "", errors.WithCode(errors.CodeInvalidInput, err)
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = defaultReportName
	}
	return rec, name, nil
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	rec, name, err := s.readReport(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.service.Check(r.Context(), rec, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleCheckDetailed(w http.ResponseWriter, r *http.Request) {
	rec, name, err := s.readReport(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	detailed, err := s.service.Detailed(r.Context(), rec, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detailed)
}

type normalizeResponse struct {
	Record     *core.Fields      `json:"record"`
	FieldTypes map[string]string `json:"field_types"`
	Validation alias.Validation  `json:"validation"`
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	raw := core.NewFields()
	if err := raw.UnmarshalJSON(data); err != nil {
		s.writeError(w, errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), "record must be a JSON object"))
		return
	}

	rec := s.normalizer.NormalizeRecord(raw)
	types := make(map[string]string, rec.Len())
	for _, key := range rec.Keys() {
		types[key] = alias.DetectFieldType(key)
	}
	validation := s.normalizer.ValidateLightingValues(rec)

	s.writeJSON(w, http.StatusOK, normalizeResponse{Record: rec, FieldTypes: types, Validation: validation})
}

func (s *Server) handleDesignReport(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req design.Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.writeError(w, errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), "invalid design request"))
		return
	}

	generated, err := s.service.Design(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, generated)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	runs, err := s.service.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func (s *Server) handleRunStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.service.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status_counts": counts})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	run, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	run, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(render.Markdown(run.Result)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(render.HTML(run.Result))
}
