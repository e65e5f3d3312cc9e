package standard

import (
	"strconv"

	"luxcheck/domain/core"
)

// Catalog is the loaded standards table. It is read-only after loading and safe to share.
type Catalog struct {
	Standards   []RequirementRecord `json:"standards"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
	Fingerprint core.Hash           `json:"fingerprint,omitempty"`
}

// Len returns the number of records
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Standards)
}

// Stats summarizes the catalog for the info endpoint and logs
type Stats struct {
	Total            int `json:"total"`
	WithLighting     int `json:"with_lighting_requirements"`
	WithUniformity   int `json:"with_uniformity_requirements"`
	NeedingReview    int `json:"needs_review"`
	DistinctCategory int `json:"categories"`
}

// Stats counts records by requirement coverage
func (c *Catalog) Stats() Stats {
	var s Stats
	if c == nil {
		return s
	}
	categories := make(map[string]struct{})
	for i := range c.Standards {
		rec := &c.Standards[i]
		s.Total++
		if rec.HasLightingRequirements() {
			s.WithLighting++
		}
		if rec.HasLightingRequirements() && rec.HasUniformityRequirement() {
			s.WithUniformity++
		}
		if rec.NeedsReview {
			s.NeedingReview++
		}
		if rec.Category != "" {
			categories[rec.Category] = struct{}{}
		}
	}
	s.DistinctCategory = len(categories)
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
