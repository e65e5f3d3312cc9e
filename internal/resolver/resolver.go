// Package resolver maps a room's utilisation profile onto a catalog requirement record.
package resolver

import (
	"strings"

	"luxcheck/domain/standard"
)

// Rule names the step of the fallback chain that produced a match
type Rule string

const (
	RuleExactUniformity   Rule = "exact_uniformity"
	RuleExact             Rule = "exact"
	RulePartialUniformity Rule = "partial_uniformity"
	RuleDomainKeyword     Rule = "domain_keyword"
	RuleGenericActivity   Rule = "generic_activity"
	RuleLastResort        Rule = "last_resort"
)

// Default keyword lists
var (
	DefaultDomainKeywords  = []string{"factory", "industrial", "warehouse", "manufacturing"}
	DefaultGenericKeywords = []string{"general", "work", "office"}
)

// Match is a resolved record and the rule that selected it
type Match struct {
	Record *standard.RequirementRecord
	Rule   Rule
}

// Resolver runs the ordered matching chain over a catalog. It never mutates the
// catalog and is safe for concurrent use.
type Resolver struct {
	catalog         *standard.Catalog
	domainKeywords  []string
	genericKeywords []string
	entries         []entry
}

// entry caches the lower-cased text of one record
type entry struct {
	record     *standard.RequirementRecord
	task       string
	category   string
	lighting   bool
	uniformity bool
}

// Option configures a Resolver
type Option func(*Resolver)

// WithDomainKeywords replaces the industrial keyword list used by the domain_keyword rule
func WithDomainKeywords(keywords ...string) Option {
	return func(r *Resolver) { r.domainKeywords = lowerAll(keywords) }
}

// WithGenericKeywords replaces the keyword list used by the generic_activity rule
func WithGenericKeywords(keywords ...string) Option {
	return func(r *Resolver) { r.genericKeywords = lowerAll(keywords) }
}

// New creates a resolver over catalog. A nil catalog resolves nothing.
func New(catalog *standard.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:         catalog,
		domainKeywords:  DefaultDomainKeywords,
		genericKeywords: DefaultGenericKeywords,
	}
	for _, opt := range opts {
		opt(r)
	}

	if catalog != nil {
		r.entries = make([]entry, len(catalog.Standards))
		for i := range catalog.Standards {
			rec := &catalog.Standards[i]
			lighting := rec.HasLightingRequirements()
			r.entries[i] = entry{
				record:     rec,
				task:       strings.ToLower(rec.TaskOrActivity),
				category:   strings.ToLower(rec.Category),
				lighting:   lighting,
				uniformity: lighting && rec.HasUniformityRequirement(),
			}
		}
	}
	return r
}

// Catalog returns the catalog being resolved against
func (r *Resolver) Catalog() *standard.Catalog {
	return r.catalog
}

// FindMatchingStandard returns the record for profile, or nil when nothing matches
func (r *Resolver) FindMatchingStandard(profile string) *standard.RequirementRecord {
	if m, ok := r.Resolve(profile); ok {
		return m.Record
	}
	return nil
}

// Resolve runs the chain; the first rule with a hit wins and records are scanned in
// catalog order within each rule. A blank profile never matches.
func (r *Resolver) Resolve(profile string) (Match, bool) {
	want := strings.ToLower(strings.TrimSpace(profile))
	if want == "" || len(r.entries) == 0 {
		return Match{}, false
	}
	tokens := strings.Fields(want)

	for _, e := range r.entries {
		if e.uniformity && e.task == want {
			return Match{e.record, RuleExactUniformity}, true
		}
	}
	for _, e := range r.entries {
		if e.lighting && e.task == want {
			return Match{e.record, RuleExact}, true
		}
	}
	for _, e := range r.entries {
		if !e.uniformity {
			continue
		}
		if strings.Contains(e.task, want) || strings.Contains(e.category, want) || containsAny(e.task, tokens) {
			return Match{e.record, RulePartialUniformity}, true
		}
	}
	if containsAny(want, r.domainKeywords) {
		for _, e := range r.entries {
			if e.lighting && containsAny(e.task, r.domainKeywords) {
				return Match{e.record, RuleDomainKeyword}, true
			}
		}
	}
	for _, e := range r.entries {
		if e.uniformity && containsAny(e.task, r.genericKeywords) {
			return Match{e.record, RuleGenericActivity}, true
		}
	}
	for _, e := range r.entries {
		if e.uniformity {
			return Match{e.record, RuleLastResort}, true
		}
	}
	return Match{}, false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
