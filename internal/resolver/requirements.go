package resolver

import "luxcheck/domain/standard"

// Requirements answers "what does a room of this type need"
type Requirements struct {
	Found                bool                `json:"found"`
	Message              string              `json:"message,omitempty"`
	Standard             *standard.Ref       `json:"standard,omitempty"`
	MatchRule            Rule                `json:"match_rule,omitempty"`
	Targets              map[string]*float64 `json:"requirements,omitempty"`
	SpecificRequirements string              `json:"specific_requirements,omitempty"`
}

// Requirements looks up the numeric targets for a room type through the same chain
// used for compliance checks
func (r *Resolver) Requirements(roomType string) Requirements {
	m, ok := r.Resolve(roomType)
	if !ok {
		return Requirements{Found: false, Message: "No standard found for this room type"}
	}

	ref := m.Record.Ref()
	targets := make(map[string]*float64, len(standard.LightingFields))
	for _, field := range standard.LightingFields {
		targets[field] = m.Record.Value(field)
	}
	return Requirements{
		Found:                true,
		Standard:             &ref,
		MatchRule:            m.Rule,
		Targets:              targets,
		SpecificRequirements: m.Record.SpecificRequirements,
	}
}
