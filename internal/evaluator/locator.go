package evaluator

import (
	"strings"

	"luxcheck/domain/core"
)

// DefaultMinSubstringLength keeps two-letter aliases such as "ra" or "uo" from matching
// inside unrelated keys ("average_lux" contains "ra").
const DefaultMinSubstringLength = 3

// Lookup is the outcome of locating one measured parameter
type Lookup struct {
	Value float64
	Key   string // the data key the value was read from
	Found bool
}

// Locator finds a measured value in a measurement record by name and aliases
type Locator struct {
	// MinSubstringLength is the shortest alias tried as a substring of data keys.
	// Shorter aliases only match whole keys.
	MinSubstringLength int
}

// Find tries the literal parameter name, then each alias in order: exact key,
// case-insensitive key, then a key containing the alias. The first non-null numeric
// value wins; null or non-numeric values let the search continue.
func (l Locator) Find(values *core.Fields, parameter string, aliases []string) Lookup {
	if values.Len() == 0 {
		return Lookup{}
	}
	if v := values.Float(parameter); v != nil {
		return Lookup{Value: *v, Key: parameter, Found: true}
	}

	keys := values.Keys()
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		if v := values.Float(alias); v != nil {
			return Lookup{Value: *v, Key: alias, Found: true}
		}

		lowerAlias := strings.ToLower(alias)
		for _, key := range keys {
			if strings.ToLower(key) != lowerAlias {
				continue
			}
			if v := values.Float(key); v != nil {
				return Lookup{Value: *v, Key: key, Found: true}
			}
		}

		if len([]rune(lowerAlias)) < l.MinSubstringLength {
			continue
		}
		for _, key := range keys {
			if !strings.Contains(strings.ToLower(key), lowerAlias) {
				continue
			}
			if v := values.Float(key); v != nil {
				return Lookup{Value: *v, Key: key, Found: true}
			}
		}
	}
	return Lookup{}
}
