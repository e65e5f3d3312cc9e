package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fields is an ordered, string-keyed record as produced by the report extractor or a
// catalog source. Keys keep the position of their first insertion, so look-ups that scan
// keys visit them in document order.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields creates an empty record
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// FieldsOf builds a record from alternating key/value arguments.
// It panics on an odd argument count or a non-string key; use it for literals only.
func FieldsOf(kv ...any) *Fields {
	if len(kv)%2 != 0 {
		panic("core.FieldsOf: odd number of arguments")
	}
	f := NewFields()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("core.FieldsOf: key at position %d is %T, not string", i, kv[i]))
		}
		f.Set(key, kv[i+1])
	}
	return f
}

// Set stores value under key. An existing key keeps its position.
func (f *Fields) Set(key string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key
func (f *Fields) Get(key string) (any, bool) {
	if f == nil || f.values == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present (its value may be nil)
func (f *Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Delete removes key
func (f *Fields) Delete(key string) {
	if f == nil || f.values == nil {
		return
	}
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i:i], f.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of keys
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// String returns the value under key when it is a string
func (f *Fields) String(key string) string {
	v, _ := f.Get(key)
	s, _ := v.(string)
	return s
}

// Float returns the numeric value under key, nil when absent, null or not numeric
func (f *Fields) Float(key string) *float64 {
	v, _ := f.Get(key)
	if n, ok := ToFloat(v); ok {
		return &n
	}
	return nil
}

// Clone returns a shallow copy
func (f *Fields) Clone() *Fields {
	out := NewFields()
	if f == nil {
		return out
	}
	for _, k := range f.keys {
		out.Set(k, f.values[k])
	}
	return out
}

// MarshalJSON writes the record as a JSON object in key order
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order. null leaves the record empty.
func (f *Fields) UnmarshalJSON(data []byte) error {
	f.keys = nil
	f.values = make(map[string]any)

	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		f.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
