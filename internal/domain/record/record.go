// Package record implements the schema-agnostic record store shared by the
// three services. A record is a JSON document; the store persists it in the
// in-memory SQLite database and preserves collection insertion order.
package record

import (
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is the domain-level failure for an absent record. Handlers
	// surface it to callers as a structured error payload.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID signals an identifier collision on insert. Given the
	// allocation discipline this is a programming error, not a caller error.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Record is one stored entity: a mapping from field name to value.
// Values follow encoding/json conventions (string, float64, bool, []any,
// map[string]any).
type Record map[string]any

// String returns the named field as a string, or "" when absent or non-string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Number returns the named field as a float64, or 0 when absent or non-numeric.
// Integers survive a JSON round-trip as float64.
func (r Record) Number(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Strings returns the named field as a string slice. List fields come back
// from a JSON round-trip as []any; non-string elements are skipped.
func (r Record) Strings(field string) []string {
	switch v := r[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of the record via a JSON round-trip, so callers
// can mutate the result without aliasing stored state.
func (r Record) Clone() (Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
