package trace

import (
	"sort"
	"strconv"
)

// Payload is the free-form data attached to an event. Producers disagree on
// key names for the same logical attribute, so access goes through typed
// lookups instead of direct indexing.
type Payload map[string]any

// String returns the value under key when it is a string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// FirstString tries the given keys in order and returns the first string
// value found.
func (p Payload) FirstString(keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := p.String(key); ok {
			return s, true
		}
	}
	return "", false
}

// Float returns the value under key coerced to float64. JSON numbers decode
// as float64; ints and numeric strings are accepted for tolerant producers.
func (p Payload) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the value under key coerced to int, truncating float values.
func (p Payload) Int(key string) (int, bool) {
	f, ok := p.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// StringSlice returns the value under key as a slice of strings, tolerating
// the []any shape produced by generic JSON decoding.
func (p Payload) StringSlice(key string) ([]string, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	switch items := v.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Map returns the value under key when it is a nested payload.
func (p Payload) Map(key string) (Payload, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case Payload:
		return m, true
	case map[string]any:
		return Payload(m), true
	default:
		return nil, false
	}
}

// SortedKeys returns the payload keys in lexicographic order. Map iteration
// order is randomized in Go, so any scan that must be deterministic walks
// the keys through this.
func (p Payload) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
