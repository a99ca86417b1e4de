package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadString(t *testing.T) {
	p := Payload{"name": "analyze", "count": 3}

	s, ok := p.String("name")
	assert.True(t, ok)
	assert.Equal(t, "analyze", s)

	_, ok = p.String("count")
	assert.False(t, ok, "non-string values do not coerce")

	_, ok = p.String("missing")
	assert.False(t, ok)
}

func TestPayloadFirstString(t *testing.T) {
	p := Payload{"tool": "calc", "tool_name": "search"}

	s, ok := p.FirstString("tool_name", "tool")
	assert.True(t, ok)
	assert.Equal(t, "search", s)

	s, ok = p.FirstString("missing", "tool")
	assert.True(t, ok)
	assert.Equal(t, "calc", s)

	_, ok = p.FirstString("a", "b")
	assert.False(t, ok)
}

func TestPayloadFloat(t *testing.T) {
	p := Payload{
		"f": 1.5,
		"i": 3,
		"s": "2.25",
		"x": "not a number",
	}

	for key, want := range map[string]float64{"f": 1.5, "i": 3, "s": 2.25} {
		got, ok := p.Float(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := p.Float("x")
	assert.False(t, ok)
}

func TestPayloadInt(t *testing.T) {
	p := Payload{"tokens": 120.0, "model": "gpt-4o"}

	n, ok := p.Int("tokens")
	assert.True(t, ok)
	assert.Equal(t, 120, n)

	_, ok = p.Int("model")
	assert.False(t, ok)
}

func TestPayloadStringSlice(t *testing.T) {
	p := Payload{
		"typed":   []string{"a", "b"},
		"generic": []any{"a", "b"},
		"mixed":   []any{"a", 1},
	}

	got, ok := p.StringSlice("typed")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = p.StringSlice("generic")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = p.StringSlice("mixed")
	assert.False(t, ok)
}

func TestPayloadSortedKeys(t *testing.T) {
	p := Payload{"c": 1, "a": 2, "b": 3}
	assert.Equal(t, []string{"a", "b", "c"}, p.SortedKeys())
}
