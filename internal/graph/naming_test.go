package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gati-ai/gati/internal/trace"
)

func TestDisplayNamePriority(t *testing.T) {
	tests := []struct {
		name string
		typ  trace.EventType
		data trace.Payload
		want string
	}{
		{
			name: "tool_call prefers tool_name over tool",
			typ:  trace.EventToolCall,
			data: trace.Payload{"tool_name": "search", "tool": "fallback"},
			want: "search",
		},
		{
			name: "tool_call falls back to tool",
			typ:  trace.EventToolCall,
			data: trace.Payload{"tool": "calculator"},
			want: "calculator",
		},
		{
			name: "node_execution uses node_name",
			typ:  trace.EventNodeExecution,
			data: trace.Payload{"node_name": "analyze", "name": "pretty"},
			want: "analyze",
		},
		{
			name: "generic name wins over tool_name for non-tool events",
			typ:  trace.EventLLMCall,
			data: trace.Payload{"name": "X", "tool_name": "Y"},
			want: "X",
		},
		{
			name: "model is last resort of the generic chain",
			typ:  trace.EventLLMCall,
			data: trace.Payload{"model": "gpt-4o-mini"},
			want: "gpt-4o-mini",
		},
		{
			name: "whitespace-only values are rejected",
			typ:  trace.EventToolCall,
			data: trace.Payload{"tool_name": "   ", "tool": "real"},
			want: "real",
		},
		{
			name: "values are trimmed",
			typ:  trace.EventToolCall,
			data: trace.Payload{"tool_name": "  search  "},
			want: "search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayName(ev("e", tt.typ, 0, tt.data))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayNameHeuristicScan(t *testing.T) {
	t.Run("scans unknown keys for node_execution", func(t *testing.T) {
		e := ev("e", trace.EventNodeExecution, 0, trace.Payload{"step": "summarize"})
		assert.Equal(t, "summarize", DisplayName(e))
	})

	t.Run("denylisted keys are never used", func(t *testing.T) {
		e := ev("e", trace.EventNodeExecution, 0, trace.Payload{
			"status":     "completed",
			"agent_name": "researcher",
			"run_id":     "run-42",
		})
		assert.Equal(t, "Node Execution", DisplayName(e))
	})

	t.Run("scan is off for other event types", func(t *testing.T) {
		e := ev("e", trace.EventLLMCall, 0, trace.Payload{"step": "summarize"})
		assert.Equal(t, "LLM Call", DisplayName(e))
	})

	t.Run("scan order is deterministic across keys", func(t *testing.T) {
		e := ev("e", trace.EventToolCall, 0, trace.Payload{"beta": "second", "alpha": "first"})
		for i := 0; i < 20; i++ {
			assert.Equal(t, "first", DisplayName(e))
		}
	})
}

func TestDisplayNameFiltersNonNames(t *testing.T) {
	tests := []struct {
		name string
		data trace.Payload
	}{
		{"canonical uuid", trace.Payload{"ref": "550e8400-e29b-41d4-a716-446655440000"}},
		{"uuid substring", trace.Payload{"ref": "my-uuid-value"}},
		{"embedded json object", trace.Payload{"ref": `{"nested": true}`}},
		{"embedded json array", trace.Payload{"ref": `["a", "b"]`}},
		{"oversized string", trace.Payload{"ref": strings.Repeat("x", 100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ev("e", trace.EventToolCall, 0, tt.data)
			assert.Equal(t, "Tool Call", DisplayName(e))
		})
	}
}

func TestTypeLabelFallback(t *testing.T) {
	assert.Equal(t, "LLM Call", DisplayName(ev("e", trace.EventLLMCall, 0, nil)))
	assert.Equal(t, "Agent Start", DisplayName(ev("e", trace.EventAgentStart, 0, nil)))
	assert.Equal(t, "Memory Write", DisplayName(ev("e", trace.EventType("memory_write"), 0, nil)))
	assert.Equal(t, "Checkpoint", DisplayName(ev("e", trace.EventType("checkpoint"), 0, nil)))
}

func TestSequenceKey(t *testing.T) {
	t.Run("node_execution keys off node_name", func(t *testing.T) {
		e := ev("e", trace.EventNodeExecution, 0, trace.Payload{"node_name": "analyze", "name": "Analyze Step"})
		assert.Equal(t, "analyze", SequenceKey(e))
	})

	t.Run("tool_call keys off tool_name", func(t *testing.T) {
		e := ev("e", trace.EventToolCall, 0, trace.Payload{"tool_name": "search", "name": "Web Search"})
		assert.Equal(t, "search", SequenceKey(e))
	})

	t.Run("falls back to display name", func(t *testing.T) {
		e := ev("e", trace.EventLLMCall, 0, trace.Payload{"model": "gpt-4o"})
		assert.Equal(t, "gpt-4o", SequenceKey(e))
	})
}
