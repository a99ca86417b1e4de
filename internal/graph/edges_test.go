package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gati-ai/gati/internal/trace"
)

func TestDeriveSequentialEdges(t *testing.T) {
	events := []*trace.Event{
		ev("a", trace.EventAgentStart, 0, nil),
		withPrev(ev("b", trace.EventNodeExecution, 10, trace.Payload{"node_name": "analyze"}), "a"),
		withPrev(ev("c", trace.EventNodeExecution, 20, trace.Payload{"node_name": "process"}), "b"),
	}
	lookup := map[string]*trace.Event{"a": events[0], "b": events[1], "c": events[2]}

	edges, warnings := DeriveSequentialEdges(events, lookup)
	require.Len(t, edges, 2)
	assert.Empty(t, warnings)

	assert.Equal(t, "seq-a-b", edges[0].ID)
	assert.Equal(t, "a", edges[0].Source)
	assert.Equal(t, "b", edges[0].Target)
	assert.Equal(t, EdgeSequential, edges[0].Kind)
	assert.Equal(t, "seq-b-c", edges[1].ID)
}

func TestDeriveSequentialEdgesDanglingPrevious(t *testing.T) {
	events := []*trace.Event{
		withPrev(ev("b", trace.EventNodeExecution, 10, nil), "ghost"),
	}
	lookup := map[string]*trace.Event{"b": events[0]}

	edges, warnings := DeriveSequentialEdges(events, lookup)
	assert.Empty(t, edges)
	require.Len(t, warnings, 1)
	assert.Equal(t, "previous event ghost of b is not in this trace", warnings[0])
}

func TestDeriveSequentialEdgesEmptyPreviousIsSilent(t *testing.T) {
	events := []*trace.Event{
		ev("a", trace.EventAgentStart, 0, nil),
		ev("b", trace.EventNodeExecution, 10, nil),
	}
	lookup := map[string]*trace.Event{"a": events[0], "b": events[1]}

	edges, warnings := DeriveSequentialEdges(events, lookup)
	assert.Empty(t, edges)
	assert.Empty(t, warnings)
}

func TestSequentialEdgesCoexistWithHierarchical(t *testing.T) {
	// The temporal chain follows the containment chain exactly; both layers
	// still emit their own edge between the same endpoints.
	roots := chainForest()
	flat := trace.Flatten(roots)
	_, hier, lookup := AssembleTree(roots, nil, -1)

	seq, _ := DeriveSequentialEdges(flat, lookup)
	require.Len(t, hier, 3)
	require.Len(t, seq, 3)
	for i := range hier {
		assert.Equal(t, hier[i].Source, seq[i].Source)
		assert.Equal(t, hier[i].Target, seq[i].Target)
		assert.NotEqual(t, hier[i].ID, seq[i].ID)
		assert.NotEqual(t, hier[i].Kind, seq[i].Kind)
	}
}
