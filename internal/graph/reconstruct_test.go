package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gati-ai/gati/internal/trace"
)

func canonicalRun() ([]*trace.Event, *trace.GraphStructure, *trace.ExecutionFlow) {
	gs := &trace.GraphStructure{
		Nodes:      []string{"analyze", "process"},
		EntryPoint: "analyze",
		EndNodes:   []string{"process"},
		Edges: []trace.GraphEdge{
			{From: "__start__", To: "analyze"},
			{From: "analyze", To: "process"},
			{From: "process", To: "END"},
		},
	}
	flow := &trace.ExecutionFlow{ExecutionOrder: []string{"analyze", "process"}}
	return chainForest(), gs, flow
}

func TestReconstructCanonicalRun(t *testing.T) {
	roots, gs, flow := canonicalRun()

	result, err := Reconstruct(roots, gs, flow)
	require.NoError(t, err)

	require.Len(t, result.Nodes, 4)
	assert.Len(t, result.EventLookup, 4)
	assert.Empty(t, result.Warnings)

	kinds := map[EdgeKind]int{}
	for _, e := range result.Edges {
		kinds[e.Kind]++
	}
	assert.Equal(t, 3, kinds[EdgeHierarchical])
	assert.Equal(t, 3, kinds[EdgeSequential])
	assert.Zero(t, kinds[EdgeTopology], "declared edges already covered by execution evidence")
	assert.Zero(t, kinds[EdgeTopologyConditional])

	byID := nodesByID(result.Nodes)
	assert.Equal(t, 0, byID["n1"].SequenceIndex)
	assert.Equal(t, 1, byID["n2"].SequenceIndex)
	assert.Equal(t, -1, byID["s0"].SequenceIndex)
	assert.NotZero(t, byID["n1"].Position.Y)
}

func TestReconstructDeterministic(t *testing.T) {
	roots, gs, flow := canonicalRun()

	first, err := Reconstruct(roots, gs, flow)
	require.NoError(t, err)
	second, err := Reconstruct(roots, gs, flow)
	require.NoError(t, err)

	assert.Equal(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Edges, second.Edges)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestReconstructNilForest(t *testing.T) {
	result, err := Reconstruct(nil, nil, nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoEvents)

	result, err = ReconstructRun(nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoEvents)
}

func TestReconstructEmptyForest(t *testing.T) {
	result, err := Reconstruct([]*trace.Event{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
	assert.Empty(t, result.Edges)
	assert.Empty(t, result.Warnings)
}

func TestReconstructTreeOnly(t *testing.T) {
	// No graph, no flow, no previous links: pure containment tree.
	root := ev("s0", trace.EventAgentStart, 0, nil)
	child := withParent(ev("t1", trace.EventToolCall, 10, trace.Payload{"tool_name": "search"}), "s0")
	root.Children = []*trace.Event{child}

	result, err := Reconstruct([]*trace.Event{root}, nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Nodes, 2)
	require.Len(t, result.Edges, 1)
	assert.Equal(t, EdgeHierarchical, result.Edges[0].Kind)
	assert.Equal(t, "search", result.Nodes[1].DisplayName)
}

func TestReconstructNoDuplicateRenderedEdges(t *testing.T) {
	// A strict parent chain plus a declared topology edge over the same two
	// nodes must render one edge between them, not two.
	a := ev("a", trace.EventNodeExecution, 0, trace.Payload{"node_name": "analyze"})
	b := withParent(ev("b", trace.EventNodeExecution, 10, trace.Payload{"node_name": "process"}), "a")
	c := withParent(ev("c", trace.EventNodeExecution, 20, trace.Payload{"node_name": "respond"}), "b")
	a.Children = []*trace.Event{b}
	b.Children = []*trace.Event{c}

	gs := &trace.GraphStructure{
		Edges: []trace.GraphEdge{{From: "analyze", To: "process"}},
	}

	result, err := Reconstruct([]*trace.Event{a}, gs, nil)
	require.NoError(t, err)

	between := 0
	for _, e := range result.Edges {
		if e.Source == "a" && e.Target == "b" {
			between++
		}
	}
	assert.Equal(t, 1, between)
}

func TestReconstructCollectsWarnings(t *testing.T) {
	root := ev("s0", trace.EventAgentStart, 0, nil)
	child := withParent(withPrev(ev("n1", trace.EventNodeExecution, 10, trace.Payload{"node_name": "analyze"}), "ghost"), "s0")
	root.Children = []*trace.Event{child}

	gs := &trace.GraphStructure{
		Edges: []trace.GraphEdge{{From: "phantom", To: "analyze"}},
	}

	result, err := Reconstruct([]*trace.Event{root}, gs, nil)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "ghost")
	assert.Contains(t, result.Warnings[1], "phantom")
}

func TestReconstructParallelOverlay(t *testing.T) {
	root := ev("s0", trace.EventAgentStart, 0, nil)
	fa := withParent(ev("n1", trace.EventNodeExecution, 10, trace.Payload{"node_name": "fetch_a"}), "s0")
	fb := withParent(ev("n2", trace.EventNodeExecution, 11, trace.Payload{"node_name": "fetch_b"}), "s0")
	root.Children = []*trace.Event{fa, fb}

	flow := &trace.ExecutionFlow{
		ExecutionOrder: []string{"fetch_a", "fetch_b"},
		ParallelGroups: [][]string{{"fetch_a", "fetch_b"}},
	}

	result, err := Reconstruct([]*trace.Event{root}, nil, flow)
	require.NoError(t, err)

	byID := nodesByID(result.Nodes)
	assert.True(t, byID["n1"].IsParallel)
	assert.True(t, byID["n2"].IsParallel)
	assert.False(t, byID["s0"].IsParallel)
}
