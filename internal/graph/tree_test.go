package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gati-ai/gati/internal/trace"
)

func TestAssembleTreeNodesAndEdges(t *testing.T) {
	roots := chainForest()
	seq := map[string]int{"analyze": 0, "process": 1}

	nodes, edges, lookup := AssembleTree(roots, seq, 1)

	require.Len(t, nodes, 4)
	assert.Equal(t, []string{"s0", "n1", "n2", "e0"}, nodeIDs(nodes))

	require.Len(t, edges, 3)
	for _, e := range edges {
		assert.Equal(t, EdgeHierarchical, e.Kind)
	}
	assert.Equal(t, "s0", edges[0].Source)
	assert.Equal(t, "n1", edges[0].Target)
	assert.Equal(t, "n1", edges[1].Source)
	assert.Equal(t, "n2", edges[1].Target)
	assert.Equal(t, "n2", edges[2].Source)
	assert.Equal(t, "e0", edges[2].Target)

	require.Len(t, lookup, 4)
	assert.Equal(t, trace.EventAgentStart, lookup["s0"].EventType)
}

func TestAssembleTreeVerticalLayout(t *testing.T) {
	roots := chainForest()
	seq := map[string]int{"analyze": 0, "process": 1}

	nodes, _, _ := AssembleTree(roots, seq, 1)
	byID := nodesByID(nodes)

	// maxIndex 1 -> 120 spacing. agent_start pinned to the top row,
	// indexed nodes below it, agent_end pinned after the last indexed row.
	assert.Equal(t, 0.0, byID["s0"].Position.Y)
	assert.Equal(t, 120.0, byID["n1"].Position.Y)
	assert.NotZero(t, byID["n1"].Position.Y, "first indexed node must not share the agent_start row")
	assert.Equal(t, 240.0, byID["n2"].Position.Y)
	assert.Equal(t, 360.0, byID["e0"].Position.Y)
}

func TestVerticalSpacingShrinksWithTraceSize(t *testing.T) {
	assert.Equal(t, 120.0, verticalSpacing(0))
	assert.Equal(t, 120.0, verticalSpacing(5))
	assert.Equal(t, 100.0, verticalSpacing(6))
	assert.Equal(t, 100.0, verticalSpacing(20))
	assert.Equal(t, 80.0, verticalSpacing(21))
}

func TestAssembleTreeHorizontalLayout(t *testing.T) {
	r0 := ev("r0", trace.EventNodeExecution, 0, trace.Payload{"node_name": "left"})
	r1 := ev("r1", trace.EventNodeExecution, 10, trace.Payload{"node_name": "right"})
	c0 := withParent(ev("c0", trace.EventToolCall, 20, trace.Payload{"tool_name": "a"}), "r1")
	c1 := withParent(ev("c1", trace.EventToolCall, 30, trace.Payload{"tool_name": "b"}), "r1")
	c2 := withParent(ev("c2", trace.EventToolCall, 40, trace.Payload{"tool_name": "c"}), "r1")
	r1.Children = []*trace.Event{c0, c1, c2}

	nodes, _, _ := AssembleTree([]*trace.Event{r0, r1}, nil, -1)
	byID := nodesByID(nodes)

	assert.Equal(t, 0.0, byID["r0"].Position.X)
	assert.Equal(t, 300.0, byID["r1"].Position.X)

	// Three children centered under r1 at 200 spacing.
	assert.Equal(t, 100.0, byID["c0"].Position.X)
	assert.Equal(t, 300.0, byID["c1"].Position.X)
	assert.Equal(t, 500.0, byID["c2"].Position.X)
}

func TestAssembleTreeDenseSiblingSpacing(t *testing.T) {
	parent := ev("p", trace.EventNodeExecution, 0, trace.Payload{"node_name": "fan"})
	for i := 0; i < 6; i++ {
		child := withParent(ev(string(rune('a'+i)), trace.EventToolCall, 10+i, nil), "p")
		parent.Children = append(parent.Children, child)
	}

	nodes, _, _ := AssembleTree([]*trace.Event{parent}, nil, -1)
	byID := nodesByID(nodes)

	// More than five siblings narrows the spacing to 150.
	gap := byID["b"].Position.X - byID["a"].Position.X
	assert.Equal(t, 150.0, gap)
}

func TestAssembleTreeUnindexedNodeFallsBackToDepth(t *testing.T) {
	roots := chainForest()
	nodes, _, _ := AssembleTree(roots, nil, -1)
	byID := nodesByID(nodes)

	// No sequence data: nodes descend by depth instead.
	assert.Equal(t, 120.0, byID["n1"].Position.Y)
	assert.Equal(t, 240.0, byID["n2"].Position.Y)
}

func nodeIDs(nodes []*DisplayNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.EventID
	}
	return ids
}

func nodesByID(nodes []*DisplayNode) map[string]*DisplayNode {
	byID := make(map[string]*DisplayNode, len(nodes))
	for _, n := range nodes {
		byID[n.EventID] = n
	}
	return byID
}
