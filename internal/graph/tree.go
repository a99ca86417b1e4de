package graph

import (
	"github.com/gati-ai/gati/internal/trace"
)

// Layout spacing. Vertical spacing shrinks as traces grow so long runs stay
// on screen; horizontal spacing narrows for wide sibling groups.
const (
	rootSpacingX       = 300.0
	childSpacingX      = 200.0
	denseChildSpacingX = 150.0
	wideSiblingCount   = 5
)

func verticalSpacing(maxIndex int) float64 {
	switch {
	case maxIndex <= 5:
		return 120
	case maxIndex <= 20:
		return 100
	default:
		return 80
	}
}

// AssembleTree walks the event forest depth-first and produces one
// DisplayNode per event, one hierarchical edge per non-root event, and the
// event-id lookup map.
//
// Y positions come from the sequence index of the node's sequence key:
// agent_start is pinned to row 0, indexed nodes occupy rows 1..maxIndex+1,
// and agent_end is pinned to the row after the last indexed one, regardless
// of the sentinels' own lookups. Nodes with no index fall back to their tree
// depth.
func AssembleTree(roots []*trace.Event, seq map[string]int, maxIndex int) ([]*DisplayNode, []DisplayEdge, map[string]*trace.Event) {
	var nodes []*DisplayNode
	var edges []DisplayEdge
	lookup := make(map[string]*trace.Event)

	spacingY := verticalSpacing(maxIndex)

	var walk func(ev *trace.Event, parent *DisplayNode, siblingIndex, siblingCount, depth int)
	walk = func(ev *trace.Event, parent *DisplayNode, siblingIndex, siblingCount, depth int) {
		node := &DisplayNode{
			EventID:       ev.EventID,
			DisplayName:   DisplayName(ev),
			SequenceIndex: -1,
			Event:         ev,
		}
		if idx, ok := seq[SequenceKey(ev)]; ok {
			node.SequenceIndex = idx
		}

		node.Position = position(ev, node.SequenceIndex, parent, siblingIndex, siblingCount, depth, spacingY, maxIndex)

		nodes = append(nodes, node)
		lookup[ev.EventID] = ev

		if parent != nil {
			edges = append(edges, DisplayEdge{
				ID:     hierarchicalEdgeID(parent.EventID, ev.EventID),
				Source: parent.EventID,
				Target: ev.EventID,
				Kind:   EdgeHierarchical,
			})
		}

		for i, child := range ev.Children {
			walk(child, node, i, len(ev.Children), depth+1)
		}
	}

	for i, root := range roots {
		walk(root, nil, i, len(roots), 0)
	}
	return nodes, edges, lookup
}

func position(ev *trace.Event, seqIndex int, parent *DisplayNode, siblingIndex, siblingCount, depth int, spacingY float64, maxIndex int) Position {
	var pos Position

	switch {
	case ev.EventType == trace.EventAgentStart:
		pos.Y = 0
	case ev.EventType == trace.EventAgentEnd:
		pos.Y = float64(maxIndex+2) * spacingY
	case seqIndex >= 0:
		pos.Y = float64(seqIndex+1) * spacingY
	default:
		pos.Y = float64(depth) * spacingY
	}

	if parent == nil {
		pos.X = float64(siblingIndex) * rootSpacingX
		return pos
	}

	// Children center under their parent.
	spacingX := childSpacingX
	if siblingCount > wideSiblingCount {
		spacingX = denseChildSpacingX
	}
	offset := (float64(siblingIndex) - float64(siblingCount-1)/2) * spacingX
	pos.X = parent.Position.X + offset
	return pos
}
