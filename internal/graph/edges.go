package graph

import (
	"fmt"

	"github.com/gati-ai/gati/internal/trace"
)

// DeriveSequentialEdges emits one execution-flow edge for every event whose
// previous_event_id resolves to a rendered node. Dangling and external
// references produce a warning instead of an edge; chain roots produce
// nothing. The edges may coincide endpoint-wise with hierarchical edges and
// are kept anyway as a distinct kind.
func DeriveSequentialEdges(events []*trace.Event, lookup map[string]*trace.Event) ([]DisplayEdge, []string) {
	var edges []DisplayEdge
	var warnings []string

	for _, ev := range events {
		prev := ev.PreviousEventID
		if prev == "" {
			continue
		}
		if _, ok := lookup[prev]; !ok {
			warnings = append(warnings, fmt.Sprintf("previous event %s of %s is not in this trace", prev, ev.EventID))
			continue
		}
		edges = append(edges, DisplayEdge{
			ID:     sequentialEdgeID(prev, ev.EventID),
			Source: prev,
			Target: ev.EventID,
			Kind:   EdgeSequential,
		})
	}
	return edges, warnings
}
