package graph

import (
	"fmt"

	"github.com/gati-ai/gati/internal/trace"
)

// Sentinel node names used by orchestration frameworks in declared edges.
const (
	sentinelStart = "__start__"
	sentinelEnd   = "__end__"
	literalEnd    = "END"
)

// BuildNameIndex maps node names to concrete event ids so declared topology
// (which speaks in names) can be drawn over recorded events (which have
// ids).
//
// Registration walks all events once, in input order, last write winning:
// within one run a name should correspond to one executed event, and when a
// producer breaks that the policy must still be deterministic.
func BuildNameIndex(events []*trace.Event, gs *trace.GraphStructure) map[string]string {
	index := make(map[string]string)
	for _, ev := range events {
		switch ev.EventType {
		case trace.EventAgentStart:
			index[sentinelStart] = ev.EventID
			if gs != nil && gs.EntryPoint != "" {
				index[gs.EntryPoint] = ev.EventID
			}
		case trace.EventAgentEnd:
			index[sentinelEnd] = ev.EventID
			index[literalEnd] = ev.EventID
		case trace.EventNodeExecution:
			if name, ok := ev.Data.String("node_name"); ok && name != "" {
				index[name] = ev.EventID
			}
			// Covers naming drift between the declared topology and the
			// recorded payload.
			if key := SequenceKey(ev); key != "" {
				index[key] = ev.EventID
			}
		default:
			index[SequenceKey(ev)] = ev.EventID
		}
	}
	return index
}

// MapTopologyEdges resolves each declared edge onto event ids. Edges whose
// endpoints cannot be resolved are skipped with a warning. Edges whose
// resolved (source, target) pair is already drawn by any earlier edge
// (empirical hierarchy or sequence edges, or a previously mapped topology
// edge) are suppressed: declared topology is the lowest-priority layer once
// real execution evidence covers the same endpoints.
func MapTopologyEdges(gs *trace.GraphStructure, nameIndex map[string]string, existing []DisplayEdge) ([]DisplayEdge, []string) {
	if gs == nil {
		return nil, nil
	}

	covered := make(map[string]bool, len(existing))
	for _, e := range existing {
		covered[endpointKey(e.Source, e.Target)] = true
	}

	var edges []DisplayEdge
	var warnings []string

	for _, declared := range gs.Edges {
		source, ok := nameIndex[declared.From]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("could not find source event for node: %s", declared.From))
			continue
		}
		target, ok := resolveTarget(declared.To, nameIndex)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("could not find target event for node: %s", declared.To))
			continue
		}

		key := endpointKey(source, target)
		if covered[key] {
			continue
		}
		covered[key] = true

		edge := DisplayEdge{
			ID:     topologyEdgeID(source, target),
			Source: source,
			Target: target,
			Kind:   EdgeTopology,
		}
		if declared.Conditional {
			edge.Kind = EdgeTopologyConditional
			edge.Label = declared.Condition
			if edge.Label == "" {
				edge.Label = "conditional"
			}
		}
		edges = append(edges, edge)
	}
	return edges, warnings
}

// resolveTarget looks up a declared edge target, falling back to the
// __end__ registration when the target is an end sentinel with no direct
// mapping of its own.
func resolveTarget(name string, nameIndex map[string]string) (string, bool) {
	if id, ok := nameIndex[name]; ok {
		return id, true
	}
	if name == sentinelEnd || name == literalEnd {
		id, ok := nameIndex[sentinelEnd]
		return id, ok
	}
	return "", false
}

func endpointKey(source, target string) string {
	return source + "\x00" + target
}
