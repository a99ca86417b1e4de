// Package graph reconstructs a flat, partially-ordered event trace into a
// layered visualization model: a parent/child execution tree, a temporal
// execution chain, the framework's declared topology mapped onto recorded
// events, and a parallel-execution overlay.
//
// Reconstruction is a pure function of its inputs. It never fails on
// malformed-but-structurally-valid data; unresolvable references are dropped
// and reported as warnings on the result.
package graph

import (
	"errors"
	"fmt"

	"github.com/gati-ai/gati/internal/trace"
)

// ErrNoEvents signals that reconstruction was invoked with no forest at all,
// as opposed to a forest that legitimately reconstructs to an empty graph.
var ErrNoEvents = errors.New("no trace events to reconstruct")

// EdgeKind distinguishes how an edge was derived. Edges of different kinds
// between the same endpoints are all kept; renderers must keep them
// distinguishable.
type EdgeKind string

const (
	// EdgeHierarchical comes from parent_event_id containment.
	EdgeHierarchical EdgeKind = "hierarchical"
	// EdgeSequential comes from the previous_event_id execution chain.
	EdgeSequential EdgeKind = "sequential"
	// EdgeTopology comes from a declared regular graph edge.
	EdgeTopology EdgeKind = "topology"
	// EdgeTopologyConditional comes from a declared conditional graph edge.
	EdgeTopologyConditional EdgeKind = "topology_conditional"
)

// Position is the default layout coordinate assigned to a node. Purely a
// rendering hint; no semantic invariant beyond children clustering under
// their parent.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DisplayNode is one rendered event.
type DisplayNode struct {
	EventID       string   `json:"event_id"`
	DisplayName   string   `json:"display_name"`
	SequenceIndex int      `json:"sequence_index"` // -1 when unresolved
	IsParallel    bool     `json:"is_parallel"`
	Position      Position `json:"position"`

	// Event backs the node for detail rendering; not serialized.
	Event *trace.Event `json:"-"`
}

// DisplayEdge is one rendered edge, tagged by how it was derived.
type DisplayEdge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	Label  string   `json:"label,omitempty"`
}

// Result is the reconstructed model handed to presentation consumers.
// Rebuilt from scratch on every call; nothing here is shared or cached.
type Result struct {
	Nodes       []*DisplayNode          `json:"nodes"`
	Edges       []DisplayEdge           `json:"edges"`
	EventLookup map[string]*trace.Event `json:"-"`

	// Warnings lists non-fatal anomalies (unresolvable references) in the
	// order they were encountered, for diagnostic display.
	Warnings []string `json:"warnings,omitempty"`
}

func hierarchicalEdgeID(source, target string) string {
	return fmt.Sprintf("h-%s-%s", source, target)
}

func sequentialEdgeID(source, target string) string {
	return fmt.Sprintf("seq-%s-%s", source, target)
}

func topologyEdgeID(source, target string) string {
	return fmt.Sprintf("topo-%s-%s", source, target)
}
