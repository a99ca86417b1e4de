package graph

import (
	"github.com/gati-ai/gati/internal/trace"
)

// Reconstruct builds the layered visualization model for one run.
//
// The forest must be pre-grouped on parent_event_id by the store; graph and
// flow are optional and reconstruction degrades to tree+sequence when they
// are absent. A nil forest fails fast with ErrNoEvents; every other input
// reconstructs to a (possibly degenerate) result, with anomalies collected
// into Result.Warnings rather than raised.
func Reconstruct(roots []*trace.Event, gs *trace.GraphStructure, flow *trace.ExecutionFlow) (*Result, error) {
	if roots == nil {
		return nil, ErrNoEvents
	}

	flat := trace.Flatten(roots)

	seq, maxIndex := BuildSequenceIndex(flat, flow)
	nodes, hierEdges, lookup := AssembleTree(roots, seq, maxIndex)

	seqEdges, seqWarnings := DeriveSequentialEdges(flat, lookup)

	nameIndex := BuildNameIndex(flat, gs)
	topoEdges, topoWarnings := MapTopologyEdges(gs, nameIndex, append(append([]DisplayEdge{}, hierEdges...), seqEdges...))

	AnnotateParallel(nodes, flow, nameIndex)

	edges := make([]DisplayEdge, 0, len(hierEdges)+len(seqEdges)+len(topoEdges))
	edges = append(edges, hierEdges...)
	edges = append(edges, seqEdges...)
	edges = append(edges, topoEdges...)

	var warnings []string
	warnings = append(warnings, seqWarnings...)
	warnings = append(warnings, topoWarnings...)

	return &Result{
		Nodes:       nodes,
		Edges:       edges,
		EventLookup: lookup,
		Warnings:    warnings,
	}, nil
}

// ReconstructRun is the convenience entry point over a loaded run.
func ReconstructRun(run *trace.RunData) (*Result, error) {
	if run == nil {
		return nil, ErrNoEvents
	}
	return Reconstruct(run.Roots, run.Graph, run.Flow)
}
