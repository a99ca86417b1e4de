package render

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/trace"
)

const dotGraphName = "trace"

// DOT renders the reconstructed graph in Graphviz DOT form. Node identity is
// the event id; labels carry the display name. Edge kinds map to line
// styles: solid for hierarchy, dashed for the temporal chain, dotted for
// declared topology.
func DOT(result *graph.Result) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(dotGraphName); err != nil {
		return "", fmt.Errorf("failed to initialize graph: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", fmt.Errorf("failed to set graph direction: %w", err)
	}
	if err := g.AddAttr(dotGraphName, "rankdir", "TB"); err != nil {
		return "", fmt.Errorf("failed to set rankdir: %w", err)
	}

	for _, dn := range result.Nodes {
		if err := g.AddNode(dotGraphName, strconv.Quote(dn.EventID), dotNodeAttrs(dn)); err != nil {
			return "", fmt.Errorf("failed to add node %s: %w", dn.EventID, err)
		}
	}

	for _, edge := range result.Edges {
		attrs := map[string]string{"style": dotEdgeStyle(edge.Kind)}
		if edge.Label != "" {
			attrs["label"] = strconv.Quote(edge.Label)
		}
		if err := g.AddEdge(strconv.Quote(edge.Source), strconv.Quote(edge.Target), true, attrs); err != nil {
			return "", fmt.Errorf("failed to add edge %s: %w", edge.ID, err)
		}
	}

	return g.String(), nil
}

func dotNodeAttrs(dn *graph.DisplayNode) map[string]string {
	attrs := map[string]string{
		"label": strconv.Quote(dn.DisplayName),
		"shape": "box",
	}
	if dn.Event != nil {
		switch dn.Event.EventType {
		case trace.EventAgentStart, trace.EventAgentEnd:
			attrs["shape"] = "oval"
		case trace.EventLLMCall:
			attrs["shape"] = "diamond"
		case trace.EventError:
			attrs["shape"] = "octagon"
			attrs["color"] = "red"
		}
	}
	if dn.IsParallel {
		attrs["peripheries"] = "2"
	}
	return attrs
}

func dotEdgeStyle(kind graph.EdgeKind) string {
	switch kind {
	case graph.EdgeSequential:
		return "dashed"
	case graph.EdgeTopology, graph.EdgeTopologyConditional:
		return "dotted"
	default:
		return "solid"
	}
}
