// Package render turns a reconstructed run into shareable artifacts:
// Mermaid flowcharts, Graphviz DOT, and markdown reports.
package render

import (
	"fmt"

	"github.com/TyphonHill/go-mermaid/diagrams/flowchart"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/trace"
)

// MermaidOptions controls flowchart generation.
type MermaidOptions struct {
	// MarkdownFence wraps the diagram in a ```mermaid fence for embedding
	// in markdown documents.
	MarkdownFence bool
}

// Mermaid renders the reconstructed graph as a Mermaid flowchart, one node
// per display node and one link per derived edge. Links are deduplicated on
// their endpoint pair so coinciding hierarchy and sequence edges draw once.
func Mermaid(result *graph.Result, opts MermaidOptions) string {
	diagram := flowchart.NewFlowchart()
	if opts.MarkdownFence {
		diagram.EnableMarkdownFence()
	}
	diagram.SetDirection(flowchart.FlowchartDirectionTopDown)
	diagram.Config.SetHtmlLabels(true)

	nodes := make(map[string]*flowchart.Node, len(result.Nodes))
	for _, dn := range result.Nodes {
		node := diagram.AddNode(mermaidLabel(dn))
		applyShape(node, dn)
		if style := nodeStyle(dn); style != nil {
			node.SetStyle(style)
		}
		nodes[dn.EventID] = node
	}

	addedLinks := make(map[string]bool)
	for _, edge := range result.Edges {
		from, ok := nodes[edge.Source]
		if !ok {
			continue
		}
		to, ok := nodes[edge.Target]
		if !ok {
			continue
		}
		key := edge.Source + "->" + edge.Target
		if addedLinks[key] {
			continue
		}
		addedLinks[key] = true
		diagram.AddLink(from, to)
	}

	return diagram.String()
}

func mermaidLabel(dn *graph.DisplayNode) string {
	label := dn.DisplayName
	if dn.SequenceIndex >= 0 {
		label = fmt.Sprintf("%d. %s", dn.SequenceIndex+1, label)
	}
	if dn.IsParallel {
		label += " ∥"
	}
	if dn.Event != nil && dn.Event.LatencyMs != nil {
		label += fmt.Sprintf("<br/>%.0fms", *dn.Event.LatencyMs)
	}
	return label
}

func applyShape(node *flowchart.Node, dn *graph.DisplayNode) {
	if dn.Event == nil {
		node.SetShape(flowchart.NodeShapeProcess)
		return
	}
	switch dn.Event.EventType {
	case trace.EventAgentStart, trace.EventAgentEnd:
		node.SetShape(flowchart.NodeShapeTerminal)
	case trace.EventToolCall:
		node.SetShape(flowchart.NodeShapeSubprocess)
	case trace.EventLLMCall:
		node.SetShape(flowchart.NodeShapeDecision)
	case trace.EventError:
		node.SetShape(flowchart.NodeShapeInputOutput)
	default:
		node.SetShape(flowchart.NodeShapeProcess)
	}
}

func nodeStyle(dn *graph.DisplayNode) *flowchart.NodeStyle {
	style := flowchart.NewNodeStyle()
	style.StrokeWidth = 1

	if dn.IsParallel {
		style.Fill = "#fff8e1"
		style.Stroke = "#ff8f00"
		style.StrokeWidth = 2
		return style
	}
	if dn.Event == nil {
		return nil
	}
	switch dn.Event.EventType {
	case trace.EventAgentStart, trace.EventAgentEnd:
		style.Fill = "#e1f5fe"
		style.Stroke = "#01579b"
	case trace.EventToolCall:
		style.Fill = "#e8f5e9"
		style.Stroke = "#1b5e20"
	case trace.EventLLMCall:
		style.Fill = "#f3e5f5"
		style.Stroke = "#4a148c"
	case trace.EventError:
		style.Fill = "#ffebee"
		style.Stroke = "#b71c1c"
	default:
		return nil
	}
	return style
}
