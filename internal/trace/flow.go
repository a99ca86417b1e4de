package trace

// GraphStructure is the topology an orchestration framework declared for an
// agent, recorded once on the agent_start event. It describes the graph as
// defined, independent of what any particular run actually executed.
type GraphStructure struct {
	Nodes      []string    `json:"nodes"`
	Edges      []GraphEdge `json:"edges"`
	EntryPoint string      `json:"entry_point,omitempty"`
	EndNodes   []string    `json:"end_nodes,omitempty"`
}

// GraphEdge is one declared transition between two named nodes.
type GraphEdge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Conditional bool   `json:"conditional,omitempty"`
	Condition   string `json:"condition,omitempty"`
}

// ExecutionFlow is the post-run execution analysis recorded on the agent_end
// event: the authoritative node order plus parallel/sequential groupings
// derived from start/end timestamps.
type ExecutionFlow struct {
	ExecutionOrder  []string    `json:"execution_order"`
	ParallelGroups  [][]string  `json:"parallel_groups,omitempty"`
	SequentialPairs [][2]string `json:"sequential_pairs,omitempty"`
}

// GraphStructureFromPayload decodes the graph_structure attachment from an
// agent_start payload. Returns nil when the payload carries none or the
// shape is unusable.
func GraphStructureFromPayload(p Payload) *GraphStructure {
	raw, ok := p.Map("graph_structure")
	if !ok {
		return nil
	}

	gs := &GraphStructure{}
	if nodes, ok := raw.StringSlice("nodes"); ok {
		gs.Nodes = nodes
	}
	if entry, ok := raw.String("entry_point"); ok {
		gs.EntryPoint = entry
	}
	if ends, ok := raw.StringSlice("end_nodes"); ok {
		gs.EndNodes = ends
	}

	edges, ok := raw["edges"].([]any)
	if !ok && gs.Nodes == nil {
		return nil
	}
	for _, item := range edges {
		em, ok := item.(map[string]any)
		if !ok {
			continue
		}
		edge := GraphEdge{}
		edge.From, _ = Payload(em).String("from")
		edge.To, _ = Payload(em).String("to")
		if edge.From == "" || edge.To == "" {
			continue
		}
		// Producers record conditional edges either as a bool flag or as
		// type: "conditional".
		if cond, ok := em["conditional"].(bool); ok && cond {
			edge.Conditional = true
		}
		if kind, _ := Payload(em).String("type"); kind == "conditional" {
			edge.Conditional = true
		}
		edge.Condition, _ = Payload(em).String("condition")
		gs.Edges = append(gs.Edges, edge)
	}

	if len(gs.Nodes) == 0 && len(gs.Edges) == 0 {
		return nil
	}
	return gs
}

// ExecutionFlowFromPayload decodes the execution_flow attachment from an
// agent_end payload. Returns nil when absent or empty.
func ExecutionFlowFromPayload(p Payload) *ExecutionFlow {
	raw, ok := p.Map("execution_flow")
	if !ok {
		return nil
	}

	flow := &ExecutionFlow{}
	if order, ok := raw.StringSlice("execution_order"); ok {
		flow.ExecutionOrder = order
	}
	if groups, ok := raw["parallel_groups"].([]any); ok {
		for _, g := range groups {
			members, ok := toStringSlice(g)
			if !ok || len(members) == 0 {
				continue
			}
			flow.ParallelGroups = append(flow.ParallelGroups, members)
		}
	}
	if pairs, ok := raw["sequential_pairs"].([]any); ok {
		for _, pr := range pairs {
			members, ok := toStringSlice(pr)
			if !ok || len(members) != 2 {
				continue
			}
			flow.SequentialPairs = append(flow.SequentialPairs, [2]string{members[0], members[1]})
		}
	}

	if len(flow.ExecutionOrder) == 0 && len(flow.ParallelGroups) == 0 && len(flow.SequentialPairs) == 0 {
		return nil
	}
	return flow
}

func toStringSlice(v any) ([]string, bool) {
	switch items := v.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
