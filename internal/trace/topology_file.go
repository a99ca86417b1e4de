package trace

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gati-ai/gati/internal/utils"
)

// topologyFile is the topology.toml sidecar shape. Instrumentation that
// cannot attach graph metadata to agent_start (older SDKs, hand-written
// emitters) can declare the graph next to the events instead.
type topologyFile struct {
	Graph topologyGraph `toml:"graph"`
}

type topologyGraph struct {
	Nodes      []string       `toml:"nodes"`
	EntryPoint string         `toml:"entry_point"`
	EndNodes   []string       `toml:"end_nodes"`
	Edges      []topologyEdge `toml:"edges"`
}

type topologyEdge struct {
	From        string `toml:"from"`
	To          string `toml:"to"`
	Conditional bool   `toml:"conditional"`
	Condition   string `toml:"condition"`
}

// ParseTopologyFile reads a topology.toml sidecar into a GraphStructure.
func ParseTopologyFile(path string) (*GraphStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file topologyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse topology file: %w", err)
	}

	gs := &GraphStructure{
		Nodes:      file.Graph.Nodes,
		EntryPoint: file.Graph.EntryPoint,
		EndNodes:   file.Graph.EndNodes,
	}
	for _, e := range file.Graph.Edges {
		if e.From == "" || e.To == "" {
			return nil, utils.NewValidationError("graph.edges",
				fmt.Sprintf("topology edge requires both from and to (got %q -> %q)", e.From, e.To))
		}
		gs.Edges = append(gs.Edges, GraphEdge{
			From:        e.From,
			To:          e.To,
			Conditional: e.Conditional,
			Condition:   e.Condition,
		})
	}

	if len(gs.Nodes) == 0 && len(gs.Edges) == 0 {
		return nil, utils.NewValidationError("graph", "topology file declares no nodes or edges")
	}
	return gs, nil
}
