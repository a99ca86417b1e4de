package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultRunsDir is where instrumented agents drop their run directories.
const DefaultRunsDir = ".gati/runs"

// RunManifest summarizes one stored run (manifest.json in the run dir).
type RunManifest struct {
	RunID         string    `json:"run_id"`
	AgentName     string    `json:"agent_name"`
	Status        string    `json:"status"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Duration      float64   `json:"duration_seconds"`
	EventCount    int       `json:"event_count"`
	LLMCalls      int       `json:"llm_calls"`
	TotalTokens   int       `json:"total_tokens"`
	EstimatedCost float64   `json:"estimated_cost"`
}

// RunData is a fully loaded run: the event forest plus the optional metadata
// attachments the reconstruction consumes.
type RunData struct {
	Manifest RunManifest
	Roots    []*Event
	Events   []*Event // flat, depth-first order
	Graph    *GraphStructure
	Flow     *ExecutionFlow
}

// Store reads runs from a directory of run-id subdirectories, each holding
// events.jsonl and optionally manifest.json and topology.toml.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir (DefaultRunsDir when empty).
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultRunsDir
	}
	return &Store{root: dir}
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// ListRuns returns manifests for every run directory, newest first.
func (s *Store) ListRuns() ([]RunManifest, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var runs []RunManifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		runPath := filepath.Join(s.root, entry.Name())
		manifest, err := s.readManifest(runPath)
		if err != nil {
			// No manifest: fall back to the events themselves.
			data, readErr := os.ReadFile(filepath.Join(runPath, "events.jsonl"))
			if readErr != nil {
				continue
			}
			events := ParseEvents(data)
			if len(events) == 0 {
				continue
			}
			manifest = synthesizeManifest(entry.Name(), events)
		}
		runs = append(runs, manifest)
	}

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartTime.Equal(runs[j].StartTime) {
			return runs[i].StartTime.After(runs[j].StartTime)
		}
		return runs[i].RunID > runs[j].RunID
	})
	return runs, nil
}

// LatestRunID returns the most recently started run, or "" when the store
// is empty.
func (s *Store) LatestRunID() string {
	runs, err := s.ListRuns()
	if err != nil || len(runs) == 0 {
		return ""
	}
	return runs[0].RunID
}

// LoadRun reads one run: parses events.jsonl, groups the events into a
// forest on parent_event_id, and extracts the graph/flow attachments from
// the sentinel events. A topology.toml sidecar supplies the declared graph
// when the agent_start payload lacks one.
func (s *Store) LoadRun(runID string) (*RunData, error) {
	runPath := filepath.Join(s.root, runID)
	if _, err := os.Stat(runPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("run not found: %s", runID)
	}

	data, err := os.ReadFile(filepath.Join(runPath, "events.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	events := ParseEvents(data)
	if len(events) == 0 {
		return nil, fmt.Errorf("run %s has no parseable events", runID)
	}

	roots := BuildForest(events)
	run := &RunData{
		Roots:  roots,
		Events: Flatten(roots),
		Graph:  extractGraph(events),
		Flow:   extractFlow(events),
	}

	if run.Graph == nil {
		if gs, err := ParseTopologyFile(filepath.Join(runPath, "topology.toml")); err == nil {
			run.Graph = gs
		}
	}

	manifest, err := s.readManifest(runPath)
	if err != nil {
		manifest = synthesizeManifest(runID, events)
	}
	run.Manifest = manifest
	return run, nil
}

// ParseEvents parses JSONL event data, skipping blank and malformed lines.
func ParseEvents(data []byte) []*Event {
	var events []*Event
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		if ev.EventID == "" {
			continue
		}
		events = append(events, &ev)
	}
	return events
}

// BuildForest groups a flat event list into root events carrying Children.
// An event whose parent_event_id is empty or references an id outside the
// set becomes a root. Roots and sibling lists are ordered by timestamp,
// event id as tie-break, so the forest shape is deterministic.
func BuildForest(events []*Event) []*Event {
	byID := make(map[string]*Event, len(events))
	for _, ev := range events {
		ev.Children = nil
		byID[ev.EventID] = ev
	}

	var roots []*Event
	for _, ev := range events {
		if ev.ParentEventID == "" {
			roots = append(roots, ev)
			continue
		}
		parent, ok := byID[ev.ParentEventID]
		if !ok || parent == ev {
			// Dangling parent reference: treat as a root.
			roots = append(roots, ev)
			continue
		}
		parent.Children = append(parent.Children, ev)
	}

	sortSiblings(roots)
	for _, ev := range events {
		sortSiblings(ev.Children)
	}
	return roots
}

func sortSiblings(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].EventID < events[j].EventID
	})
}

// extractGraph returns the declared topology from the first agent_start
// event carrying one.
func extractGraph(events []*Event) *GraphStructure {
	for _, ev := range events {
		if ev.EventType != EventAgentStart {
			continue
		}
		if gs := GraphStructureFromPayload(ev.Data); gs != nil {
			return gs
		}
	}
	return nil
}

// extractFlow returns the execution analysis from the last agent_end event
// carrying one. The last is authoritative: a resumed run re-emits agent_end
// with the complete flow.
func extractFlow(events []*Event) *ExecutionFlow {
	var flow *ExecutionFlow
	for _, ev := range events {
		if ev.EventType != EventAgentEnd {
			continue
		}
		if f := ExecutionFlowFromPayload(ev.Data); f != nil {
			flow = f
		}
	}
	return flow
}

func (s *Store) readManifest(runPath string) (RunManifest, error) {
	data, err := os.ReadFile(filepath.Join(runPath, "manifest.json"))
	if err != nil {
		return RunManifest{}, err
	}
	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return RunManifest{}, err
	}
	if manifest.RunID == "" {
		manifest.RunID = filepath.Base(runPath)
	}
	return manifest, nil
}

// synthesizeManifest derives run metadata from the events themselves when
// manifest.json is missing or unreadable.
func synthesizeManifest(runID string, events []*Event) RunManifest {
	manifest := RunManifest{
		RunID:      runID,
		Status:     "completed",
		EventCount: len(events),
	}
	for _, ev := range events {
		if manifest.StartTime.IsZero() || ev.Timestamp.Before(manifest.StartTime) {
			manifest.StartTime = ev.Timestamp
		}
		if end := ev.EndTime(); end.After(manifest.EndTime) {
			manifest.EndTime = end
		}
		switch ev.EventType {
		case EventLLMCall:
			manifest.LLMCalls++
		case EventError:
			manifest.Status = "error"
		}
		if ev.TokensIn != nil {
			manifest.TotalTokens += *ev.TokensIn
		}
		if ev.TokensOut != nil {
			manifest.TotalTokens += *ev.TokensOut
		}
		if ev.Cost != nil {
			manifest.EstimatedCost += *ev.Cost
		}
		if manifest.AgentName == "" {
			if name, ok := ev.Data.String("agent_name"); ok {
				manifest.AgentName = name
			}
		}
	}
	manifest.Duration = manifest.EndTime.Sub(manifest.StartTime).Seconds()
	return manifest
}
