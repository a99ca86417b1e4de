package graph

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gati-ai/gati/internal/trace"
)

// namingRule is one step of the display-name priority chain: try field Key
// when the event's type matches Types (empty Types matches any type).
//
// The chain is data, not control flow, so each rule can be exercised in
// isolation and the priority policy is visible in one place.
type namingRule struct {
	Types []trace.EventType
	Key   string
}

// displayNameRules is the resolution order for display names. First match
// wins; the ordering is a deliberate disambiguation policy.
var displayNameRules = []namingRule{
	{Types: []trace.EventType{trace.EventToolCall}, Key: "tool_name"},
	{Types: []trace.EventType{trace.EventToolCall}, Key: "tool"},
	{Types: []trace.EventType{trace.EventNodeExecution}, Key: "node_name"},
	{Key: "name"},
	{Key: "tool_name"},
	{Key: "tool"},
	{Key: "function_name"},
	{Key: "function"},
	{Key: "node_name"},
	{Key: "model"},
}

// scanDenylist holds payload keys never considered by the heuristic scan:
// bookkeeping fields whose string values are identifiers or status, not
// names.
var scanDenylist = map[string]bool{
	"timestamp":       true,
	"event_id":        true,
	"run_id":          true,
	"agent_name":      true,
	"created_at":      true,
	"updated_at":      true,
	"status":          true,
	"completed":       true,
	"success":         true,
	"error":           true,
	"result":          true,
	"output":          true,
	"input":           true,
	"parent_event_id": true,
	"latency_ms":      true,
	"duration_ms":     true,
	"cost":            true,
	"tokens_in":       true,
	"tokens_out":      true,
}

// typeLabels is the static fallback label table keyed by event type.
var typeLabels = map[trace.EventType]string{
	trace.EventAgentStart:    "Agent Start",
	trace.EventAgentEnd:      "Agent End",
	trace.EventLLMCall:       "LLM Call",
	trace.EventToolCall:      "Tool Call",
	trace.EventNodeExecution: "Node Execution",
	trace.EventError:         "Error",
}

// DisplayName derives a human-readable name for an event from its
// heterogeneous payload, walking the priority chain, then the heuristic
// payload scan, then the static label table.
func DisplayName(ev *trace.Event) string {
	for _, rule := range displayNameRules {
		if !rule.matches(ev.EventType) {
			continue
		}
		if s, ok := ev.Data.String(rule.Key); ok && acceptName(s, false) {
			return strings.TrimSpace(s)
		}
	}

	if ev.EventType == trace.EventNodeExecution || ev.EventType == trace.EventToolCall {
		if s, ok := scanPayload(ev.Data); ok {
			return s
		}
	}

	return typeLabel(ev.EventType)
}

// SequenceKey derives the node-identity string used to match an event
// against declared-order lists and topology. It prefers the framework's
// native name field over a prettified label, falling back to DisplayName.
func SequenceKey(ev *trace.Event) string {
	switch ev.EventType {
	case trace.EventNodeExecution:
		if s, ok := ev.Data.String("node_name"); ok && acceptName(s, false) {
			return strings.TrimSpace(s)
		}
	case trace.EventToolCall:
		if s, ok := ev.Data.String("tool_name"); ok && acceptName(s, false) {
			return strings.TrimSpace(s)
		}
	}
	return DisplayName(ev)
}

func (r namingRule) matches(t trace.EventType) bool {
	if len(r.Types) == 0 {
		return true
	}
	for _, want := range r.Types {
		if t == want {
			return true
		}
	}
	return false
}

// scanPayload walks the remaining payload keys (deny-list excluded, sorted
// for determinism) for the first string that survives the strict filter.
func scanPayload(p trace.Payload) (string, bool) {
	for _, key := range p.SortedKeys() {
		if scanDenylist[key] {
			continue
		}
		s, ok := p.String(key)
		if !ok {
			continue
		}
		if acceptName(s, true) {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

// acceptName decides whether a payload value can serve as a name. All
// candidates must be non-empty after trimming. The strict form additionally
// rejects oversized strings, embedded JSON blobs, and UUIDs masquerading as
// names; it guards the heuristic scan, which has no field name to vouch for
// the value.
func acceptName(s string, strict bool) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if !strict {
		return true
	}
	if len(trimmed) >= 100 {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return false
	}
	if strings.Contains(strings.ToLower(trimmed), "uuid") {
		return false
	}
	if isCanonicalUUID(trimmed) {
		return false
	}
	return true
}

// isCanonicalUUID reports whether s has the 8-4-4-4-12 hex shape. uuid.Parse
// also accepts braced, URN, and bare-hex forms, so the length pins it to the
// canonical one.
func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// typeLabel returns the static label for a known type, or title-cases the
// raw tag (underscores to spaces) for unknown ones.
func typeLabel(t trace.EventType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	words := strings.Split(strings.ReplaceAll(string(t), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
