// Package trace defines the recorded event model for agent runs and the
// filesystem run store that loads them.
package trace

import (
	"time"
)

// EventType tags a recorded event. The set is open: producers may emit types
// not listed here, and nothing downstream validates against this list.
type EventType string

const (
	// EventAgentStart marks the beginning of an agent run.
	EventAgentStart EventType = "agent_start"
	// EventAgentEnd marks the end of an agent run.
	EventAgentEnd EventType = "agent_end"
	// EventLLMCall represents an LLM API call.
	EventLLMCall EventType = "llm_call"
	// EventToolCall represents a tool invocation.
	EventToolCall EventType = "tool_call"
	// EventNodeExecution represents one framework node executing.
	EventNodeExecution EventType = "node_execution"
	// EventError represents a recorded failure.
	EventError EventType = "error"
)

// Event is a single recorded occurrence within an agent run.
//
// ParentEventID defines structural containment; PreviousEventID defines the
// temporal execution chain. Either may be empty, and PreviousEventID may
// reference an event that was never recorded.
type Event struct {
	EventID         string    `json:"event_id"`
	RunID           string    `json:"run_id,omitempty"`
	EventType       EventType `json:"event_type"`
	Timestamp       time.Time `json:"timestamp"`
	ParentEventID   string    `json:"parent_event_id,omitempty"`
	PreviousEventID string    `json:"previous_event_id,omitempty"`
	Data            Payload   `json:"data,omitempty"`

	// Optional metrics. Pointers so "absent" and "zero" stay distinct.
	LatencyMs *float64 `json:"latency_ms,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
	TokensIn  *int     `json:"tokens_in,omitempty"`
	TokensOut *int     `json:"tokens_out,omitempty"`

	// Children is populated by the store when grouping the flat event list
	// into a forest. It is never part of the wire format.
	Children []*Event `json:"-"`
}

// EndTime returns the event's interval end: timestamp plus latency when
// latency was recorded, else the timestamp itself.
func (e *Event) EndTime() time.Time {
	if e.LatencyMs != nil {
		return e.Timestamp.Add(time.Duration(*e.LatencyMs * float64(time.Millisecond)))
	}
	return e.Timestamp
}

// Flatten walks a forest depth-first (root order, then children order) and
// returns the events in that traversal order. This order is the canonical
// "input order" used for all tie-breaks downstream.
func Flatten(roots []*Event) []*Event {
	var out []*Event
	var walk func(ev *Event)
	walk = func(ev *Event) {
		out = append(out, ev)
		for _, child := range ev.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return out
}
