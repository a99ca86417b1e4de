package graph

import (
	"time"

	"github.com/gati-ai/gati/internal/trace"
)

var testBase = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// ev builds a flat event. offsetMs orders timestamps deterministically.
func ev(id string, t trace.EventType, offsetMs int, data trace.Payload) *trace.Event {
	return &trace.Event{
		EventID:   id,
		EventType: t,
		Timestamp: testBase.Add(time.Duration(offsetMs) * time.Millisecond),
		Data:      data,
	}
}

func withPrev(e *trace.Event, prev string) *trace.Event {
	e.PreviousEventID = prev
	return e
}

func withParent(e *trace.Event, parent string) *trace.Event {
	e.ParentEventID = parent
	return e
}

func withLatency(e *trace.Event, ms float64) *trace.Event {
	e.LatencyMs = &ms
	return e
}

// chainForest builds the nested forest for the canonical four-event run:
// agent_start -> analyze -> process -> agent_end, each child of and
// preceded by the one before it.
func chainForest() []*trace.Event {
	s0 := ev("s0", trace.EventAgentStart, 0, nil)
	n1 := withParent(withPrev(ev("n1", trace.EventNodeExecution, 10, trace.Payload{"node_name": "analyze"}), "s0"), "s0")
	n2 := withParent(withPrev(ev("n2", trace.EventNodeExecution, 20, trace.Payload{"node_name": "process"}), "n1"), "n1")
	e0 := withParent(withPrev(ev("e0", trace.EventAgentEnd, 30, nil), "n2"), "n2")

	s0.Children = []*trace.Event{n1}
	n1.Children = []*trace.Event{n2}
	n2.Children = []*trace.Event{e0}
	return []*trace.Event{s0}
}
