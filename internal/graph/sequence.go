package graph

import (
	"github.com/gati-ai/gati/internal/trace"
)

// BuildSequenceIndex maps sequence keys to execution-order indices.
//
// When the execution flow carries an authoritative execution_order (recorded
// at agent_end), positions in that list win outright. Otherwise the order is
// reconstructed by walking the previous_event_id chains, which exist from
// the first event on and so keep partial, still-running traces orderable.
//
// Returns the index map and the highest index assigned (-1 when neither
// source yields anything).
func BuildSequenceIndex(events []*trace.Event, flow *trace.ExecutionFlow) (map[string]int, int) {
	if flow != nil && len(flow.ExecutionOrder) > 0 {
		index := make(map[string]int, len(flow.ExecutionOrder))
		maxIndex := -1
		for i, name := range flow.ExecutionOrder {
			if _, seen := index[name]; seen {
				continue
			}
			index[name] = i
			maxIndex = i
		}
		return index, maxIndex
	}
	return indexFromChains(events)
}

// indexFromChains reconstructs execution order from previous_event_id links.
//
// Chain roots are events whose previous link is empty or dangles outside the
// event set. Each root's chain is walked forward by looking up the event
// that names the current one as its predecessor. When several events claim
// the same predecessor (a producer anomaly) the first in input order wins;
// this is deliberate and pinned by test, not an accident of map iteration.
func indexFromChains(events []*trace.Event) (map[string]int, int) {
	known := make(map[string]bool, len(events))
	for _, ev := range events {
		known[ev.EventID] = true
	}

	index := make(map[string]int)
	next := 0
	assign := func(ev *trace.Event) {
		key := SequenceKey(ev)
		if _, seen := index[key]; seen {
			return
		}
		index[key] = next
		next++
	}

	visited := make(map[string]bool, len(events))
	for _, root := range events {
		if root.PreviousEventID != "" && known[root.PreviousEventID] {
			continue // not a chain root
		}
		// Walk the chain. The visited guard terminates cycles: previous
		// links are untrusted input.
		for current := root; current != nil && !visited[current.EventID]; {
			visited[current.EventID] = true
			assign(current)
			current = successorOf(current, events)
		}
	}

	return index, next - 1
}

// successorOf finds the first event (input order) whose previous link names
// ev.
func successorOf(ev *trace.Event, events []*trace.Event) *trace.Event {
	for _, candidate := range events {
		if candidate.PreviousEventID == ev.EventID {
			return candidate
		}
	}
	return nil
}
