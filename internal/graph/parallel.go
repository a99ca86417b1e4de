package graph

import (
	"sort"
	"time"

	"github.com/gati-ai/gati/internal/trace"
)

// OverlapTolerance is the slack applied when comparing execution intervals:
// two node executions whose intervals overlap by no more than this still
// count as sequential.
const OverlapTolerance = time.Millisecond

// AnnotateParallel marks the display nodes that belong to a parallel group.
// Group member names resolve through the same name index the topology
// mapper uses; names that resolve to nothing are ignored.
func AnnotateParallel(nodes []*DisplayNode, flow *trace.ExecutionFlow, nameIndex map[string]string) {
	if flow == nil || len(flow.ParallelGroups) == 0 {
		return
	}

	parallel := make(map[string]bool)
	for _, group := range flow.ParallelGroups {
		for _, name := range group {
			if id, ok := nameIndex[name]; ok {
				parallel[id] = true
			}
		}
	}

	for _, node := range nodes {
		if parallel[node.EventID] {
			node.IsParallel = true
		}
	}
}

// DetectFlow reimplements the instrumentation side's post-run analysis from
// raw events, for traces whose agent_end never recorded one. Two node
// executions are parallel when their [start, end] intervals overlap by more
// than the tolerance; sequential when one ends before the other starts
// (within tolerance). Interval end is timestamp + latency.
//
// Returns nil when the trace has no node executions to analyze.
func DetectFlow(events []*trace.Event) *trace.ExecutionFlow {
	type interval struct {
		key   string
		start time.Time
		end   time.Time
	}

	var intervals []interval
	seen := make(map[string]bool)
	for _, ev := range events {
		if ev.EventType != trace.EventNodeExecution {
			continue
		}
		key := SequenceKey(ev)
		if seen[key] {
			continue
		}
		seen[key] = true
		intervals = append(intervals, interval{key: key, start: ev.Timestamp, end: ev.EndTime()})
	}
	if len(intervals) == 0 {
		return nil
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		if !intervals[i].start.Equal(intervals[j].start) {
			return intervals[i].start.Before(intervals[j].start)
		}
		return intervals[i].key < intervals[j].key
	})

	flow := &trace.ExecutionFlow{}
	for _, iv := range intervals {
		flow.ExecutionOrder = append(flow.ExecutionOrder, iv.key)
	}

	// Group overlapping intervals: a node joins the open group while it
	// overlaps the group's running envelope by more than the tolerance.
	var group []interval
	groupEnd := time.Time{}
	flush := func() {
		if len(group) > 1 {
			names := make([]string, len(group))
			for i, iv := range group {
				names[i] = iv.key
			}
			flow.ParallelGroups = append(flow.ParallelGroups, names)
		}
		group = nil
	}
	for _, iv := range intervals {
		if len(group) > 0 && iv.start.Add(OverlapTolerance).Before(groupEnd) {
			group = append(group, iv)
		} else {
			flush()
			group = []interval{iv}
			groupEnd = iv.end
		}
		if iv.end.After(groupEnd) {
			groupEnd = iv.end
		}
	}
	flush()

	for i := 0; i+1 < len(intervals); i++ {
		a, b := intervals[i], intervals[i+1]
		if !a.end.After(b.start.Add(OverlapTolerance)) {
			flow.SequentialPairs = append(flow.SequentialPairs, [2]string{a.key, b.key})
		}
	}
	return flow
}
