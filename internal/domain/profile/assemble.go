package profile

import (
	"time"

	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/internal/domain/types"
)

// Derived-signal windows.
const (
	// ToolAdjacencyWindow is the maximum gap between two adjacent tool
	// sequence entries that still counts as an integrated workflow.
	ToolAdjacencyWindow = time.Hour

	// StrategicExportWindow is how far back from an export the assembler
	// looks for prior tool usage.
	StrategicExportWindow = time.Hour

	// strategicExportMinTools is the number of distinct tools that must
	// precede an export inside the window for it to count as strategic.
	strategicExportMinTools = 2
)

// Assemble reduces a user's full telemetry history into a BehaviorProfile.
// Pure and deterministic: re-running over the same history yields the same
// profile, and appending records never decreases a counter.
func Assemble(h event.History) BehaviorProfile {
	p := Empty()

	for _, r := range h.Interactions {
		d, ok := componentDomains[r.Component]
		if !ok {
			continue
		}
		dp := p.Domain(d)
		dp.ReviewTimeMillis += r.DurationMillis
		if r.Section != "" {
			dp.SectionTimeMillis[r.Section] += r.DurationMillis
		}
		p = p.withDomain(d, dp)
	}

	for _, r := range h.Actions {
		d, ok := componentDomains[r.Component]
		if !ok {
			continue
		}
		dp := p.Domain(d)
		dp.ActionCount++
		p = p.withDomain(d, dp)
	}

	for _, r := range h.Exports {
		p.Overall.ExportCount++
		d, ok := componentDomains[r.Component]
		if !ok {
			continue
		}
		dp := p.Domain(d)
		dp.Exported = true
		dp.ExportCount++
		if strategicExportTiming(r, h.Tools) {
			dp.StrategicExport = true
		}
		p = p.withDomain(d, dp)
	}

	var sessionTotal int64
	for _, r := range h.Sessions {
		p.Overall.SessionCount++
		sessionTotal += r.DurationMillis
	}
	if p.Overall.SessionCount > 0 {
		p.Overall.AverageSessionMillis = float64(sessionTotal) / float64(p.Overall.SessionCount)
	}

	for d, pair := range integrationPairs {
		if toolIntegrationDetected(h.Tools, pair[0], pair[1]) {
			dp := p.Domain(d)
			dp.ToolIntegration = true
			p = p.withDomain(d, dp)
		}
	}

	p.Overall.LastActivity = lastActivity(h)
	return p
}

func (p BehaviorProfile) withDomain(d types.Domain, dp DomainProfile) BehaviorProfile {
	switch d {
	case types.DomainCustomerAnalysis:
		p.CustomerAnalysis = dp
	case types.DomainValueCommunication:
		p.ValueCommunication = dp
	case types.DomainExecutiveReadiness:
		p.ExecutiveReadiness = dp
	}
	return p
}

// toolIntegrationDetected reports whether some adjacent pair in the tool
// sequence is (from, to) with a timestamp delta within the adjacency window.
func toolIntegrationDetected(tools []event.ToolSequenceEntry, from, to string) bool {
	for i := 1; i < len(tools); i++ {
		prev, cur := tools[i-1], tools[i]
		if prev.Tool != from || cur.Tool != to {
			continue
		}
		delta := cur.Timestamp.Sub(prev.Timestamp)
		if delta >= 0 && delta <= ToolAdjacencyWindow {
			return true
		}
	}
	return false
}

// strategicExportTiming reports whether the export falls within the window
// after at least two distinct prior tool-sequence entries, which is taken
// as evidence of a deliberate multi-tool workflow before exporting.
func strategicExportTiming(export event.Record, tools []event.ToolSequenceEntry) bool {
	distinct := map[string]struct{}{}
	for _, t := range tools {
		gap := export.Timestamp.Sub(t.Timestamp)
		if gap >= 0 && gap <= StrategicExportWindow {
			distinct[t.Tool] = struct{}{}
		}
	}
	return len(distinct) >= strategicExportMinTools
}

func lastActivity(h event.History) time.Time {
	var last time.Time
	for _, bucket := range [][]event.Record{h.Interactions, h.Actions, h.Exports, h.Sessions, h.Visits} {
		for _, r := range bucket {
			if r.Timestamp.After(last) {
				last = r.Timestamp
			}
		}
	}
	for _, t := range h.Tools {
		if t.Timestamp.After(last) {
			last = t.Timestamp
		}
	}
	return last
}
