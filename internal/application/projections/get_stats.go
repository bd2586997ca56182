package projections

import (
	"math"
	"sort"
)

// MemberStats aggregates one roster member's attendance across all weeks.
type MemberStats struct {
	Name    string
	Present int
	Absent  int
	Total   int
}

// RatePercent returns the member's presence rate as a rounded whole
// percentage, 0 when the member has no records.
func (m MemberStats) RatePercent() int {
	if m.Total == 0 {
		return 0
	}
	return int(math.Round(float64(m.Present) / float64(m.Total) * 100))
}

// GetStatsResult carries the output of the stats projection.
type GetStatsResult struct {
	Members      []MemberStats // one row per roster member, roster order
	SortedActive []MemberStats // members with records, most present first
	TotalPresent int
	TotalRecords int
	TotalTasks   int
}

// GetStatsDeps holds dependencies for the stats projection.
type GetStatsDeps struct {
	State StoreProvider
}

// QueryGetStats aggregates presence and duty counts over every stored week.
// Only current roster members are counted: records left behind by removed
// members are ignored, and roster members with no records still get a zero
// row.
// POST: len(result.Members) equals the roster size
func QueryGetStats(deps GetStatsDeps) GetStatsResult {
	snap := deps.State.Snapshot()

	byName := make(map[string]*MemberStats, len(snap.Members))
	rows := make([]MemberStats, len(snap.Members))
	for i, name := range snap.Members {
		rows[i] = MemberStats{Name: name}
		byName[name] = &rows[i]
	}

	result := GetStatsResult{}
	for _, wk := range snap.WeekData {
		for _, slot := range wk.Slots {
			for _, m := range slot.Members {
				stats, ok := byName[m.Name]
				if !ok {
					continue
				}
				stats.Total++
				if m.Present {
					stats.Present++
					result.TotalPresent++
				} else {
					stats.Absent++
				}
				result.TotalRecords++
			}
			// Imported blobs can carry empty assignees; only real
			// assignments count.
			for _, assignee := range slot.Tasks {
				if assignee != "" {
					result.TotalTasks++
				}
			}
		}
	}

	result.Members = rows

	active := make([]MemberStats, 0, len(rows))
	for _, r := range rows {
		if r.Total > 0 {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Present > active[j].Present
	})
	result.SortedActive = active

	return result
}
