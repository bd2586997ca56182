package projections

import (
	"sort"

	"kfet/internal/domain/week"
)

// HistoryWeek summarizes one stored week for the history list.
type HistoryWeek struct {
	WeekKey  string
	Label    string
	Present  int
	Absent   int
	Slots    int // slots with at least one member
	HasNotes bool
}

// GetHistoryResult carries the output of the history projection.
type GetHistoryResult struct {
	Weeks []HistoryWeek // most recent first
}

// GetHistoryDeps holds dependencies for the history projection.
type GetHistoryDeps struct {
	State StoreProvider
}

// QueryGetHistory lists every stored week, newest first. Unlike the stats
// projection, presence counts here include records of members no longer on
// the roster: the history is a record of what happened, not of who remains.
func QueryGetHistory(deps GetHistoryDeps) GetHistoryResult {
	snap := deps.State.Snapshot()

	keys := make([]string, 0, len(snap.WeekData))
	for k := range snap.WeekData {
		keys = append(keys, k)
	}
	// Week keys are zero-padded ISO dates, so string order is date order.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	weeks := make([]HistoryWeek, 0, len(keys))
	for _, key := range keys {
		wk := snap.WeekData[key]
		row := HistoryWeek{WeekKey: key, HasNotes: wk.Notes != ""}
		row.Label, _ = week.Label(key)

		for _, slot := range wk.Slots {
			if len(slot.Members) > 0 {
				row.Slots++
			}
			for _, m := range slot.Members {
				if m.Present {
					row.Present++
				} else {
					row.Absent++
				}
			}
		}
		weeks = append(weeks, row)
	}

	return GetHistoryResult{Weeks: weeks}
}
