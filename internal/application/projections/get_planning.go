package projections

import (
	"kfet/internal/domain/planner"
	"kfet/internal/domain/week"
)

// PlanningDuty pairs a fixed duty name with its current assignee, if any.
type PlanningDuty struct {
	Name     string
	Assignee string
}

// PlanningSlot is one cell of the week grid.
type PlanningSlot struct {
	SlotKey   string
	SlotName  string
	TimeLabel string
	Members   []planner.SlotMember
	Duties    []PlanningDuty
	Note      string
}

// PlanningDay groups the two slots of one weekday.
type PlanningDay struct {
	Date    string // YYYY-MM-DD
	DayName string
	Slots   []PlanningSlot
}

// GetPlanningQuery carries input for the week grid projection.
type GetPlanningQuery struct {
	WeekKey string
}

// GetPlanningResult carries the output of the week grid projection.
type GetPlanningResult struct {
	WeekKey      string
	Label        string
	PrevKey      string
	NextKey      string
	Days         []PlanningDay
	Notes        string
	CurrentUser  string
	Members      []string
	SignupCount  int // member entries across the whole week
	PresentCount int
}

// GetPlanningDeps holds dependencies for the week grid projection.
type GetPlanningDeps struct {
	State StoreProvider
}

// QueryGetPlanning builds the full week grid read model: five days, two
// slots per day, with the fixed duty list derived per slot. Weeks and slots
// never touched by a mutation render as empty cells.
// PRE: query.WeekKey matches the week key format
func QueryGetPlanning(query GetPlanningQuery, deps GetPlanningDeps) (GetPlanningResult, error) {
	dates, err := week.Dates(query.WeekKey)
	if err != nil {
		return GetPlanningResult{}, err
	}

	snap := deps.State.Snapshot()
	wk := snap.WeekData[query.WeekKey]

	result := GetPlanningResult{
		WeekKey:     query.WeekKey,
		CurrentUser: snap.CurrentUser,
		Members:     snap.Members,
	}
	result.Label, _ = week.Label(query.WeekKey)
	result.PrevKey, _ = week.Prev(query.WeekKey)
	result.NextKey, _ = week.Next(query.WeekKey)
	if wk != nil {
		result.Notes = wk.Notes
	}

	result.Days = make([]PlanningDay, len(dates))
	for i, date := range dates {
		day := PlanningDay{
			Date:    week.FormatDate(date),
			DayName: week.DayNames[i],
			Slots:   make([]PlanningSlot, 0, len(week.SlotNames)),
		}

		for _, slotName := range week.SlotNames {
			slotKey := week.SlotKey(date, slotName)
			cell := PlanningSlot{
				SlotKey:   slotKey,
				SlotName:  slotName,
				TimeLabel: week.SlotTimes[slotName],
			}

			var slot *planner.Slot
			if wk != nil {
				slot = wk.Slots[slotKey]
			}
			if slot != nil {
				cell.Members = slot.Members
				cell.Note = slot.Note
				result.SignupCount += len(slot.Members)
				for _, m := range slot.Members {
					if m.Present {
						result.PresentCount++
					}
				}
			}

			for _, duty := range week.DutiesFor(date, slotName) {
				d := PlanningDuty{Name: duty}
				if slot != nil {
					d.Assignee = slot.Tasks[duty]
				}
				cell.Duties = append(cell.Duties, d)
			}

			day.Slots = append(day.Slots, cell)
		}

		result.Days[i] = day
	}

	return result, nil
}
