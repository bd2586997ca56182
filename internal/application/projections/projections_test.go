package projections

import (
	"context"
	"testing"

	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
	"kfet/internal/domain/week"
)

const (
	testWeek = "2024-06-03"
	testSlot = "2024-06-04_Après-midi"
)

// mockStateProvider implements StoreProvider over a fixed store.
type mockStateProvider struct {
	store *planner.Store
}

func (m *mockStateProvider) Snapshot() *planner.Store {
	return m.store.Clone()
}

func buildStore(t *testing.T) *planner.Store {
	t.Helper()
	s := planner.DefaultStore()
	s.Members = []string{"Alice", "Bob"}
	if err := s.AddSlotMember(testWeek, testSlot, "Alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSlotMember(testWeek, testSlot, "Bob"); err != nil {
		t.Fatal(err)
	}
	if !s.TogglePresence(testWeek, testSlot, "Bob") {
		t.Fatal("toggle failed")
	}
	s.AssignTask(testWeek, testSlot, week.DutyAccounts, "Alice")
	return s
}

// TestQueryGetStats tests the attendance aggregation.
func TestQueryGetStats(t *testing.T) {
	s := buildStore(t)
	result := QueryGetStats(GetStatsDeps{State: &mockStateProvider{store: s}})

	if len(result.Members) != 2 {
		t.Fatalf("member rows = %d, want one per roster member", len(result.Members))
	}

	byName := map[string]MemberStats{}
	for _, m := range result.Members {
		byName[m.Name] = m
	}

	alice := byName["Alice"]
	if alice.Present != 1 || alice.Absent != 0 || alice.Total != 1 || alice.RatePercent() != 100 {
		t.Errorf("Alice stats = %+v, want 1 present out of 1 (100%%)", alice)
	}
	bob := byName["Bob"]
	if bob.Present != 0 || bob.Absent != 1 || bob.Total != 1 || bob.RatePercent() != 0 {
		t.Errorf("Bob stats = %+v, want 0 present out of 1", bob)
	}

	if result.TotalPresent != 1 || result.TotalRecords != 2 || result.TotalTasks != 1 {
		t.Errorf("totals = %d/%d/%d, want 1/2/1",
			result.TotalPresent, result.TotalRecords, result.TotalTasks)
	}
}

// TestQueryGetStatsSkipsEmptyAssignees tests that a duty entry with no
// assignee, as an imported blob can carry, is not counted as a task.
func TestQueryGetStatsSkipsEmptyAssignees(t *testing.T) {
	s := buildStore(t)
	s.Slot(testWeek, testSlot).Tasks[week.DutyBins] = ""

	result := QueryGetStats(GetStatsDeps{State: &mockStateProvider{store: s}})

	if result.TotalTasks != 1 {
		t.Errorf("TotalTasks = %d, want 1 (empty assignee ignored)", result.TotalTasks)
	}
}

// TestQueryGetStatsIgnoresRemovedMembers tests roster filtering.
func TestQueryGetStatsIgnoresRemovedMembers(t *testing.T) {
	s := buildStore(t)
	s.RemoveMember("Bob")

	result := QueryGetStats(GetStatsDeps{State: &mockStateProvider{store: s}})

	if len(result.Members) != 1 || result.Members[0].Name != "Alice" {
		t.Fatalf("rows = %+v, want Alice only", result.Members)
	}
	// Bob's absent record is gone from the totals too
	if result.TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1", result.TotalRecords)
	}
}

// TestQueryGetStatsZeroRowsAndRanking tests zero rows and the active ranking.
func TestQueryGetStatsZeroRowsAndRanking(t *testing.T) {
	s := buildStore(t)
	s.Members = append(s.Members, "Charlie") // no records at all

	result := QueryGetStats(GetStatsDeps{State: &mockStateProvider{store: s}})

	if len(result.Members) != 3 {
		t.Fatalf("rows = %d, want 3 including the zero row", len(result.Members))
	}
	for _, m := range result.Members {
		if m.Name == "Charlie" && (m.Total != 0 || m.RatePercent() != 0) {
			t.Errorf("Charlie should have a zero row, got %+v", m)
		}
	}

	if len(result.SortedActive) != 2 {
		t.Fatalf("active ranking = %+v, want Alice and Bob only", result.SortedActive)
	}
	if result.SortedActive[0].Name != "Alice" {
		t.Errorf("ranking leader = %q, want Alice", result.SortedActive[0].Name)
	}
}

// TestQueryGetHistory tests ordering and unfiltered counting.
func TestQueryGetHistory(t *testing.T) {
	s := buildStore(t)
	s.SetWeekNotes(testWeek, "notes ici")

	// An older week signed by a member no longer on the roster
	oldWeek, oldSlot := "2024-05-27", "2024-05-28_Matin"
	if err := s.AddSlotMember(oldWeek, oldSlot, "Ancienne"); err != nil {
		t.Fatal(err)
	}

	result := QueryGetHistory(GetHistoryDeps{State: &mockStateProvider{store: s}})

	if len(result.Weeks) != 2 {
		t.Fatalf("weeks = %d, want 2", len(result.Weeks))
	}
	if result.Weeks[0].WeekKey != testWeek || result.Weeks[1].WeekKey != oldWeek {
		t.Errorf("history must be newest first, got %q then %q",
			result.Weeks[0].WeekKey, result.Weeks[1].WeekKey)
	}
	if !result.Weeks[0].HasNotes {
		t.Error("current week should be flagged as having notes")
	}
	// History counts everyone, including names no longer on the roster
	if result.Weeks[1].Present != 1 {
		t.Errorf("old week present = %d, want 1 (unfiltered)", result.Weeks[1].Present)
	}
}

// TestQueryGetPlanning tests the week grid read model.
func TestQueryGetPlanning(t *testing.T) {
	s := buildStore(t)
	s.SetWeekNotes(testWeek, "semaine chargée")

	result, err := QueryGetPlanning(
		GetPlanningQuery{WeekKey: testWeek},
		GetPlanningDeps{State: &mockStateProvider{store: s}},
	)
	if err != nil {
		t.Fatalf("QueryGetPlanning returned error: %v", err)
	}

	if len(result.Days) != 5 {
		t.Fatalf("days = %d, want 5", len(result.Days))
	}
	if result.Days[0].DayName != "Lundi" || result.Days[4].DayName != "Vendredi" {
		t.Errorf("day names = %q..%q, want Lundi..Vendredi",
			result.Days[0].DayName, result.Days[4].DayName)
	}
	if result.PrevKey != "2024-05-27" || result.NextKey != "2024-06-10" {
		t.Errorf("nav keys = %q/%q", result.PrevKey, result.NextKey)
	}
	if result.Notes != "semaine chargée" {
		t.Errorf("notes = %q", result.Notes)
	}
	if result.SignupCount != 2 || result.PresentCount != 1 {
		t.Errorf("counters = %d/%d, want 2 signups and 1 present",
			result.SignupCount, result.PresentCount)
	}

	// Tuesday afternoon carries the three fixed duties
	tuesday := result.Days[1]
	afternoon := tuesday.Slots[1]
	if afternoon.SlotName != week.SlotAfternoon {
		t.Fatalf("second slot = %q, want the afternoon", afternoon.SlotName)
	}
	if len(afternoon.Duties) != 3 {
		t.Fatalf("tuesday afternoon duties = %d, want 3", len(afternoon.Duties))
	}
	if afternoon.Duties[0].Name != week.DutyAccounts || afternoon.Duties[0].Assignee != "Alice" {
		t.Errorf("first duty = %+v, want Comptes assigned to Alice", afternoon.Duties[0])
	}

	// Monday morning is an untouched empty cell
	monday := result.Days[0].Slots[0]
	if len(monday.Members) != 0 || len(monday.Duties) != 0 {
		t.Errorf("untouched morning cell should be empty, got %+v", monday)
	}
}

// TestQueryGetPlanningRejectsBadKey tests the key guard.
func TestQueryGetPlanningRejectsBadKey(t *testing.T) {
	_, err := QueryGetPlanning(
		GetPlanningQuery{WeekKey: "garbage"},
		GetPlanningDeps{State: &mockStateProvider{store: planner.DefaultStore()}},
	)
	if err == nil {
		t.Error("bad week key should fail")
	}
}

// mockAuditLister implements AuditStore for the audit log projection.
type mockAuditLister struct {
	events []audit.Event
	gotLim int
}

func (m *mockAuditLister) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	m.gotLim = limit
	return m.events, nil
}

// TestQueryGetAuditLog tests the default limit.
func TestQueryGetAuditLog(t *testing.T) {
	lister := &mockAuditLister{events: []audit.Event{
		audit.NewEvent(audit.CategoryRoster, audit.ActionCreate, "Alice", "Alice added"),
	}}

	result, err := QueryGetAuditLog(context.Background(),
		GetAuditLogQuery{}, GetAuditLogDeps{AuditStore: lister})
	if err != nil {
		t.Fatalf("QueryGetAuditLog returned error: %v", err)
	}
	if lister.gotLim != defaultAuditLimit {
		t.Errorf("limit = %d, want the default %d", lister.gotLim, defaultAuditLimit)
	}
	if len(result.Events) != 1 {
		t.Errorf("events = %d, want 1", len(result.Events))
	}
}
