package planner_test

import (
	"encoding/json"
	"strings"
	"testing"

	"kfet/internal/domain/planner"
)

// TestWeekNotesSiblingKey tests that week notes are persisted as the
// historical "notes" sibling key inside the slot mapping.
func TestWeekNotesSiblingKey(t *testing.T) {
	s := planner.DefaultStore()
	if err := s.AddSlotMember(testWeek, testSlot, "Alice"); err != nil {
		t.Fatal(err)
	}
	s.SetWeekNotes(testWeek, "fermé vendredi")

	data, err := json.Marshal(s.WeekData[testWeek])
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw returned error: %v", err)
	}
	if _, ok := raw["notes"]; !ok {
		t.Fatalf("blob should carry a notes sibling key, got %s", data)
	}
	if _, ok := raw[testSlot]; !ok {
		t.Fatalf("blob should carry the slot key, got %s", data)
	}

	var back planner.Week
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal week returned error: %v", err)
	}
	if back.Notes != "fermé vendredi" {
		t.Errorf("round-tripped notes = %q, want %q", back.Notes, "fermé vendredi")
	}
	if _, ok := back.Slots["notes"]; ok {
		t.Error("notes key must not leak into the slot mapping")
	}
	if sl := back.Slots[testSlot]; sl == nil || len(sl.Members) != 1 {
		t.Errorf("slot lost in round trip: %+v", back.Slots)
	}
}

// TestWeekWithoutNotesOmitsKey tests that empty notes write no sibling key.
func TestWeekWithoutNotesOmitsKey(t *testing.T) {
	w := &planner.Week{Slots: map[string]*planner.Slot{}}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "notes") {
		t.Errorf("empty notes should omit the sibling key, got %s", data)
	}
}

// TestStoreRoundTrip tests the full persisted blob schema.
func TestStoreRoundTrip(t *testing.T) {
	s := planner.DefaultStore()
	s.Theme = "vert"
	s.DarkMode = true
	if err := s.SetCurrentUser("Bob"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSlotMember(testWeek, testSlot, "Bob"); err != nil {
		t.Fatal(err)
	}
	s.AssignTask(testWeek, testSlot, "Comptes", "Bob")
	s.SetSlotNote(testWeek, testSlot, "rab de gobelets")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var back planner.Store
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if back.Theme != "vert" || !back.DarkMode || back.CurrentUser != "Bob" {
		t.Errorf("settings lost in round trip: %+v", back)
	}
	sl := back.Slot(testWeek, testSlot)
	if sl == nil {
		t.Fatal("slot lost in round trip")
	}
	if sl.Tasks["Comptes"] != "Bob" || sl.Note != "rab de gobelets" {
		t.Errorf("slot contents lost in round trip: %+v", sl)
	}
}

// TestStoreDefaultsOnPartialBlob tests first-run defaults for missing fields.
func TestStoreDefaultsOnPartialBlob(t *testing.T) {
	var s planner.Store
	if err := json.Unmarshal([]byte(`{}`), &s); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if s.Members == nil {
		t.Error("members should default to an empty slice")
	}
	if s.WeekData == nil {
		t.Error("weekData should default to an empty map")
	}
	if s.Theme != planner.DefaultTheme {
		t.Errorf("theme = %q, want %q", s.Theme, planner.DefaultTheme)
	}
}

// TestStoreRejectsMalformedBlob tests that corrupt JSON surfaces an error.
func TestStoreRejectsMalformedBlob(t *testing.T) {
	var s planner.Store
	if err := json.Unmarshal([]byte(`{"weekData": {"2024-06-03": {"x": 42}}}`), &s); err == nil {
		t.Error("malformed slot value should fail to parse")
	}
}
