package week_test

import (
	"testing"
	"time"

	"kfet/internal/domain/week"
)

// TestKeyAnchorsToMonday tests the week key derivation for every weekday.
func TestKeyAnchorsToMonday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "monday maps to itself",
			date: time.Date(2024, 6, 3, 10, 0, 0, 0, time.Local),
			want: "2024-06-03",
		},
		{
			name: "wednesday maps back to monday",
			date: time.Date(2024, 6, 5, 23, 59, 0, 0, time.Local),
			want: "2024-06-03",
		},
		{
			name: "saturday maps back to monday",
			date: time.Date(2024, 6, 8, 0, 0, 0, 0, time.Local),
			want: "2024-06-03",
		},
		{
			name: "sunday maps to the following monday",
			date: time.Date(2024, 6, 9, 12, 0, 0, 0, time.Local),
			want: "2024-06-10",
		},
		{
			name: "month boundary",
			date: time.Date(2024, 7, 2, 0, 0, 0, 0, time.Local),
			want: "2024-07-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := week.Key(tt.date); got != tt.want {
				t.Errorf("Key(%v) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

// TestKeyIsIdempotent tests that re-deriving a key from its Monday is stable.
func TestKeyIsIdempotent(t *testing.T) {
	key := week.Key(time.Date(2024, 6, 7, 15, 0, 0, 0, time.Local))
	monday, err := week.Monday(key)
	if err != nil {
		t.Fatalf("Monday(%q) returned error: %v", key, err)
	}
	if got := week.Key(monday); got != key {
		t.Errorf("Key(Monday(%q)) = %q, want %q", key, got, key)
	}
}

// TestMondayRejectsBadKeys tests week key validation.
func TestMondayRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "not-a-date", "2024-13-01", "03/06/2024"} {
		if _, err := week.Monday(key); err == nil {
			t.Errorf("Monday(%q) should have failed", key)
		}
	}
}

// TestPrevNextRoundTrip tests that week navigation is symmetric.
func TestPrevNextRoundTrip(t *testing.T) {
	key := "2024-06-03"

	next, err := week.Next(key)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if next != "2024-06-10" {
		t.Errorf("Next(%q) = %q, want 2024-06-10", key, next)
	}

	back, err := week.Prev(next)
	if err != nil {
		t.Fatalf("Prev returned error: %v", err)
	}
	if back != key {
		t.Errorf("Prev(Next(%q)) = %q, want %q", key, back, key)
	}
}

// TestSlotKeyRoundTrip tests the composite slot key format.
func TestSlotKeyRoundTrip(t *testing.T) {
	date := time.Date(2024, 6, 4, 0, 0, 0, 0, time.Local)
	slotKey := week.SlotKey(date, week.SlotAfternoon)
	if slotKey != "2024-06-04_Après-midi" {
		t.Fatalf("SlotKey = %q, want 2024-06-04_Après-midi", slotKey)
	}

	datePart, slotName, err := week.ParseSlotKey(slotKey)
	if err != nil {
		t.Fatalf("ParseSlotKey returned error: %v", err)
	}
	if datePart != "2024-06-04" || slotName != week.SlotAfternoon {
		t.Errorf("ParseSlotKey = (%q, %q), want (2024-06-04, %q)", datePart, slotName, week.SlotAfternoon)
	}
}

// TestParseSlotKeyRejectsBadKeys tests slot key validation.
func TestParseSlotKeyRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "2024-06-04", "nodate_Matin", "2024-06-04 Matin"} {
		if _, _, err := week.ParseSlotKey(key); err == nil {
			t.Errorf("ParseSlotKey(%q) should have failed", key)
		}
	}
}

// TestDates tests the weekday expansion of a week key.
func TestDates(t *testing.T) {
	dates, err := week.Dates("2024-06-03")
	if err != nil {
		t.Fatalf("Dates returned error: %v", err)
	}
	if len(dates) != 5 {
		t.Fatalf("Dates returned %d days, want 5", len(dates))
	}
	if got := week.FormatDate(dates[0]); got != "2024-06-03" {
		t.Errorf("first day = %q, want 2024-06-03", got)
	}
	if got := week.FormatDate(dates[4]); got != "2024-06-07" {
		t.Errorf("last day = %q, want 2024-06-07", got)
	}
}

// TestDutiesFor tests the fixed duty derivation rules.
func TestDutiesFor(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		slotName string
		want     []string
	}{
		{
			name:     "morning has no duties",
			date:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local),
			slotName: week.SlotMorning,
			want:     nil,
		},
		{
			name:     "monday afternoon",
			date:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local),
			slotName: week.SlotAfternoon,
			want:     []string{week.DutyAccounts, week.DutyBins},
		},
		{
			name:     "tuesday afternoon adds cleaning",
			date:     time.Date(2024, 6, 4, 0, 0, 0, 0, time.Local),
			slotName: week.SlotAfternoon,
			want:     []string{week.DutyAccounts, week.DutyBins, week.DutyCleaning},
		},
		{
			name:     "tuesday morning still has none",
			date:     time.Date(2024, 6, 4, 0, 0, 0, 0, time.Local),
			slotName: week.SlotMorning,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := week.DutiesFor(tt.date, tt.slotName)
			if len(got) != len(tt.want) {
				t.Fatalf("DutiesFor = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("DutiesFor[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestLabel tests the French week label.
func TestLabel(t *testing.T) {
	got, err := week.Label("2024-06-03")
	if err != nil {
		t.Fatalf("Label returned error: %v", err)
	}
	if got != "Semaine du 3 au 7 juin" {
		t.Errorf("Label = %q, want %q", got, "Semaine du 3 au 7 juin")
	}
}
