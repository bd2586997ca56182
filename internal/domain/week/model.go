package week

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for week keys and slot keys.
const DateLayout = "2006-01-02"

// Slot name constants. The planning day has exactly two fixed windows.
const (
	SlotMorning   = "Matin"
	SlotAfternoon = "Après-midi"
)

// SlotNames lists the two daily slots in display order.
var SlotNames = []string{SlotMorning, SlotAfternoon}

// SlotTimes maps a slot name to its time window label.
var SlotTimes = map[string]string{
	SlotMorning:   "9h50 - 10h10",
	SlotAfternoon: "15h20 - 15h40",
}

// Duty name constants for the fixed cleanup/administrative duties.
const (
	DutyAccounts = "Comptes"
	DutyBins     = "Poubelles"
	DutyCleaning = "Nettoyage"
)

// DayNames holds the French display names for the five planning weekdays,
// Monday first.
var DayNames = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi"}

var monthNames = []string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Domain errors
var (
	ErrInvalidKey     = errors.New("week key must be a YYYY-MM-DD date")
	ErrInvalidSlotKey = errors.New("slot key must be YYYY-MM-DD_<slot name>")
)

// Key returns the week key for the week containing t: the ISO date of that
// week's Monday. The anchor offset is 1 - weekday (Sunday = 0), so a Sunday
// resolves to the following Monday.
// POST: Returns a YYYY-MM-DD string that is always a Monday
func Key(t time.Time) string {
	return FormatDate(t.AddDate(0, 0, 1-int(t.Weekday())))
}

// Monday parses a week key back into its Monday date at local midnight.
// PRE: key was produced by Key or matches DateLayout
// POST: FormatDate(Monday(key)) == key
func Monday(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return t, nil
}

// FormatDate renders a date as zero-padded YYYY-MM-DD using local calendar
// fields. A date at local midnight round-trips exactly through Monday.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Prev returns the week key exactly 7 calendar days before the given key.
func Prev(key string) (string, error) {
	m, err := Monday(key)
	if err != nil {
		return "", err
	}
	return Key(m.AddDate(0, 0, -7)), nil
}

// Next returns the week key exactly 7 calendar days after the given key.
func Next(key string) (string, error) {
	m, err := Monday(key)
	if err != nil {
		return "", err
	}
	return Key(m.AddDate(0, 0, 7)), nil
}

// SlotKey builds the composite slot identifier for a date and slot name.
// POST: Returns "YYYY-MM-DD_<slotName>" (exact string match required for lookup)
func SlotKey(date time.Time, slotName string) string {
	return FormatDate(date) + "_" + slotName
}

// ParseSlotKey splits a slot key into its date part and slot name.
// POST: Returns ErrInvalidSlotKey if the key has no underscore separator
func ParseSlotKey(slotKey string) (datePart, slotName string, err error) {
	i := strings.Index(slotKey, "_")
	if i < 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSlotKey, slotKey)
	}
	datePart, slotName = slotKey[:i], slotKey[i+1:]
	if _, perr := time.ParseInLocation(DateLayout, datePart, time.Local); perr != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSlotKey, slotKey)
	}
	return datePart, slotName, nil
}

// Dates returns the five weekday dates (Monday through Friday) of the week
// identified by key, in order.
func Dates(key string) ([]time.Time, error) {
	m, err := Monday(key)
	if err != nil {
		return nil, err
	}
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = m.AddDate(0, 0, i)
	}
	return days, nil
}

// DutiesFor returns the fixed duty names for a slot. Duty sets are derived
// from the weekday and slot name, never stored: afternoon slots carry
// Comptes and Poubelles, Tuesday afternoon additionally Nettoyage, and
// morning slots carry none.
func DutiesFor(date time.Time, slotName string) []string {
	if slotName != SlotAfternoon {
		return nil
	}
	duties := []string{DutyAccounts, DutyBins}
	if date.Weekday() == time.Tuesday {
		duties = append(duties, DutyCleaning)
	}
	return duties
}

// Label renders the French week label shown above the planning grid,
// e.g. "Semaine du 3 au 7 juin".
func Label(key string) (string, error) {
	m, err := Monday(key)
	if err != nil {
		return "", err
	}
	friday := m.AddDate(0, 0, 4)
	return fmt.Sprintf("Semaine du %d au %d %s", m.Day(), friday.Day(), MonthName(friday.Month())), nil
}

// MonthName returns the French month name for a month.
func MonthName(m time.Month) string {
	return monthNames[int(m)-1]
}
