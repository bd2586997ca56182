package planner

import (
	"encoding/json"
	"fmt"
)

// weekNotesKey is the literal sibling key the historical blob schema uses
// for week-level notes inside the slot mapping.
const weekNotesKey = "notes"

// storeBlob is the persisted wire shape of the store.
type storeBlob struct {
	Members     []string         `json:"members"`
	WeekData    map[string]*Week `json:"weekData"`
	Theme       string           `json:"theme"`
	DarkMode    bool             `json:"darkMode"`
	CurrentUser string           `json:"currentUser"`
}

// BackupFile is the import/export file format: the blob's members and week
// data plus an export timestamp. Import replaces members and weekData
// wholesale and leaves settings untouched.
type BackupFile struct {
	Members  []string         `json:"members"`
	WeekData map[string]*Week `json:"weekData"`
	Date     string           `json:"date"`
}

// MarshalJSON writes the week in the historical blob schema: the slot
// mapping with the week notes as a "notes" sibling key.
func (w *Week) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(w.Slots)+1)
	for k, sl := range w.Slots {
		out[k] = sl
	}
	if w.Notes != "" {
		out[weekNotesKey] = w.Notes
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the historical schema back, splitting the "notes"
// sibling key out of the slot mapping.
func (w *Week) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.Slots = make(map[string]*Slot, len(raw))
	w.Notes = ""
	for k, v := range raw {
		if k == weekNotesKey {
			if err := json.Unmarshal(v, &w.Notes); err != nil {
				return fmt.Errorf("week notes: %w", err)
			}
			continue
		}
		var sl Slot
		if err := json.Unmarshal(v, &sl); err != nil {
			return fmt.Errorf("slot %q: %w", k, err)
		}
		w.Slots[k] = &sl
	}
	return nil
}

// MarshalJSON writes the store in the persisted blob schema.
func (s *Store) MarshalJSON() ([]byte, error) {
	members := s.Members
	if members == nil {
		members = []string{}
	}
	weekData := s.WeekData
	if weekData == nil {
		weekData = map[string]*Week{}
	}
	return json.Marshal(storeBlob{
		Members:     members,
		WeekData:    weekData,
		Theme:       s.Theme,
		DarkMode:    s.DarkMode,
		CurrentUser: s.CurrentUser,
	})
}

// UnmarshalJSON reads a persisted blob, applying first-run defaults for
// missing fields the way the original loader did.
func (s *Store) UnmarshalJSON(data []byte) error {
	var blob storeBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return err
	}
	s.Members = blob.Members
	if s.Members == nil {
		s.Members = []string{}
	}
	s.WeekData = blob.WeekData
	if s.WeekData == nil {
		s.WeekData = make(map[string]*Week)
	}
	s.Theme = blob.Theme
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	s.DarkMode = blob.DarkMode
	s.CurrentUser = blob.CurrentUser
	return nil
}
