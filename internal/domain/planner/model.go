package planner

import (
	"errors"
	"strings"

	"kfet/internal/domain/theme"
)

// StorageKey is the fixed name the whole store is persisted under.
const StorageKey = "kfet"

// Domain errors
var (
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrDuplicateMember     = errors.New("member already in roster")
	ErrDuplicateSlotMember = errors.New("member already in slot")
	ErrNoCurrentUser       = errors.New("no current user configured")
)

// SlotMember is one member's entry in one slot of one week. The presence
// flag is local to that slot; the same name may appear in many slots
// independently of the global roster.
type SlotMember struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// Slot holds the state of one time window on one day: members in insertion
// order, duty assignments (duty name -> member name, at most one assignee),
// and a free-text note.
type Slot struct {
	Members []SlotMember      `json:"members"`
	Tasks   map[string]string `json:"tasks"`
	Note    string            `json:"note"`
}

// Week groups the slots of one Monday-keyed week plus the week-level notes.
// In memory the notes are a dedicated field; the persisted blob keeps the
// historical schema where "notes" is a sibling key inside the slot mapping
// (see MarshalJSON).
type Week struct {
	Slots map[string]*Slot
	Notes string
}

// Store is the root aggregate: the global roster, all week data, and the
// app settings. It carries no I/O; orchestrators persist it after every
// completed mutation.
type Store struct {
	Members     []string
	WeekData    map[string]*Week
	Theme       string
	DarkMode    bool
	CurrentUser string
}

// DefaultMembers is the roster seeded on first run.
var DefaultMembers = []string{"Alice", "Bob", "Charlie", "David", "Eve"}

// DefaultTheme is the palette selected on first run.
const DefaultTheme = "violet"

// DefaultStore returns the store used when no saved data exists.
// POST: Five seeded members, no weeks, violet theme, no current user
func DefaultStore() *Store {
	return &Store{
		Members:  append([]string(nil), DefaultMembers...),
		WeekData: make(map[string]*Week),
		Theme:    DefaultTheme,
	}
}

// HasMember reports whether name is in the global roster (exact match).
func (s *Store) HasMember(name string) bool {
	for _, m := range s.Members {
		if m == name {
			return true
		}
	}
	return false
}

// AddMember appends a name to the roster.
// PRE: name is non-empty after trimming and not already present
// POST: Roster order is preserved, new name at the end
func (s *Store) AddMember(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if s.HasMember(name) {
		return ErrDuplicateMember
	}
	s.Members = append(s.Members, name)
	return nil
}

// RemoveMember removes a name from the roster only. Historical slot entries
// for that name are independent snapshots and stay untouched. No-op when the
// name is absent.
func (s *Store) RemoveMember(name string) {
	kept := s.Members[:0]
	for _, m := range s.Members {
		if m != name {
			kept = append(kept, m)
		}
	}
	s.Members = kept
}

// SetCurrentUser designates a roster member as "me". A name missing from
// the roster is added to it.
// PRE: name is non-empty after trimming
func (s *Store) SetCurrentUser(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s.CurrentUser = name
	if !s.HasMember(name) {
		s.Members = append(s.Members, name)
	}
	return nil
}

// ensureWeek materializes the week for weekKey on first access.
func (s *Store) ensureWeek(weekKey string) *Week {
	if s.WeekData == nil {
		s.WeekData = make(map[string]*Week)
	}
	w, ok := s.WeekData[weekKey]
	if !ok || w == nil {
		w = &Week{Slots: make(map[string]*Slot)}
		s.WeekData[weekKey] = w
	}
	if w.Slots == nil {
		w.Slots = make(map[string]*Slot)
	}
	return w
}

// ensureSlot materializes a slot on first access.
func (s *Store) ensureSlot(weekKey, slotKey string) *Slot {
	w := s.ensureWeek(weekKey)
	sl, ok := w.Slots[slotKey]
	if !ok || sl == nil {
		sl = &Slot{}
		w.Slots[slotKey] = sl
	}
	return sl
}

// Slot returns the slot for weekKey/slotKey, or nil when it was never
// materialized.
func (s *Store) Slot(weekKey, slotKey string) *Slot {
	w, ok := s.WeekData[weekKey]
	if !ok || w == nil {
		return nil
	}
	return w.Slots[slotKey]
}

// AddSlotMember adds a member entry to a slot, present by default.
// POST: Returns ErrDuplicateSlotMember (a warning, not a hard failure) when
// the name is already in the slot; the slot then holds exactly one entry
func (s *Store) AddSlotMember(weekKey, slotKey, name string) error {
	sl := s.ensureSlot(weekKey, slotKey)
	for _, m := range sl.Members {
		if m.Name == name {
			return ErrDuplicateSlotMember
		}
	}
	sl.Members = append(sl.Members, SlotMember{Name: name, Present: true})
	return nil
}

// RemoveSlotMember removes a member entry by exact name match. No-op when
// the slot or the name is absent.
func (s *Store) RemoveSlotMember(weekKey, slotKey, name string) {
	sl := s.Slot(weekKey, slotKey)
	if sl == nil {
		return
	}
	kept := sl.Members[:0]
	for _, m := range sl.Members {
		if m.Name != name {
			kept = append(kept, m)
		}
	}
	sl.Members = kept
}

// TogglePresence flips a slot member's presence flag.
// POST: Returns false (no-op) when the slot or member is not found
func (s *Store) TogglePresence(weekKey, slotKey, name string) bool {
	sl := s.Slot(weekKey, slotKey)
	if sl == nil {
		return false
	}
	for i := range sl.Members {
		if sl.Members[i].Name == name {
			sl.Members[i].Present = !sl.Members[i].Present
			return true
		}
	}
	return false
}

// AssignTask records a duty assignment, unconditionally overwriting any
// prior assignee. The member need not currently be in the slot.
func (s *Store) AssignTask(weekKey, slotKey, taskName, memberName string) {
	sl := s.ensureSlot(weekKey, slotKey)
	if sl.Tasks == nil {
		sl.Tasks = make(map[string]string)
	}
	sl.Tasks[taskName] = memberName
}

// RemoveTask deletes a duty assignment. No-op when the slot or the duty has
// no assignment.
func (s *Store) RemoveTask(weekKey, slotKey, taskName string) {
	sl := s.Slot(weekKey, slotKey)
	if sl == nil || sl.Tasks == nil {
		return
	}
	delete(sl.Tasks, taskName)
}

// SetSlotNote stores a trimmed free-text note on a slot. Empty clears.
func (s *Store) SetSlotNote(weekKey, slotKey, text string) {
	sl := s.ensureSlot(weekKey, slotKey)
	sl.Note = strings.TrimSpace(text)
}

// SetWeekNotes stores the trimmed week-level notes. Empty clears.
func (s *Store) SetWeekNotes(weekKey, text string) {
	w := s.ensureWeek(weekKey)
	w.Notes = strings.TrimSpace(text)
}

// ResetWeek replaces the week with an empty one. Irreversible; the caller is
// responsible for confirming with the user first. Week notes are cleared
// along with the slots, matching the historical behavior.
func (s *Store) ResetWeek(weekKey string) {
	if s.WeekData == nil {
		s.WeekData = make(map[string]*Week)
	}
	s.WeekData[weekKey] = &Week{Slots: make(map[string]*Slot)}
}

// ReplaceData replaces the roster and week data wholesale (import). Theme,
// dark mode, and current user are left untouched.
func (s *Store) ReplaceData(members []string, weekData map[string]*Week) {
	if members == nil {
		members = []string{}
	}
	if weekData == nil {
		weekData = make(map[string]*Week)
	}
	s.Members = members
	s.WeekData = weekData
}

// Validate checks the store's invariants.
// POST: Returns the first violation, or nil
func (s *Store) Validate() error {
	seen := make(map[string]bool, len(s.Members))
	for _, m := range s.Members {
		if strings.TrimSpace(m) == "" {
			return ErrEmptyName
		}
		if seen[m] {
			return ErrDuplicateMember
		}
		seen[m] = true
	}
	if s.CurrentUser != "" && !s.HasMember(s.CurrentUser) {
		return errors.New("current user must be a roster member")
	}
	return theme.Settings{Palette: s.Theme, DarkMode: s.DarkMode}.Validate()
}

// Normalize repairs recoverable slips in a loaded store without discarding
// data: an unknown theme falls back to the default, and a current user
// missing from the roster is re-added the way SetCurrentUser would. Import
// replaces the roster wholesale while leaving the current user untouched, so
// a persisted store can legitimately arrive in either state.
func (s *Store) Normalize() {
	if !theme.IsValid(s.Theme) {
		s.Theme = DefaultTheme
	}
	if s.CurrentUser != "" && !s.HasMember(s.CurrentUser) {
		s.Members = append(s.Members, s.CurrentUser)
	}
}
