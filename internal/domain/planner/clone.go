package planner

// Clone returns a deep copy of the slot.
func (sl *Slot) Clone() *Slot {
	out := &Slot{Note: sl.Note}
	if sl.Members != nil {
		out.Members = append([]SlotMember(nil), sl.Members...)
	}
	if sl.Tasks != nil {
		out.Tasks = make(map[string]string, len(sl.Tasks))
		for k, v := range sl.Tasks {
			out.Tasks[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the week.
func (w *Week) Clone() *Week {
	out := &Week{Notes: w.Notes, Slots: make(map[string]*Slot, len(w.Slots))}
	for k, sl := range w.Slots {
		if sl != nil {
			out.Slots[k] = sl.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the store, safe to read without holding the
// owner's lock.
func (s *Store) Clone() *Store {
	out := &Store{
		Theme:       s.Theme,
		DarkMode:    s.DarkMode,
		CurrentUser: s.CurrentUser,
		WeekData:    make(map[string]*Week, len(s.WeekData)),
	}
	if s.Members != nil {
		out.Members = append([]string(nil), s.Members...)
	}
	for k, w := range s.WeekData {
		if w != nil {
			out.WeekData[k] = w.Clone()
		}
	}
	return out
}
