package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"kfet/internal/application/state"
	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
	"kfet/internal/domain/week"
)

// SetSlotNoteInput carries input for editing a slot's free-text note.
type SetSlotNoteInput struct {
	WeekKey string
	SlotKey string
	Text    string
}

// ExecuteSetSlotNote stores a trimmed note on a slot. Empty text clears it.
func ExecuteSetSlotNote(ctx context.Context, input SetSlotNoteInput, deps SlotDeps) error {
	if err := validateSlotRef(input.WeekKey, input.SlotKey); err != nil {
		return err
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.SetSlotNote(input.WeekKey, input.SlotKey, input.Text)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "slot_note_set", "slot", input.SlotKey)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySlot, audit.ActionUpdate, input.SlotKey, "slot note edited"))
	return err
}

// SetWeekNotesInput carries input for editing the week-level notes.
type SetWeekNotesInput struct {
	WeekKey string
	Text    string
}

// ExecuteSetWeekNotes stores the trimmed week notes. Empty text clears them.
func ExecuteSetWeekNotes(ctx context.Context, input SetWeekNotesInput, deps SlotDeps) error {
	if _, err := week.Monday(input.WeekKey); err != nil {
		return err
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.SetWeekNotes(input.WeekKey, input.Text)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "week_notes_set", "week", input.WeekKey)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategoryWeek, audit.ActionUpdate, input.WeekKey, "week notes edited"))
	return err
}

// ResetWeekInput carries input for clearing a whole week.
type ResetWeekInput struct {
	WeekKey string
}

// ExecuteResetWeek replaces the week's slot mapping with an empty one.
// Irreversible; the UI confirms with the user before calling this.
func ExecuteResetWeek(ctx context.Context, input ResetWeekInput, deps SlotDeps) error {
	if _, err := week.Monday(input.WeekKey); err != nil {
		return err
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.ResetWeek(input.WeekKey)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "week_reset", "week", input.WeekKey)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategoryWeek, audit.ActionReset, input.WeekKey, "week cleared"))
	return err
}
