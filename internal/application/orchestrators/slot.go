package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"kfet/internal/application/state"
	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
	"kfet/internal/domain/week"
)

// SlotDeps holds dependencies for the slot orchestrators.
type SlotDeps struct {
	State      PlannerState
	AuditStore AuditStore // optional: nil skips audit recording
}

// validateSlotRef checks the week key and slot key formats.
func validateSlotRef(weekKey, slotKey string) error {
	if _, err := week.Monday(weekKey); err != nil {
		return err
	}
	if _, _, err := week.ParseSlotKey(slotKey); err != nil {
		return err
	}
	return nil
}

// AddSlotMemberInput carries input for adding a member to a slot.
type AddSlotMemberInput struct {
	WeekKey string
	SlotKey string
	Name    string
}

// ExecuteAddSlotMember adds a member entry to a slot, present by default.
// The slot is materialized on first touch.
// POST: Returns planner.ErrDuplicateSlotMember when the name is already in
// the slot — surfaced as a warning, the slot keeps exactly one entry
func ExecuteAddSlotMember(ctx context.Context, input AddSlotMemberInput, deps SlotDeps) error {
	if err := validateSlotRef(input.WeekKey, input.SlotKey); err != nil {
		return err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return planner.ErrEmptyName
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		return s.AddSlotMember(input.WeekKey, input.SlotKey, name)
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "slot_member_added", "slot", input.SlotKey, "name", name)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySlot, audit.ActionCreate, input.SlotKey, name+" added to slot"))
	return err
}

// AddMeToSlotInput carries input for the add-me shortcut.
type AddMeToSlotInput struct {
	WeekKey string
	SlotKey string
}

// ExecuteAddMeToSlot adds the configured current user to a slot.
// POST: Returns planner.ErrNoCurrentUser when no current user is set
func ExecuteAddMeToSlot(ctx context.Context, input AddMeToSlotInput, deps SlotDeps) error {
	if err := validateSlotRef(input.WeekKey, input.SlotKey); err != nil {
		return err
	}

	var name string
	err := deps.State.Update(ctx, func(s *planner.Store) error {
		if s.CurrentUser == "" {
			return planner.ErrNoCurrentUser
		}
		name = s.CurrentUser
		return s.AddSlotMember(input.WeekKey, input.SlotKey, s.CurrentUser)
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "current_user_added_to_slot", "slot", input.SlotKey, "name", name)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySlot, audit.ActionCreate, input.SlotKey, name+" added to slot"))
	return err
}

// RemoveSlotMemberInput carries input for removing a member from a slot.
type RemoveSlotMemberInput struct {
	WeekKey string
	SlotKey string
	Name    string
}

// ExecuteRemoveSlotMember removes a member entry by exact name match. A miss
// is a silent no-op.
func ExecuteRemoveSlotMember(ctx context.Context, input RemoveSlotMemberInput, deps SlotDeps) error {
	if err := validateSlotRef(input.WeekKey, input.SlotKey); err != nil {
		return err
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.RemoveSlotMember(input.WeekKey, input.SlotKey, input.Name)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "slot_member_removed", "slot", input.SlotKey, "name", input.Name)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySlot, audit.ActionDelete, input.SlotKey, input.Name+" removed from slot"))
	return err
}

// TogglePresenceInput carries input for flipping a slot member's presence.
type TogglePresenceInput struct {
	WeekKey string
	SlotKey string
	Name    string
}

// ExecuteTogglePresence flips a slot member's presence flag. A miss is a
// silent no-op and nothing is persisted.
func ExecuteTogglePresence(ctx context.Context, input TogglePresenceInput, deps SlotDeps) error {
	if err := validateSlotRef(input.WeekKey, input.SlotKey); err != nil {
		return err
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		if !s.TogglePresence(input.WeekKey, input.SlotKey, input.Name) {
			return errNoop
		}
		return nil
	})
	if errors.Is(err, errNoop) {
		return nil
	}
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "presence_toggled", "slot", input.SlotKey, "name", input.Name)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySlot, audit.ActionUpdate, input.SlotKey, "presence toggled for "+input.Name))
	return err
}
