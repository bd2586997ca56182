package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"kfet/internal/application/state"
	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
)

// RosterDeps holds dependencies for the roster orchestrators.
type RosterDeps struct {
	State      PlannerState
	AuditStore AuditStore // optional: nil skips audit recording
}

// AddRosterMemberInput carries input for adding a member to the roster.
type AddRosterMemberInput struct {
	Name string
}

// ExecuteAddRosterMember appends a new name to the global roster.
// PRE: Name is non-empty after trimming and not already in the roster
// POST: Roster gains the name at the end; the store is persisted
func ExecuteAddRosterMember(ctx context.Context, input AddRosterMemberInput, deps RosterDeps) error {
	name := strings.TrimSpace(input.Name)
	err := deps.State.Update(ctx, func(s *planner.Store) error {
		return s.AddMember(name)
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "roster_member_added", "name", name)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategoryRoster, audit.ActionCreate, name, "member added to roster"))
	return err
}

// RemoveRosterMemberInput carries input for removing a roster member.
type RemoveRosterMemberInput struct {
	Name string
}

// ExecuteRemoveRosterMember removes a name from the roster only. Slot-level
// historical records for that name stay untouched (no cascade).
func ExecuteRemoveRosterMember(ctx context.Context, input RemoveRosterMemberInput, deps RosterDeps) error {
	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.RemoveMember(input.Name)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "roster_member_removed", "name", input.Name)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategoryRoster, audit.ActionDelete, input.Name, "member removed from roster"))
	return err
}

// SetCurrentUserInput carries input for designating the current user.
type SetCurrentUserInput struct {
	Name string
}

// ExecuteSetCurrentUser designates the "me" member used by the add-me
// shortcut. A name missing from the roster is added to it.
// PRE: Name is non-empty after trimming
func ExecuteSetCurrentUser(ctx context.Context, input SetCurrentUserInput, deps RosterDeps) error {
	name := strings.TrimSpace(input.Name)
	err := deps.State.Update(ctx, func(s *planner.Store) error {
		return s.SetCurrentUser(name)
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "current_user_set", "name", name)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySettings, audit.ActionUpdate, name, "current user set"))
	return err
}
