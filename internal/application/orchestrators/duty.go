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

// AssignDutyInput carries input for assigning a duty to a member.
type AssignDutyInput struct {
	WeekKey  string
	SlotKey  string
	DutyName string
	Member   string
}

// ExecuteAssignDuty records a duty assignment, unconditionally overwriting
// any prior assignee. The member does not have to be in the slot's member
// list.
// PRE: DutyName and Member are non-empty after trimming
func ExecuteAssignDuty(ctx context.Context, input AssignDutyInput, deps SlotDeps) error {
	if err := validateSlotRef(input.WeekKey, input.SlotKey); err != nil {
		return err
	}
	duty := strings.TrimSpace(input.DutyName)
	member := strings.TrimSpace(input.Member)
	if duty == "" || member == "" {
		return planner.ErrEmptyName
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.AssignTask(input.WeekKey, input.SlotKey, duty, member)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "duty_assigned", "slot", input.SlotKey, "duty", duty, "member", member)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySlot, audit.ActionUpdate, input.SlotKey, duty+" assigned to "+member))
	return err
}

// ClearDutyInput carries input for removing a duty assignment.
type ClearDutyInput struct {
	WeekKey  string
	SlotKey  string
	DutyName string
}

// ExecuteClearDuty deletes a duty assignment. A miss is a silent no-op.
func ExecuteClearDuty(ctx context.Context, input ClearDutyInput, deps SlotDeps) error {
	if err := validateSlotRef(input.WeekKey, input.SlotKey); err != nil {
		return err
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.RemoveTask(input.WeekKey, input.SlotKey, input.DutyName)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "duty_cleared", "slot", input.SlotKey, "duty", input.DutyName)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySlot, audit.ActionDelete, input.SlotKey, input.DutyName+" assignment cleared"))
	return err
}
