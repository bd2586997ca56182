package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"kfet/internal/application/state"
	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
	"kfet/internal/domain/theme"
)

// SettingsDeps holds dependencies for the settings orchestrators.
type SettingsDeps struct {
	State      PlannerState
	AuditStore AuditStore // optional: nil skips audit recording
}

// SelectThemeInput carries input for changing the color palette.
type SelectThemeInput struct {
	Palette string
}

// ExecuteSelectTheme switches the UI palette.
// PRE: Palette is one of theme.Palettes
func ExecuteSelectTheme(ctx context.Context, input SelectThemeInput, deps SettingsDeps) error {
	if !theme.IsValid(input.Palette) {
		return theme.ErrUnknownPalette
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.Theme = input.Palette
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "theme_selected", "palette", input.Palette)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySettings, audit.ActionUpdate, input.Palette, "theme palette changed"))
	return err
}

// ExecuteToggleDarkMode flips the dark-mode flag.
func ExecuteToggleDarkMode(ctx context.Context, deps SettingsDeps) error {
	var dark bool
	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.DarkMode = !s.DarkMode
		dark = s.DarkMode
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "dark_mode_toggled", "dark", dark)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySettings, audit.ActionUpdate, "darkMode", "dark mode toggled"))
	return err
}

// ExecuteClearAll removes the persisted blob and resets the in-memory store
// to the defaults. Irreversible; the UI confirms first.
func ExecuteClearAll(ctx context.Context, deps SettingsDeps) error {
	if err := deps.State.ClearAll(ctx); err != nil {
		return err
	}

	slog.Info("planner_event", "event", "all_data_cleared")
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategorySettings, audit.ActionDelete, planner.StorageKey, "all planner data cleared"))
	return nil
}
