package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kfet/internal/application/state"
	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
)

// ErrInvalidBackup signals a malformed import file. The existing store is
// left untouched when it is returned.
var ErrInvalidBackup = errors.New("backup file could not be parsed")

// BackupDeps holds dependencies for export and import.
type BackupDeps struct {
	State      PlannerState
	AuditStore AuditStore // optional: nil skips audit recording
}

// ExportBackup builds the export file: the current roster and week data
// plus an export timestamp. Settings are not part of the file.
func ExportBackup(ctx context.Context, deps BackupDeps) planner.BackupFile {
	snap := deps.State.Snapshot()

	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategoryBackup, audit.ActionExport, planner.StorageKey, "backup exported"))

	return planner.BackupFile{
		Members:  snap.Members,
		WeekData: snap.WeekData,
		Date:     time.Now().Format(time.RFC3339),
	}
}

// ImportBackupInput carries the raw bytes of an uploaded backup file.
type ImportBackupInput struct {
	Data []byte
}

// ExecuteImportBackup replaces the roster and week data wholesale from a
// backup file. Theme, dark mode, and current user are untouched.
// POST: A malformed file returns ErrInvalidBackup and changes nothing
func ExecuteImportBackup(ctx context.Context, input ImportBackupInput, deps BackupDeps) error {
	var file planner.BackupFile
	if err := json.Unmarshal(input.Data, &file); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	err := deps.State.Update(ctx, func(s *planner.Store) error {
		s.ReplaceData(file.Members, file.WeekData)
		return nil
	})
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		return err
	}

	slog.Info("planner_event", "event", "backup_imported", "members", len(file.Members), "weeks", len(file.WeekData))
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategoryBackup, audit.ActionImport, planner.StorageKey, "backup imported"))
	return err
}
