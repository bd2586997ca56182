package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kfet/internal/application/orchestrators"
	"kfet/internal/application/state"
	"kfet/internal/domain/week"
)

const icsProductID = "-//kfet//planning//FR"

// slotClock maps a slot name to its wall-clock window for calendar export.
var slotClock = map[string][4]int{
	week.SlotMorning:   {9, 50, 10, 10},
	week.SlotAfternoon: {15, 20, 15, 40},
}

// handleExport handles GET /export — download the backup file.
func handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	file := orchestrators.ExportBackup(r.Context(), backupDeps())

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=kfet-backup-%s.json", timeNow().Format("2006-01-02")))
	if err := json.NewEncoder(w).Encode(file); err != nil {
		slog.Error("export_encode_failed", "error", err)
	}
}

// handleImport handles POST /import — replace roster and week data from a
// backup file. Accepts a multipart upload (field "backup") or a raw JSON body.
func handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var data []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "Invalid upload", http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("backup")
		if err != nil {
			http.Error(w, "backup file is required", http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			internalError(w, err)
			return
		}
	} else {
		var err error
		data, err = io.ReadAll(r.Body)
		if err != nil {
			internalError(w, err)
			return
		}
	}

	input := orchestrators.ImportBackupInput{Data: data}
	err := orchestrators.ExecuteImportBackup(r.Context(), input, backupDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, "/settings")
}

// handleExportICS handles GET /export/ics?week=<key> — the week as an
// iCalendar file, one VEVENT per slot that has members.
func handleExportICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	weekKey, err := weekKeyFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}
	dates, err := week.Dates(weekKey)
	if err != nil {
		respondError(w, err)
		return
	}

	snap := stores.State.Snapshot()
	wk := snap.WeekData[weekKey]

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=kfet_%s.ics", weekKey))

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", icsProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:Kfet %s\n", weekKey)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	stamp := timeNow().UTC().Format("20060102T150405Z")
	for _, date := range dates {
		for _, slotName := range week.SlotNames {
			slotKey := week.SlotKey(date, slotName)
			if wk == nil || wk.Slots[slotKey] == nil || len(wk.Slots[slotKey].Members) == 0 {
				continue
			}
			slot := wk.Slots[slotKey]

			clock := slotClock[slotName]
			start := time.Date(date.Year(), date.Month(), date.Day(), clock[0], clock[1], 0, 0, time.Local)
			end := time.Date(date.Year(), date.Month(), date.Day(), clock[2], clock[3], 0, 0, time.Local)

			names := make([]string, len(slot.Members))
			for i, m := range slot.Members {
				names[i] = m.Name
			}

			fmt.Fprintln(w, "BEGIN:VEVENT")
			fmt.Fprintf(w, "UID:%s@kfet\n", slotKey)
			fmt.Fprintf(w, "DTSTAMP:%s\n", stamp)
			fmt.Fprintf(w, "DTSTART:%s\n", start.Format("20060102T150405"))
			fmt.Fprintf(w, "DTEND:%s\n", end.Format("20060102T150405"))
			fmt.Fprintf(w, "SUMMARY:Kfet %s\n", slotName)
			fmt.Fprintf(w, "DESCRIPTION:%s\n", strings.Join(names, "\\, "))
			fmt.Fprintln(w, "END:VEVENT")
		}
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}
