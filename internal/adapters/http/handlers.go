package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"kfet/internal/adapters/http/middleware"
	"kfet/internal/application/orchestrators"
	"kfet/internal/application/projections"
	"kfet/internal/application/state"
	"kfet/internal/domain/planner"
	themeDomain "kfet/internal/domain/theme"
	"kfet/internal/domain/week"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// respondError maps domain errors to client statuses; anything unknown is an
// internal error.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planner.ErrDuplicateMember),
		errors.Is(err, planner.ErrDuplicateSlotMember):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, planner.ErrEmptyName),
		errors.Is(err, planner.ErrNoCurrentUser),
		errors.Is(err, week.ErrInvalidKey),
		errors.Is(err, week.ErrInvalidSlotKey),
		errors.Is(err, themeDomain.ErrUnknownPalette),
		errors.Is(err, orchestrators.ErrInvalidBackup):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		internalError(w, err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func isFormRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

// mutationDone finishes a POST: forms go back to the page they came from,
// JSON clients get 204. A lost save (state.ErrSaveFailed) still counts as
// done, the mutation is applied in memory.
func mutationDone(w http.ResponseWriter, r *http.Request, backTo string) {
	if isHTMLRequest(r) {
		http.Redirect(w, r, backTo, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	snap := stores.State.Snapshot()
	_, loggedIn := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"csrfToken":      func() string { return csrf.Token(r) },
		"isLoggedIn":     func() bool { return loggedIn },
		"authEnabled":    func() bool { return passwordHash != "" },
		"currentPalette": func() string { return snap.Theme },
		"darkMode":       func() bool { return snap.DarkMode },
		"currentUser":    func() string { return snap.CurrentUser },
		"palettes":       func() []string { return themeDomain.Palettes },
		"paletteHex": func(name string) string {
			if hex, ok := themeDomain.ColorHex[name]; ok {
				return hex
			}
			return themeDomain.ColorHex[planner.DefaultTheme]
		},
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// weekKeyFromRequest resolves the week to display: the "week" query
// parameter when present, the current week otherwise.
func weekKeyFromRequest(r *http.Request) (string, error) {
	key := r.URL.Query().Get("week")
	if key == "" {
		return week.Key(timeNow()), nil
	}
	if _, err := week.Monday(key); err != nil {
		return "", err
	}
	return key, nil
}

// handlePlanning handles GET / — the week grid.
func handlePlanning(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	weekKey, err := weekKeyFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := projections.QueryGetPlanning(
		projections.GetPlanningQuery{WeekKey: weekKey},
		projections.GetPlanningDeps{State: stores.State},
	)
	if err != nil {
		respondError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "planning.html", result)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleMembers handles POST /members — add a roster member.
func handleMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.AddRosterMemberInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Name = r.FormValue("Name")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteAddRosterMember(r.Context(), input, rosterDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, "/settings")
}

// handleRemoveMember handles POST /members/remove.
func handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.RemoveRosterMemberInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Name = r.FormValue("Name")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteRemoveRosterMember(r.Context(), input, rosterDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, "/settings")
}

// handleSetCurrentUser handles POST /settings/current-user.
func handleSetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SetCurrentUserInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Name = r.FormValue("Name")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteSetCurrentUser(r.Context(), input, rosterDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, "/settings")
}

// slotForm reads the week/slot reference fields shared by the slot handlers.
func slotForm(r *http.Request) (weekKey, slotKey string) {
	return r.FormValue("WeekKey"), r.FormValue("SlotKey")
}

func planningURL(weekKey string) string {
	return "/?week=" + weekKey
}

// handleAddSlotMember handles POST /slots/members.
func handleAddSlotMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.AddSlotMemberInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey, input.SlotKey = slotForm(r)
		input.Name = r.FormValue("Name")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteAddSlotMember(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleAddMeToSlot handles POST /slots/add-me.
func handleAddMeToSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.AddMeToSlotInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey, input.SlotKey = slotForm(r)
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteAddMeToSlot(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleRemoveSlotMember handles POST /slots/members/remove.
func handleRemoveSlotMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.RemoveSlotMemberInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey, input.SlotKey = slotForm(r)
		input.Name = r.FormValue("Name")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteRemoveSlotMember(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleTogglePresence handles POST /slots/presence.
func handleTogglePresence(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.TogglePresenceInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey, input.SlotKey = slotForm(r)
		input.Name = r.FormValue("Name")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteTogglePresence(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleAssignDuty handles POST /slots/duties.
func handleAssignDuty(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.AssignDutyInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey, input.SlotKey = slotForm(r)
		input.DutyName = r.FormValue("DutyName")
		input.Member = r.FormValue("Member")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteAssignDuty(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleClearDuty handles POST /slots/duties/remove.
func handleClearDuty(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.ClearDutyInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey, input.SlotKey = slotForm(r)
		input.DutyName = r.FormValue("DutyName")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteClearDuty(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleSetSlotNote handles POST /slots/note.
func handleSetSlotNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SetSlotNoteInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey, input.SlotKey = slotForm(r)
		input.Text = r.FormValue("Text")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteSetSlotNote(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleSetWeekNotes handles POST /weeks/notes.
func handleSetWeekNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SetWeekNotesInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey = r.FormValue("WeekKey")
		input.Text = r.FormValue("Text")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteSetWeekNotes(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleResetWeek handles POST /weeks/reset.
func handleResetWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.ResetWeekInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey = r.FormValue("WeekKey")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteResetWeek(r.Context(), input, slotDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

// handleStats handles GET /stats.
func handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result := projections.QueryGetStats(projections.GetStatsDeps{State: stores.State})

	if isHTMLRequest(r) {
		renderTemplate(w, r, "stats.html", result)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleHistory handles GET /history.
func handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result := projections.QueryGetHistory(projections.GetHistoryDeps{State: stores.State})

	if isHTMLRequest(r) {
		renderTemplate(w, r, "history.html", result)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleSettings handles GET /settings — roster management, theme, storage info.
func handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := stores.State.Snapshot()
	info, infoErr := stores.State.Info(r.Context())

	data := map[string]any{
		"Members":     snap.Members,
		"CurrentUser": snap.CurrentUser,
		"Theme":       snap.Theme,
		"DarkMode":    snap.DarkMode,
		"Palettes":    themeDomain.Palettes,
		"HasBlob":     infoErr == nil,
		"BlobSize":    info.SizeBytes,
		"BlobSavedAt": info.SavedAt,
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "settings.html", data)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// handleSelectTheme handles POST /settings/theme.
func handleSelectTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SelectThemeInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Palette = r.FormValue("Palette")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteSelectTheme(r.Context(), input, settingsDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, "/settings")
}

// handleToggleDarkMode handles POST /settings/dark-mode.
func handleToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	err := orchestrators.ExecuteToggleDarkMode(r.Context(), settingsDeps())
	if err != nil && !errors.Is(err, state.ErrSaveFailed) {
		respondError(w, err)
		return
	}
	mutationDone(w, r, "/settings")
}

// handleClearAll handles POST /settings/clear — wipe everything.
func handleClearAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := orchestrators.ExecuteClearAll(r.Context(), settingsDeps()); err != nil {
		respondError(w, err)
		return
	}
	mutationDone(w, r, "/settings")
}

// handleSendWeekSummary handles POST /summary/send.
func handleSendWeekSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SendWeekSummaryInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.WeekKey = r.FormValue("WeekKey")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	deps := orchestrators.SummaryDeps{
		State:       stores.State,
		EmailSender: emailSender,
		AuditStore:  stores.AuditStore,
		From:        summaryFromAddress,
		To:          summaryToAddress,
	}
	if err := orchestrators.ExecuteSendWeekSummary(r.Context(), input, deps); err != nil {
		respondError(w, err)
		return
	}
	mutationDone(w, r, planningURL(input.WeekKey))
}

func rosterDeps() orchestrators.RosterDeps {
	return orchestrators.RosterDeps{State: stores.State, AuditStore: stores.AuditStore}
}

func slotDeps() orchestrators.SlotDeps {
	return orchestrators.SlotDeps{State: stores.State, AuditStore: stores.AuditStore}
}

func settingsDeps() orchestrators.SettingsDeps {
	return orchestrators.SettingsDeps{State: stores.State, AuditStore: stores.AuditStore}
}

func backupDeps() orchestrators.BackupDeps {
	return orchestrators.BackupDeps{State: stores.State, AuditStore: stores.AuditStore}
}
