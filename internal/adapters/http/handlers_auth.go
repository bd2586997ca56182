package web

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"kfet/internal/adapters/http/middleware"
	"kfet/internal/domain/audit"
)

// handleLogin handles GET (form) and POST (check password) for /login.
// The gate is single-user: one shared password, no accounts.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if passwordHash == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "login.html", map[string]any{"Error": ""})
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var password string
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		password = r.FormValue("Password")
	} else {
		var body struct {
			Password string
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		password = body.Password
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "ip", r.RemoteAddr)
		if isHTMLRequest(r) {
			w.WriteHeader(http.StatusUnauthorized)
			renderTemplate(w, r, "login.html", map[string]any{"Error": "Mot de passe incorrect"})
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := sessions.Create()
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if stores.AuditStore != nil {
		event := audit.NewEvent(audit.CategorySecurity, audit.ActionLogin, "", "logged in")
		if err := stores.AuditStore.Save(r.Context(), event); err != nil {
			slog.Warn("audit_write_failed", "error", err)
		}
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)

	if stores.AuditStore != nil {
		event := audit.NewEvent(audit.CategorySecurity, audit.ActionLogout, "", "logged out")
		if err := stores.AuditStore.Save(r.Context(), event); err != nil {
			slog.Warn("audit_write_failed", "error", err)
		}
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
