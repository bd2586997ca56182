package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"kfet/internal/adapters/email"
	"kfet/internal/adapters/http/middleware"
	auditStore "kfet/internal/adapters/storage/audit"
	"kfet/internal/application/state"
)

// Stores holds the application dependencies shared by the handlers.
type Stores struct {
	State      *state.Controller
	AuditStore auditStore.Store
}

// loadCSRFKey reads the CSRF secret from KFET_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("KFET_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("KFET_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("KFET_ENV") == "production" {
		log.Fatal("KFET_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set KFET_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var summaryFromAddress string
var summaryToAddress string

// SetEmailSender sets the global email sender for the week summary mail.
func SetEmailSender(sender email.Sender, from, to string) {
	emailSender = sender
	summaryFromAddress = from
	summaryToAddress = to
}

// Bcrypt hash of the access password; empty disables the gate.
var passwordHash string

// SetPasswordHash configures the single-user password gate. An empty hash
// leaves every route open.
func SetPasswordHash(hash string) {
	passwordHash = hash
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	if emailSender == nil {
		emailSender = email.NewNoopSender()
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: RateLimit -> Auth -> Gate -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.RequirePassword(passwordHash != ""),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}

// registerRoutes binds every route to its handler.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handlePlanning)

	mux.HandleFunc("/members", handleMembers)
	mux.HandleFunc("/members/remove", handleRemoveMember)
	mux.HandleFunc("/settings/current-user", handleSetCurrentUser)

	mux.HandleFunc("/slots/members", handleAddSlotMember)
	mux.HandleFunc("/slots/add-me", handleAddMeToSlot)
	mux.HandleFunc("/slots/members/remove", handleRemoveSlotMember)
	mux.HandleFunc("/slots/presence", handleTogglePresence)
	mux.HandleFunc("/slots/duties", handleAssignDuty)
	mux.HandleFunc("/slots/duties/remove", handleClearDuty)
	mux.HandleFunc("/slots/note", handleSetSlotNote)

	mux.HandleFunc("/weeks/notes", handleSetWeekNotes)
	mux.HandleFunc("/weeks/reset", handleResetWeek)

	mux.HandleFunc("/stats", handleStats)
	mux.HandleFunc("/history", handleHistory)
	mux.HandleFunc("/audit", handleAuditLog)

	mux.HandleFunc("/settings", handleSettings)
	mux.HandleFunc("/settings/theme", handleSelectTheme)
	mux.HandleFunc("/settings/dark-mode", handleToggleDarkMode)
	mux.HandleFunc("/settings/clear", handleClearAll)

	mux.HandleFunc("/export", handleExport)
	mux.HandleFunc("/export/ics", handleExportICS)
	mux.HandleFunc("/import", handleImport)
	mux.HandleFunc("/summary/send", handleSendWeekSummary)

	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
}
