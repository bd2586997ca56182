package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"kfet/internal/application/projections"
)

// handleAuditLog handles GET /audit — the recent change log.
func handleAuditLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// File-mode storage carries no audit log
	if stores.AuditStore == nil {
		result := projections.GetAuditLogResult{}
		if isHTMLRequest(r) {
			renderTemplate(w, r, "audit.html", result)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		limit = n
	}

	result, err := projections.QueryGetAuditLog(r.Context(),
		projections.GetAuditLogQuery{Limit: limit},
		projections.GetAuditLogDeps{AuditStore: stores.AuditStore},
	)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "audit.html", result)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
