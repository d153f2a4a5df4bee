package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports database and diagnostic store availability.
func (h *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postgresUp := false
	if sqlDB, err := h.db.DB(); err == nil {
		postgresUp = sqlDB.PingContext(ctx) == nil
	}

	storeUp := false
	if err := h.store.Set(ctx, "health_check", []byte("ok"), 10*time.Second); err == nil {
		if value, err := h.store.Get(ctx, "health_check"); err == nil && string(value) == "ok" {
			storeUp = true
		}
	}

	status := "healthy"
	if !postgresUp || !storeUp {
		status = "degraded"
	}

	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":   status,
		"postgres": postgresUp,
		"store":    storeUp,
	})
}
