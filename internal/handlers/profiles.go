package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sdko-org/callview-api/internal/diagstore"
	"github.com/sdko-org/callview-api/internal/profiling"
)

// HandleGetProfile returns the persisted diagnostic profile for a past
// request, while its TTL lasts.
func (h *APIHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["request_id"]

	profile, err := profiling.FetchProfile(r.Context(), h.store, requestID)
	if err != nil {
		if errors.Is(err, diagstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		h.log.WithError(err).Error("Profile fetch failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, profile)
}

// HandlePurgeDiagnostics sweeps expired diagnostic records immediately
// instead of waiting for the background purger tick.
func (h *APIHandler) HandlePurgeDiagnostics(w http.ResponseWriter, r *http.Request) {
	purger, ok := h.store.(diagstore.Purger)
	if !ok {
		writeError(w, http.StatusNotImplemented, "store does not support purging")
		return
	}

	purged, err := purger.PurgeExpired(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Diagnostic purge failed")
		writeError(w, http.StatusInternalServerError, "purge failed")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]int64{"purged": purged})
}
