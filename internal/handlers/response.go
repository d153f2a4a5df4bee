package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sdko-org/callview-api/internal/profiling"
)

func (h *APIHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).Error("Response encoding failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Serialization is complete once the body bytes exist.
	profiling.Mark(r.Context(), profiling.CheckpointSerializerEnd)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// pageSize reads the per_page parameter. Absent or non-numeric values yield
// zero so the pager falls back to its default instead of failing the
// request.
func pageSize(r *http.Request) int {
	raw := r.URL.Query().Get("per_page")
	if raw == "" {
		return 0
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return size
}
