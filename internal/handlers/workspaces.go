package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// HandleWorkspaceStats serves aggregate workspace numbers. Results are
// memoized in the diagnostic store so repeated dashboard polls do not hit
// the aggregation queries.
func (h *APIHandler) HandleWorkspaceStats(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workspace id")
		return
	}

	stats, err := h.workspaceStats(r.Context(), workspaceID)
	if err != nil {
		h.log.WithError(err).Error("Workspace stats failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, stats)
}
