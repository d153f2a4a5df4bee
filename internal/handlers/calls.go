package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sdko-org/callview-api/internal/models"
	"github.com/sdko-org/callview-api/internal/pagination"
	"github.com/sdko-org/callview-api/internal/profiling"
)

// HandleListCalls serves one customer's call history, newest first, browsed
// by cursor like the customer collection.
func (h *APIHandler) HandleListCalls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiling.Mark(ctx, profiling.CheckpointMiddlewareEnd)

	customerID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var exists bool
	err = h.db.WithContext(ctx).
		Raw(customerExistsQuery, customerID).
		Scan(&exists).Error
	profiling.Mark(ctx, profiling.CheckpointPermissionEnd)
	if err != nil {
		h.log.WithError(err).Error("Customer lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	fetch := func(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Call, error) {
		var rows []models.Call
		err := h.db.WithContext(ctx).
			Where("customer_id = ? AND is_deleted = ?", customerID, false).
			Scopes(pagination.Scope(cursor, "created_at", "id")).
			Limit(limit).
			Find(&rows).Error
		return rows, err
	}

	pager := pagination.NewPager(fetch, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	page, err := pager.Paginate(ctx, r.URL.Query().Get("cursor"), pageSize(r))
	profiling.Mark(ctx, profiling.CheckpointQuerysetEnd)
	if err != nil {
		h.log.WithError(err).Error("Call fetch failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, page)
}
