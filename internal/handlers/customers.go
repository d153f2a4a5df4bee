package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sdko-org/callview-api/internal/models"
	"github.com/sdko-org/callview-api/internal/pagination"
	"github.com/sdko-org/callview-api/internal/profiling"
)

// HandleListCustomers serves the customer collection for one workspace,
// ordered by (created_at desc, id desc) and browsed by cursor. The handler
// marks the phase checkpoints the profiler attributes time to: permission
// (workspace access check), queryset (row fetch), serializer (in writeJSON).
func (h *APIHandler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiling.Mark(ctx, profiling.CheckpointMiddlewareEnd)

	workspaceID, err := uuid.Parse(r.URL.Query().Get("workspace_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	allowed, err := h.workspaceExists(ctx, workspaceID)
	profiling.Mark(ctx, profiling.CheckpointPermissionEnd)
	if err != nil {
		h.log.WithError(err).Error("Workspace lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !allowed {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}

	fetch := func(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Customer, error) {
		var rows []models.Customer
		err := h.db.WithContext(ctx).
			Where("workspace_id = ? AND is_deleted = ?", workspaceID, false).
			Preload("Employee").
			Scopes(pagination.Scope(cursor, "created_at", "id")).
			Limit(limit).
			Find(&rows).Error
		return rows, err
	}

	pager := pagination.NewPager(fetch, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	page, err := pager.Paginate(ctx, r.URL.Query().Get("cursor"), pageSize(r))
	profiling.Mark(ctx, profiling.CheckpointQuerysetEnd)
	if err != nil {
		h.log.WithError(err).Error("Customer fetch failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, page)
}

// Existence probes use EXISTS rather than COUNT(*), the same advice the
// profiler hands out for slow permission checks.
const (
	workspaceExistsQuery = "SELECT EXISTS(SELECT 1 FROM workspace WHERE id = ?)"
	customerExistsQuery  = "SELECT EXISTS(SELECT 1 FROM customer WHERE id = ? AND is_deleted = false)"
)

func (h *APIHandler) workspaceExists(ctx context.Context, workspaceID uuid.UUID) (bool, error) {
	var exists bool
	err := h.db.WithContext(ctx).
		Raw(workspaceExistsQuery, workspaceID).
		Scan(&exists).Error
	return exists, err
}
