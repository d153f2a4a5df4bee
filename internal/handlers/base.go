package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sdko-org/callview-api/internal/config"
	"github.com/sdko-org/callview-api/internal/diagstore"
	"github.com/sdko-org/callview-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const workspaceStatsTTL = 10 * time.Minute

type WorkspaceStats struct {
	TotalCustomers  int64   `json:"total_customers"`
	TotalCalls      int64   `json:"total_calls"`
	AvgCallDuration float64 `json:"avg_call_duration"`
}

type APIHandler struct {
	cfg            *config.Config
	db             *gorm.DB
	store          diagstore.Store
	log            *logrus.Entry
	workspaceStats func(context.Context, uuid.UUID) (WorkspaceStats, error)
}

func NewAPIHandler(logger *logrus.Logger, cfg *config.Config, db *gorm.DB, store diagstore.Store) *APIHandler {
	h := &APIHandler{
		cfg:   cfg,
		db:    db,
		store: store,
		log:   logger.WithField("component", "api_handler"),
	}
	h.workspaceStats = diagstore.Cached(store, workspaceStatsTTL,
		func(id uuid.UUID) string { return fmt.Sprintf("workspace:%s:stats", id) },
		h.loadWorkspaceStats,
	)
	return h
}

func (h *APIHandler) loadWorkspaceStats(ctx context.Context, workspaceID uuid.UUID) (WorkspaceStats, error) {
	var stats WorkspaceStats

	if err := h.db.WithContext(ctx).Model(&models.Customer{}).
		Where("workspace_id = ? AND is_deleted = ?", workspaceID, false).
		Count(&stats.TotalCustomers).Error; err != nil {
		return stats, fmt.Errorf("customer count failed: %w", err)
	}

	var agg struct {
		Total int64
		Avg   float64
	}
	if err := h.db.WithContext(ctx).Model(&models.Call{}).
		Where("workspace_id = ? AND is_deleted = ?", workspaceID, false).
		Select("COUNT(*) AS total, COALESCE(AVG(duration), 0) AS avg").
		Scan(&agg).Error; err != nil {
		return stats, fmt.Errorf("call aggregation failed: %w", err)
	}

	stats.TotalCalls = agg.Total
	stats.AvgCallDuration = agg.Avg
	return stats, nil
}
