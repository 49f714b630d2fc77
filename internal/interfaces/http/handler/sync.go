package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/amazon-sync/internal/application/ordersync"
	"github.com/erp/amazon-sync/internal/domain/vendor"
	"github.com/erp/amazon-sync/internal/infrastructure/scheduler"
)

// defaultRunsLimit is how many pass summaries a listing returns by default
const defaultRunsLimit = 20

// SyncTrigger is the scheduler surface the handler drives
type SyncTrigger interface {
	TriggerNow(ctx context.Context, opts ordersync.SyncOptions) (*ordersync.Summary, error)
	History(limit int) []*ordersync.Summary
}

// SyncHandler exposes manual sync triggering and run history
type SyncHandler struct {
	trigger SyncTrigger
	logger  *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(trigger SyncTrigger, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{trigger: trigger, logger: logger}
}

// RegisterRoutes registers the sync routes on the given group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.Trigger)
	rg.GET("/sync/runs", h.Runs)
}

// triggerRequest is the optional body of a manual trigger, used to backfill
// a wider window than the scheduled two-hour lookback. Timestamps must use
// the Vendor API layout (2006-01-02T15:04:05Z).
type triggerRequest struct {
	CreatedAfter  string `json:"created_after" binding:"omitempty,datetime=2006-01-02T15:04:05Z"`
	CreatedBefore string `json:"created_before" binding:"omitempty,datetime=2006-01-02T15:04:05Z"`
}

// Trigger runs a sync pass immediately
// POST /api/v1/sync
func (h *SyncHandler) Trigger(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(ErrCodeBadRequest,
				"window timestamps must use format "+vendor.TimestampFormat))
			return
		}
	}

	summary, err := h.trigger.TriggerNow(c.Request.Context(), ordersync.SyncOptions{
		CreatedAfter:  req.CreatedAfter,
		CreatedBefore: req.CreatedBefore,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrSyncInProgress):
			c.JSON(http.StatusConflict, NewErrorResponse(ErrCodeSyncInProgress, "a sync pass is already running"))
		case errors.Is(err, scheduler.ErrTriggerNotRunning):
			c.JSON(http.StatusServiceUnavailable, NewErrorResponse(ErrCodeUnavailable, "sync trigger is not running"))
		default:
			h.logger.Error("Manual sync trigger failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "sync pass failed"))
		}
		return
	}

	c.JSON(http.StatusOK, NewSuccessResponse(summary))
}

// Runs lists recent pass summaries, newest first
// GET /api/v1/sync/runs?limit=20
func (h *SyncHandler) Runs(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(ErrCodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, NewSuccessResponse(h.trigger.History(limit)))
}
