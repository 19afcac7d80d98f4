package http

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/api/middleware"
	"github.com/GriffinCanCode/webos/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webos/internal/providers/terminal"
	"github.com/GriffinCanCode/webos/internal/service"
	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/shared/utils"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

// Deps are the components the handlers serve
type Deps struct {
	Registry  *service.Registry
	Terminals *terminal.Manager
	Store     *vfs.Store
	// StoreMu is the lock every store user shares
	StoreMu sync.Locker
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Deps
	startTime time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Handlers{Deps: deps, startTime: time.Now()}
}

// Root handles the root endpoint
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "webos",
		"version": "1.0.0",
		"status":  "running",
	})
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	h.StoreMu.Lock()
	entries := h.Store.Len()
	h.StoreMu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"entries":        entries,
		"sessions":       h.Terminals.Count(),
		"services":       h.Registry.Stats(),
	})
}

// ListServices lists all services, optionally filtered by ?category=
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	services := h.Registry.List(category)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateToolID(req.ToolID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AppID != nil {
		if err := utils.ValidateID(*req.AppID, "app_id"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	reqID := middleware.GetRequestID(c)
	appCtx := &types.Context{AppID: req.AppID}
	if reqID != "" {
		appCtx.RequestID = &reqID
	}

	timer := h.timer(req.ToolID)
	result, err := h.Registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if timer != nil {
		timer.Stop(err != nil || result == nil || !result.Success)
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(executeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) timer(toolID string) *monitoring.Timer {
	if h.Metrics == nil {
		return nil
	}
	return monitoring.NewTimer(h.Metrics, toolID)
}

func executeStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidToolID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrServiceNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// SnapshotTree returns the whole filesystem in its persisted JSON form
func (h *Handlers) SnapshotTree(c *gin.Context) {
	h.StoreMu.Lock()
	snap := h.Store.Snapshot()
	h.StoreMu.Unlock()

	data, err := vfs.EncodeSnapshot(snap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// MetricsSummary returns current metric values as JSON
func (h *Handlers) MetricsSummary(c *gin.Context) {
	if h.Metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.Metrics.Summary())
}
