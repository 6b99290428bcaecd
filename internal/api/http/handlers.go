package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/events"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// DefaultWaitTimeout bounds how long ?wait=true blocks on app Init
const DefaultWaitTimeout = 10 * time.Second

// Handlers contains all HTTP handlers
type Handlers struct {
	manager     *window.Manager
	catalog     *catalog.Catalog
	desktop     *surface.Desktop
	apps        *apps.Suite
	bus         *events.Bus
	metrics     *monitoring.Metrics
	waitTimeout time.Duration
}

// NewHandlers creates a new handler set. apps, bus and metrics may be nil.
func NewHandlers(
	manager *window.Manager,
	cat *catalog.Catalog,
	desktop *surface.Desktop,
	suite *apps.Suite,
	bus *events.Bus,
	metrics *monitoring.Metrics,
) *Handlers {
	if suite == nil {
		suite = &apps.Suite{}
	}
	return &Handlers{
		manager:     manager,
		catalog:     cat,
		desktop:     desktop,
		apps:        suite,
		bus:         bus,
		metrics:     metrics,
		waitTimeout: DefaultWaitTimeout,
	}
}

// WithWaitTimeout changes the ?wait=true bound
func (h *Handlers) WithWaitTimeout(d time.Duration) *Handlers {
	if d > 0 {
		h.waitTimeout = d
	}
	return h
}

// Routes registers every endpoint on r
func (h *Handlers) Routes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Desktop
	r.GET("/apps", h.ListApps)
	r.GET("/apps/:id", h.GetApp)
	r.POST("/apps/:id/open", h.OpenApp)
	r.POST("/apps/:id/close", h.CloseApp)
	r.POST("/apps/:id/minimize", h.MinimizeApp)
	r.POST("/apps/:id/maximize", h.MaximizeApp)
	r.POST("/apps/:id/focus", h.FocusApp)
	r.POST("/apps/:id/taskbar", h.TaskbarAction)
	r.POST("/active/close", h.CloseActive)
	r.GET("/taskbar", h.Taskbar)
	r.POST("/zindex", h.NextZIndex)
	r.GET("/desktop", h.Desktop)
	r.GET("/events", h.Events)

	// App collaborators
	r.GET("/minesweeper/:id", h.MinesweeperBoard)
	r.POST("/minesweeper/:id/reveal", h.MinesweeperReveal)
	r.POST("/minesweeper/:id/flag", h.MinesweeperFlag)
	r.POST("/minesweeper/:id/reset", h.MinesweeperReset)
	r.GET("/calculator/:id", h.CalculatorDisplay)
	r.POST("/calculator/:id/keys", h.CalculatorPress)
	r.GET("/paint/:id", h.PaintCritique)
	r.POST("/paint/:id/strokes", h.PaintDraw)
	r.DELETE("/paint/:id/strokes", h.PaintClear)
	r.GET("/media/:id", h.MediaPlayer)
	r.POST("/media/:id/load", h.MediaLoad)
	r.POST("/media/:id/play", h.MediaPlay)
	r.POST("/media/:id/pause", h.MediaPause)
	r.POST("/media/:id/stop", h.MediaStop)

	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Root reports service identity
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Desktop Window Manager",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"desktop": h.manager.Stats(),
		"metrics": h.metrics.GetSnapshot(),
	}
	if h.bus != nil {
		resp["subscribers"] = h.bus.Subscribers()
	}
	c.JSON(http.StatusOK, resp)
}

// ListApps lists the catalog and the open windows
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":    h.catalog.List(),
		"windows": h.manager.Snapshot(),
		"stats":   h.manager.Stats(),
	})
}

// GetApp describes one app and its window if open
func (h *Handlers) GetApp(c *gin.Context) {
	appID, ok := appParam(c)
	if !ok {
		return
	}

	app, err := h.catalog.Get(appID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"app":   app,
		"open":  false,
		"phase": h.manager.Phase(appID),
	}
	if st, open := h.manager.State(appID); open {
		resp["open"] = true
		resp["window"] = st
	}
	if el, found := h.desktop.Element(appID); found {
		resp["surface"] = el.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// OpenApp opens or refocuses a window. With ?wait=true the response is
// held until the app's Init settles or the wait timeout passes.
func (h *Handlers) OpenApp(c *gin.Context) {
	appID, ok := appParam(c)
	if !ok {
		return
	}

	launch, err := h.manager.OpenApp(c.Request.Context(), appID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, window.ErrElementNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error(), "app_id": appID})
		return
	}

	resp := gin.H{
		"success":    true,
		"app_id":     appID,
		"reopened":   launch.Reopened,
		"generation": launch.Generation,
	}

	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.waitTimeout)
		defer cancel()

		switch err := launch.Wait(ctx); {
		case err == nil:
		case errors.Is(err, window.ErrInitialization):
			resp["init_error"] = err.Error()
		default:
			resp["pending"] = true
		}
	}

	if st, open := h.manager.State(appID); open {
		resp["window"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// CloseApp closes a window
func (h *Handlers) CloseApp(c *gin.Context) {
	h.windowOp(c, h.manager.CloseApp)
}

// CloseActive closes whichever window is active, the Escape key of the shell
func (h *Handlers) CloseActive(c *gin.Context) {
	appID, success := h.manager.CloseActive()
	resp := gin.H{"success": success}
	if success {
		resp["app_id"] = appID
	}
	c.JSON(http.StatusOK, resp)
}

// MinimizeApp hides a window
func (h *Handlers) MinimizeApp(c *gin.Context) {
	h.windowOp(c, h.manager.MinimizeApp)
}

// MaximizeApp toggles a window between maximized and restored
func (h *Handlers) MaximizeApp(c *gin.Context) {
	h.windowOp(c, h.manager.MaximizeApp)
}

// FocusApp brings a window to front
func (h *Handlers) FocusApp(c *gin.Context) {
	h.windowOp(c, h.manager.BringToFront)
}

// TaskbarActionRequest selects what a taskbar interaction does. An
// empty action is a left click; minimize and close come from the
// button's context menu.
type TaskbarActionRequest struct {
	Action string `json:"action" binding:"omitempty,oneof=click minimize close"`
}

// TaskbarAction applies a taskbar button click or context menu action
func (h *Handlers) TaskbarAction(c *gin.Context) {
	var req TaskbarActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch req.Action {
	case "minimize":
		h.windowOp(c, h.manager.MinimizeApp)
	case "close":
		h.windowOp(c, h.manager.CloseApp)
	default:
		h.windowOp(c, h.manager.TaskbarClick)
	}
}

// Taskbar lists taskbar entries in creation order
func (h *Handlers) Taskbar(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": h.manager.Taskbar()})
}

// NextZIndex allocates a stacking index for desktop chrome
func (h *Handlers) NextZIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"z_index": h.manager.NextZIndex()})
}

// Desktop returns every window element, open or not
func (h *Handlers) Desktop(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"viewport": h.desktop.Viewport(),
		"elements": h.desktop.Snapshot(),
	})
}

// Events returns recent desktop events, oldest first
func (h *Handlers) Events(c *gin.Context) {
	if h.bus == nil {
		c.JSON(http.StatusOK, gin.H{"events": []events.Envelope{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": h.bus.History()})
}

func (h *Handlers) windowOp(c *gin.Context, op func(appID string) bool) {
	appID, ok := appParam(c)
	if !ok {
		return
	}

	success := op(appID)
	resp := gin.H{
		"success": success,
		"app_id":  appID,
	}
	if st, open := h.manager.State(appID); open {
		resp["window"] = st
	}
	c.JSON(http.StatusOK, resp)
}

func appParam(c *gin.Context) (string, bool) {
	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return appID, true
}
