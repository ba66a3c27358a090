package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/arbitrage/internal/api/middleware"
	"github.com/timmy/arbitrage/internal/logger"
)

// DefaultKeepAlive is the interval between SSE keep-alive events.
const DefaultKeepAlive = 15 * time.Second

// ViewHandler exposes the current view state.
type ViewHandler struct {
	lc        Lifecycle
	keepAlive time.Duration
}

// NewViewHandler creates a new view handler.
func NewViewHandler(lc Lifecycle, keepAlive time.Duration) *ViewHandler {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &ViewHandler{lc: lc, keepAlive: keepAlive}
}

// View handles GET /api/v1/view.
func (h *ViewHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, h.lc.Snapshot())
}

// Events handles GET /api/v1/events, streaming a "snapshot" event for the
// current state and then for every change until the client goes away.
func (h *ViewHandler) Events(c *gin.Context) {
	snapshots, unsubscribe := h.lc.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	sent := 0
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			sent++
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.Unix())
			return true
		}
	})

	middleware.GetLogger(c).WithField(logger.FieldCount, sent).Debug("Event stream closed")
}
