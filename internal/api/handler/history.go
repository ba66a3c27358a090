package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HistoryHandler handles history listing, selection and deletion.
type HistoryHandler struct {
	lc Lifecycle
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(lc Lifecycle) *HistoryHandler {
	return &HistoryHandler{lc: lc}
}

// List handles GET /api/v1/history. It switches to the history view and
// refreshes it from the backend.
func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.lc.ShowHistory(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uploads": entries,
		"total":   len(entries),
	})
}

// Select handles POST /api/v1/history/:id/select.
func (h *HistoryHandler) Select(c *gin.Context) {
	job, err := h.lc.Select(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Delete handles DELETE /api/v1/history/:id. Callers confirm before calling.
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.lc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.lc.Snapshot())
}

// Home handles POST /api/v1/home.
func (h *HistoryHandler) Home(c *gin.Context) {
	h.lc.Reset(c.Request.Context())
	c.JSON(http.StatusOK, h.lc.Snapshot())
}
