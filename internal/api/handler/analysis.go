package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/arbitrage/internal/domain"
)

// AnalysisHandler handles manifest submission and single-item checks.
type AnalysisHandler struct {
	lc Lifecycle
}

// NewAnalysisHandler creates a new analysis handler.
// Parameters:
//   - lc: lifecycle controller.
// Returns:
//   - *AnalysisHandler: initialized handler.
func NewAnalysisHandler(lc Lifecycle) *AnalysisHandler {
	return &AnalysisHandler{lc: lc}
}

// SubmitRequest mirrors the upload body of the analysis backend.
type SubmitRequest struct {
	File       string `json:"file"`
	Filename   string `json:"filename"`
	UploadName string `json:"upload_name"`
}

// Submit handles POST /api/v1/analyses.
// Responds 202 while the job is still processing and 200 for a synchronous result.
func (h *AnalysisHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	job, err := h.lc.Submit(c.Request.Context(), domain.Manifest{
		Content:     req.File,
		Filename:    req.Filename,
		DisplayName: req.UploadName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if !job.Status.IsTerminal() {
		status = http.StatusAccepted
	}
	c.JSON(status, job)
}

// CheckItem handles POST /api/v1/check-item.
func (h *AnalysisHandler) CheckItem(c *gin.Context) {
	var req domain.ItemCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, err := h.lc.CheckItem(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
