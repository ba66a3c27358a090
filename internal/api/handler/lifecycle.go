package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/arbitrage/internal/api/middleware"
	"github.com/timmy/arbitrage/internal/controller"
	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
)

// Lifecycle is the controller surface exposed over HTTP.
type Lifecycle interface {
	Snapshot() domain.Snapshot
	Subscribe() (<-chan domain.Snapshot, func())
	Submit(ctx context.Context, m domain.Manifest) (*domain.Job, error)
	ShowHistory(ctx context.Context) ([]domain.HistoryEntry, error)
	Select(ctx context.Context, uploadID string) (*domain.Job, error)
	Delete(ctx context.Context, uploadID string) error
	Reset(ctx context.Context)
	CheckItem(ctx context.Context, req domain.ItemCheckRequest) (*domain.ItemCheckResult, error)
}

// writeError maps controller and gateway errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *controller.ValidationError
	var se *gateway.ServiceError
	var ne *gateway.NetworkError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, controller.ErrNotSelectable):
		c.JSON(http.StatusConflict, gin.H{"error": "Only completed analyses can be opened"})
	case errors.Is(err, controller.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service is shutting down"})
	case gateway.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
	case errors.As(err, &se):
		msg := se.Message
		if msg == "" {
			msg = http.StatusText(se.StatusCode)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg, "upstream_status": se.StatusCode})
	case errors.As(err, &ne):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Analysis service unreachable"})
	default:
		middleware.GetLogger(c).WithError(err).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
