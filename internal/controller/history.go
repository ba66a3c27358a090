package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

const (
	MsgHistoryFailed  = "Failed to load history"
	MsgLoaded         = "Analysis loaded!"
	MsgLoadFailed     = "Failed to load analysis"
	MsgNotSelectable  = "Only completed analyses can be opened"
	MsgDeleted        = "Upload deleted successfully!"
	MsgDeleteFailed   = "Failed to delete upload"
	msgNoActiveJobYet = "No analysis to show"
)

// Refresh replaces the cached history with the backend's list. On failure the
// cache is left as it was.
func (c *Controller) Refresh(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := c.refresh(ctx)
	if err != nil {
		c.notify(notify.KindError, MsgHistoryFailed)
		return nil, err
	}
	return entries, nil
}

func (c *Controller) refresh(ctx context.Context) ([]domain.HistoryEntry, error) {
	if c.closed() {
		return nil, ErrClosed
	}
	start := time.Now()
	entries, err := c.gw.ListHistory(ctx)
	entry := logger.With(logger.Fields{logger.FieldComponent: "history"}).WithDuration(time.Since(start).Milliseconds())
	if err != nil {
		entry.Warn(ctx, "History refresh failed: %v", err)
		return nil, fmt.Errorf("refresh history: %w", err)
	}
	c.store.Dispatch(HistoryRefreshed{Entries: entries})
	entry.With(logger.Fields{logger.FieldCount: len(entries)}).Debug(ctx, "History refreshed")
	return entries, nil
}

// ShowHistory switches to the history view and refreshes it. The view is
// switched even when the refresh fails so the cached list stays visible.
func (c *Controller) ShowHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	c.store.Dispatch(Navigated{View: domain.ViewHistory})
	return c.Refresh(ctx)
}

// ShowHome switches to the home view without touching the active job.
func (c *Controller) ShowHome() {
	c.store.Dispatch(Navigated{View: domain.ViewHome})
}

// ShowJob switches back to the active job's view.
func (c *Controller) ShowJob() error {
	if out := c.store.Dispatch(Navigated{View: domain.ViewJob}); !out.Applied {
		c.notify(notify.KindError, msgNoActiveJobYet)
		return ErrNoActiveJob
	}
	return nil
}

// Reset drops the active job and single-item result, returns home and
// refreshes history. A poll still running for the dropped job discards its
// next response and stops.
func (c *Controller) Reset(ctx context.Context) {
	out := c.store.Dispatch(Reset{})
	logger.FromContext(ctx).WithField(logger.FieldStatus, string(out.From)).Debug("View reset")
	if _, err := c.refresh(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Debug("History refresh after reset failed")
	}
}

// Select opens a completed upload from history as the active job. Only
// completed entries may be selected; when the entry is not in the cached
// history the backend status decides. On failure the view is left unchanged.
func (c *Controller) Select(ctx context.Context, uploadID string) (*domain.Job, error) {
	if c.closed() {
		return nil, ErrClosed
	}
	ctx = logger.SetUploadID(ctx, uploadID)

	if h, ok := c.store.HistoryEntry(uploadID); ok && !h.Selectable() {
		c.notify(notify.KindError, MsgNotSelectable)
		return nil, fmt.Errorf("select %s (%s): %w", uploadID, h.Status, ErrNotSelectable)
	}

	res, err := c.gw.GetStatus(ctx, uploadID)
	if err != nil {
		logger.CtxWarn(ctx, "Loading analysis failed: %v", err)
		c.notify(notify.KindError, MsgLoadFailed)
		return nil, fmt.Errorf("select %s: %w", uploadID, err)
	}
	if res.Status != domain.JobStatusCompleted {
		c.notify(notify.KindError, MsgNotSelectable)
		return nil, fmt.Errorf("select %s (%s): %w", uploadID, res.Status, ErrNotSelectable)
	}

	out := c.store.Dispatch(JobLoaded{Result: res})
	logger.With(logger.Fields{logger.FieldCount: len(out.Job.Items)}).Info(ctx, "Analysis loaded from history")
	c.notify(notify.KindSuccess, MsgLoaded)
	return out.Job, nil
}

// Delete removes an upload. Confirmation is the caller's responsibility. When
// the deleted upload is the active job it is dropped and the history view is
// shown; history is refreshed afterwards either way.
func (c *Controller) Delete(ctx context.Context, uploadID string) error {
	if c.closed() {
		return ErrClosed
	}
	ctx = logger.SetUploadID(ctx, uploadID)

	if err := c.gw.DeleteJob(ctx, uploadID); err != nil {
		logger.CtxWarn(ctx, "Delete failed: %v", err)
		c.notify(notify.KindError, MsgDeleteFailed)
		return fmt.Errorf("delete %s: %w", uploadID, err)
	}

	out := c.store.Dispatch(JobDeleted{UploadID: uploadID})
	logger.FromContext(ctx).WithField("was_active", out.Applied).Info("Upload deleted")
	c.notify(notify.KindSuccess, MsgDeleted)

	if _, err := c.refresh(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Debug("History refresh after delete failed")
	}
	return nil
}
