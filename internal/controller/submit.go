package controller

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

const (
	MsgSubmitFailed = "Failed to analyze CSV. Please try again."
	msgProcessingN  = "Processing %d items..."
)

// Submit sends a manifest for analysis and makes it the active job. Invalid
// input is rejected with a ValidationError before any request is sent.
//
// On asynchronous acceptance Submit returns as soon as the backend has
// acknowledged the job; polling continues in the background until the job is
// terminal. The returned job is a copy taken when Submit returns.
func (c *Controller) Submit(ctx context.Context, m domain.Manifest) (*domain.Job, error) {
	if c.closed() {
		return nil, ErrClosed
	}

	m.DisplayName = strings.TrimSpace(m.DisplayName)
	if m.Filename == "" && strings.TrimSpace(m.Content) != "" {
		m.Filename = domain.PastedFilename
	}
	if err := c.validate(m); err != nil {
		c.notify(notify.KindError, err.(*ValidationError).Message)
		return nil, err
	}

	submissionID := uuid.New().String()
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldSubmissionID: submissionID,
		logger.FieldComponent:    "submit",
	})
	c.store.Dispatch(SubmitStarted{SubmissionID: submissionID, Manifest: m})

	start := time.Now()
	res, err := c.gw.SubmitManifest(ctx, m)
	entry := logger.With(logger.Fields{"filename": m.Filename}).WithDuration(time.Since(start).Milliseconds())
	if err == nil && res.Accepted && res.UploadID == "" {
		// Nothing could ever be polled for it.
		err = &gateway.ServiceError{Op: gateway.OpSubmitManifest, StatusCode: http.StatusAccepted, Message: "acceptance without upload id"}
	}
	if err != nil {
		c.store.Dispatch(SubmitFailed{SubmissionID: submissionID})
		entry.Error(ctx, "Manifest submission failed: %v", err)
		c.notify(notify.KindError, MsgSubmitFailed)
		return nil, fmt.Errorf("submit manifest: %w", err)
	}

	if res.Accepted {
		out := c.store.Dispatch(SubmitAccepted{SubmissionID: submissionID, UploadID: res.UploadID, TotalItems: res.TotalItems})
		if !out.Applied {
			// Superseded while the request was in flight.
			entry.Warn(ctx, "Submission %s superseded: %s", submissionID, out.Reason)
			return nil, fmt.Errorf("submit manifest: %s", out.Reason)
		}
		ctx = logger.SetUploadID(ctx, res.UploadID)
		entry.With(logger.Fields{logger.FieldTotal: res.TotalItems}).Info(ctx, "Manifest accepted for processing")
		c.notify(notify.KindSuccess, fmt.Sprintf(msgProcessingN, res.TotalItems))
		c.poller.Start(c.pollContext(ctx), res.UploadID)
		return out.Job, nil
	}

	out := c.store.Dispatch(SubmitCompleted{SubmissionID: submissionID, Result: res.Result})
	if !out.Applied {
		entry.Warn(ctx, "Submission %s superseded: %s", submissionID, out.Reason)
		return nil, fmt.Errorf("submit manifest: %s", out.Reason)
	}
	entry.With(logger.Fields{logger.FieldCount: len(out.Job.Items)}).Info(ctx, "Manifest analyzed synchronously")
	c.notify(notify.KindSuccess, MsgAnalysisCompleted)
	return out.Job, nil
}
