package controller

import (
	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
)

// Event is a mutation request for the Store. Events that concern a job carry
// the id they apply to; the Store rejects them when that job is not tracked.
type Event interface {
	eventName() string
}

// SubmitStarted records a pending submission. The tracked job is replaced only
// once the backend accepts or completes it.
type SubmitStarted struct {
	SubmissionID string
	Manifest     domain.Manifest
}

// SubmitFailed drops a job whose submission was rejected or never answered.
type SubmitFailed struct {
	SubmissionID string
}

// SubmitAccepted records the backend id of an asynchronously processed job.
type SubmitAccepted struct {
	SubmissionID string
	UploadID     string
	TotalItems   int
}

// SubmitCompleted records a synchronous result for a submission.
type SubmitCompleted struct {
	SubmissionID string
	Result       *gateway.StatusResult
}

// StatusReceived merges one poll response into the tracked job.
type StatusReceived struct {
	UploadID string
	Result   *gateway.StatusResult
}

// JobVanished reports that a poll found the job no longer exists.
type JobVanished struct {
	UploadID string
}

// JobDeleted reports that the user deleted a job through the backend.
type JobDeleted struct {
	UploadID string
}

// JobLoaded replaces the tracked job with a completed job opened from history.
type JobLoaded struct {
	Result *gateway.StatusResult
}

// HistoryRefreshed replaces the history cache wholesale.
type HistoryRefreshed struct {
	Entries []domain.HistoryEntry
}

// Navigated switches the active view without touching the job.
type Navigated struct {
	View domain.ViewKind
}

// Reset clears the job and single-item result and returns home.
type Reset struct{}

// ItemChecked shows a single-item analysis.
type ItemChecked struct {
	Result *domain.ItemCheckResult
}

func (SubmitStarted) eventName() string    { return "submit_started" }
func (SubmitFailed) eventName() string     { return "submit_failed" }
func (SubmitAccepted) eventName() string   { return "submit_accepted" }
func (SubmitCompleted) eventName() string  { return "submit_completed" }
func (StatusReceived) eventName() string   { return "status_received" }
func (JobVanished) eventName() string      { return "job_vanished" }
func (JobDeleted) eventName() string       { return "job_deleted" }
func (JobLoaded) eventName() string        { return "job_loaded" }
func (HistoryRefreshed) eventName() string { return "history_refreshed" }
func (Navigated) eventName() string        { return "navigated" }
func (Reset) eventName() string            { return "reset" }
func (ItemChecked) eventName() string      { return "item_checked" }

// Rejection reasons reported in Outcome.Reason.
const (
	ReasonUntracked  = "job not tracked"
	ReasonTerminal   = "job already terminal"
	ReasonWrongState = "event does not apply in current state"
	ReasonBadView    = "view not available"
)

// Outcome reports what a dispatched event did.
type Outcome struct {
	Applied bool
	Reason  string
	From    domain.JobStatus
	To      domain.JobStatus
	// Job is a copy of the job after the event, nil if none is tracked.
	Job *domain.Job
}

// Entered reports whether the event moved the job into status.
func (o Outcome) Entered(status domain.JobStatus) bool {
	return o.Applied && o.From != o.To && o.To == status
}

func rejected(reason string) Outcome {
	return Outcome{Reason: reason}
}
