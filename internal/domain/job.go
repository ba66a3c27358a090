package domain

import (
	"math"
	"time"
)

// JobStatus is the lifecycle state of a manifest analysis job.
// Values include JobStatusSubmitting, JobStatusProcessing, JobStatusCompleted,
// JobStatusFailed, and JobStatusDeleted.
type JobStatus string

const (
	JobStatusSubmitting JobStatus = "submitting"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusDeleted    JobStatus = "deleted"
)

// IsTerminal reports whether no further automatic transition can happen.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a forward step.
// Any state may be forced to deleted; terminal states never move otherwise.
// processing -> processing is allowed so progress updates can be applied.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if next == JobStatusDeleted {
		return s != JobStatusDeleted
	}
	switch s {
	case JobStatusSubmitting:
		return next == JobStatusProcessing || next == JobStatusCompleted || next == JobStatusFailed
	case JobStatusProcessing:
		return next == JobStatusProcessing || next == JobStatusCompleted || next == JobStatusFailed
	}
	return false
}

// Manifest is the raw payload of a submission. It is immutable once submission begins.
type Manifest struct {
	Content     string `json:"-" validate:"notblank"`
	Filename    string `json:"filename" validate:"required"`
	DisplayName string `json:"upload_name,omitempty" validate:"max=100"`
}

// PastedFilename is the filename used for manifests pasted as text.
const PastedFilename = "pasted-data.csv"

// Summary is the aggregate section of an analysis. Figures is passed through
// exactly as the backend reports it. A partial summary also carries the item
// counts it was computed from.
type Summary struct {
	Figures        map[string]any `json:"figures"`
	Partial        bool           `json:"partial,omitempty"`
	TotalItems     int            `json:"total_items,omitempty"`
	ProcessedItems int            `json:"processed_items,omitempty"`
}

// Item is one analyzed manifest row, passed through as reported by the backend.
type Item map[string]any

// Job is the unit of work tracked end-to-end by the controller.
type Job struct {
	SubmissionID   string    `json:"submission_id"`
	ID             string    `json:"upload_id,omitempty"`
	DisplayName    string    `json:"display_name"`
	Source         Manifest  `json:"source"`
	Status         JobStatus `json:"status"`
	TotalItems     int       `json:"total_items"`
	ProcessedItems int       `json:"processed_items"`
	Summary        *Summary  `json:"summary,omitempty"`
	Items          []Item    `json:"items"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Matches reports whether id refers to this job, either by backend ID or by
// the client-side submission ID used before the backend assigns one.
func (j *Job) Matches(id string) bool {
	if j == nil || id == "" {
		return false
	}
	return j.ID == id || j.SubmissionID == id
}

// Progress returns processed/total clamped to [0,1]. ok is false while the
// total is unknown, which callers must render as indeterminate.
func (j *Job) Progress() (fraction float64, ok bool) {
	if j == nil || j.TotalItems <= 0 {
		return 0, false
	}
	f := float64(j.ProcessedItems) / float64(j.TotalItems)
	return math.Max(0, math.Min(1, f)), true
}

// ProgressPercent is Progress rounded to a whole percentage.
func (j *Job) ProgressPercent() (int, bool) {
	f, ok := j.Progress()
	if !ok {
		return 0, false
	}
	return int(math.Round(f * 100)), true
}

// Clone returns a deep copy safe to hand to subscribers.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.Summary != nil {
		s := *j.Summary
		s.Figures = cloneMap(j.Summary.Figures)
		c.Summary = &s
	}
	if j.Items != nil {
		c.Items = make([]Item, len(j.Items))
		for i, it := range j.Items {
			c.Items[i] = Item(cloneMap(it))
		}
	}
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
