package domain

import "time"

// createdAtLayouts are the timestamp shapes the history endpoint has been seen to emit.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05.999999",
}

// HistoryEntry is the backend registry's projection of a job.
type HistoryEntry struct {
	ID             string    `json:"upload_id"`
	Filename       string    `json:"filename"`
	UploadName     string    `json:"upload_name,omitempty"`
	CreatedAt      string    `json:"created_at"`
	Status         JobStatus `json:"status"`
	TotalItems     int       `json:"total_items"`
	ProcessedItems int       `json:"processed_items"`
}

// DisplayName prefers the user-supplied name over the filename.
func (h HistoryEntry) DisplayName() string {
	if h.UploadName != "" {
		return h.UploadName
	}
	return h.Filename
}

// Selectable reports whether the entry can be opened as the active view.
func (h HistoryEntry) Selectable() bool {
	return h.Status == JobStatusCompleted
}

// CreatedTime parses CreatedAt; ok is false when it is empty or unrecognized.
func (h HistoryEntry) CreatedTime() (time.Time, bool) {
	if h.CreatedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, h.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
