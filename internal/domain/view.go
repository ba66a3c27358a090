package domain

// ViewKind names the single view presented at a time.
type ViewKind string

const (
	ViewHome       ViewKind = "home"
	ViewJob        ViewKind = "job"
	ViewHistory    ViewKind = "history"
	ViewSingleItem ViewKind = "single_item"
)

// Snapshot is an immutable copy of the controller state handed to renderers.
// Job is kept even when another view is active so that an in-flight poll
// remains visible once the user navigates back.
//
// Submitting is a manifest sent to the backend and not yet answered. It does
// not replace Job until the backend accepts it.
type Snapshot struct {
	Version    uint64           `json:"version"`
	View       ViewKind         `json:"view"`
	Job        *Job             `json:"job,omitempty"`
	Submitting *Job             `json:"submitting,omitempty"`
	History    []HistoryEntry   `json:"history"`
	ItemCheck  *ItemCheckResult `json:"item_check,omitempty"`
}
