package domain

// ItemCheckRequest describes a single catalog item to analyze without a manifest.
type ItemCheckRequest struct {
	ItemNumber string  `json:"item_number,omitempty"`
	Title      string  `json:"title" validate:"notblank"`
	MSRP       float64 `json:"msrp" validate:"gt=0"`
	Quantity   int     `json:"quantity"`
	Notes      string  `json:"notes,omitempty"`
}

// ItemCheckResult is the backend's one-off analysis of a single item.
type ItemCheckResult struct {
	Item     map[string]any `json:"item"`
	Analysis map[string]any `json:"analysis"`
	Summary  map[string]any `json:"summary"`
}
