package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobStatusSubmitting, JobStatusProcessing, true},
		{JobStatusSubmitting, JobStatusCompleted, true},
		{JobStatusProcessing, JobStatusProcessing, true},
		{JobStatusProcessing, JobStatusCompleted, true},
		{JobStatusProcessing, JobStatusFailed, true},
		{JobStatusProcessing, JobStatusSubmitting, false},
		{JobStatusCompleted, JobStatusProcessing, false},
		{JobStatusFailed, JobStatusCompleted, false},
		{JobStatusCompleted, JobStatusDeleted, true},
		{JobStatusFailed, JobStatusDeleted, true},
		{JobStatusDeleted, JobStatusDeleted, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestJob_Progress(t *testing.T) {
	_, ok := (&Job{TotalItems: 0, ProcessedItems: 3}).Progress()
	assert.False(t, ok, "zero total must be indeterminate")

	f, ok := (&Job{TotalItems: 4, ProcessedItems: 1}).Progress()
	require.True(t, ok)
	assert.InDelta(t, 0.25, f, 1e-9)

	f, ok = (&Job{TotalItems: 2, ProcessedItems: 5}).Progress()
	require.True(t, ok)
	assert.Equal(t, 1.0, f)

	pct, ok := (&Job{TotalItems: 3, ProcessedItems: 2}).ProgressPercent()
	require.True(t, ok)
	assert.Equal(t, 67, pct)

	var nilJob *Job
	_, ok = nilJob.Progress()
	assert.False(t, ok)
}

func TestJob_Matches(t *testing.T) {
	j := &Job{SubmissionID: "s1", ID: "u1"}
	assert.True(t, j.Matches("u1"))
	assert.True(t, j.Matches("s1"))
	assert.False(t, j.Matches("u2"))
	assert.False(t, j.Matches(""))
}

func TestJob_CloneIsDeep(t *testing.T) {
	j := &Job{
		ID:      "u1",
		Summary: &Summary{Figures: map[string]any{"totalProfit": 10.0}},
		Items:   []Item{{"title": "a"}},
	}
	c := j.Clone()
	c.Summary.Figures["totalProfit"] = 99.0
	c.Items[0]["title"] = "b"

	assert.Equal(t, 10.0, j.Summary.Figures["totalProfit"])
	assert.Equal(t, "a", j.Items[0]["title"])
}

func TestHistoryEntry(t *testing.T) {
	h := HistoryEntry{Filename: "m.csv", Status: JobStatusProcessing, CreatedAt: "2025-01-15T10:23:45.123456"}
	assert.Equal(t, "m.csv", h.DisplayName())
	assert.False(t, h.Selectable())

	ts, ok := h.CreatedTime()
	require.True(t, ok)
	assert.Equal(t, 2025, ts.Year())

	h.UploadName = "Pallet 12"
	h.Status = JobStatusCompleted
	assert.Equal(t, "Pallet 12", h.DisplayName())
	assert.True(t, h.Selectable())

	_, ok = HistoryEntry{CreatedAt: "yesterday"}.CreatedTime()
	assert.False(t, ok)
}
