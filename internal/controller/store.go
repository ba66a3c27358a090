package controller

import (
	"sync"
	"time"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
)

// defaultFailureMessage is shown when the backend fails a job without saying why.
const defaultFailureMessage = "Processing failed"

// subscriberBuffer bounds how far a slow subscriber may lag before it only
// sees the most recent snapshots.
const subscriberBuffer = 16

// Store is the single owner of the view state. All mutation goes through
// Dispatch; every read gets a copy.
//
// A submission waiting for the backend is held apart from the tracked job.
// It replaces the job only once the backend accepts or answers it, so a failed
// submission leaves the previous job, its poll and the view as they were.
type Store struct {
	mu         sync.Mutex
	version    uint64
	view       domain.ViewKind
	job        *domain.Job
	submitting *domain.Job
	history    []domain.HistoryEntry
	itemCheck  *domain.ItemCheckResult
	subs       map[int]chan domain.Snapshot
	nextSub    int
	closed     bool
	now        func() time.Time
}

// NewStore creates an idle store showing the home view.
func NewStore() *Store {
	return &Store{
		view:    domain.ViewHome,
		history: []domain.HistoryEntry{},
		subs:    make(map[int]chan domain.Snapshot),
		now:     time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Tracks reports whether id is the tracked job or the pending submission.
func (s *Store) Tracks(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job.Matches(id) || s.submitting.Matches(id)
}

// HistoryEntry looks up id in the cached history.
func (s *Store) HistoryEntry(id string) (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.history {
		if h.ID == id {
			return h, true
		}
	}
	return domain.HistoryEntry{}, false
}

// Subscribe returns a channel of snapshots published after every applied
// event, starting with the current state. A subscriber that falls behind
// loses the oldest pending snapshots, never the newest.
func (s *Store) Subscribe() (<-chan domain.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.Snapshot, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close ends every subscription. Later subscribers get a closed channel.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Dispatch applies ev and publishes the new state when it changed anything.
func (s *Store) Dispatch(ev Event) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.reduce(ev)
	if !out.Applied {
		return out
	}
	s.version++
	if out.Job == nil {
		out.Job = s.job.Clone()
	}
	s.publishLocked()
	return out
}

func (s *Store) reduce(ev Event) Outcome {
	now := s.now()

	switch e := ev.(type) {
	case SubmitStarted:
		name := e.Manifest.DisplayName
		if name == "" {
			name = e.Manifest.Filename
		}
		s.submitting = &domain.Job{
			SubmissionID: e.SubmissionID,
			DisplayName:  name,
			Source:       e.Manifest,
			Status:       domain.JobStatusSubmitting,
			Items:        []domain.Item{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return Outcome{Applied: true, To: domain.JobStatusSubmitting, Job: s.submitting.Clone()}

	case SubmitFailed:
		if !s.tracksSubmission(e.SubmissionID) {
			return rejected(ReasonUntracked)
		}
		s.submitting = nil
		return s.unchanged()

	case SubmitAccepted:
		if !s.tracksSubmission(e.SubmissionID) {
			return rejected(ReasonUntracked)
		}
		s.promoteSubmission()
		s.job.ID = e.UploadID
		s.job.TotalItems = max(e.TotalItems, 0)
		s.job.ProcessedItems = 0
		return s.transition(domain.JobStatusProcessing, now)

	case SubmitCompleted:
		if !s.tracksSubmission(e.SubmissionID) {
			return rejected(ReasonUntracked)
		}
		s.promoteSubmission()
		s.job.ID = e.Result.UploadID
		s.applyFinal(e.Result)
		return s.transition(domain.JobStatusCompleted, now)

	case StatusReceived:
		if e.UploadID == "" || s.job == nil || s.job.ID != e.UploadID {
			return rejected(ReasonUntracked)
		}
		if s.job.Status.IsTerminal() {
			return rejected(ReasonTerminal)
		}
		if s.job.Status != domain.JobStatusProcessing {
			return rejected(ReasonWrongState)
		}
		return s.applyStatus(e.Result, now)

	case JobVanished:
		if e.UploadID == "" || s.job == nil || s.job.ID != e.UploadID {
			return rejected(ReasonUntracked)
		}
		return s.dropJob(now)

	case JobDeleted:
		if e.UploadID == "" || s.job == nil || s.job.ID != e.UploadID {
			return rejected(ReasonUntracked)
		}
		return s.dropJob(now)

	case JobLoaded:
		from := domain.JobStatus("")
		if s.job != nil {
			from = s.job.Status
		}
		name := e.Result.UploadName
		if name == "" {
			name = e.Result.Filename
		}
		s.job = &domain.Job{
			ID:          e.Result.UploadID,
			DisplayName: name,
			Source:      domain.Manifest{Filename: e.Result.Filename, DisplayName: e.Result.UploadName},
			CreatedAt:   now,
		}
		s.applyFinal(e.Result)
		s.job.Status = domain.JobStatusCompleted
		s.job.UpdatedAt = now
		s.itemCheck = nil
		s.view = domain.ViewJob
		return Outcome{Applied: true, From: from, To: domain.JobStatusCompleted}

	case HistoryRefreshed:
		s.history = append([]domain.HistoryEntry{}, e.Entries...)
		return s.unchanged()

	case Navigated:
		switch e.View {
		case domain.ViewHome, domain.ViewHistory:
		case domain.ViewJob:
			if s.job == nil {
				return rejected(ReasonBadView)
			}
		case domain.ViewSingleItem:
			if s.itemCheck == nil {
				return rejected(ReasonBadView)
			}
		default:
			return rejected(ReasonBadView)
		}
		s.view = e.View
		return s.unchanged()

	case Reset:
		from := domain.JobStatus("")
		if s.job != nil {
			from = s.job.Status
		}
		s.job = nil
		s.itemCheck = nil
		s.view = domain.ViewHome
		return Outcome{Applied: true, From: from}

	case ItemChecked:
		s.itemCheck = e.Result
		s.view = domain.ViewSingleItem
		return s.unchanged()
	}

	return rejected(ReasonWrongState)
}

// applyStatus classifies one poll response for a processing job.
func (s *Store) applyStatus(res *gateway.StatusResult, now time.Time) Outcome {
	switch res.Status {
	case domain.JobStatusCompleted:
		s.applyFinal(res)
		return s.transition(domain.JobStatusCompleted, now)

	case domain.JobStatusFailed:
		s.applyCounts(res)
		s.job.ErrorMessage = res.ErrorMessage
		if s.job.ErrorMessage == "" {
			s.job.ErrorMessage = defaultFailureMessage
		}
		return s.transition(domain.JobStatusFailed, now)

	default:
		// processing, or a status this client does not know yet
		s.applyCounts(res)
		if res.Summary != nil {
			s.job.Summary = &domain.Summary{
				Figures:        copyFigures(res.Summary),
				Partial:        true,
				TotalItems:     s.job.TotalItems,
				ProcessedItems: s.job.ProcessedItems,
			}
		}
		s.job.Items = []domain.Item{}
		return s.transition(domain.JobStatusProcessing, now)
	}
}

// applyFinal installs a complete result on the tracked job.
func (s *Store) applyFinal(res *gateway.StatusResult) {
	s.applyCounts(res)
	s.job.Summary = &domain.Summary{Figures: copyFigures(res.Summary)}
	s.job.Items = append([]domain.Item{}, res.Items...)
	if s.job.TotalItems == 0 {
		s.job.TotalItems = len(s.job.Items)
	}
	if s.job.ProcessedItems == 0 || res.Status == domain.JobStatusCompleted {
		s.job.ProcessedItems = s.job.TotalItems
	}
}

// applyCounts keeps processedItems <= totalItems and never forgets a known total.
func (s *Store) applyCounts(res *gateway.StatusResult) {
	if res.TotalItems > 0 {
		s.job.TotalItems = res.TotalItems
	}
	processed := max(res.ProcessedItems, 0)
	if s.job.TotalItems > 0 {
		processed = min(processed, s.job.TotalItems)
	}
	s.job.ProcessedItems = processed
}

func (s *Store) transition(to domain.JobStatus, now time.Time) Outcome {
	from := s.job.Status
	if !from.CanTransitionTo(to) {
		return rejected(ReasonWrongState)
	}
	s.job.Status = to
	s.job.UpdatedAt = now
	return Outcome{Applied: true, From: from, To: to}
}

// dropJob forces the tracked job to deleted, releases it and shows history.
func (s *Store) dropJob(now time.Time) Outcome {
	from := s.job.Status
	s.job.Status = domain.JobStatusDeleted
	s.job.UpdatedAt = now
	deleted := s.job.Clone()
	s.job = nil
	s.view = domain.ViewHistory
	return Outcome{Applied: true, From: from, To: domain.JobStatusDeleted, Job: deleted}
}

func (s *Store) unchanged() Outcome {
	out := Outcome{Applied: true}
	if s.job != nil {
		out.From, out.To = s.job.Status, s.job.Status
	}
	return out
}

func (s *Store) tracksSubmission(id string) bool {
	return s.submitting != nil && id != "" && s.submitting.SubmissionID == id
}

// promoteSubmission makes the pending submission the tracked job, releasing
// the previous one. Its poll run stops on its next rejected response.
func (s *Store) promoteSubmission() {
	s.job = s.submitting
	s.submitting = nil
	s.itemCheck = nil
	s.view = domain.ViewJob
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Version:    s.version,
		View:       s.view,
		Job:        s.job.Clone(),
		Submitting: s.submitting.Clone(),
		History:    append([]domain.HistoryEntry{}, s.history...),
		ItemCheck:  s.itemCheck,
	}
}

// publishLocked hands the current snapshot to every subscriber without blocking.
func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func copyFigures(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
