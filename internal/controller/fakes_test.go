package controller

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

type statusReply struct {
	res *gateway.StatusResult
	err error
}

// fakeGateway answers from canned replies. The last queued status reply for
// an id is repeated once the queue is drained.
type fakeGateway struct {
	mu sync.Mutex

	submitResult *gateway.SubmitResult
	submitErr    error
	submitted    []domain.Manifest

	statuses    map[string][]statusReply
	statusCalls map[string]int

	history    []domain.HistoryEntry
	historyErr error
	listCalls  int

	deleteErr error
	deleted   []string

	itemResult *domain.ItemCheckResult
	itemErr    error
	itemReqs   []domain.ItemCheckRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		statuses:    make(map[string][]statusReply),
		statusCalls: make(map[string]int),
	}
}

func (g *fakeGateway) accept(uploadID string, total int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitResult = &gateway.SubmitResult{Accepted: true, UploadID: uploadID, TotalItems: total}
	g.submitErr = nil
}

func (g *fakeGateway) queue(uploadID string, res *gateway.StatusResult, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if res != nil && res.UploadID == "" {
		res.UploadID = uploadID
	}
	g.statuses[uploadID] = append(g.statuses[uploadID], statusReply{res: res, err: err})
}

func (g *fakeGateway) calls(uploadID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusCalls[uploadID]
}

func (g *fakeGateway) SubmitManifest(_ context.Context, m domain.Manifest) (*gateway.SubmitResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitted = append(g.submitted, m)
	return g.submitResult, g.submitErr
}

func (g *fakeGateway) GetStatus(_ context.Context, uploadID string) (*gateway.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls[uploadID]++
	q := g.statuses[uploadID]
	if len(q) == 0 {
		return nil, &gateway.ServiceError{Op: gateway.OpGetStatus, StatusCode: http.StatusNotFound}
	}
	r := q[0]
	if len(q) > 1 {
		g.statuses[uploadID] = q[1:]
	}
	if r.res != nil {
		c := *r.res
		return &c, r.err
	}
	return nil, r.err
}

func (g *fakeGateway) ListHistory(context.Context) ([]domain.HistoryEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.historyErr != nil {
		return nil, g.historyErr
	}
	return append([]domain.HistoryEntry{}, g.history...), nil
}

func (g *fakeGateway) DeleteJob(_ context.Context, uploadID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deleted = append(g.deleted, uploadID)
	return nil
}

func (g *fakeGateway) CheckItem(_ context.Context, req domain.ItemCheckRequest) (*domain.ItemCheckResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.itemReqs = append(g.itemReqs, req)
	return g.itemResult, g.itemErr
}

// manualScheduler fires timers only when the test asks it to.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	d       time.Duration
	stopped bool
	fired   bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	t := &manualTimer{f: f, d: d}
	s.mu.Lock()
	s.pending = append(s.pending, t)
	s.mu.Unlock()
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		live := !t.stopped && !t.fired
		t.stopped = true
		return live
	}
}

// Fire runs every timer pending at call time and returns how many ran.
// Timers scheduled by the callbacks wait for the next Fire.
func (s *manualScheduler) Fire() int {
	s.mu.Lock()
	timers := s.pending
	s.pending = nil
	s.mu.Unlock()

	n := 0
	for _, t := range timers {
		s.mu.Lock()
		skip := t.stopped
		t.fired = true
		s.mu.Unlock()
		if skip {
			continue
		}
		t.f()
		n++
	}
	return n
}

// Pending counts timers that are scheduled and not stopped.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

type harness struct {
	gw    *fakeGateway
	sched *manualScheduler
	rec   *notify.Recorder
	ctl   *Controller
}

func newHarness() *harness {
	h := &harness{
		gw:    newFakeGateway(),
		sched: &manualScheduler{},
		rec:   &notify.Recorder{},
	}
	h.ctl = New(Options{
		Gateway:      h.gw,
		Notifier:     h.rec,
		Scheduler:    h.sched,
		PollInterval: 2 * time.Second,
		Logger:       logger.Discard(),
	})
	return h
}

func testContext() context.Context {
	return logger.Discard().WithContext(context.Background())
}
