package controller

import (
	"context"
	"sync"
	"time"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

// Notification texts for terminal poll outcomes.
const (
	MsgAnalysisCompleted = "Analysis completed successfully!"
	MsgUploadDeleted     = "Upload was deleted"
)

// Poller drives status polling for asynchronously processed jobs. Each run is
// bound to one upload id for its whole life and stops on its own once that job
// is terminal or no longer tracked by the store.
type Poller struct {
	gw       Gateway
	store    *Store
	notifier notify.Notifier
	sched    Scheduler
	interval time.Duration

	mu   sync.Mutex
	runs map[string]*pollRun
	wg   sync.WaitGroup
}

type pollRun struct {
	uploadID string
	ctx      context.Context
	cancel   context.CancelFunc
	log      *logger.Logger

	mu    sync.Mutex
	stop  func() bool
	ticks int
}

// NewPoller creates a Poller. A zero interval falls back to two seconds.
func NewPoller(gw Gateway, store *Store, n notify.Notifier, sched Scheduler, interval time.Duration) *Poller {
	if sched == nil {
		sched = TimerScheduler()
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		gw:       gw,
		store:    store,
		notifier: n,
		sched:    sched,
		interval: interval,
		runs:     make(map[string]*pollRun),
	}
}

// Start begins polling uploadID. Starting an id that already has a live run is
// a no-op. ctx bounds the run; request-scoped log fields are carried over.
func (p *Poller) Start(ctx context.Context, uploadID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.runs[uploadID]; ok {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &pollRun{
		uploadID: uploadID,
		ctx:      runCtx,
		cancel:   cancel,
		log:      logger.FromContext(ctx).WithField(logger.FieldUploadID, uploadID).WithField(logger.FieldComponent, "poller"),
	}
	p.runs[uploadID] = r
	r.log.Debugf("Polling every %s", p.interval)
	p.schedule(r)
}

// Active reports whether a run for uploadID is still scheduled.
func (p *Poller) Active(uploadID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.runs[uploadID]
	return ok
}

// Stop cancels every run and waits for in-flight ticks to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	for id, r := range p.runs {
		r.halt()
		delete(p.runs, id)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Poller) schedule(r *pollRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx.Err() != nil {
		return
	}
	r.stop = p.sched.AfterFunc(p.interval, func() { p.tick(r) })
}

func (p *Poller) tick(r *pollRun) {
	// Stop cancels runs under p.mu, so no Add can follow its Wait.
	p.mu.Lock()
	if r.ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	r.mu.Lock()
	r.ticks++
	r.mu.Unlock()

	start := time.Now()
	res, err := p.gw.GetStatus(r.ctx, r.uploadID)
	entry := logger.With(logger.Fields{logger.FieldUploadID: r.uploadID}).WithDuration(time.Since(start).Milliseconds())

	if p.handle(r, res, err, entry) {
		p.finish(r)
		return
	}
	p.schedule(r)
}

// handle applies one poll response and reports whether the run is over.
func (p *Poller) handle(r *pollRun, res *gateway.StatusResult, err error, entry *logger.Entry) (done bool) {
	ctx := r.log.WithContext(r.ctx)

	if err != nil {
		if r.ctx.Err() != nil {
			return true
		}
		if gateway.IsNotFound(err) {
			out := p.store.Dispatch(JobVanished{UploadID: r.uploadID})
			if out.Applied {
				entry.WithStatus(domain.JobStatusDeleted).Warn(ctx, "Upload disappeared while processing")
				p.notify(notify.KindError, MsgUploadDeleted)
			}
			return true
		}
		if !p.store.Tracks(r.uploadID) {
			return true
		}
		entry.Warn(ctx, "Status check failed, retrying: %v", err)
		return false
	}

	out := p.store.Dispatch(StatusReceived{UploadID: r.uploadID, Result: res})
	if !out.Applied {
		r.log.Debugf("Discarding status response: %s", out.Reason)
		return true
	}

	job := out.Job
	entry = entry.WithStatus(job.Status).With(logger.Fields{
		logger.FieldProcessed: job.ProcessedItems,
		logger.FieldTotal:     job.TotalItems,
	})

	switch {
	case out.Entered(domain.JobStatusCompleted):
		entry.Info(ctx, "Analysis completed")
		p.notify(notify.KindSuccess, MsgAnalysisCompleted)
		return true
	case out.Entered(domain.JobStatusFailed):
		entry.Warn(ctx, "Analysis failed: %s", job.ErrorMessage)
		p.notify(notify.KindError, job.ErrorMessage)
		return true
	}
	entry.Debug(ctx, "Analysis in progress")
	return job.Status.IsTerminal()
}

func (p *Poller) finish(r *pollRun) {
	p.mu.Lock()
	if cur, ok := p.runs[r.uploadID]; ok && cur == r {
		delete(p.runs, r.uploadID)
	}
	p.mu.Unlock()
	r.halt()

	r.mu.Lock()
	ticks := r.ticks
	r.mu.Unlock()
	r.log.WithField(logger.FieldCount, ticks).Debug("Polling stopped")
}

func (p *Poller) notify(kind notify.Kind, msg string) {
	if p.notifier != nil {
		p.notifier.Notify(kind, msg)
	}
}

func (r *pollRun) halt() {
	r.cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		r.stop()
	}
}
