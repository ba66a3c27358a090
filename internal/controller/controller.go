// Package controller owns the lifecycle of manifest analyses: submission,
// status polling, history reconciliation and the single active view.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

// Gateway is the backend surface the controller depends on.
type Gateway interface {
	SubmitManifest(ctx context.Context, m domain.Manifest) (*gateway.SubmitResult, error)
	GetStatus(ctx context.Context, uploadID string) (*gateway.StatusResult, error)
	ListHistory(ctx context.Context) ([]domain.HistoryEntry, error)
	DeleteJob(ctx context.Context, uploadID string) error
	CheckItem(ctx context.Context, req domain.ItemCheckRequest) (*domain.ItemCheckResult, error)
}

// Options configures a Controller.
type Options struct {
	Gateway         Gateway
	Notifier        notify.Notifier
	Scheduler       Scheduler
	PollInterval    time.Duration
	DefaultQuantity int
	Logger          *logger.Logger
}

// Controller coordinates the submission unit, poller and history reconciler
// over one shared Store.
type Controller struct {
	gw              Gateway
	store           *Store
	poller          *Poller
	notifier        notify.Notifier
	validator       *validator.Validate
	log             *logger.Logger
	defaultQuantity int

	// ctx outlives individual requests so polls keep running after the
	// submitting call returns.
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// New creates a Controller.
func New(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.GetDefault()
	}
	log = log.WithField(logger.FieldComponent, "controller")

	n := opts.Notifier
	if n == nil {
		n = notify.Log{Logger: log}
	}
	qty := opts.DefaultQuantity
	if qty < 1 {
		qty = 1
	}

	store := NewStore()
	ctx, cancel := context.WithCancel(log.WithContext(context.Background()))
	return &Controller{
		gw:              opts.Gateway,
		store:           store,
		poller:          NewPoller(opts.Gateway, store, n, opts.Scheduler, opts.PollInterval),
		notifier:        n,
		validator:       newValidator(),
		log:             log,
		defaultQuantity: qty,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Close stops all polling and ends every snapshot subscription. The
// controller must not be used afterwards.
func (c *Controller) Close() {
	c.once.Do(func() {
		c.cancel()
		c.poller.Stop()
		c.store.Close()
		c.log.Debug("Controller closed")
	})
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() domain.Snapshot {
	return c.store.Snapshot()
}

// Subscribe streams snapshots; call the returned func to unsubscribe.
func (c *Controller) Subscribe() (<-chan domain.Snapshot, func()) {
	return c.store.Subscribe()
}

// Polling reports whether a poll run for uploadID is live.
func (c *Controller) Polling(uploadID string) bool {
	return c.poller.Active(uploadID)
}

func (c *Controller) closed() bool {
	return c.ctx.Err() != nil
}

func (c *Controller) notify(kind notify.Kind, msg string) {
	c.notifier.Notify(kind, msg)
}

// pollContext derives a controller-lifetime context carrying the caller's log fields.
func (c *Controller) pollContext(ctx context.Context) context.Context {
	return logger.FromContext(ctx).WithContext(c.ctx)
}
