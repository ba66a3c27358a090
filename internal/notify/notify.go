package notify

import (
	"sync"

	"github.com/timmy/arbitrage/internal/logger"
)

// Kind classifies a user-visible notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notifier surfaces user-visible events.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Func adapts a plain function to Notifier.
type Func func(kind Kind, message string)

func (f Func) Notify(kind Kind, message string) { f(kind, message) }

// Log writes notifications to the structured log.
type Log struct {
	Logger *logger.Logger
}

func (n Log) Notify(kind Kind, message string) {
	l := n.Logger
	if l == nil {
		l = logger.GetDefault()
	}
	l = l.WithField("notification", string(kind))
	if kind == KindError {
		l.Warn(message)
		return
	}
	l.Info(message)
}

// Multi fans a notification out to several sinks in order.
type Multi []Notifier

func (m Multi) Notify(kind Kind, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(kind, message)
		}
	}
}

// Notification is one recorded notification.
type Notification struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notification in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: kind, Message: message})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many notifications of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}
