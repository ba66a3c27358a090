package controller

import "time"

// Scheduler runs f once after d. The returned stop func cancels a pending
// run and reports whether it did so.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// TimerScheduler returns the wall-clock Scheduler.
func TimerScheduler() Scheduler { return timerScheduler{} }
