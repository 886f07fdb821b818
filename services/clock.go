package services

import (
	"context"
	"time"
)

// Clock is the wall-clock source.
type Clock interface {
	Now() time.Time
}

// Task is a scheduled callback that can be stopped before it fires.
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads time.Now.
func SystemClock() Clock { return systemClock{} }

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// TimerScheduler schedules callbacks with time.AfterFunc.
func TimerScheduler() Scheduler { return timerScheduler{} }

// TickInterval is how often RunClock polls the clock.
const TickInterval = time.Second

// RunClock drives the business-day schedule until ctx is cancelled. Ticks are
// handled on this goroutine one at a time, so a slow tick delays the next one
// instead of overlapping it.
func (s *POSService) RunClock(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	s.logger.Info("Business day clock started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Business day clock stopped")
			return
		case <-ticker.C:
			s.Tick(ctx, s.clock.Now())
		}
	}
}
