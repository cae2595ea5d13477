package persistence

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"project-planner-api/internal/domain"
)

// Flush triggers, used as the metrics label
const (
	TriggerDebounce = "debounce"
	TriggerManual   = "manual"
)

// FlushFunc writes the current engine image to durable storage
type FlushFunc func(ctx context.Context) error

// MetricsRecorder receives one observation per flush attempt
type MetricsRecorder interface {
	RecordFlush(trigger string, duration time.Duration, err error)
}

// Scheduler coalesces bursts of mutations into one delayed flush.
// At most one flush is pending; every Notify pushes it back by the full delay.
type Scheduler struct {
	delay  time.Duration
	flush  FlushFunc
	logger *zap.Logger
	rec    MetricsRecorder

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool

	// flushing serializes the flush itself so a manual flush never overlaps a debounced one
	flushing sync.Mutex
}

// NewScheduler creates a scheduler; rec may be nil
func NewScheduler(delay time.Duration, flush FlushFunc, logger *zap.Logger, rec MetricsRecorder) *Scheduler {
	return &Scheduler{
		delay:  delay,
		flush:  flush,
		logger: logger,
		rec:    rec,
	}
}

// Notify records that the engine changed and (re)arms the debounce timer
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Pending reports whether a debounced flush is armed
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// FlushNow cancels any pending timer and flushes synchronously
func (s *Scheduler) FlushNow(ctx context.Context) error {
	s.disarm()
	return s.run(ctx, TriggerManual)
}

// Stop disarms the timer and ignores later notifications. It does not flush.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.stopped {
		// superseded by a later Notify, FlushNow or Stop
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.flushing.Lock()
	defer s.flushing.Unlock()
	if s.isStopped() {
		// Stop won the race while this flush waited; the owner flushes on its own
		return
	}
	if err := s.runLocked(context.Background(), TriggerDebounce); err != nil {
		s.logger.Error("Debounced flush failed, in-memory state remains authoritative",
			zap.Error(err),
		)
	}
}

func (s *Scheduler) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Scheduler) run(ctx context.Context, trigger string) error {
	s.flushing.Lock()
	defer s.flushing.Unlock()
	return s.runLocked(ctx, trigger)
}

func (s *Scheduler) runLocked(ctx context.Context, trigger string) error {
	start := time.Now()
	err := s.flush(ctx)
	duration := time.Since(start)

	if s.rec != nil {
		s.rec.RecordFlush(trigger, duration, err)
	}
	if err != nil {
		return &domain.PersistenceError{Op: "flush", Err: err}
	}

	s.logger.Debug("Snapshot flushed",
		zap.String("trigger", trigger),
		zap.Duration("duration", duration),
	)
	return nil
}
