// Package scheduler polls the reminder store and notifies the user about
// reminders that have come due.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/notify"
	"github.com/notexe/dayplan/internal/reminder"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 30 * time.Second

// Source supplies reminder snapshots and accepts status updates.
type Source interface {
	Snapshot(ctx context.Context) ([]reminder.Reminder, error)
	MarkSent(ctx context.Context, id int64) error
}

// Waker is implemented by sources that can return elapsed snoozes to
// pending. When present it runs before each scan.
type Waker interface {
	WakeSnoozed(ctx context.Context, now time.Time) (int64, error)
}

// Config controls polling.
type Config struct {
	Interval time.Duration
	// StaleAfter, when positive, marks reminders overdue by more than this
	// as sent without notifying. Zero notifies regardless of lateness.
	StaleAfter time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithClock(c clock.Clock) Option { return func(s *Scheduler) { s.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Scheduler) { s.logger = l } }

func WithMetrics(m *Metrics) Option { return func(s *Scheduler) { s.metrics = m } }

// Scheduler runs periodic due-reminder checks.
type Scheduler struct {
	source   Source
	notifier notify.Notifier
	config   Config
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *Metrics
}

// New creates a Scheduler. A nil notifier behaves as notify.Nop.
func New(source Source, notifier notify.Notifier, cfg Config, opts ...Option) (*Scheduler, error) {
	if source == nil {
		return nil, fmt.Errorf("scheduler source is required")
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.StaleAfter < 0 {
		return nil, fmt.Errorf("scheduler stale_after must not be negative, got %s", cfg.StaleAfter)
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}

	s := &Scheduler{
		source:   source,
		notifier: notifier,
		config:   cfg,
		clock:    clock.Real{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("scheduler")
	return s, nil
}

// Run blocks and runs a pass immediately, then once per interval.
// It exits when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("started", zap.Duration("interval", s.config.Interval),
		zap.Duration("stale_after", s.config.StaleAfter),
		zap.Bool("notifications", s.notifier.Available()))

	s.Pass(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down")
			return nil
		case <-ticker.C:
			s.Pass(ctx)
		}
	}
}

// Handle controls a scheduler started with Start.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs the scheduler in its own goroutine until Stop is called or ctx
// is cancelled.
func (s *Scheduler) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		_ = s.Run(ctx)
	}()
	return h
}

// Stop cancels polling and waits for the loop to exit. No notification is
// dispatched after Stop returns.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// PassResult summarizes one due-check pass.
type PassResult struct {
	Woken          int64
	Due            int
	Notified       int
	Suppressed     int
	Stale          int
	NotifyFailed   int
	MarkSentFailed int
	Err            error
}

// Pass runs one due-check over a fresh snapshot. Each due reminder gets at
// most one notification and then one status update. Failures are isolated
// per reminder; a reminder whose update fails stays pending and is picked up
// again by a later pass.
func (s *Scheduler) Pass(ctx context.Context) PassResult {
	var res PassResult
	now := s.clock.Now()

	if w, ok := s.source.(Waker); ok {
		n, err := w.WakeSnoozed(ctx, now)
		if err != nil {
			s.logger.Warn("failed to wake snoozed reminders", zap.Error(err))
		}
		res.Woken = n
		s.metrics.observeWoken(n)
	}

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Error("failed to load reminders", zap.Error(err))
		s.metrics.observeSnapshotFailure()
		res.Err = err
		return res
	}

	due := reminder.ScanDue(snapshot, now)
	res.Due = len(due)
	s.metrics.observePass(len(due))
	if len(due) == 0 {
		s.logger.Debug("no due reminders", zap.Int("checked", len(snapshot)))
		return res
	}

	for _, r := range due {
		if ctx.Err() != nil {
			s.logger.Info("pass cancelled", zap.Int("remaining", res.Due-res.processed()))
			break
		}
		s.process(ctx, r, now, &res)
	}

	s.logger.Info("pass complete",
		zap.Int("due", res.Due),
		zap.Int("notified", res.Notified),
		zap.Int("suppressed", res.Suppressed),
		zap.Int("stale", res.Stale),
		zap.Int("notify_failed", res.NotifyFailed),
		zap.Int("mark_sent_failed", res.MarkSentFailed))
	return res
}

func (r PassResult) processed() int {
	return r.Notified + r.Suppressed + r.Stale + r.NotifyFailed
}

func (s *Scheduler) process(ctx context.Context, r reminder.Reminder, now time.Time, res *PassResult) {
	log := s.logger.With(zap.Int64("id", r.ID), zap.String("title", r.Title),
		zap.Time("scheduled_time", r.ScheduledTime))
	lateness := now.Sub(r.ScheduledTime)

	switch {
	case s.config.StaleAfter > 0 && lateness > s.config.StaleAfter:
		log.Info("skipping stale reminder", zap.Duration("overdue", lateness))
		res.Stale++
		s.metrics.observeNotification(resultStale)
	case !s.notifier.Available():
		log.Debug("notifications unavailable, marking sent without dispatch")
		res.Suppressed++
		s.metrics.observeNotification(resultSuppressed)
	default:
		if err := s.notifier.Notify(ctx, r.Title, r.Notes); err != nil {
			log.Warn("notification failed", zap.Error(err))
			res.NotifyFailed++
			s.metrics.observeNotification(resultFailed)
		} else {
			log.Info("reminder sent", zap.Duration("overdue", lateness))
			res.Notified++
			s.metrics.observeNotification(resultSent)
		}
	}

	// The update must land even if polling is being stopped, otherwise the
	// reminder fires again on the next start.
	if err := s.source.MarkSent(context.WithoutCancel(ctx), r.ID); err != nil {
		log.Error("failed to mark reminder sent; will retry next pass", zap.Error(err))
		res.MarkSentFailed++
		s.metrics.observeMarkSentFailure()
	}
}
