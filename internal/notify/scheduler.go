package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duelist/internal/task"
)

// Default scheduling values.
const (
	DefaultInterval = 5 * time.Minute
	DefaultWindow   = time.Hour
	DefaultTimeout  = 8 * time.Second
)

// Status represents a scheduler update for TUI monitoring.
type Status struct {
	TaskID  string
	Status  string
	Message string
	Error   error
}

// Status values.
const (
	StatusNotified = "notified"
	StatusFailed   = "failed"
	StatusChecked  = "checked"
)

// SchedulerOptions configures a Scheduler. Zero values take the defaults.
type SchedulerOptions struct {
	Interval time.Duration
	Window   time.Duration
	Timeout  time.Duration
	Logger   *log.Logger
	Now      func() time.Time
}

// Scheduler periodically notifies about tasks that are due soon. Each
// task is notified at most once; the notified flag is persisted through
// the store after a successful delivery.
type Scheduler struct {
	store    *task.Store
	notifier Notifier
	interval time.Duration
	window   time.Duration
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler over store.
func NewScheduler(store *task.Store, notifier Notifier, opts SchedulerOptions) *Scheduler {
	s := &Scheduler{
		store:    store,
		notifier: notifier,
		interval: opts.Interval,
		window:   opts.Window,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.window <= 0 {
		s.window = DefaultWindow
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Interval returns the time between checks.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Message renders the reminder text for t.
func Message(t task.Task, loc *time.Location) string {
	due, err := t.Due(loc)
	if err != nil {
		return t.Text
	}
	return fmt.Sprintf("%s due at %s", t.Text, due.Format("15:04"))
}

// Tick runs one check at now. It returns the tasks that were notified
// and the joined delivery and save errors. A task whose delivery failed
// stays eligible for the next tick.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) ([]task.Task, error) {
	due := s.store.Due(now, s.window)
	task.Sort(due)

	var (
		sent []task.Task
		ids  []string
		errs []error
	)
	for _, t := range due {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		n := Notification{
			TaskID:  t.ID,
			Title:   Title,
			Message: Message(t, now.Location()),
			Timeout: s.timeout,
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn("Notification failed", "task_id", t.ID, "notifier", s.notifier.Name(), "err", err)
			errs = append(errs, fmt.Errorf("notify %s: %w", t.ID, err))
			continue
		}
		s.logger.Info("Notified", "task_id", t.ID, "message", n.Message)
		sent = append(sent, t)
		ids = append(ids, t.ID)
	}

	if len(ids) > 0 {
		if _, err := s.store.MarkNotified(ids); err != nil {
			errs = append(errs, fmt.Errorf("save notified flags: %w", err))
		}
	}
	return sent, errors.Join(errs...)
}

// Run checks immediately and then every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	return s.RunWithStatus(ctx, nil)
}

// RunWithStatus is Run with a status update sent to statusCh for every
// delivery and failure. statusCh, when not nil, is closed on return.
func (s *Scheduler) RunWithStatus(ctx context.Context, statusCh chan<- Status) error {
	if statusCh != nil {
		defer close(statusCh)
	}
	send := func(st Status) {
		if statusCh == nil {
			return
		}
		select {
		case statusCh <- st:
		case <-ctx.Done():
		}
	}

	s.logger.Debug("Scheduler started", "interval", s.interval, "window", s.window, "notifier", s.notifier.Name())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		now := s.now()
		sent, err := s.Tick(ctx, now)
		for _, t := range sent {
			send(Status{TaskID: t.ID, Status: StatusNotified, Message: Message(t, now.Location())})
		}
		if err != nil && ctx.Err() == nil {
			send(Status{Status: StatusFailed, Message: "Notification failed", Error: err})
		}
		if len(sent) == 0 && err == nil {
			send(Status{Status: StatusChecked})
		}

		select {
		case <-ctx.Done():
			s.logger.Debug("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
