// Package app owns the running application state: configuration, the
// logger, the task store, and the background notification scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duelist/internal/config"
	"github.com/nibzard/duelist/internal/logging"
	"github.com/nibzard/duelist/internal/notify"
	"github.com/nibzard/duelist/internal/task"
)

// Options adjusts how New builds the App.
type Options struct {
	// Console receives a copy of log output. The TUI leaves it nil.
	Console io.Writer
	// Notifier replaces the configured notifier.
	Notifier notify.Notifier
	// Logger replaces the file logger.
	Logger *log.Logger
	// Now replaces the wall clock.
	Now func() time.Time
}

// App is the assembled application.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Store     *task.Store
	Notifier  notify.Notifier
	Scheduler *notify.Scheduler

	logCloser io.Closer

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New validates cfg and opens the logger, the task file and the notifier.
func New(cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{Config: cfg}

	a.Logger = opts.Logger
	if a.Logger == nil {
		logger, closer, err := logging.New(logging.Options{
			Dir:        cfg.LogDir,
			Level:      cfg.LogLevel,
			Format:     cfg.LogFormat,
			Timestamps: cfg.LogTimestamps,
			Caller:     cfg.LogCaller,
			Prefix:     "duelist",
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			Console:    opts.Console,
		})
		if err != nil {
			return nil, err
		}
		a.Logger = logger
		a.logCloser = closer
	}

	var storeOpts []task.StoreOption
	if opts.Now != nil {
		storeOpts = append(storeOpts, task.WithClock(opts.Now))
	}
	store, err := task.Open(cfg.TasksFile, storeOpts...)
	if err != nil {
		a.closeLog()
		return nil, err
	}
	a.Store = store
	if result := task.Validate(store.Tasks()); !result.Valid {
		for _, verr := range result.Errors {
			a.Logger.Warn("Task file does not match schema", "path", store.Path(), "err", verr)
		}
	}

	a.Notifier = opts.Notifier
	if a.Notifier == nil {
		n, err := notify.New(notify.Options{
			Kind:    cfg.Notifier,
			Command: cfg.NotifyCommand,
			Logger:  a.Logger,
		})
		if err != nil {
			a.closeLog()
			return nil, err
		}
		if c, ok := n.(*notify.Command); ok {
			c.WorkDir = cfg.WorkDir
		}
		a.Notifier = n
	}

	a.Scheduler = notify.NewScheduler(store, a.Notifier, notify.SchedulerOptions{
		Interval: cfg.NotifyInterval(),
		Window:   cfg.NotifyWindow(),
		Timeout:  cfg.NotifyTimeout(),
		Logger:   a.Logger,
		Now:      opts.Now,
	})

	a.Logger.Debug("Opened task file", "path", store.Path(), "count", store.Len(), "notifier", a.Notifier.Name())
	return a, nil
}

// NotificationsEnabled reports whether Start runs the scheduler.
func (a *App) NotificationsEnabled() bool {
	return a.Notifier.Name() != config.NotifierNone
}

// Start runs the scheduler in the background and returns its status
// channel. The channel is closed when the scheduler stops. With
// notifications disabled Start returns nil. Start may be called once.
func (a *App) Start(ctx context.Context) <-chan notify.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || !a.NotificationsEnabled() {
		return nil
	}
	a.started = true

	ctx, a.cancel = context.WithCancel(ctx)
	statusCh := make(chan notify.Status, 8)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := a.Scheduler.RunWithStatus(ctx, statusCh)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("Scheduler stopped", "err", err)
		}
	}()
	return statusCh
}

// Close stops the scheduler, waits for it and releases the log file.
func (a *App) Close() error {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()
	a.wg.Wait()
	if a.Store != nil {
		_ = a.Store.Close()
	}
	return a.closeLog()
}

func (a *App) closeLog() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}
