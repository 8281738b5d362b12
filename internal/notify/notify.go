// Package notify delivers due-soon reminders and schedules the checks
// that trigger them.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"github.com/nibzard/duelist/internal/config"
	"github.com/nibzard/duelist/internal/hooks"
)

// Title is the heading of every reminder.
const Title = "Task Due Soon"

// deliverTimeout bounds a single delivery attempt.
const deliverTimeout = 30 * time.Second

// Notification is one reminder to show.
type Notification struct {
	TaskID  string
	Title   string
	Message string
	// Timeout is how long the reminder should stay visible.
	Timeout time.Duration
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Name() string
}

// Options selects and configures a Notifier.
type Options struct {
	Kind    string
	Command string
	Logger  *log.Logger
}

// New returns the notifier named by opts.Kind.
func New(opts Options) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", config.NotifierDesktop:
		return &Desktop{AppName: "duelist"}, nil
	case config.NotifierCommand:
		if strings.TrimSpace(opts.Command) == "" {
			return nil, fmt.Errorf("command notifier requires a command")
		}
		return &Command{Command: opts.Command}, nil
	case config.NotifierLog:
		if opts.Logger == nil {
			return nil, fmt.Errorf("log notifier requires a logger")
		}
		return &Log{Logger: opts.Logger}, nil
	case config.NotifierNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", opts.Kind)
	}
}

// Desktop shows a native desktop notification.
type Desktop struct {
	AppName string

	send func(title, message string) error
}

// Name implements Notifier.
func (d *Desktop) Name() string { return config.NotifierDesktop }

// Notify implements Notifier. beeep has no display timeout, so
// n.Timeout bounds the delivery instead. beeep cannot be cancelled
// either; a delivery that outlives the bound or ctx is abandoned rather
// than awaited.
func (d *Desktop) Notify(ctx context.Context, n Notification) error {
	send := d.send
	if send == nil {
		if d.AppName != "" {
			beeep.AppName = d.AppName
		}
		send = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	}

	bound := n.Timeout
	if bound <= 0 {
		bound = deliverTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- send(n.Title, n.Message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("desktop notification: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("desktop notification: %w", ctx.Err())
	}
}

// Command runs an external program for each notification. The program
// gets the title and message as arguments.
type Command struct {
	Command string
	WorkDir string
}

// Name implements Notifier.
func (c *Command) Name() string { return config.NotifierCommand }

// Notify implements Notifier.
func (c *Command) Notify(ctx context.Context, n Notification) error {
	_, err := hooks.Invoke(ctx, hooks.Options{
		Command: c.Command,
		Args:    []string{n.Title, n.Message},
		Env: []string{
			"DUELIST_TASK_ID=" + n.TaskID,
			"DUELIST_TIMEOUT=" + strconv.Itoa(int(n.Timeout/time.Second)),
		},
		Label:   "notify",
		WorkDir: c.WorkDir,
		Timeout: deliverTimeout,
	})
	return err
}

// Log writes notifications to a logger.
type Log struct {
	Logger *log.Logger
}

// Name implements Notifier.
func (l *Log) Name() string { return config.NotifierLog }

// Notify implements Notifier.
func (l *Log) Notify(_ context.Context, n Notification) error {
	l.Logger.Info(n.Title, "task_id", n.TaskID, "message", n.Message)
	return nil
}

// None drops notifications.
type None struct{}

// Name implements Notifier.
func (None) Name() string { return config.NotifierNone }

// Notify implements Notifier.
func (None) Notify(context.Context, Notification) error { return nil }
