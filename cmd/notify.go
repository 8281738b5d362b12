package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nibzard/duelist/internal/config"
)

// notifyCommand runs the reminder scheduler without the TUI.
func notifyCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duelist notify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	once := fs.Bool("once", false, "Check once and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.NotificationsEnabled() {
		return fmt.Errorf("notifications are disabled (notifier = %s)", config.NotifierNone)
	}

	if *once {
		sent, err := a.Scheduler.Tick(ctx, time.Now())
		fmt.Fprintf(stdout, "Notified %d task(s).\n", len(sent))
		return err
	}

	a.Logger.Info("Watching for due tasks", "path", a.Store.Path(), "interval", a.Scheduler.Interval(), "notifier", a.Notifier.Name())
	return a.Scheduler.Run(ctx)
}
