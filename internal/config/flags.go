package config

import (
	"flag"
)

// flagFields maps flag names to the config keys they set.
var flagFields = map[string]string{
	"tasks":           "tasks_file",
	"log-dir":         "log_dir",
	"log-level":       "log_level",
	"log-format":      "log_format",
	"log-timestamps":  "log_timestamps",
	"log-caller":      "log_caller",
	"notifier":        "notifier",
	"notify-command":  "notify_command",
	"notify-interval": "notify_interval_seconds",
	"notify-window":   "notify_window_seconds",
	"watch":           "watch_file",
}

// parseFlags defines the global flags on fs, parses args and records
// every flag the user set in sources.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("duelist", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.TasksFile, "tasks", cfg.TasksFile, "Path to task file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")

	// Notifications
	fs.StringVar(&cfg.Notifier, "notifier", cfg.Notifier, "Notifier: desktop, command, log, none")
	fs.StringVar(&cfg.NotifyCommand, "notify-command", cfg.NotifyCommand, "Command run by the command notifier")
	fs.IntVar(&cfg.NotifyIntervalSeconds, "notify-interval", cfg.NotifyIntervalSeconds, "Seconds between due-soon checks")
	fs.IntVar(&cfg.NotifyWindowSeconds, "notify-window", cfg.NotifyWindowSeconds, "Notify for tasks due within this many seconds")

	fs.BoolVar(&cfg.WatchFile, "watch", cfg.WatchFile, "Reload when the task file changes on disk")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
