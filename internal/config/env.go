package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/duelist/internal/utils"
)

// loadFromEnv overrides config from DUELIST_* environment variables and
// records each override in sources.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = utils.BoolFromString(v)
			sources[field] = SourceEnv
		}
	}
	setInt := func(env, field string, target *int) error {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			return nil
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", env, v)
		}
		*target = i
		sources[field] = SourceEnv
		return nil
	}

	setString("DUELIST_TASKS", "tasks_file", &cfg.TasksFile)
	setString("DUELIST_LOG_DIR", "log_dir", &cfg.LogDir)

	// Logging configuration
	setString("DUELIST_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("DUELIST_LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("DUELIST_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("DUELIST_LOG_CALLER", "log_caller", &cfg.LogCaller)

	// Notifications
	setString("DUELIST_NOTIFIER", "notifier", &cfg.Notifier)
	setString("DUELIST_NOTIFY_COMMAND", "notify_command", &cfg.NotifyCommand)
	if err := setInt("DUELIST_NOTIFY_INTERVAL", "notify_interval_seconds", &cfg.NotifyIntervalSeconds); err != nil {
		return err
	}
	if err := setInt("DUELIST_NOTIFY_WINDOW", "notify_window_seconds", &cfg.NotifyWindowSeconds); err != nil {
		return err
	}

	setBool("DUELIST_WATCH", "watch_file", &cfg.WatchFile)
	return nil
}
