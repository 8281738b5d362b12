package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Unknown lists keys in config files that no setting matched.
	Unknown []string
}

// Notifier backends.
const (
	NotifierDesktop = "desktop"
	NotifierCommand = "command"
	NotifierLog     = "log"
	NotifierNone    = "none"
)

// Notifiers lists the accepted notifier names.
var Notifiers = []string{NotifierDesktop, NotifierCommand, NotifierLog, NotifierNone}

// Default values.
const (
	DefaultTasksFile             = "tasks.json"
	DefaultLogDir                = "~/.duelist"
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "text"
	DefaultLogMaxSizeMB          = 5
	DefaultLogMaxBackups         = 3
	DefaultNotifyIntervalSeconds = 300
	DefaultNotifyWindowSeconds   = 3600
	DefaultNotifyTimeoutSeconds  = 8
)

// Config holds the full configuration for duelist.
type Config struct {
	// Paths
	TasksFile string `toml:"tasks_file"`
	LogDir    string `toml:"log_dir"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`

	// Notifications
	Notifier              string `toml:"notifier"`
	NotifyCommand         string `toml:"notify_command"`
	NotifyIntervalSeconds int    `toml:"notify_interval_seconds"`
	NotifyWindowSeconds   int    `toml:"notify_window_seconds"`
	NotifyTimeoutSeconds  int    `toml:"notify_timeout_seconds"`

	// Reload the task list when the file changes on disk.
	WatchFile bool `toml:"watch_file"`

	// WorkDir is where relative paths were resolved. Not persisted.
	WorkDir string `toml:"-"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TasksFile = DefaultTasksFile
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
	cfg.LogMaxSizeMB = DefaultLogMaxSizeMB
	cfg.LogMaxBackups = DefaultLogMaxBackups
	cfg.Notifier = NotifierDesktop
	cfg.NotifyIntervalSeconds = DefaultNotifyIntervalSeconds
	cfg.NotifyWindowSeconds = DefaultNotifyWindowSeconds
	cfg.NotifyTimeoutSeconds = DefaultNotifyTimeoutSeconds
	cfg.WatchFile = true
}

// Default returns a config holding only built-in defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// NotifyInterval is the time between due-soon checks.
func (c *Config) NotifyInterval() time.Duration {
	return time.Duration(c.NotifyIntervalSeconds) * time.Second
}

// NotifyWindow is how far ahead a task counts as due soon.
func (c *Config) NotifyWindow() time.Duration {
	return time.Duration(c.NotifyWindowSeconds) * time.Second
}

// NotifyTimeout is how long a notification stays up and how long a
// notifier may take to deliver it.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TasksFile) == "" {
		return fmt.Errorf("tasks_file must not be empty")
	}
	if c.NotifyIntervalSeconds <= 0 {
		return fmt.Errorf("notify_interval_seconds must be positive, got %d", c.NotifyIntervalSeconds)
	}
	if c.NotifyWindowSeconds <= 0 {
		return fmt.Errorf("notify_window_seconds must be positive, got %d", c.NotifyWindowSeconds)
	}
	if c.NotifyTimeoutSeconds < 0 {
		return fmt.Errorf("notify_timeout_seconds must not be negative, got %d", c.NotifyTimeoutSeconds)
	}
	if !validNotifier(c.Notifier) {
		return fmt.Errorf("invalid notifier %q, must be one of: %s", c.Notifier, strings.Join(Notifiers, ", "))
	}
	if c.Notifier == NotifierCommand && strings.TrimSpace(c.NotifyCommand) == "" {
		return fmt.Errorf("notifier %q requires notify_command", NotifierCommand)
	}
	return nil
}

func validNotifier(name string) bool {
	for _, n := range Notifiers {
		if n == name {
			return true
		}
	}
	return false
}

// Encode writes the config as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
