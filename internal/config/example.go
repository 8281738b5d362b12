package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# duelist configuration file
# Values can be overridden by environment variables (DUELIST_*) or CLI flags

# Task file (relative to the current directory)
tasks_file = "tasks.json"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.duelist"

# Logging: level is debug, info, warn or error; format is text, json or logfmt
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false

# Rotate duelist.log at this size and keep this many old files
log_max_size_mb = 5
log_max_backups = 3

# How notifications are delivered: desktop, command, log or none
notifier = "desktop"

# Command run by the "command" notifier. It receives the title and message
# as arguments and DUELIST_TASK_ID / DUELIST_TIMEOUT in its environment.
# notify_command = "/path/to/notify.sh"

# Check for due tasks every 5 minutes
notify_interval_seconds = 300

# Notify once for tasks due within the next hour
notify_window_seconds = 3600

# How long the notification stays visible
notify_timeout_seconds = 8

# Reload the task list when the file changes on disk
watch_file = true
`
}
