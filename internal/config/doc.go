// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.duelist/duelist.toml or OS-specific config directory)
// 3. Project config file (duelist.toml or .duelist.toml in the current directory)
// 4. Environment variables (DUELIST_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.duelist/duelist.toml (preferred)
// - Windows: %APPDATA%\duelist\duelist.toml
// - macOS: ~/Library/Application Support/duelist/duelist.toml
// - Linux/BSD: $XDG_CONFIG_HOME/duelist/duelist.toml or ~/.config/duelist/duelist.toml
//
// Project-level config locations (overrides user config):
// - ./duelist.toml (preferred)
// - ./.duelist.toml
package config
