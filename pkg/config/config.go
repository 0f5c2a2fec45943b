package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config values like "500ms" decode
// from YAML, which has no duration scalar of its own.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Hooks are optional shell commands run on wrapper events. Each is
// executed via `sh -c` with output discarded.
type Hooks struct {
	// StatusChange runs whenever the tmux status value changes;
	// `{status}` is replaced with the new value.
	StatusChange string `yaml:"status_change"`
	// VimModeChange runs when the agent's vim mode changes;
	// `{vim_mode}` is replaced with NORMAL or INSERT.
	VimModeChange string `yaml:"vim_mode_change"`
	// EscInNormal runs when a lone ESC is pressed in NORMAL mode.
	EscInNormal string `yaml:"esc_in_normal"`
}

// Config holds all configuration for cursor-agent-notify
type Config struct {
	// Notification settings
	NotificationTitle string `yaml:"notification_title" env:"CURSOR_NOTIFY_TITLE"`
	NotificationBody  string `yaml:"notification_body" env:"CURSOR_NOTIFY_BODY"`
	NotifyCommand     string `yaml:"notify_command" env:"CURSOR_NOTIFY_COMMAND"`

	// Behavior flags
	Quiet            bool     `yaml:"quiet" env:"CURSOR_NOTIFY_QUIET"`
	DefaultAgentArgs []string `yaml:"default_agent_args"`

	// Detection tuning: silence required after the last busy
	// animation frame before the agent counts as idle, and how long
	// a single PTY read may block before silence is checked anyway.
	DebounceWindow Duration `yaml:"debounce_window" env:"CURSOR_NOTIFY_DEBOUNCE_WINDOW"`
	ReadTimeout    Duration `yaml:"read_timeout" env:"CURSOR_NOTIFY_READ_TIMEOUT"`

	// Agent path configuration
	AgentPath string `yaml:"agent_path" env:"CURSOR_NOTIFY_AGENT_PATH"`

	// Optional debug log file (structured, append mode)
	LogFile string `yaml:"log_file" env:"CURSOR_NOTIFY_LOG_FILE"`

	Hooks Hooks `yaml:"hooks"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		NotificationTitle: "Cursor Agent",
		NotificationBody:  "Done",
		NotifyCommand:     "notify-send",
		DebounceWindow:    Duration(500 * time.Millisecond),
		ReadTimeout:       Duration(time.Second),
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := Path()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Path returns the config file path
func Path() string {
	// Check for explicit config path
	if path := os.Getenv("CURSOR_NOTIFY_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cursor-agent-notify", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "cursor-agent-notify", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if title := os.Getenv("CURSOR_NOTIFY_TITLE"); title != "" {
		cfg.NotificationTitle = title
	}

	if body := os.Getenv("CURSOR_NOTIFY_BODY"); body != "" {
		cfg.NotificationBody = body
	}

	if command := os.Getenv("CURSOR_NOTIFY_COMMAND"); command != "" {
		cfg.NotifyCommand = command
	}

	if window := os.Getenv("CURSOR_NOTIFY_DEBOUNCE_WINDOW"); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return fmt.Errorf("invalid CURSOR_NOTIFY_DEBOUNCE_WINDOW: %w", err)
		}
		cfg.DebounceWindow = Duration(d)
	}

	if timeout := os.Getenv("CURSOR_NOTIFY_READ_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid CURSOR_NOTIFY_READ_TIMEOUT: %w", err)
		}
		cfg.ReadTimeout = Duration(d)
	}

	if quiet := os.Getenv("CURSOR_NOTIFY_QUIET"); quiet != "" {
		switch quiet {
		case "true", "1", "yes":
			cfg.Quiet = true
		case "false", "0", "no":
			cfg.Quiet = false
		default:
			return fmt.Errorf("invalid CURSOR_NOTIFY_QUIET value: %q (use true/false)", quiet)
		}
	}

	if agentPath := os.Getenv("CURSOR_NOTIFY_AGENT_PATH"); agentPath != "" {
		cfg.AgentPath = agentPath
	}

	if logFile := os.Getenv("CURSOR_NOTIFY_LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}

	if defaultArgs := os.Getenv("CURSOR_NOTIFY_DEFAULT_ARGS"); defaultArgs != "" {
		// Split by comma and trim whitespace
		args := strings.Split(defaultArgs, ",")
		var filteredArgs []string
		for _, arg := range args {
			if arg = strings.TrimSpace(arg); arg != "" {
				filteredArgs = append(filteredArgs, arg)
			}
		}
		cfg.DefaultAgentArgs = filteredArgs
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.NotifyCommand == "" && !cfg.Quiet {
		return fmt.Errorf("notify_command is required when not in quiet mode")
	}

	if cfg.DebounceWindow < 0 {
		return fmt.Errorf("debounce_window must be non-negative")
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	return nil
}
