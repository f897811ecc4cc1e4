package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	// ServerURL is the base URL of the study-session server.
	ServerURL string `yaml:"server"`

	// Timeout bounds a single request. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`

	// DBPath overrides the journal location. Empty means the XDG default.
	DBPath string `yaml:"db"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// JournalKeep is how many journal entries survive the prune on startup.
	JournalKeep int `yaml:"journal_keep"`

	Duration DurationConfig `yaml:"duration"`
}

// DurationConfig bounds the session-length slider, in minutes.
type DurationConfig struct {
	Min  int `yaml:"min"`
	Max  int `yaml:"max"`
	Step int `yaml:"step"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServerURL:   "http://127.0.0.1:8000",
		Timeout:     30 * time.Second,
		LogLevel:    "info",
		JournalKeep: 5000,
		Duration: DurationConfig{
			Min:  10,
			Max:  180,
			Step: 5,
		},
	}
}

// DefaultPath resolves the config file path in priority order:
// 1. STUDYDECK_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/studydeck/config.yaml
// 3. ~/.config/studydeck/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("STUDYDECK_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "studydeck", "config.yaml"), nil
}

// Load builds a Config from defaults, the YAML file at path (a missing file
// is not an error) and STUDYDECK_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("STUDYDECK_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("STUDYDECK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STUDYDECK_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("STUDYDECK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STUDYDECK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("STUDYDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STUDYDECK_JOURNAL_KEEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STUDYDECK_JOURNAL_KEEP: %w", err)
		}
		cfg.JournalKeep = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server URL %q: %w", c.ServerURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server URL %q must be an absolute http(s) URL", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Duration.Step <= 0 {
		return fmt.Errorf("duration step must be positive, got %d", c.Duration.Step)
	}
	if c.Duration.Min <= 0 || c.Duration.Min > c.Duration.Max {
		return fmt.Errorf("duration bounds [%d, %d] are invalid", c.Duration.Min, c.Duration.Max)
	}
	if c.JournalKeep < 0 {
		return fmt.Errorf("journal_keep must not be negative, got %d", c.JournalKeep)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}

// DefaultLogFile resolves the log path next to the journal:
// $XDG_STATE_HOME/studydeck/studydeck.log or ~/.local/state/studydeck/studydeck.log.
func DefaultLogFile() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "studydeck", "studydeck.log"), nil
}
