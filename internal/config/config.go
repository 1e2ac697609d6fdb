// Package config handles the XDG configuration directory, environment
// settings and the logger.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "mytodo"

	// SessionFile is the stored session cookie filename.
	SessionFile = "session.json"

	// EnvFile is the optional dotenv file read from the config directory.
	EnvFile = ".env"

	// DefaultServerURL is used when no server is configured.
	DefaultServerURL = "http://localhost:5000"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second
)

// Environment variables.
const (
	EnvServer   = "MYTODO_SERVER"
	EnvToken    = "MYTODO_TOKEN"
	EnvTimeout  = "MYTODO_TIMEOUT"
	EnvPassword = "MYTODO_PASSWORD"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// ServerURL is the base URL of the to-do server.
	ServerURL string

	// Token is an optional bearer token sent with every request.
	Token string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	logger *slog.Logger
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/mytodo or $HOME/.config/mytodo.
// Settings come from the environment, after loading .env files from the
// config directory and the working directory. Variables already set in the
// environment win.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	for _, path := range []string{filepath.Join(dir, EnvFile), EnvFile} {
		if err := loadEnvFile(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Dir:       dir,
		ServerURL: DefaultServerURL,
		Token:     os.Getenv(EnvToken),
		Timeout:   DefaultTimeout,
	}
	if server := strings.TrimSpace(os.Getenv(EnvServer)); server != "" {
		cfg.ServerURL = server
	}
	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", EnvTimeout, raw)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// loadEnvFile loads a dotenv file if it exists.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session cookie file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file. A missing file is not an error.
func (c *Config) RemoveSession() error {
	err := os.Remove(c.SessionPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SetLogOutput builds the logger writing to w.
// Debug mode logs everything; otherwise only errors are shown.
func (c *Config) SetLogOutput(w io.Writer) {
	level := slog.LevelError
	if c.Debug {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Logger returns the configured logger, or one that discards everything
// when SetLogOutput was never called.
func (c *Config) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}
