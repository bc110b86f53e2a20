// Package config loads klaboard settings from config.yaml and KLABOARD_* env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the configuration directory name.
	AppName = "klaboard"

	// FileName is the config file inside Dir.
	FileName = "config.yaml"
)

// Config is the full configuration. Dir is where it was (or would be) read from.
type Config struct {
	API   API   `yaml:"api"`
	Store Store `yaml:"store"`
	UI    UI    `yaml:"ui"`
	Log   Log   `yaml:"log"`

	Dir string `yaml:"-"`
}

// API describes the remote to-do resource.
type API struct {
	BaseURL   string        `yaml:"base_url" env:"KLABOARD_API_URL" env-description:"to-do API base URL"`
	Limit     int           `yaml:"limit" env:"KLABOARD_API_LIMIT" env-description:"todos fetched per list (0 omits the limit)"`
	Timeout   time.Duration `yaml:"timeout" env:"KLABOARD_API_TIMEOUT" env-description:"per-request timeout (0 disables)"`
	RateLimit float64       `yaml:"rate_limit" env:"KLABOARD_API_RATE_LIMIT" env-description:"requests per second (0 is unlimited)"`
	Burst     int           `yaml:"burst" env:"KLABOARD_API_BURST" env-description:"request burst size"`
}

// Store tunes the task cache.
type Store struct {
	UserID               int  `yaml:"user_id" env:"KLABOARD_USER_ID" env-description:"owner id sent with new todos"`
	RefreshAfterMutation bool `yaml:"refresh_after_mutation" env:"KLABOARD_REFRESH_AFTER_MUTATION" env-description:"refetch after every create, update or delete"`
}

// UI holds presentation defaults.
type UI struct {
	DefaultView string `yaml:"default_view" env:"KLABOARD_VIEW" env-description:"board, list or timeline"`
}

// Log configures the diagnostic logger. An empty File discards logs.
type Log struct {
	Level string `yaml:"level" env:"KLABOARD_LOG_LEVEL" env-description:"debug, info, warn or error"`
	File  string `yaml:"file" env:"KLABOARD_LOG_FILE" env-description:"log file path (empty discards logs)"`
}

// Views are the accepted ui.default_view values.
var Views = []string{"board", "list", "timeline"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: API{
			BaseURL:   "https://dummyjson.com",
			Limit:     30,
			Timeout:   10 * time.Second,
			RateLimit: 5,
			Burst:     5,
		},
		Store: Store{UserID: 1, RefreshAfterMutation: true},
		UI:    UI{DefaultView: "board"},
		Log:   Log{Level: "info"},
		Dir:   DefaultDir(),
	}
}

// DefaultDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path is the config file location.
func (c *Config) Path() string { return filepath.Join(c.Dir, FileName) }

// Load starts from Default, overlays dir/config.yaml when present, then
// KLABOARD_* env vars. An empty dir means DefaultDir.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	cfg := Default()
	cfg.Dir = dir
	path := cfg.Path()

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	case errors.Is(statErr, os.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	default:
		return nil, fmt.Errorf("stat %s: %w", path, statErr)
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnvHelp lists the supported environment variables.
func EnvHelp() (string, error) {
	header := "Environment variables:"
	cfg := Default()
	return cleanenv.GetDescription(&cfg, &header)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Limit < 0 {
		return fmt.Errorf("api.limit must be >= 0, got %d", c.API.Limit)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0, got %s", c.API.Timeout)
	}
	if c.Store.UserID < 1 {
		return fmt.Errorf("store.user_id must be >= 1, got %d", c.Store.UserID)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0, got %v", c.API.RateLimit)
	}
	if !validView(c.UI.DefaultView) {
		return fmt.Errorf("ui.default_view must be one of %s, got %q", strings.Join(Views, ", "), c.UI.DefaultView)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

func validView(v string) bool {
	for _, x := range Views {
		if x == v {
			return true
		}
	}
	return false
}

// EnsureDir creates the config directory with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}

// WriteDefault writes Default() as YAML to dir/config.yaml. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	cfg := Default()
	cfg.Dir = dir
	if err := cfg.EnsureDir(); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	path := cfg.Path()
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s already exists", path)
		}
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}
