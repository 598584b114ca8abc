package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"go.yaml.in/yaml/v4"

	"github.com/kirkegaard/tvtid-go/internal/infrastructure/cache"
)

// DefaultBaseURL is the public tvtid backend.
const DefaultBaseURL = "http://tvtid-backend.tv2.dk/tvtid-app-backend"

// DefaultChannels are the channel ids shown when none are requested explicitly.
var DefaultChannels = []string{
	"1", "3", "5", "2", "31", "133", "7", "6", "4", "10155", "10154", "10153", "8",
	"77", "156", "10093", "10066", "14", "10089", "12566", "10111", "70",
	"118", "153", "94", "12948", "145", "185", "157", "15", "71", "93", "15049",
	"219", "37", "248",
}

// Config represents the application configuration
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Cache    CacheConfig    `yaml:"cache"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Log      LogConfig      `yaml:"log"`
}

// BackendConfig contains tvtid backend connection settings
type BackendConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// CacheConfig contains response caching settings
type CacheConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Path           string        `yaml:"path"`
	ChannelsExpiry time.Duration `yaml:"channels_expiry"`
	ScheduleExpiry time.Duration `yaml:"schedule_expiry"`
}

// ScheduleConfig contains schedule lookup settings
type ScheduleConfig struct {
	// DefaultChannels are used by lineups when no channel is given.
	DefaultChannels []string `yaml:"default_channels"`
	// Timezone is an IANA zone name; empty means the local zone.
	Timezone string `yaml:"timezone"`
}

// MatcherConfig contains channel name matching settings
type MatcherConfig struct {
	// MinScore rejects best matches scoring below it. 0 accepts any best match.
	MinScore int `yaml:"min_score"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"` // megabytes
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
	StackTrace bool   `yaml:"stack_trace"`
}

// DefaultPath returns the per-user config file location, or "" when it cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tvtid", "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   10 * time.Second,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/56.0.2924.76 Safari/537.36",
		},
		Cache: CacheConfig{
			Enabled:        true,
			Path:           cache.DefaultPath(),
			ChannelsExpiry: 24 * time.Hour,
			ScheduleExpiry: 60 * time.Minute,
		},
		Schedule: ScheduleConfig{
			DefaultChannels: append([]string(nil), DefaultChannels...),
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := Default()

	// If config file exists, load it
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend base_url: %q", c.Backend.BaseURL)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("invalid backend timeout: %s", c.Backend.Timeout)
	}

	if c.Cache.ChannelsExpiry < 0 || c.Cache.ScheduleExpiry < 0 {
		return fmt.Errorf("cache expiry must not be negative")
	}

	if c.Cache.Enabled && c.Cache.Path == "" {
		c.Cache.Path = cache.DefaultPath()
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid schedule timezone %q: %w", c.Schedule.Timezone, err)
	}

	if c.Matcher.MinScore < 0 || c.Matcher.MinScore > 100 {
		return fmt.Errorf("invalid matcher min_score: %d (must be 0-100)", c.Matcher.MinScore)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}

	return nil
}

// Location resolves the configured schedule time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Schedule.Timezone)
}

// Save saves the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
