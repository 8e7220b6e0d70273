// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/brlaws/leiscache/internal/law"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig       `mapstructure:"server"`
	Fetch     FetchConfig        `mapstructure:"fetch"`
	Scheduler SchedulerConfig    `mapstructure:"scheduler"`
	DB        DBConfig           `mapstructure:"db"`
	Logging   LoggingConfig      `mapstructure:"logging"`
	Catalog   []law.CatalogEntry `mapstructure:"catalog"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// FetchConfig governs the upstream HTTP client and decoding.
type FetchConfig struct {
	UserAgent       string `mapstructure:"user_agent"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	MaxRetries      int    `mapstructure:"max_retries"`
	BackoffBaseSecs int    `mapstructure:"backoff_base_seconds"`
	Encoding        string `mapstructure:"encoding"`
}

// SchedulerConfig governs the refresh cycle cadence.
type SchedulerConfig struct {
	IntervalHours     int `mapstructure:"interval_hours"`
	EntryDelaySeconds int `mapstructure:"entry_delay_seconds"`
}

// DBConfig controls access to the local SQLite database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEISCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Catalog) == 0 {
		cfg.Catalog = law.DefaultCatalog()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.backoff_base_seconds", 2)
	v.SetDefault("fetch.encoding", "windows-1252")
	v.SetDefault("scheduler.interval_hours", 24)
	v.SetDefault("scheduler.entry_delay_seconds", 2)
	v.SetDefault("db.path", "leiscache.db")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must be >= 0")
	}
	if c.Fetch.Encoding == "" {
		return fmt.Errorf("fetch.encoding must be set")
	}
	if c.Scheduler.IntervalHours <= 0 {
		return fmt.Errorf("scheduler.interval_hours must be > 0")
	}
	if c.Scheduler.EntryDelaySeconds < 0 {
		return fmt.Errorf("scheduler.entry_delay_seconds must be >= 0")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path must be set")
	}
	for _, entry := range c.Catalog {
		if entry.LawType == "" || entry.URL == "" {
			return fmt.Errorf("catalog entries need law_type and url: %+v", entry)
		}
	}
	return nil
}

// FetchTimeout converts the fetch timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// RefreshInterval converts the scheduler interval config into a duration.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Scheduler.IntervalHours) * time.Hour
}

// EntryDelay converts the inter-entry pause config into a duration.
func (c Config) EntryDelay() time.Duration {
	return time.Duration(c.Scheduler.EntryDelaySeconds) * time.Second
}
