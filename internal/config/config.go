// Package config loads chantier settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/chantier/internal/logging"
)

// RedisConfig enables the cross-process project lock when Addr is set.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	LockTTLMs int    `yaml:"lock_ttl_ms"`
}

// AMQPConfig enables alert publishing when URL is set.
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	DBPath      string      `yaml:"db_path"`
	CatalogPath string      `yaml:"catalog_path"`
	MetricsFile string      `yaml:"metrics_file"`
	Log         LogConfig   `yaml:"log"`
	Redis       RedisConfig `yaml:"redis"`
	AMQP        AMQPConfig  `yaml:"amqp"`
}

// DefaultConfig returns settings for a single-user install under ~/.chantier.
// Redis and AMQP are disabled by default.
func DefaultConfig() Config {
	return Config{
		DBPath: filepath.Join(homeDir(), ".chantier", "chantier.db"),
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Redis: RedisConfig{LockTTLMs: 30000},
		AMQP:  AMQPConfig{Exchange: "chantier.events"},
	}
}

// DefaultPath returns CHANTIER_CONFIG or ~/.chantier/config.yaml.
func DefaultPath() string {
	if v := os.Getenv("CHANTIER_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".chantier", "config.yaml")
}

// Load reads path when it exists, then applies CHANTIER_* environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CHANTIER_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CHANTIER_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("CHANTIER_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	if v := os.Getenv("CHANTIER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CHANTIER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CHANTIER_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("CHANTIER_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if err := envInt("CHANTIER_REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}
	if err := envInt("CHANTIER_LOCK_TTL_MS", &cfg.Redis.LockTTLMs); err != nil {
		return err
	}
	if v := os.Getenv("CHANTIER_AMQP_URL"); v != "" {
		cfg.AMQP.URL = v
	}
	if v := os.Getenv("CHANTIER_AMQP_EXCHANGE"); v != "" {
		cfg.AMQP.Exchange = v
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", name, v)
	}
	*dst = n
	return nil
}

// Validate rejects settings the rest of the program cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.Redis.LockTTLMs <= 0 {
		errs = append(errs, fmt.Errorf("redis.lock_ttl_ms must be > 0, got %d", c.Redis.LockTTLMs))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB))
	}
	return errors.Join(errs...)
}

// LockTTL returns the Redis lock expiry.
func (c Config) LockTTL() time.Duration {
	return time.Duration(c.Redis.LockTTLMs) * time.Millisecond
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
