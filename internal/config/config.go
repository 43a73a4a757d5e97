// Package config loads sourcegen settings from .env, an optional YAML
// file and SOURCEGEN_-prefixed environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
)

const envPrefix = "SOURCEGEN"

const (
	defaultUserAgent   = "sourcegen/1.0 (+https://github.com/jonesrussell/sourcegen; site onboarding checks)"
	defaultHTTPTimeout = 10 * time.Second

	defaultLoadTimeout = 10 * time.Second
	defaultSettleWait  = 3 * time.Second

	defaultCacheTTL  = time.Hour
	defaultCacheSize = 256

	defaultRedisAddress = "localhost:6379"

	defaultOutputDir = "generated"
	defaultWorkers   = 4
	minWorkers       = 1
	maxWorkers       = 8
)

type Config struct {
	Debug      bool             `mapstructure:"debug"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Browser    BrowserConfig    `mapstructure:"browser"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Generation GenerationConfig `mapstructure:"generation"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// HTTPConfig covers the pipeline's own probing requests, not the traffic
// of generated scrapers.
type HTTPConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type BrowserConfig struct {
	// Enabled false analyzes with the plain HTTP loader only.
	Enabled bool `mapstructure:"enabled"`
	// RemoteURL points at an already-running Chrome's DevTools WebSocket.
	// Empty launches a local headless instance on demand.
	RemoteURL   string        `mapstructure:"remote_url"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
	SettleWait  time.Duration `mapstructure:"settle_wait"`
}

// CacheConfig bounds the per-domain compliance and structure caches.
type CacheConfig struct {
	TTL  time.Duration `mapstructure:"ttl"`
	Size int           `mapstructure:"size"`
}

type DatabaseConfig struct {
	// Path of the SQLite record store. Empty keeps history in memory.
	Path string `mapstructure:"path"`
}

// RedisConfig holds the event stream connection. Publishing is off unless
// Enabled is set.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GenerationConfig struct {
	OutputDir         string `mapstructure:"output_dir"`
	Workers           int    `mapstructure:"workers"`
	Language          string `mapstructure:"language"`
	Country           string `mapstructure:"country"`
	MaxArticles       int    `mapstructure:"max_articles"`
	CrawlDelaySeconds int    `mapstructure:"crawl_delay_seconds"`
}

// Load reads configuration. An explicit path must exist; otherwise
// ./config.yaml and ./config/config.yaml are tried and silently skipped
// when absent.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so env overrides bind even without a
// config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("logger.level", "info")

	v.SetDefault("http.user_agent", defaultUserAgent)
	v.SetDefault("http.timeout", defaultHTTPTimeout)

	v.SetDefault("browser.enabled", true)
	v.SetDefault("browser.remote_url", "")
	v.SetDefault("browser.load_timeout", defaultLoadTimeout)
	v.SetDefault("browser.settle_wait", defaultSettleWait)

	v.SetDefault("cache.ttl", defaultCacheTTL)
	v.SetDefault("cache.size", defaultCacheSize)

	v.SetDefault("database.path", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", defaultRedisAddress)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("generation.output_dir", defaultOutputDir)
	v.SetDefault("generation.workers", defaultWorkers)
	v.SetDefault("generation.language", models.DefaultLanguage)
	v.SetDefault("generation.country", models.DefaultCountry)
	v.SetDefault("generation.max_articles", models.DefaultMaxArticles)
	v.SetDefault("generation.crawl_delay_seconds", models.DefaultCrawlDelaySeconds)
}

func (c *Config) Validate() error {
	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logger.level must be debug, info, warn or error, got %q", c.Logger.Level)
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.Browser.LoadTimeout <= 0 {
		return errors.New("browser.load_timeout must be positive")
	}
	if c.Cache.Size <= 0 {
		return errors.New("cache.size must be positive")
	}
	if c.Generation.Workers < minWorkers || c.Generation.Workers > maxWorkers {
		return fmt.Errorf("generation.workers must be between %d and %d, got %d", minWorkers, maxWorkers, c.Generation.Workers)
	}
	if c.Generation.MaxArticles <= 0 {
		return errors.New("generation.max_articles must be positive")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis.enabled is set")
	}
	return nil
}

// LoggerOptions maps the config onto the house logger.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Debug: c.Debug, Level: c.Logger.Level}
}

// Options returns the generation options this config asks for.
func (c *Config) Options() models.Options {
	return models.Options{
		Language:          c.Generation.Language,
		Country:           c.Generation.Country,
		MaxArticles:       c.Generation.MaxArticles,
		CrawlDelaySeconds: c.Generation.CrawlDelaySeconds,
	}.WithDefaults()
}
