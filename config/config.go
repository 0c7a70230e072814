package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/2492dfd/stockLog-final/logger"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Logging logger.Config `yaml:"logging"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Language string         `yaml:"language"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

type DatabaseConfig struct {
	Type            string        `yaml:"type"` // postgres, mysql, sqlite
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	DSN             string        `yaml:"dsn"` // overrides the fields above when set
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	LogLevel        string        `yaml:"log_level"` // silent, error, warn, info
}

type IngestConfig struct {
	BatchSize   int `yaml:"batch_size"`
	FileWorkers int `yaml:"file_workers"`
}

type PricingConfig struct {
	Providers     []string      `yaml:"providers"` // yahoo, naver, sheet
	SheetURL      string        `yaml:"sheet_url"`
	Timeout       time.Duration `yaml:"timeout"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	RedisAddr     string        `yaml:"redis_addr"` // empty keeps the cache in memory
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst"`
}

type AnalysisConfig struct {
	Provider string        `yaml:"provider"` // gemini or noop
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Database.Type == "" {
		c.Database.Type = "postgres"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "stocklog"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 25
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "silent"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Language == "" {
		c.Language = "ko-KR"
	}
	if c.Ingest.BatchSize == 0 {
		c.Ingest.BatchSize = 500
	}
	if c.Ingest.FileWorkers == 0 {
		c.Ingest.FileWorkers = 4
	}
	if len(c.Pricing.Providers) == 0 {
		c.Pricing.Providers = []string{"yahoo"}
	}
	if c.Pricing.Timeout == 0 {
		c.Pricing.Timeout = 8 * time.Second
	}
	if c.Pricing.CacheTTL == 0 {
		c.Pricing.CacheTTL = 60 * time.Second
	}
	if c.Pricing.RatePerSecond == 0 {
		c.Pricing.RatePerSecond = 5
	}
	if c.Pricing.RateBurst == 0 {
		c.Pricing.RateBurst = 5
	}
	if c.Analysis.Provider == "" {
		c.Analysis.Provider = "noop"
	}
	if c.Analysis.Model == "" {
		c.Analysis.Model = "gemini-1.5-flash"
	}
	if c.Analysis.Timeout == 0 {
		c.Analysis.Timeout = 30 * time.Second
	}
}

// applyEnv lets the environment override the file, the same keys the
// deployment scripts already export.
func (c *Config) applyEnv() {
	c.Database.Type = getEnv("DB_TYPE", c.Database.Type)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	c.Tracing.Enabled = getEnv("LOG_TRACING_ENABLED", strconv.FormatBool(c.Tracing.Enabled)) == "true"
	c.Pricing.RedisAddr = getEnv("REDIS_ADDR", c.Pricing.RedisAddr)
	c.Pricing.RedisPassword = getEnv("REDIS_PASSWORD", c.Pricing.RedisPassword)
	c.Pricing.SheetURL = getEnv("PRICE_SHEET_URL", c.Pricing.SheetURL)
	c.Analysis.APIKey = getEnv("GEMINI_API_KEY", c.Analysis.APIKey)
	c.Ingest.BatchSize = getEnvInt("BATCH_SIZE", c.Ingest.BatchSize)
	c.Ingest.FileWorkers = getEnvInt("FILE_WORKERS", c.Ingest.FileWorkers)
}

func (c *Config) Validate() error {
	switch c.Database.Type {
	case "postgres", "postgresql", "mysql", "sqlite":
	default:
		return fmt.Errorf("invalid database.type '%s': must be postgres, mysql or sqlite", c.Database.Type)
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("ingest.batch_size must be positive, got %d", c.Ingest.BatchSize)
	}
	if c.Ingest.FileWorkers <= 0 {
		return fmt.Errorf("ingest.file_workers must be positive, got %d", c.Ingest.FileWorkers)
	}
	for _, p := range c.Pricing.Providers {
		switch p {
		case "yahoo", "naver":
		case "sheet":
			if c.Pricing.SheetURL == "" {
				return errors.New("pricing.sheet_url is required for the sheet provider")
			}
		default:
			return fmt.Errorf("unknown pricing provider '%s'", p)
		}
	}
	if c.Analysis.Provider == "gemini" && c.Analysis.APIKey == "" {
		return errors.New("analysis.api_key (or GEMINI_API_KEY) is required for the gemini provider")
	}
	return nil
}

// Load reads .env (if present), then the YAML file at path (optional), then
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	c.applyDefaults()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}
