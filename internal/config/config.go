// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Angeloac12/siigo-cotizador/internal/database"
)

// Config holds all configuration for the quoting service.
type Config struct {
	Service  ServiceConfig   `yaml:"service"`
	Database database.Config `yaml:"database"`
	Redis    RedisConfig     `yaml:"redis"`
	Auth     AuthConfig      `yaml:"auth"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Port            int           `yaml:"port"`
	Debug           bool          `yaml:"debug"`
	MaxItems        int           `yaml:"max_items"`
	MatchLimit      int           `yaml:"match_limit"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// AuthConfig holds API authentication configuration.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads configuration from a YAML file, then applies environment
// variable overrides and defaults. A missing file is not an error; env vars
// and defaults still apply. A .env file is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envString(&cfg.Service.Name, "SERVICE_NAME")
	envInt(&cfg.Service.Port, "SERVICE_PORT")
	envBool(&cfg.Service.Debug, "SERVICE_DEBUG")

	envString(&cfg.Database.Host, "DB_HOST")
	envString(&cfg.Database.Port, "DB_PORT")
	envString(&cfg.Database.User, "DB_USER")
	envString(&cfg.Database.Password, "DB_PASSWORD")
	envString(&cfg.Database.DBName, "DB_NAME")
	envString(&cfg.Database.SSLMode, "DB_SSLMODE")

	envString(&cfg.Redis.Addr, "REDIS_ADDR")
	envString(&cfg.Redis.Password, "REDIS_PASSWORD")
	envInt(&cfg.Redis.DB, "REDIS_DB")

	envString(&cfg.Auth.APIKey, "API_KEY")

	envString(&cfg.Logging.Level, "LOG_LEVEL")
	envBool(&cfg.Logging.Development, "LOG_DEVELOPMENT")
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "cotizador"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8090
	}
	if cfg.Service.MaxItems == 0 {
		cfg.Service.MaxItems = 200
	}
	if cfg.Service.MatchLimit == 0 {
		cfg.Service.MatchLimit = 5
	}
	if cfg.Service.ShutdownTimeout == 0 {
		cfg.Service.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "cotizador"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 24 * time.Hour
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("service port out of range: %d", c.Service.Port)
	}
	if c.Service.MaxItems < 1 {
		return fmt.Errorf("max_items must be positive: %d", c.Service.MaxItems)
	}
	if c.Service.MatchLimit < 1 {
		return fmt.Errorf("match_limit must be positive: %d", c.Service.MatchLimit)
	}
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
