package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Session   SessionConfig   `yaml:"session"`
	Worksheet WorksheetConfig `yaml:"worksheet"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type SessionConfig struct {
	IdleTimeoutMs  int `yaml:"idle_timeout_ms"`
	ReapIntervalMs int `yaml:"reap_interval_ms"`
	MaxSessions    int `yaml:"max_sessions"`
}

type WorksheetConfig struct {
	SeedDefaults    bool     `yaml:"seed_defaults"`
	DefaultOptions  []string `yaml:"default_options"`
	DefaultOutcomes []string `yaml:"default_outcomes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeoutMs) * time.Millisecond
}

func (c *Config) ReapInterval() time.Duration {
	return time.Duration(c.Session.ReapIntervalMs) * time.Millisecond
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Session: SessionConfig{
			IdleTimeoutMs:  1800000,
			ReapIntervalMs: 60000,
			MaxSessions:    1000,
		},
		Worksheet: WorksheetConfig{
			SeedDefaults:    true,
			DefaultOptions:  []string{"Surgery", "Chemotherapy A", "Chemotherapy B"},
			DefaultOutcomes: []string{"Prolonged survival", "Severe nausea", "Hospital stay length"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Session.IdleTimeoutMs <= 0 {
		return fmt.Errorf("session.idle_timeout_ms must be positive, got %d", c.Session.IdleTimeoutMs)
	}
	if c.Session.ReapIntervalMs <= 0 {
		return fmt.Errorf("session.reap_interval_ms must be positive, got %d", c.Session.ReapIntervalMs)
	}
	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("session.max_sessions must be positive, got %d", c.Session.MaxSessions)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OOVL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("OOVL_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("OOVL_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("OOVL_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("OOVL_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("OOVL_SESSION_IDLE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.IdleTimeoutMs = n
		}
	}
	if v := os.Getenv("OOVL_SESSION_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.MaxSessions = n
		}
	}
	if v := os.Getenv("OOVL_SEED_DEFAULTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Worksheet.SeedDefaults = b
		}
	}
	if v := os.Getenv("OOVL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("OOVL_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
}
