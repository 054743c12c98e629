package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 2333
	defaultEnv      = "development"
	defaultPageSize = 20
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int        `yaml:"port"`
	DSN            string     `yaml:"dsn"` // MySQL DSN
	RedisURL       string     `yaml:"redis_url"`
	Env            string     `yaml:"env"` // "development" | "production"
	AllowedOrigins []string   `yaml:"allowed_origins"`
	JWTSecret      string     `yaml:"jwt_secret"`
	SessionSecret  string     `yaml:"session_secret"`
	Feed           FeedConfig `yaml:"feed"`
}

// FeedConfig tunes the comment feed subsystem.
type FeedConfig struct {
	PageSize       int      `yaml:"page_size"`       // first-page and backfill size
	MaxContentLen  int      `yaml:"max_content_len"` // hard cap on comment length
	SensitiveWords []string `yaml:"sensitive_words"` // overrides the built-in list when set
	Disabled       bool     `yaml:"disabled"`        // kill switch for all feed writes
}

// Load reads and validates the YAML config file at path.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("config: dsn is required")
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, fmt.Errorf("config: redis_url is required")
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
	if c.Feed.PageSize <= 0 {
		c.Feed.PageSize = defaultPageSize
	}
	if c.Feed.MaxContentLen <= 0 {
		c.Feed.MaxContentLen = 1000
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}
