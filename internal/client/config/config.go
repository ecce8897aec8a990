package config

import (
	"os"
	"time"
)

// Environment variables read by LoadConfig.
const (
	EnvServer = "LINKFEED_SERVER"
	EnvToken  = "LINKFEED_TOKEN"
)

// Config holds runtime settings for the linkfeed CLI.
type Config struct {
	ServerURL      string
	Token          string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Token = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config from defaults, JSON, environment and flags,
// later sources taking precedence.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseEnv(cfg *Config) {
	if v := os.Getenv(EnvServer); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
}
