package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SessionPath string // .hcl file or directory

	LogFormat string
	LogLevel  string

	Check   bool // validate only; invalid expressions fail the run
	Explain bool // print references and functions per equation

	HubURL       string
	HubNamespace string

	CacheTTL time.Duration
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SessionPath == "" {
		return nil, errors.New("SessionPath is a required configuration field and cannot be empty")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	if cfg.CacheTTL < 0 {
		return nil, errors.New("CacheTTL cannot be negative")
	}
	if cfg.HubNamespace != "" && cfg.HubURL == "" {
		return nil, errors.New("HubNamespace requires HubURL")
	}

	return &cfg, nil
}
