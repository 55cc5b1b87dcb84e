package config

import (
	"errors"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTPAddr string `koanf:"http_addr"`

	// DB
	Env    string `koanf:"env"`     // "dev" | "prod"
	DBPath string `koanf:"db_path"` // e.g. "./data/timekeep.db"

	// Comma-separated device names to treat as commissioned in dev.
	KnownDevices string `koanf:"known_devices"`

	// Device registry gateway (remote user directory)
	RegistryBaseURL   string `koanf:"registry_base_url"`
	RegistryTimeoutMS int    `koanf:"registry_timeout_ms"`

	// Session listing
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// Heartbeat retention
	HeartbeatRetentionDays int `koanf:"heartbeat_retention_days"` // 0 = keep forever
	PruneIntervalHours     int `koanf:"prune_interval_hours"`     // how often the pruner runs (default 6)
}

func defaults() Config {
	return Config{
		HTTPAddr:               ":8080",
		Env:                    "dev",
		DBPath:                 "./data/timekeep.db",
		RegistryTimeoutMS:      3000,
		DefaultPageSize:        10,
		MaxPageSize:            100,
		HeartbeatRetentionDays: 30,
		PruneIntervalHours:     6,
	}
}

// Load builds a Config by layering env vars (prefix TIMEKEEP_) over defaults.
// Env keys map to the koanf tags: TIMEKEEP_HTTP_ADDR -> http_addr, etc.
func Load() (Config, error) {
	cfg := defaults()

	k := koanf.New(".")
	envProvider := env.Provider("TIMEKEEP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "timekeep_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	// Normalize and validate.
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return Config{}, errors.New("http_addr must not be empty")
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	if cfg.RegistryTimeoutMS < 1 {
		cfg.RegistryTimeoutMS = 3000
	}
	if cfg.HeartbeatRetentionDays < 0 {
		cfg.HeartbeatRetentionDays = 0
	}
	if cfg.PruneIntervalHours < 1 {
		cfg.PruneIntervalHours = 6
	}

	return cfg, nil
}

// RegistryTimeout returns the gateway call budget as a duration.
func (c Config) RegistryTimeout() time.Duration {
	return time.Duration(c.RegistryTimeoutMS) * time.Millisecond
}

// KnownDeviceList splits the comma-separated KnownDevices value.
func (c Config) KnownDeviceList() []string {
	return splitCSV(c.KnownDevices)
}

func splitCSV(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
