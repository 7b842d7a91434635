// Package config loads the coin configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Config holds all configuration for coin.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Prices  PricesConfig  `toml:"prices"`
	Report  ReportConfig  `toml:"report"`
	Logging LoggingConfig `toml:"logging"`
	Server  ServerConfig  `toml:"server"`
}

// StorageConfig selects the transaction repository.
type StorageConfig struct {
	Driver string `toml:"driver"` // jsonl, sqlite or memory
	Path   string `toml:"path"`
}

// PricesConfig points to the YAML price file.
type PricesConfig struct {
	File string `toml:"file"`
}

// ReportConfig controls how reports are displayed.
type ReportConfig struct {
	Currency string `toml:"currency"` // ISO code, formatting only
	Order    string `toml:"order"`    // value or asset
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Refresh string `toml:"refresh"` // period of the websocket push, e.g. "30s"
}

// RefreshInterval parses Refresh, with a 30s fallback.
func (c ServerConfig) RefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Refresh)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Drivers
const (
	DriverJSONL  = "jsonl"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Driver: DriverJSONL, Path: "transactions.jsonl"},
		Prices:  PricesConfig{File: "prices.yaml"},
		Report:  ReportConfig{Currency: "USD", Order: "value"},
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":8080", Refresh: "30s"},
	}
}

// Load reads the configuration files in order, later files overriding
// earlier ones. Missing files are skipped. Environment variables are applied
// last.
func Load(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COIN_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("COIN_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("COIN_PRICES"); v != "" {
		cfg.Prices.File = v
	}
	if v := os.Getenv("COIN_CURRENCY"); v != "" {
		cfg.Report.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("COIN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COIN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSONL, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Report.Order {
	case "", "value", "asset":
	default:
		return fmt.Errorf("unknown report.order %q", c.Report.Order)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	return nil
}
