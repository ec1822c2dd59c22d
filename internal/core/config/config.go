// Package config provides configuration management for tagkeeper services.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/solatis/tagkeeper/internal/types"
)

// Config is the full service configuration.
type Config struct {
	ConditionAPI ConditionAPIConfig
	Database     DatabaseConfig
	Catalog      CatalogConfig
	Log          LogConfig
}

// ConditionAPIConfig holds configuration for the gRPC condition API service.
type ConditionAPIConfig struct {
	Host                string
	Port                int
	RequestTimeout      time.Duration
	MaxExpressionLength int
}

// Address returns host:port for net.Listen.
func (c ConditionAPIConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig selects the expression and tag store.
// URL is sqlite://path or postgres://...; empty disables persistence.
type DatabaseConfig struct {
	URL string
}

// CatalogConfig names an optional YAML tag catalog seed file.
type CatalogConfig struct {
	File string
}

// LogConfig selects logger level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		ConditionAPI: ConditionAPIConfig{
			Host:                "0.0.0.0",
			Port:                50061,
			RequestTimeout:      10 * time.Second,
			MaxExpressionLength: types.MaxExpressionLength,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// validateConfig checks port range, timeout, expression limit and log settings.
func validateConfig(cfg *Config) error {
	api := cfg.ConditionAPI
	if api.Port <= 0 || api.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", api.Port)
	}
	if api.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", api.RequestTimeout)
	}
	if api.MaxExpressionLength <= 0 || api.MaxExpressionLength > types.MaxExpressionLength {
		return fmt.Errorf("max_expression_length must be between 1 and %d, got %d", types.MaxExpressionLength, api.MaxExpressionLength)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.Log.Format)
	}
	return nil
}

// hasPassword reports whether a database URL embeds a password.
func hasPassword(dbURL string) bool {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}
