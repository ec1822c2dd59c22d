package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"db-url":     "database.url",
	"catalog":    "catalog.file",
	"log-level":  "log.level",
	"log-format": "log.format",
	"host":       "condition_api.host",
	"port":       "condition_api.port",
}

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence. flags may be
// nil; only flags named in flagKeys and present in the set are bound.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	def := DefaultConfig()
	v.SetDefault("condition_api.host", def.ConditionAPI.Host)
	v.SetDefault("condition_api.port", def.ConditionAPI.Port)
	v.SetDefault("condition_api.request_timeout", def.ConditionAPI.RequestTimeout.String())
	v.SetDefault("condition_api.max_expression_length", def.ConditionAPI.MaxExpressionLength)
	v.SetDefault("database.url", "")
	v.SetDefault("catalog.file", "")
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Checked before the environment is bound so only file values are seen.
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	// Bind environment variables with TK_ prefix
	v.SetEnvPrefix("TK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{
		ConditionAPI: ConditionAPIConfig{
			Host:                v.GetString("condition_api.host"),
			Port:                v.GetInt("condition_api.port"),
			RequestTimeout:      v.GetDuration("condition_api.request_timeout"),
			MaxExpressionLength: v.GetInt("condition_api.max_expression_length"),
		},
		Database: DatabaseConfig{URL: v.GetString("database.url")},
		Catalog:  CatalogConfig{File: v.GetString("catalog.file")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateNoSecretsInConfig enforces environment-only database credentials.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("database.password") {
		return fmt.Errorf("database passwords not allowed in config files (use TK_DATABASE_URL environment variable)")
	}
	if hasPassword(v.GetString("database.url")) {
		return fmt.Errorf("database passwords not allowed in config files (use TK_DATABASE_URL environment variable)")
	}
	return nil
}
