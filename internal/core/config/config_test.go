package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("", nil)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.ConditionAPI.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.ConditionAPI.Host)
		}
		if cfg.ConditionAPI.Port != 50061 {
			t.Errorf("expected port 50061, got %d", cfg.ConditionAPI.Port)
		}
		if cfg.ConditionAPI.RequestTimeout != 10*time.Second {
			t.Errorf("expected timeout 10s, got %v", cfg.ConditionAPI.RequestTimeout)
		}
		if cfg.ConditionAPI.MaxExpressionLength != 65536 {
			t.Errorf("expected max_expression_length 65536, got %d", cfg.ConditionAPI.MaxExpressionLength)
		}
		if cfg.Database.URL != "" {
			t.Errorf("expected empty database url, got %s", cfg.Database.URL)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("expected info/json logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
		}
		if got := cfg.ConditionAPI.Address(); got != "0.0.0.0:50061" {
			t.Errorf("expected address 0.0.0.0:50061, got %s", got)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv("TK_CONDITION_API_PORT", "9999")
		t.Setenv("TK_CONDITION_API_HOST", "127.0.0.1")
		t.Setenv("TK_DATABASE_URL", "postgres://tk:secret@db/tagkeeper")

		cfg, err := LoadConfig("", nil)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.ConditionAPI.Port != 9999 {
			t.Errorf("expected port 9999, got %d", cfg.ConditionAPI.Port)
		}
		if cfg.ConditionAPI.Host != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", cfg.ConditionAPI.Host)
		}
		if cfg.Database.URL != "postgres://tk:secret@db/tagkeeper" {
			t.Errorf("expected database url from environment, got %s", cfg.Database.URL)
		}
	})

	t.Run("config file", func(t *testing.T) {
		path := writeConfig(t, `condition_api:
  port: 7000
  request_timeout: 2s
database:
  url: sqlite:///var/lib/tagkeeper/tags.db
catalog:
  file: /etc/tagkeeper/catalog.yaml
log:
  level: debug
  format: text
`)
		cfg, err := LoadConfig(path, nil)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.ConditionAPI.Port != 7000 || cfg.ConditionAPI.RequestTimeout != 2*time.Second {
			t.Errorf("expected port 7000 and 2s timeout, got %d and %v", cfg.ConditionAPI.Port, cfg.ConditionAPI.RequestTimeout)
		}
		if cfg.Database.URL != "sqlite:///var/lib/tagkeeper/tags.db" {
			t.Errorf("unexpected database url: %s", cfg.Database.URL)
		}
		if cfg.Catalog.File != "/etc/tagkeeper/catalog.yaml" {
			t.Errorf("unexpected catalog file: %s", cfg.Catalog.File)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
			t.Errorf("expected debug/text logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
		if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
			t.Errorf("expected read error, got %v", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			env, value string
		}{
			{"TK_CONDITION_API_PORT", "70000"},
			{"TK_CONDITION_API_PORT", "0"},
			{"TK_CONDITION_API_REQUEST_TIMEOUT", "-1s"},
			{"TK_CONDITION_API_MAX_EXPRESSION_LENGTH", "0"},
			{"TK_CONDITION_API_MAX_EXPRESSION_LENGTH", "70000"},
			{"TK_LOG_LEVEL", "verbose"},
			{"TK_LOG_FORMAT", "xml"},
		}
		for _, tt := range tests {
			t.Run(tt.env+"="+tt.value, func(t *testing.T) {
				t.Setenv(tt.env, tt.value)
				if _, err := LoadConfig("", nil); err == nil {
					t.Errorf("expected error for %s=%s", tt.env, tt.value)
				}
			})
		}
	})
}

func TestLoadConfig_Flags(t *testing.T) {
	t.Setenv("TK_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db-url", "", "")
	flags.String("log-level", "", "")
	flags.String("log-format", "", "")
	flags.String("unrelated", "", "")
	if err := flags.Parse([]string{"--db-url", "sqlite://:memory:", "--log-level", "debug"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("", flags)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.URL != "sqlite://:memory:" {
		t.Errorf("expected database url from flag, got %s", cfg.Database.URL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected flag to override environment, got level %s", cfg.Log.Level)
	}
	// Unset flag leaves the default in place.
	if cfg.Log.Format != "json" {
		t.Errorf("expected default log format json, got %s", cfg.Log.Format)
	}
}
