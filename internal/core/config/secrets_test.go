package config

import (
	"encoding/base64"
	"strings"
	"testing"
)

const testSecretID = "0190a1b2c3d4e5f60718293a4b5c6d7e"

func testSecret(fill byte) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat(string(fill), 32)))
}

func TestHMACSecrets(t *testing.T) {
	t.Run("none configured", func(t *testing.T) {
		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 0 {
			t.Errorf("expected no secrets, got %d", len(secrets))
		}
	})

	t.Run("single and rotated", func(t *testing.T) {
		other := "0190a1b2c3d4e5f60718293a4b5c6d7f"
		t.Setenv("TK_HMAC_SECRET", testSecretID+":"+testSecret('a'))
		t.Setenv("TK_HMAC_SECRET_1", other+":"+testSecret('b'))

		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 2 {
			t.Fatalf("expected 2 secrets, got %d", len(secrets))
		}
		if string(secrets[other]) != strings.Repeat("b", 32) {
			t.Errorf("unexpected rotated secret %q", secrets[other])
		}
	})

	t.Run("duplicate secret id", func(t *testing.T) {
		t.Setenv("TK_HMAC_SECRET", testSecretID+":"+testSecret('a'))
		t.Setenv("TK_HMAC_SECRET_1", testSecretID+":"+testSecret('b'))

		_, err := HMACSecrets()
		if err == nil || !strings.Contains(err.Error(), "duplicate secret_id") {
			t.Errorf("expected duplicate error, got %v", err)
		}
	})
}

func TestParseHMACSecretWithID(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"missing separator", testSecretID, "format must be"},
		{"short id", "abc:" + testSecret('a'), "32 hex chars"},
		{"non-hex id", strings.Repeat("g", 32) + ":" + testSecret('a'), "hex chars only"},
		{"bad base64", testSecretID + ":***", "invalid base64"},
		{"short secret", testSecretID + ":" + base64.StdEncoding.EncodeToString([]byte("short")), "at least 32 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseHMACSecretWithID(tt.value)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	id, secret, err := ParseHMACSecretWithID(" " + testSecretID + ":" + testSecret('z') + "\n")
	if err != nil {
		t.Fatalf("ParseHMACSecretWithID failed: %v", err)
	}
	if id != testSecretID || len(secret) != 32 {
		t.Errorf("unexpected result %s / %d bytes", id, len(secret))
	}
}
