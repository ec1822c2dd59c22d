package auth

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testSecretID = "0190a1b2c3d4e5f60718293a4b5c6d7e"

var testSecret = []byte(strings.Repeat("s", 32))

// fakeKey is a stored api_keys row.
type fakeKey struct {
	id         string
	clientName string
	hash       []byte
	lastUsedAt sql.NullTime
	revokedAt  sql.NullTime
}

// fakeQueries implements Queries over an in-memory key list.
type fakeQueries struct {
	mu      sync.Mutex
	keys    []*fakeKey
	err     error
	updates int
}

func (f *fakeQueries) GetContext(ctx context.Context, name string, dest any, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if name != "get-api-key-by-hash" {
		return errors.New("unexpected query " + name)
	}
	hash := args[0].([]byte)
	for _, k := range f.keys {
		if bytes.Equal(k.hash, hash) {
			row := dest.(*apiKeyRow)
			row.APIKeyID = k.id
			row.ClientName = k.clientName
			row.LastUsedAt = k.lastUsedAt
			row.RevokedAt = k.revokedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeQueries) ExecContext(ctx context.Context, name string, args ...any) (sql.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "update-last-used" {
		f.updates++
	}
	return nil, nil
}

func issueKey(t *testing.T, q *fakeQueries, clientName string) (string, *fakeKey) {
	t.Helper()
	key, hash, err := GenerateAPIKey(testSecretID, testSecret)
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}
	k := &fakeKey{id: "key-" + clientName, clientName: clientName, hash: hash}
	q.keys = append(q.keys, k)
	return key, k
}

func TestParseAPIKey(t *testing.T) {
	random := strings.Repeat("ab", 32)
	valid := FormatAPIKey(testSecretID, random)

	secretID, data, err := ParseAPIKey(valid)
	if err != nil {
		t.Fatalf("ParseAPIKey(%q) failed: %v", valid, err)
	}
	if secretID != testSecretID || data != random {
		t.Errorf("unexpected components %s / %s", secretID, data)
	}

	invalid := []string{
		"",
		"tk-v1-" + testSecretID,
		"xx-v1-" + testSecretID + "-" + random,
		"tk-v2-" + testSecretID + "-" + random,
		"tk-v1-" + testSecretID[:31] + "-" + random,
		"tk-v1-" + testSecretID + "-" + random[:63],
		"tk-v1-" + strings.ToUpper(testSecretID) + "-" + random,
	}
	for _, key := range invalid {
		if _, _, err := ParseAPIKey(key); !errors.Is(err, ErrInvalidKeyFormat) {
			t.Errorf("ParseAPIKey(%q) = %v, want ErrInvalidKeyFormat", key, err)
		}
	}
}

func TestGenerateAPIKey(t *testing.T) {
	key1, hash1, err := GenerateAPIKey(testSecretID, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	key2, _, err := GenerateAPIKey(testSecretID, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if key1 == key2 {
		t.Error("expected distinct keys")
	}
	if _, _, err := ParseAPIKey(key1); err != nil {
		t.Errorf("generated key does not parse: %v", err)
	}
	if !bytes.Equal(hash1, ComputeHMAC(testSecret, key1)) {
		t.Error("hash does not match HMAC of key")
	}
	if _, _, err := GenerateAPIKey("short", testSecret); err == nil {
		t.Error("expected error for invalid secret id")
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	q := &fakeQueries{}
	a := NewAuthenticator(map[string][]byte{testSecretID: testSecret}, q)

	key, stored := issueKey(t, q, "segment-builder")

	t.Run("valid key", func(t *testing.T) {
		name, err := a.Authenticate(ctx, key)
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if name != "segment-builder" {
			t.Errorf("expected segment-builder, got %s", name)
		}
	})

	t.Run("unknown secret id", func(t *testing.T) {
		other := FormatAPIKey("ffffffffffffffffffffffffffffffff", strings.Repeat("0", 64))
		if _, err := a.Authenticate(ctx, other); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("expected ErrUnknownKey, got %v", err)
		}
	})

	t.Run("unregistered key", func(t *testing.T) {
		forged := FormatAPIKey(testSecretID, strings.Repeat("0", 64))
		if _, err := a.Authenticate(ctx, forged); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})

	t.Run("revoked key", func(t *testing.T) {
		stored.revokedAt = sql.NullTime{Time: time.Now(), Valid: true}
		defer func() { stored.revokedAt = sql.NullTime{} }()
		if _, err := a.Authenticate(ctx, key); !errors.Is(err, ErrKeyRevoked) {
			t.Errorf("expected ErrKeyRevoked, got %v", err)
		}
	})

	t.Run("database failure", func(t *testing.T) {
		q.err = errors.New("connection refused")
		defer func() { q.err = nil }()
		if _, err := a.Authenticate(ctx, key); !errors.Is(err, errDatabase) {
			t.Errorf("expected database error, got %v", err)
		}
	})
}

func TestShouldUpdateLastUsed(t *testing.T) {
	if !shouldUpdateLastUsed(sql.NullTime{}) {
		t.Error("never-used key should be updated")
	}
	if shouldUpdateLastUsed(sql.NullTime{Time: time.Now(), Valid: true}) {
		t.Error("recently used key should not be updated")
	}
	if !shouldUpdateLastUsed(sql.NullTime{Time: time.Now().Add(-2 * time.Minute), Valid: true}) {
		t.Error("stale key should be updated")
	}
}

func TestUnaryInterceptor(t *testing.T) {
	q := &fakeQueries{}
	a := NewAuthenticator(map[string][]byte{testSecretID: testSecret}, q)
	key, stored := issueKey(t, q, "reporting")
	interceptor := a.UnaryInterceptor()

	info := &grpc.UnaryServerInfo{FullMethod: "/tagkeeper.condition.v1.ConditionService/Parse"}
	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen = ClientNameFromContext(ctx)
		return "ok", nil
	}
	call := func(ctx context.Context, info *grpc.UnaryServerInfo) codes.Code {
		seen = ""
		_, err := interceptor(ctx, nil, info, handler)
		return status.Code(err)
	}
	withKey := func(k string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-api-key", k))
	}

	if code := call(withKey(key), info); code != codes.OK || seen != "reporting" {
		t.Errorf("valid key: code %v, client %q", code, seen)
	}
	if code := call(context.Background(), info); code != codes.Unauthenticated {
		t.Errorf("no metadata: expected Unauthenticated, got %v", code)
	}
	if code := call(metadata.NewIncomingContext(context.Background(), metadata.MD{}), info); code != codes.Unauthenticated {
		t.Errorf("no key: expected Unauthenticated, got %v", code)
	}
	if code := call(withKey("garbage"), info); code != codes.Unauthenticated {
		t.Errorf("malformed key: expected Unauthenticated, got %v", code)
	}

	stored.revokedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if code := call(withKey(key), info); code != codes.PermissionDenied {
		t.Errorf("revoked key: expected PermissionDenied, got %v", code)
	}
	stored.revokedAt = sql.NullTime{}

	q.err = errors.New("connection refused")
	if code := call(withKey(key), info); code != codes.Unavailable {
		t.Errorf("database down: expected Unavailable, got %v", code)
	}
	q.err = nil

	health := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	if code := call(context.Background(), health); code != codes.OK {
		t.Errorf("health check: expected OK without key, got %v", code)
	}

	if q.updates == 0 {
		t.Error("expected last_used_at update for first use")
	}
}

func TestWithAPIKey(t *testing.T) {
	ctx := WithAPIKey(context.Background(), "tk-v1-abc")
	md, ok := metadata.FromOutgoingContext(ctx)
	if !ok || len(md.Get("x-api-key")) != 1 || md.Get("x-api-key")[0] != "tk-v1-abc" {
		t.Errorf("unexpected outgoing metadata %v", md)
	}
	if ClientNameFromContext(context.Background()) != "" {
		t.Error("expected empty client name")
	}
}
