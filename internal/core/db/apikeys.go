package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAPIKey records the HMAC hash of a newly issued key for clientName
// and returns the key's id. The key itself is never stored.
func (s *Store) CreateAPIKey(ctx context.Context, clientName string, keyHash []byte) (string, error) {
	if clientName == "" {
		return "", fmt.Errorf("client name is required")
	}
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.queries.ExecContext(ctx, "insert-api-key", id, clientName, keyHash, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to store api key: %w", err)
	}
	return id, nil
}

// RevokeAPIKey marks a key revoked. Revoking an unknown or already revoked
// key is an error.
func (s *Store) RevokeAPIKey(ctx context.Context, apiKeyID string) error {
	res, err := s.queries.ExecContext(ctx, "revoke-api-key", time.Now().UTC(), apiKeyID)
	if err != nil {
		return fmt.Errorf("failed to revoke api key %s: %w", apiKeyID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to revoke api key %s: %w", apiKeyID, err)
	}
	if n == 0 {
		return fmt.Errorf("api key %s not found or already revoked", apiKeyID)
	}
	return nil
}
