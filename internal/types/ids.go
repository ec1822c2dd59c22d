package types

import (
	"time"

	"github.com/google/uuid"
)

// NewConditionalExpressionGUID generates a UUIDv7 identifier for a stored expression.
// Time-ordered IDs keep sequential inserts clustered in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewConditionalExpressionGUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ParseConditionalExpressionGUID validates a guid supplied by a caller.
func ParseConditionalExpressionGUID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// GUIDTime extracts the creation time embedded in a UUIDv7 guid.
// Returns zero time for invalid guids; caller should check IsZero().
func GUIDTime(guid string) time.Time {
	u, err := uuid.Parse(guid)
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
