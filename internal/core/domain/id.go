package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestIDPrefix is the prefix for request IDs.
const RequestIDPrefix = "req-"

// GenerateRequestID generates a new request ID using ULID.
// Format: req-{ulid_lowercase}, 30 characters total.
func GenerateRequestID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return RequestIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidRequestID checks the req-{ulid} format.
func IsValidRequestID(id string) bool {
	if !strings.HasPrefix(id, RequestIDPrefix) {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(RequestIDPrefix):]))
	return err == nil
}
