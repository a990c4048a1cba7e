package session

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spaolacci/murmur3"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/pkg/crypto/adaptive"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// KeyPrefix prefixes every persisted session key.
	KeyPrefix = "session/"

	recordVersion = 1
)

// Key returns the storage key for the session of the given API base URL.
func Key(baseURL string) []byte {
	sum := murmur3.Sum64([]byte(baseURL))
	return []byte(fmt.Sprintf("%s%016x", KeyPrefix, sum))
}

// record is the persisted form of a session.
type record struct {
	Version int             `json:"v"`
	SavedAt int64           `json:"saved_at"` // Unix milliseconds
	Session *domain.Session `json:"session"`
}

// Codec converts sessions to and from their persisted bytes, sealing them
// when a cipher is configured.
type Codec struct {
	cipher adaptive.Cipher
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a codec. A nil cipher stores plain JSON.
func NewCodec(c adaptive.Cipher, ttl time.Duration) *Codec {
	return &Codec{cipher: c, ttl: ttl, now: time.Now}
}

// Encode serializes s. aad binds the sealed value to its storage key.
func (c *Codec) Encode(s *domain.Session, aad []byte) ([]byte, error) {
	data, err := json.Marshal(record{
		Version: recordVersion,
		SavedAt: c.now().UnixMilli(),
		Session: s,
	})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if c.cipher == nil {
		return data, nil
	}
	return c.cipher.Encrypt(data, aad)
}

// Decode parses persisted bytes. Any problem yields an error; callers
// treat every error as "no session".
func (c *Codec) Decode(data, aad []byte) (*domain.Session, error) {
	if c.cipher != nil {
		plain, err := c.cipher.Decrypt(data, aad)
		if err != nil {
			return nil, fmt.Errorf("open sealed session: %w", err)
		}
		data = plain
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if r.Version != recordVersion {
		return nil, fmt.Errorf("unsupported session record version %d", r.Version)
	}
	if err := r.Session.Validate(); err != nil {
		return nil, err
	}
	if c.ttl > 0 && c.now().Sub(time.UnixMilli(r.SavedAt)) > c.ttl {
		return nil, fmt.Errorf("session saved at %s has expired", time.UnixMilli(r.SavedAt).Format(time.RFC3339))
	}
	return r.Session, nil
}
