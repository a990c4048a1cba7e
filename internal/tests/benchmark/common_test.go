package benchmark

import (
	"crypto/rand"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
)

// ListSizes are the list response lengths used by decode benchmarks.
var ListSizes = []int{10, 100, 1000}

func newToken() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, _ := ulid.New(ulid.Timestamp(time.Now()), entropy)
	return "tok-" + strings.ToLower(id.String())
}

func createSession(i int) *domain.Session {
	return &domain.Session{
		UserID:   fmt.Sprintf("u-%d", i),
		Username: fmt.Sprintf("user-%d", i),
		Token:    newToken(),
	}
}

// articleListBody builds an articles list response with n items.
func articleListBody(n int) []byte {
	var sb strings.Builder
	sb.WriteString(`{"articles":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"id":%d,"title":"Article %d","language":"en","created_at":"2024-01-02T15:04:05Z","seq":%d}`, i+1, i, i)
	}
	fmt.Fprintf(&sb, `],"total":%d}`, n)
	return []byte(sb.String())
}

func sizeLabel(size int) string {
	switch {
	case size >= 1024:
		return fmt.Sprintf("%dKB", size/1024)
	default:
		return fmt.Sprintf("%dB", size)
	}
}

func randomKey(b *testing.B) []byte {
	b.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		b.Fatal(err)
	}
	return key
}
