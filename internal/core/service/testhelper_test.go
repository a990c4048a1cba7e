package service

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/session"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/metric"
	"github.com/yndnr/cmsadmin-go/internal/transport"
)

// captured is one request seen by the fake server.
type captured struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Language      string
	ContentType   string
	Body          []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []captured
	server   *httptest.Server
}

func (f *fakeAPI) calls() []captured {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]captured(nil), f.requests...)
}

// newFakeAPI starts a server that records every request and answers with
// handler.
func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		f.mu.Lock()
		f.requests = append(f.requests, captured{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Language:      r.Header.Get("Accept-Language"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		f.mu.Unlock()
		if handler != nil {
			handler(w, r)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...transport.BuilderOption) (*Client, *metric.Registry) {
	t.Helper()
	reg := metric.NewRegistry()
	c := New(Config{
		Server:   api.server.URL,
		Store:    session.NewStore(),
		Executor: transport.NewClient(transport.WithMetrics(reg), transport.WithLogger(logger.Nop())),
		Metrics:  reg,
		Builder:  opts,
	})
	return c, reg
}

var testSession = &domain.Session{UserID: "u-1", Username: "admin", Token: "secret-token"}

func login(t *testing.T, c *Client) {
	t.Helper()
	if err := c.Store().Set(testSession); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
}
