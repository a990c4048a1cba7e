package command

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/cmsadmin-go/internal/cli/config"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
)

// request is one call seen by the mock server.
type request struct {
	Method   string
	Path     string
	Query    string
	Auth     string
	Language string
	Body     []byte
}

// mockServer answers by "METHOD /path" and records every request.
type mockServer struct {
	*httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	seen     []request
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		m.mu.Lock()
		m.seen = append(m.seen, request{
			Method:   r.Method,
			Path:     r.URL.Path,
			Query:    r.URL.RawQuery,
			Auth:     r.Header.Get("Authorization"),
			Language: r.Header.Get("Accept-Language"),
			Body:     body,
		})
		handler, ok := m.handlers[r.Method+" "+r.URL.Path]
		m.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(m.Close)

	m.handle("POST /api/v1/admin/login", jsonResponse(http.StatusOK, `{"user_id":"u1","username":"admin","token":"tok-0123456789"}`))
	m.handle("POST /api/v1/admin/logout", jsonResponse(http.StatusOK, `{}`))
	return m
}

func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[pattern] = handler
}

func (m *mockServer) requests() []request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]request(nil), m.seen...)
}

// last returns the last request to path, if any.
func (m *mockServer) last(method, path string) (request, bool) {
	reqs := m.requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return request{}, false
}

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// testEnv is an Env wired to buffers and an in-memory session.
type testEnv struct {
	*Env
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T, server string, stdin string, mutate ...func(*config.CLIConfig)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.API.Server = server
	cfg.Session.InMemory = true
	for _, fn := range mutate {
		fn(cfg)
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := NewEnv(strings.NewReader(stdin), stdout, stderr)
	env.UseConfig(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	t.Cleanup(func() { env.Close() })

	return &testEnv{Env: env, stdout: stdout, stderr: stderr}
}

// run executes one command line on the env.
func (e *testEnv) run(args ...string) error {
	app := NewApp(e.Env)
	return app.Run(append([]string{"cmsadmin"}, args...))
}

// reset clears the captured output.
func (e *testEnv) reset() {
	e.stdout.Reset()
	e.stderr.Reset()
}

// keepLogger restores the default logger and level that Configure
// replaces.
func keepLogger(t *testing.T) {
	t.Helper()
	prev, level := logger.Default(), logger.GetLevel()
	t.Cleanup(func() {
		logger.SetDefault(prev)
		logger.SetLevel(level)
	})
}
