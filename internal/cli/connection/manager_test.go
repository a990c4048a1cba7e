package connection

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/cmsadmin-go/internal/cli/config"
	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/core/service"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
)

func loginServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/admin/login":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"user_id":"u1","username":"alice","token":"t0k"}`))
		case "/api/v1/admin/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, server string) *config.CLIConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.API.Server = server
	cfg.Session.Dir = filepath.Join(dir, "session")
	cfg.Session.KeyFile = filepath.Join(dir, "session.key")
	return cfg
}

func open(t *testing.T, cfg *config.CLIConfig) *Manager {
	t.Helper()
	m, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestOpen_InMemory(t *testing.T) {
	cfg := testConfig(t, "cms.local")
	cfg.Session.InMemory = true

	m := open(t, cfg)

	require.NotNil(t, m.Client())
	assert.Nil(t, m.Store().Get())
	assert.Nil(t, m.Metrics())
	assert.Equal(t, "http://cms.local/api/v1", m.Client().BaseURL())
	assert.Same(t, cfg, m.Config())

	_, err := os.Stat(cfg.Session.KeyFile)
	assert.True(t, os.IsNotExist(err), "in-memory sessions need no key file")

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestOpen_RestoresSession(t *testing.T) {
	srv := loginServer(t)
	cfg := testConfig(t, srv.URL)

	m, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)
	_, err = m.Client().SignIn(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	info, err := os.Stat(cfg.Session.KeyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := open(t, cfg)
	assert.Equal(t, &domain.Session{UserID: "u1", Username: "alice", Token: "t0k"}, reopened.Store().Get())
}

func TestOpen_SessionPerServer(t *testing.T) {
	srv := loginServer(t)
	cfg := testConfig(t, srv.URL)

	m, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)
	_, err = m.Client().SignIn(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	other := *cfg
	other.API.Server = "other.example.com"
	assert.Nil(t, open(t, &other).Store().Get(), "sessions are kept per server")
}

func TestOpen_LogoutClearsDurableSession(t *testing.T) {
	srv := loginServer(t)
	cfg := testConfig(t, srv.URL)

	m, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)
	ctx := context.Background()
	_, err = m.Client().SignIn(ctx, "alice", "secret")
	require.NoError(t, err)
	_, err = m.Client().SignOut(ctx, service.FailClosed)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	assert.Nil(t, open(t, cfg).Store().Get())
}

func TestOpen_WrongKeyDiscardsSession(t *testing.T) {
	srv := loginServer(t)
	cfg := testConfig(t, srv.URL)

	m, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)
	_, err = m.Client().SignIn(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	require.NoError(t, os.Remove(cfg.Session.KeyFile))
	assert.Nil(t, open(t, cfg).Store().Get(), "a session sealed with another key loads as logged out")
}

func TestOpen_Metrics(t *testing.T) {
	srv := loginServer(t)
	cfg := testConfig(t, srv.URL)
	cfg.Metrics.Enabled = true

	m, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)
	_, err = m.Client().SignIn(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	reopened := open(t, cfg)
	require.NotNil(t, reopened.Metrics())

	var buf bytes.Buffer
	require.NoError(t, reopened.Metrics().WriteText(&buf, "cmsadmin_"))
	out := buf.String()
	assert.Contains(t, out, `cmsadmin_session_changes_total{kind="restore"} 1`)
	assert.Contains(t, out, "cmsadmin_session_authenticated 1")
	assert.Contains(t, out, "cmsadmin_session_store_lsm_size_bytes")
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing CA file", func(t *testing.T) {
		cfg := testConfig(t, "cms.local")
		cfg.Session.InMemory = true
		cfg.API.CAFile = filepath.Join(t.TempDir(), "absent.pem")

		_, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
		assert.Error(t, err)
	})

	t.Run("missing client certificate", func(t *testing.T) {
		cfg := testConfig(t, "cms.local")
		cfg.Session.InMemory = true
		cfg.API.CertFile = "/nonexistent/client.crt"
		cfg.API.KeyFile = "/nonexistent/client.key"

		_, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
		assert.Error(t, err)
	})

	t.Run("no key file", func(t *testing.T) {
		cfg := testConfig(t, "cms.local")
		cfg.Session.KeyFile = ""

		_, err := Open(context.Background(), cfg, WithLogger(logger.Nop()))
		assert.Error(t, err)
	})
}

func TestOpen_Timeouts(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	cfg := testConfig(t, srv.URL)
	cfg.Session.InMemory = true
	cfg.API.Timeout = 50 * time.Millisecond

	m := open(t, cfg)
	_, err := m.Client().Home.List(context.Background(), domain.LanguageEN, domain.Page{})
	assert.ErrorIs(t, err, domain.ErrTimeout)
}
