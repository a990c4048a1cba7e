package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"

	"github.com/yndnr/cmsadmin-go/internal/cli/config"
	"github.com/yndnr/cmsadmin-go/internal/core/service"
	"github.com/yndnr/cmsadmin-go/internal/infra/buildinfo"
	"github.com/yndnr/cmsadmin-go/internal/infra/tlsroots"
	"github.com/yndnr/cmsadmin-go/internal/session"
	"github.com/yndnr/cmsadmin-go/internal/storage"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/metric"
	"github.com/yndnr/cmsadmin-go/internal/transport"
	"github.com/yndnr/cmsadmin-go/pkg/crypto/adaptive"
)

// sessionKeyPurpose binds the derived session key to its use.
const sessionKeyPurpose = "cmsadmin/session/v1"

// Manager owns everything a command needs to talk to one CMS server.
type Manager struct {
	cfg     *config.CLIConfig
	logger  logger.Logger
	metrics *metric.Registry

	kv     *storage.BadgerEngine
	cert   *tlsroots.Watcher
	client *service.Client

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger passed down the stack.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// Open builds the client stack and restores the saved session for the
// configured server. Close releases it.
func Open(ctx context.Context, cfg *config.CLIConfig, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:    cfg,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if cfg.Metrics.Enabled {
		m.metrics = metric.NewRegistry()
	}

	if err := m.open(ctx); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

func (m *Manager) open(ctx context.Context) error {
	baseURL := transport.BaseURL(m.cfg.API.Server)

	store, err := m.openStore(ctx, baseURL)
	if err != nil {
		return err
	}

	tlsCfg, err := m.tlsConfig()
	if err != nil {
		return err
	}

	exec := transport.NewClient(
		transport.WithTLSConfig(tlsCfg),
		transport.WithRateLimit(m.cfg.API.RateLimit, m.cfg.API.RateBurst),
		transport.WithLogger(m.logger),
		transport.WithMetrics(m.metrics),
	)

	m.client = service.New(service.Config{
		Server:   m.cfg.API.Server,
		Store:    store,
		Executor: exec,
		Metrics:  m.metrics,
		Builder: []transport.BuilderOption{
			transport.WithTimeouts(m.cfg.API.Timeout, m.cfg.API.UploadTimeout),
			transport.WithUserAgent(buildinfo.UserAgent()),
		},
	})

	if m.metrics != nil {
		m.kv.RegisterMetrics(m.metrics.Registerer())
		m.metrics.Registerer().MustRegister(metric.NewSessionCollector(func() bool {
			return store.Get() != nil
		}))
	}

	m.logger.Debug("connection opened", "base_url", baseURL, "in_memory", m.cfg.Session.InMemory)
	return nil
}

func (m *Manager) openStore(ctx context.Context, baseURL string) (*session.Store, error) {
	kvCfg := storage.DefaultKVConfig(m.cfg.Session.Dir)
	if m.cfg.Session.InMemory {
		kvCfg = storage.InMemoryKVConfig()
	}

	kv, err := storage.NewBadgerEngine(kvCfg, logger.Slog(m.logger))
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}
	m.kv = kv

	var cipher adaptive.Cipher
	if !m.cfg.Session.InMemory {
		if cipher, err = sessionCipher(m.cfg.Session.KeyFile); err != nil {
			return nil, err
		}
	}

	ttl := m.cfg.Session.TTL
	store := session.NewStore(
		session.WithBackend(kv, session.Key(baseURL)),
		session.WithCodec(session.NewCodec(cipher, ttl)),
		session.WithTTL(ttl),
		session.WithLogger(m.logger),
	)
	if err := store.Persist(ctx); err != nil {
		return nil, err
	}
	if store.Get() != nil && m.metrics != nil {
		m.metrics.IncSessionChange("restore")
	}
	return store, nil
}

func sessionCipher(keyFile string) (adaptive.Cipher, error) {
	if keyFile == "" {
		return nil, errors.New("session.key_file is required for durable sessions")
	}
	master, err := adaptive.EnsureKeyFile(keyFile)
	if err != nil {
		return nil, err
	}
	key, err := adaptive.DeriveKey(master, sessionKeyPurpose)
	if err != nil {
		return nil, err
	}
	return adaptive.New(key)
}

func (m *Manager) tlsConfig() (*tls.Config, error) {
	opts := tlsroots.ClientOptions{
		CAPath:   m.cfg.API.CAFile,
		Insecure: m.cfg.API.Insecure,
	}
	if m.cfg.API.CertFile != "" {
		w, err := tlsroots.NewWatcher(m.cfg.API.CertFile, m.cfg.API.KeyFile,
			tlsroots.WithLogger(logger.Slog(m.logger)))
		if err != nil {
			return nil, err
		}
		m.cert = w
		w.StartAsync()
		opts.Certificate = w
	}
	return tlsroots.ClientConfig(opts)
}

// Client returns the API client.
func (m *Manager) Client() *service.Client {
	return m.client
}

// Store returns the session store.
func (m *Manager) Store() *session.Store {
	return m.client.Store()
}

// Config returns the configuration the manager was opened with.
func (m *Manager) Config() *config.CLIConfig {
	return m.cfg
}

// Metrics returns the metrics registry, or nil when metrics are disabled.
func (m *Manager) Metrics() *metric.Registry {
	return m.metrics
}

// Close stops the certificate watcher and closes session storage. It is
// safe to call more than once.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		if m.cert != nil {
			m.cert.Stop()
		}
		if m.kv != nil {
			m.closeErr = m.kv.Close()
		}
	})
	return m.closeErr
}
