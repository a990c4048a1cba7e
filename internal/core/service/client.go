package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/session"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/metric"
	"github.com/yndnr/cmsadmin-go/internal/transport"
)

// LogoutPolicy decides what happens to the local session when the
// server-side logout fails.
type LogoutPolicy int

const (
	// FailClosed keeps the local session unless the server confirmed the
	// logout.
	FailClosed LogoutPolicy = iota
	// FailOpen clears the local session whatever the server outcome.
	FailOpen
)

func (p LogoutPolicy) String() string {
	if p == FailOpen {
		return "fail-open"
	}
	return "fail-closed"
}

// ParseLogoutPolicy parses "fail-closed" or "fail-open".
func ParseLogoutPolicy(s string) (LogoutPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-closed", "closed":
		return FailClosed, nil
	case "fail-open", "open":
		return FailOpen, nil
	default:
		return FailClosed, domain.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown logout policy %q", s))
	}
}

// Config assembles a Client.
type Config struct {
	// Server is the API server address; "/api/v1" is appended when missing.
	Server   string
	Store    *session.Store
	Executor Executor
	Metrics  *metric.Registry
	Builder  []transport.BuilderOption
}

// Client bundles the resource clients sharing one session.
type Client struct {
	Home       *Home
	Services   *Services
	Articles   *Articles
	Members    *Members
	Categories *Categories
	Contact    *Contact
	Users      *Users

	builder *transport.Builder
	store   *session.Store
	metrics *metric.Registry
}

// New creates a client. A nil Store gets a memory-only store and a nil
// Executor a default transport.Client.
func New(cfg Config) *Client {
	store := cfg.Store
	if store == nil {
		store = session.NewStore()
	}
	exec := cfg.Executor
	if exec == nil {
		exec = transport.NewClient(transport.WithMetrics(cfg.Metrics))
	}

	b := transport.NewBuilder(cfg.Server, session.NewTokenProvider(store), cfg.Builder...)

	return &Client{
		Home:       NewHome(b, exec),
		Services:   NewServices(b, exec),
		Articles:   NewArticles(b, exec),
		Members:    NewMembers(b, exec),
		Categories: NewCategories(b, exec),
		Contact:    NewContact(b, exec),
		Users:      NewUsers(b, exec, store),
		builder:    b,
		store:      store,
		metrics:    cfg.Metrics,
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.builder.BaseURL()
}

// Store returns the session store.
func (c *Client) Store() *session.Store {
	return c.store
}

// Session returns a snapshot of the current session, or nil.
func (c *Client) Session() *domain.Session {
	return c.store.Get()
}

// SignIn logs in and records the session change.
func (c *Client) SignIn(ctx context.Context, username, password string) (*domain.Session, error) {
	sess, err := c.Users.Login(ctx, username, password)
	if err == nil {
		c.sessionChange("login")
	}
	return sess, err
}

// SignOut logs out on the server and applies policy to the local session.
// It reports whether the local session was cleared along with the server
// outcome. Without a session nothing is sent.
func (c *Client) SignOut(ctx context.Context, policy LogoutPolicy) (cleared bool, err error) {
	err = c.Users.Logout(ctx)
	if domain.IsKind(err, domain.KindUnauthenticated) {
		return false, err
	}

	if err != nil && policy == FailClosed {
		return false, err
	}

	if clearErr := c.store.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	c.sessionChange("logout")
	return true, err
}

func (c *Client) sessionChange(kind string) {
	if c.metrics != nil {
		c.metrics.IncSessionChange(kind)
	}
}
