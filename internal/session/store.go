package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/storage"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
)

// TTL bounds for the persisted entry.
const (
	MinTTL     = 7 * 24 * time.Hour
	MaxTTL     = 14 * 24 * time.Hour
	DefaultTTL = MaxTTL
)

// Listener receives the new session (nil when logged out).
type Listener func(*domain.Session)

type subscription struct {
	id uint64
	fn Listener
}

// Store holds the current session.
//
// Listeners run synchronously, in registration order, before Set or Clear
// returns. A listener must not call Set or Clear.
type Store struct {
	notifyMu sync.Mutex // serializes change + notification
	mu       sync.Mutex // guards the fields below

	current    *domain.Session
	subs       []subscription
	nextID     uint64
	persisting bool

	kv     storage.KVEngine
	key    []byte
	codec  *Codec
	ttl    time.Duration
	logger logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBackend sets the durable engine and the key the session lives under.
func WithBackend(kv storage.KVEngine, key []byte) Option {
	return func(s *Store) {
		s.kv = kv
		s.key = key
	}
}

// WithCodec sets the persistence codec.
func WithCodec(c *Codec) Option {
	return func(s *Store) {
		s.codec = c
	}
}

// WithTTL sets the expiry window of the persisted entry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates an empty store. Without WithBackend it is memory-only.
func NewStore(opts ...Option) *Store {
	s := &Store{
		ttl:    DefaultTTL,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		s.codec = NewCodec(nil, s.ttl)
	}
	return s
}

// Get returns a snapshot of the current session, or nil.
func (s *Store) Get() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Set replaces the current session. nil logs out.
//
// An invalid session is rejected without any state change. Once Persist
// has run, the change is mirrored to durable storage; a write failure is
// returned after the in-memory change and notifications have happened.
func (s *Store) Set(sess *domain.Session) error {
	if sess != nil {
		if err := sess.Validate(); err != nil {
			return err
		}
	}
	return s.change(sess.Clone())
}

// Clear removes the session from memory and durable storage, whether or
// not Persist has run.
func (s *Store) Clear() error {
	return s.change(nil)
}

func (s *Store) change(next *domain.Session) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.current = next
	mirror := s.persisting || (next == nil && s.kv != nil)
	listeners := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	var err error
	if mirror {
		err = s.write(context.Background(), next)
	}

	for _, fn := range listeners {
		fn(next.Clone())
	}
	return err
}

// Subscribe registers fn for every subsequent change. The returned
// function unsubscribes; calling it more than once is safe.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Persist loads the durable session into memory and starts mirroring
// changes. Missing, malformed, undecryptable or expired content loads as
// no session. A session already set in memory takes precedence and is
// written to durable storage instead. Only backend I/O failures are
// returned. Calling Persist again is a no-op.
func (s *Store) Persist(ctx context.Context) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	done := s.persisting || s.kv == nil
	held := s.current.Clone()
	s.mu.Unlock()
	if done {
		return nil
	}

	if held != nil {
		if err := s.write(ctx, held); err != nil {
			return err
		}
		s.mu.Lock()
		s.persisting = true
		s.mu.Unlock()
		return nil
	}

	loaded, err := s.read(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.persisting = true
	s.current = loaded
	listeners := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	if loaded != nil {
		s.logger.Debug("session restored", "username", loaded.Username)
		for _, fn := range listeners {
			fn(loaded.Clone())
		}
	}
	return nil
}

func (s *Store) read(ctx context.Context) (*domain.Session, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess, err := s.codec.Decode(data, s.key)
	if err != nil {
		s.logger.Warn("discarding stored session", "error", err)
		return nil, nil
	}
	return sess, nil
}

func (s *Store) write(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		if err := s.kv.Delete(ctx, s.key); err != nil {
			s.logger.Warn("failed to delete stored session", "error", err)
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}

	data, err := s.codec.Encode(sess, s.key)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data, s.ttl); err != nil {
		s.logger.Warn("failed to store session", "error", err)
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
