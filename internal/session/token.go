package session

import "github.com/yndnr/cmsadmin-go/internal/core/domain"

// TokenProvider derives the Authorization header value for a request.
type TokenProvider interface {
	// AuthHeader returns "Bearer <token>" or domain.ErrUnauthenticated.
	AuthHeader() (string, error)
}

// storeTokens reads the store on every call.
type storeTokens struct {
	store *Store
}

// NewTokenProvider returns a TokenProvider backed by store.
func NewTokenProvider(store *Store) TokenProvider {
	return &storeTokens{store: store}
}

func (p *storeTokens) AuthHeader() (string, error) {
	sess := p.store.Get()
	if sess == nil {
		return "", domain.ErrUnauthenticated
	}
	return sess.AuthorizationValue(), nil
}

// StaticToken is a TokenProvider for a fixed token, or none when empty.
type StaticToken string

func (t StaticToken) AuthHeader() (string, error) {
	if t == "" {
		return "", domain.ErrUnauthenticated
	}
	return "Bearer " + string(t), nil
}
