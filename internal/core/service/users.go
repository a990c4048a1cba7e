package service

import (
	"context"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/session"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
	"github.com/yndnr/cmsadmin-go/internal/transport"
)

const usersResource = "users"

// LoginRequest is the body of POST /admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of PUT /admin/users/password.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// Users handles authentication against the admin API.
type Users struct {
	builder *transport.Builder
	exec    Executor
	store   *session.Store
	logger  logger.Logger
}

// NewUsers creates the users client. Successful logins are written to
// store.
func NewUsers(b *transport.Builder, exec Executor, store *session.Store) *Users {
	return &Users{
		builder: b,
		exec:    exec,
		store:   store,
		logger:  logger.Default(),
	}
}

// Login authenticates and stores the resulting session.
//
// The store is written only when the response carries a non-empty
// token, user_id and username. A success status with any other body is
// reported as a malformed response and leaves the store untouched.
func (u *Users) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" {
		return nil, domain.ErrInvalidInput.WithMessage("username is required")
	}

	body, err := send(ctx, u.builder, u.exec, usersResource, transport.OpAction, "/admin/login", transport.BuildOptions{
		JSON: LoginRequest{Username: username, Password: password},
	}, "failed to login")
	if err != nil {
		return nil, err
	}

	sess, err := transport.Decode[domain.Session](body)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, domain.ErrMalformedResponse.WithMessage("login response is missing token, user_id or username")
	}

	if err := u.store.Set(sess); err != nil {
		// the session is held in memory even when it could not be saved
		u.logger.Warn("session not persisted", "username", sess.Username, "error", err)
	}
	return sess.Clone(), nil
}

// Logout ends the session on the server. It only reports the outcome;
// the caller decides whether to clear the local session (see
// Client.SignOut).
func (u *Users) Logout(ctx context.Context) error {
	_, err := send(ctx, u.builder, u.exec, usersResource, transport.OpAction, "/admin/logout", transport.BuildOptions{
		RequiresAuth: true,
	}, "failed to logout")
	return err
}

// ChangePassword sets a new password for the logged-in user.
func (u *Users) ChangePassword(ctx context.Context, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidInput.WithMessage("new password is required")
	}

	_, err := send(ctx, u.builder, u.exec, usersResource, transport.OpSave, "/admin/users/password", transport.BuildOptions{
		Method:       "PUT",
		RequiresAuth: true,
		JSON:         ChangePasswordRequest{NewPassword: newPassword},
	}, "failed to change password")
	return err
}
