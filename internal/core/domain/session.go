package domain

import "strings"

// Session is the authenticated identity held between login and logout.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Valid reports whether all session fields are present.
func (s *Session) Valid() bool {
	return s != nil &&
		strings.TrimSpace(s.UserID) != "" &&
		strings.TrimSpace(s.Username) != "" &&
		s.Token != ""
}

// Validate returns ErrInvalidSession when the session is incomplete.
func (s *Session) Validate() error {
	if !s.Valid() {
		return ErrInvalidSession
	}
	return nil
}

// Clone returns a copy that callers may keep without sharing state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// AuthorizationValue derives the credential header value.
func (s *Session) AuthorizationValue() string {
	return "Bearer " + s.Token
}
