// Package session models what a client may reach: nothing while anonymous,
// profile setup once authenticated, and the feed after profile setup.
package session

import (
	"context"

	"hyperlocal/internal/errors"
	"hyperlocal/internal/model"
)

// State is the position of a client in the session lifecycle.
type State int

const (
	// Anonymous is both the initial state and the state after logout.
	Anonymous State = iota
	// AuthenticatedIncomplete means logged in without a public profile.
	AuthenticatedIncomplete
	// AuthenticatedComplete means logged in with a public profile.
	AuthenticatedComplete
)

func (s State) String() string {
	switch s {
	case AuthenticatedIncomplete:
		return "authenticated_incomplete"
	case AuthenticatedComplete:
		return "authenticated_complete"
	default:
		return "anonymous"
	}
}

// MarshalText renders the state name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session associates a client with a user. The zero value is anonymous.
type Session struct {
	State State
	Email string
}

// Anon returns the anonymous session.
func Anon() Session {
	return Session{}
}

// Authenticated moves to the authenticated state matching the user's profile.
func (s Session) Authenticated(user *model.User) Session {
	if user == nil {
		return s
	}
	if user.ProfileComplete() {
		return Session{State: AuthenticatedComplete, Email: user.Email}
	}
	return Session{State: AuthenticatedIncomplete, Email: user.Email}
}

// ProfileCompleted records a successful profile setup. Setup happens once,
// so only an incomplete session can take this transition.
func (s Session) ProfileCompleted() (Session, error) {
	if err := s.RequireProfileSetup(); err != nil {
		return s, err
	}
	return Session{State: AuthenticatedComplete, Email: s.Email}, nil
}

// LoggedOut returns to the anonymous state from any state.
func (s Session) LoggedOut() Session {
	return Anon()
}

// ProfileComplete reports the derived profile_complete flag.
func (s Session) ProfileComplete() bool {
	return s.State == AuthenticatedComplete
}

// CanCompleteProfile reports whether profile setup is reachable.
func (s Session) CanCompleteProfile() bool {
	return s.State == AuthenticatedIncomplete
}

// RequireProfileSetup returns the error a caller gets when profile setup is
// not reachable.
func (s Session) RequireProfileSetup() error {
	switch s.State {
	case Anonymous:
		return errors.ErrUnauthenticated
	case AuthenticatedComplete:
		return errors.ErrProfileAlreadyComplete
	default:
		return nil
	}
}

// CanReadFeed reports whether the post store is reachable.
func (s Session) CanReadFeed() bool {
	return s.State == AuthenticatedComplete
}

// RequireFeed returns the error a caller gets when the feed is not reachable.
func (s Session) RequireFeed() error {
	switch s.State {
	case Anonymous:
		return errors.ErrUnauthenticated
	case AuthenticatedIncomplete:
		return errors.ErrProfileIncomplete
	default:
		return nil
	}
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(contextKey{}).(Session); ok {
		return s
	}
	return Anon()
}
