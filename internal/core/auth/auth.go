package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/sirupsen/logrus"
)

// SessionName is the fixed key the session identity is stored under.
const SessionName = "user"

// UserSource lists the user collection credentials are checked against.
type UserSource interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// SessionStore persists a single encoded session value (port).
type SessionStore interface {
	Read(ctx context.Context) (string, bool, error)
	Write(ctx context.Context, value string) error
	Clear(ctx context.Context) error
}

// Codec turns an identity into a session value and back.
type Codec interface {
	Encode(identity domain.Identity) (string, error)
	Decode(value string) (domain.Identity, error)
}

// Result is the outcome of a sign-in attempt.
type Result struct {
	OK       bool             `json:"ok"`
	Identity *domain.Identity `json:"identity,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// Gate checks credentials and keeps track of the signed in identity.
type Gate struct {
	users  UserSource
	store  SessionStore
	codec  Codec
	logger logrus.FieldLogger

	mu       sync.RWMutex
	identity *domain.Identity
}

// NewGate creates a new auth gate.
func NewGate(users UserSource, store SessionStore, codec Codec, logger logrus.FieldLogger) *Gate {
	return &Gate{
		users:  users,
		store:  store,
		codec:  codec,
		logger: logger,
	}
}

// WithStore returns an unauthenticated gate sharing the user source and codec
// but persisting its session in store, e.g. one built per HTTP request.
func (g *Gate) WithStore(store SessionStore) *Gate {
	return NewGate(g.users, store, g.codec, g.logger)
}

// SignIn checks the credentials and persists the identity on success.
// Every failure reports the same message.
func (g *Gate) SignIn(ctx context.Context, email, password string) Result {
	identity, err := g.Authenticate(ctx, email, password)
	if err != nil {
		return Result{OK: false, Message: domain.AuthFailedMessage}
	}

	return Result{OK: true, Identity: &identity}
}

// Authenticate checks the credentials against a fresh copy of the user
// collection and stores the session on success. Any failure, remote ones
// included, is reported as ErrAuthFailure.
func (g *Gate) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	users, err := g.users.ListUsers(ctx)
	if err != nil {
		g.logger.WithError(err).Warn("sign-in could not fetch users")

		return domain.Identity{}, fmt.Errorf("failed to authenticate: %w", domain.ErrAuthFailure)
	}

	user := findByCredentials(users, email, password)
	if user == nil {
		g.logger.Debug("sign-in credentials did not match")

		return domain.Identity{}, fmt.Errorf("failed to authenticate: %w", domain.ErrAuthFailure)
	}

	identity := domain.IdentityOf(user)

	value, err := g.codec.Encode(identity)
	if err != nil {
		g.logger.WithError(err).Warn("failed to encode session")

		return domain.Identity{}, fmt.Errorf("failed to authenticate: %w", domain.ErrAuthFailure)
	}

	if err := g.store.Write(ctx, value); err != nil {
		g.logger.WithError(err).Warn("failed to write session")

		return domain.Identity{}, fmt.Errorf("failed to authenticate: %w", domain.ErrAuthFailure)
	}

	g.mu.Lock()
	g.identity = &identity
	g.mu.Unlock()

	return identity, nil
}

// Session returns the signed in identity, restoring it from the store when
// needed. A missing, unreadable or malformed entry means no session.
func (g *Gate) Session(ctx context.Context) (domain.Identity, bool) {
	g.mu.RLock()
	current := g.identity
	g.mu.RUnlock()

	if current != nil {
		return *current, true
	}

	value, ok, err := g.store.Read(ctx)
	if err != nil {
		g.logger.WithError(err).Warn("failed to read session")

		return domain.Identity{}, false
	}
	if !ok {
		return domain.Identity{}, false
	}

	identity, err := g.codec.Decode(value)
	if err != nil || identity.Email == "" {
		g.logger.WithError(err).Debug("ignoring malformed session")

		return domain.Identity{}, false
	}

	g.mu.Lock()
	g.identity = &identity
	g.mu.Unlock()

	return identity, true
}

// SignOut forgets the identity and clears the stored session.
func (g *Gate) SignOut(ctx context.Context) error {
	g.mu.Lock()
	g.identity = nil
	g.mu.Unlock()

	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// findByCredentials does a linear scan with exact, case-sensitive equality
// on both email and password. This is a demo-grade check against the plain
// passwords the service exposes, not a credential hash comparison.
func findByCredentials(users []*domain.User, email, password string) *domain.User {
	if email == "" || password == "" {
		return nil
	}

	for _, user := range users {
		if user.Email == email && user.Password == password {
			return user
		}
	}

	return nil
}
