package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/p10-paddock/internal/models"
)

// State is the authentication state observed by the guard
type State int

const (
	// StateUnknown is the state before Restore has completed
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// TokenSource provides the current bearer token, empty when there is none
type TokenSource interface {
	Token() string
}

// Store is the single source of truth for "is the caller authenticated". It is the only
// writer of the token; everything else reads it through Token.
type Store struct {
	persist   TokenStore
	logger    *logrus.Entry
	now       func() time.Time
	mu        sync.Mutex
	state     State
	token     string
	claims    Claims
	identity  *models.User
	listeners map[int]func(State)
	nextID    int
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store in the Unknown state backed by persist
func NewStore(persist TokenStore, logger *logrus.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}

	s := &Store{
		persist:   persist,
		logger:    logger.WithField("component", "session"),
		now:       time.Now,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore resolves the Unknown state from the persisted token. A missing, unreadable,
// malformed or expired token leaves the session unauthenticated and is discarded.
// Only the first call does any work; later calls return the resolved state.
func (s *Store) Restore() State {
	s.mu.Lock()
	if s.state != StateUnknown {
		state := s.state
		s.mu.Unlock()
		return state
	}

	s.state = StateUnauthenticated

	token, err := s.persist.Load()
	switch {
	case errors.Is(err, ErrNoPersistedToken):
		s.logger.Debug("No persisted session")
	case err != nil:
		s.logger.WithError(err).Debug("Discarding unreadable persisted session")
		s.discardLocked()
	default:
		claims, err := DecodeToken(token)
		switch {
		case err != nil:
			s.logger.WithError(err).Debug("Discarding malformed persisted session")
			s.discardLocked()
		case claims.Expired(s.now()):
			s.logger.WithField("expired_at", claims.ExpiresAt).Debug("Discarding expired persisted session")
			s.discardLocked()
		default:
			s.token = token
			s.claims = claims
			s.state = StateAuthenticated
			s.logger.WithField("expires_at", claims.ExpiresAt).Debug("Session restored")
		}
	}

	state := s.state
	s.mu.Unlock()

	s.notify(state)
	return state
}

// Login persists the token then marks the session authenticated. The write completes
// before the lock is released, so any later Token call observes the new token.
func (s *Store) Login(token string, identity *models.User) error {
	claims, err := DecodeToken(token)
	if err != nil {
		return err
	}
	if claims.Expired(s.now()) {
		return ErrTokenExpired
	}

	s.mu.Lock()
	if err := s.persist.Save(token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session token: %w", err)
	}

	s.token = token
	s.claims = claims
	s.identity = copyUser(identity)
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.logger.WithField("expires_at", claims.ExpiresAt).Info("Logged in")
	s.notify(StateAuthenticated)
	return nil
}

// Logout erases the persisted token and clears the session. It never fails; a storage
// error is logged and the in-memory session is cleared regardless.
func (s *Store) Logout() {
	s.mu.Lock()
	s.discardLocked()
	s.clearLocked()
	s.mu.Unlock()

	s.logger.Info("Logged out")
	s.notify(StateUnauthenticated)
}

// Token returns the current token, or "" when unauthenticated. A token found expired
// ends the session.
func (s *Store) Token() string {
	s.mu.Lock()
	expired := s.expireLocked()
	token := s.token
	s.mu.Unlock()

	if expired {
		s.logger.Info("Session expired")
		s.notify(StateUnauthenticated)
	}
	return token
}

// IsAuthenticated reports whether a live token is held
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// State returns the current state, applying expiry detection first
func (s *Store) State() State {
	s.Token()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ExpiresAt returns the expiry of the current token, zero when unauthenticated
func (s *Store) ExpiresAt() time.Time {
	if s.Token() == "" {
		return time.Time{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims.ExpiresAt
}

// Identity returns a copy of the decoded identity, nil when unknown
func (s *Store) Identity() *models.User {
	if s.Token() == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.identity)
}

// SetIdentity records the profile fetched by the API layer. Ignored while unauthenticated.
func (s *Store) SetIdentity(u *models.User) {
	if s.Token() == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthenticated {
		s.identity = copyUser(u)
	}
}

// Subscribe registers fn for state changes and returns a function removing it.
// Listeners run outside the store lock.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(state State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// expireLocked ends an expired session and reports whether it did
func (s *Store) expireLocked() bool {
	if s.token == "" || !s.claims.Expired(s.now()) {
		return false
	}
	s.discardLocked()
	s.clearLocked()
	return true
}

func (s *Store) discardLocked() {
	if err := s.persist.Delete(); err != nil {
		s.logger.WithError(err).Warn("Failed to remove persisted session")
	}
}

func (s *Store) clearLocked() {
	s.token = ""
	s.claims = Claims{}
	s.identity = nil
	s.state = StateUnauthenticated
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
