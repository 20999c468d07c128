package session

import "sync"

// Guard gates protected commands on the session state. It renders nothing and redirects
// nowhere while the state is Unknown, and fires the redirect once per transition into
// Unauthenticated.
type Guard struct {
	mu          sync.Mutex
	store       *Store
	state       State
	redirected  bool
	onRedirect  func()
	unsubscribe func()
}

// NewGuard creates a guard following store. onRedirect is called when the session
// resolves to, or falls back to, Unauthenticated.
func NewGuard(store *Store, onRedirect func()) *Guard {
	g := &Guard{store: store, onRedirect: onRedirect}
	if store != nil {
		g.unsubscribe = store.Subscribe(g.Observe)
		if state := store.State(); state != StateUnknown {
			g.Observe(state)
		}
	}
	return g
}

// Observe feeds a state transition to the guard
func (g *Guard) Observe(state State) {
	g.mu.Lock()
	g.state = state

	fire := false
	switch state {
	case StateUnauthenticated:
		if !g.redirected {
			g.redirected = true
			fire = g.onRedirect != nil
		}
	case StateAuthenticated:
		g.redirected = false
	}
	g.mu.Unlock()

	if fire {
		g.onRedirect()
	}
}

// State returns the last observed state. An expired token is detected here, which
// notifies the guard before the state is read.
func (g *Guard) State() State {
	if g.store != nil {
		g.store.Token()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Allow reports whether protected content may be rendered
func (g *Guard) Allow() bool {
	return g.State() == StateAuthenticated
}

// Require returns nil when protected content may run
func (g *Guard) Require() error {
	switch g.State() {
	case StateAuthenticated:
		return nil
	case StateUnauthenticated:
		return ErrLoginRequired
	default:
		return ErrSessionNotRestored
	}
}

// Close detaches the guard from its store
func (g *Guard) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
}
