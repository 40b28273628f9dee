// Package session owns the client side of the session lifecycle: it persists
// the raw token, rehydrates identity from it on startup, detects expiry on the
// paths that matter, and clears everything on logout. There is one Manager per
// client and it is the only writer of session state.
package session

import (
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/token"
)

// State is the session lifecycle state.
type State int

const (
	// Unauthenticated means no token is held.
	Unauthenticated State = iota
	// Authenticated means a decodable, unexpired token is held.
	Authenticated
	// Expired means the held token's expiry has passed; storage and
	// identity have already been cleared.
	Expired
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogoutHook sets the side effect invoked when an expired session is
// detected (the web client navigates to the login view here).
func WithLogoutHook(hook func()) Option {
	return func(m *Manager) { m.onLogout = hook }
}

// Manager is the client-side session state machine.
type Manager struct {
	storage  Storage
	now      func() time.Time
	onLogout func()

	mu     sync.Mutex
	state  State
	raw    string
	claims *token.Claims
}

func NewManager(storage Storage, opts ...Option) *Manager {
	m := &Manager{
		storage: storage,
		now:     time.Now,
		state:   Unauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore performs the one-shot startup check: if storage holds a token,
// decode it locally (no network round-trip) and recover the identity. Run it
// exactly once per process start, not on every render of the UI.
//
// A malformed token clears storage and leaves the manager Unauthenticated.
// An expired token transitions to Expired, clears storage and identity, and
// fires the logout hook.
func (m *Manager) Restore() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.storage.Load()
	if err != nil || raw == "" {
		m.state = Unauthenticated
		return m.state
	}

	claims, err := token.DecodeUnverified(raw)
	if err != nil {
		_ = m.storage.Clear()
		m.state = Unauthenticated
		return m.state
	}

	if claims.Expired(m.now()) {
		m.expireLocked()
		return m.state
	}

	m.raw = raw
	m.claims = claims
	m.state = Authenticated
	return m.state
}

// SetSession persists the token returned by a successful login and
// transitions to Authenticated. Idempotent for the same token.
func (m *Manager) SetSession(raw string) error {
	claims, err := token.DecodeUnverified(raw)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.storage.Save(raw); err != nil {
		return err
	}
	m.raw = raw
	m.claims = claims
	m.state = Authenticated
	return nil
}

// ClearSession removes the persisted token, resets the in-memory identity and
// transitions to Unauthenticated. Safe to call from any state, any number of
// times.
func (m *Manager) ClearSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.storage.Clear()
	m.raw = ""
	m.claims = nil
	m.state = Unauthenticated
}

// Authenticated reports whether the session is usable right now. It re-checks
// expiry opportunistically, so a session that aged out since the last check
// transitions to Expired here rather than being presented as valid.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Authenticated {
		return false
	}
	if m.claims.Expired(m.now()) {
		m.expireLocked()
		return false
	}
	return true
}

// State returns the current lifecycle state without re-checking expiry.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the raw token for outbound Authorization headers, or "" when
// no session is held.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raw
}

// Claims returns the decoded identity, or nil when no session is held.
func (m *Manager) Claims() *token.Claims {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims
}

// expireLocked performs the Expired transition: clear storage, clear
// identity, fire the logout side effect. Caller holds m.mu.
func (m *Manager) expireLocked() {
	_ = m.storage.Clear()
	m.raw = ""
	m.claims = nil
	m.state = Expired
	if m.onLogout != nil {
		m.onLogout()
	}
}
