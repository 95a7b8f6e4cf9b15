// Package session tracks in-process authentication state: the current
// session and per-username failed-attempt counters with lockout windows.
//
// This state is transient and per-process. The durable per-user lockout
// columns owned by the store remain authoritative across restarts; the
// manager acts as a fast-path cache consulted before storage is hit.
package session

import (
	"sync"
	"time"

	"github.com/MuhaUsman/SecureVault/internal/crypto"
)

// Manager holds one caller's session plus the process-wide rate-limit
// counters. It is an explicit value owned by the hosting context and passed
// by reference into operations that need it, never package-level state.
// All methods are safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	loggedIn     bool
	username     string
	userID       int64
	token        string
	lastActivity time.Time

	// attempts and lockedUntil are keyed by username and survive session
	// destruction: rate limiting applies whether or not anyone is logged in.
	attempts    map[string]int
	lockedUntil map[string]time.Time

	sessionTimeout  time.Duration
	maxAttempts     int
	lockoutDuration time.Duration

	tokens crypto.Service

	// now is the time source, overridable in tests.
	now func() time.Time
}

// NewManager constructs a Manager with the given timeout and lockout
// parameters. tokens supplies session token generation.
func NewManager(tokens crypto.Service, sessionTimeout, lockoutDuration time.Duration, maxAttempts int) *Manager {
	return &Manager{
		attempts:        make(map[string]int),
		lockedUntil:     make(map[string]time.Time),
		sessionTimeout:  sessionTimeout,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
		tokens:          tokens,
		now:             time.Now,
	}
}

// CreateSession issues a fresh token for the authenticated user, clears the
// username's failed-attempt and lockout state, and stamps activity.
func (m *Manager) CreateSession(username string, userID int64) (string, error) {
	token, err := m.tokens.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.loggedIn = true
	m.username = username
	m.userID = userID
	m.token = token
	m.lastActivity = m.now()

	delete(m.attempts, username)
	delete(m.lockedUntil, username)

	return token, nil
}

// UpdateActivity stamps the last-activity time if a session is active.
func (m *Manager) UpdateActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loggedIn {
		m.lastActivity = m.now()
	}
}

// IsSessionValid reports whether a session is active and within the
// inactivity window. Crossing the timeout destroys the session as a side
// effect.
func (m *Manager) IsSessionValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn || m.lastActivity.IsZero() {
		return false
	}

	if m.now().Sub(m.lastActivity) > m.sessionTimeout {
		m.destroyLocked()
		return false
	}
	return true
}

// DestroySession clears the current session state. Rate-limit counters are
// left intact.
func (m *Manager) DestroySession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyLocked()
}

func (m *Manager) destroyLocked() {
	m.loggedIn = false
	m.username = ""
	m.userID = 0
	m.token = ""
	m.lastActivity = time.Time{}
}

// Current returns the active session's username and user ID.
// ok is false when no session is active.
func (m *Manager) Current() (username string, userID int64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn {
		return "", 0, false
	}
	return m.username, m.userID, true
}

// Token returns the active session token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// RecordLoginAttempt updates the per-username counter: failures increment
// it and start a lockout window once maxAttempts is reached; success clears
// it.
func (m *Manager) RecordLoginAttempt(username string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if success {
		delete(m.attempts, username)
		return
	}

	m.attempts[username]++
	if m.attempts[username] >= m.maxAttempts {
		m.lockedUntil[username] = m.now().Add(m.lockoutDuration)
	}
}

// IsAccountLocked reports whether the username is inside a lockout window
// and, if so, when it ends. An expired window is cleared together with the
// attempt counter (self-healing).
func (m *Manager) IsAccountLocked(username string) (bool, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.lockedUntil[username]
	if !ok {
		return false, time.Time{}
	}

	if !m.now().Before(until) {
		delete(m.lockedUntil, username)
		delete(m.attempts, username)
		return false, time.Time{}
	}
	return true, until
}

// GetRemainingAttempts returns how many failed logins remain before the
// username is locked, never below zero.
func (m *Manager) GetRemainingAttempts(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := m.maxAttempts - m.attempts[username]
	if remaining < 0 {
		return 0
	}
	return remaining
}
