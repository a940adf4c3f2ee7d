// Package session maps browser sessions to their state roots.
//
// Each session is identified by a signed cookie of the form
// "<uuid>.<mac>", where mac is a keyed BLAKE2b-256 digest of the uuid encoded
// as unpadded base64url. Unsigned or tampered cookies start a new session.
// Sessions live in memory and are dropped after an idle timeout.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"shotchart/internal/state"
)

// Defaults
const (
	DefaultCookieName  = "shotchart_session"
	DefaultIdleTimeout = 12 * time.Hour
)

// Config configures a Manager
type Config struct {
	CookieName  string
	Secret      string
	IdleTimeout time.Duration
	Secure      bool
}

type entry struct {
	root     *state.Root
	lastSeen time.Time
}

// Manager owns every session root
type Manager struct {
	cookieName string
	key        []byte
	idle       time.Duration
	secure     bool
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a session manager. An empty secret gets a random key,
// so cookies do not survive a restart.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		cookieName: cfg.CookieName,
		idle:       cfg.IdleTimeout,
		secure:     cfg.Secure,
		now:        time.Now,
		sessions:   make(map[string]*entry),
	}
	if m.cookieName == "" {
		m.cookieName = DefaultCookieName
	}
	if m.idle <= 0 {
		m.idle = DefaultIdleTimeout
	}

	if cfg.Secret != "" {
		sum := blake2b.Sum256([]byte(cfg.Secret))
		m.key = sum[:]
	} else {
		m.key = make([]byte, 32)
		if _, err := rand.Read(m.key); err != nil {
			panic("session: failed to generate key: " + err.Error())
		}
		slog.Warn("no session secret configured, sessions will not survive restarts")
	}
	return m
}

// CookieName returns the session cookie name
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Sign returns the cookie value for id
func (m *Manager) Sign(id string) string {
	return id + "." + m.mac(id)
}

// Verify returns the session id carried by a cookie value
func (m *Manager) Verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.mac(id))) {
		return "", false
	}
	return id, true
}

func (m *Manager) mac(id string) string {
	h, err := blake2b.New256(m.key)
	if err != nil {
		// Only possible with a key longer than 64 bytes.
		panic(err)
	}
	h.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Load returns the root of the request's session, creating a session and
// setting its cookie when the request carries none or an invalid one.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (string, *state.Root) {
	if c, err := r.Cookie(m.cookieName); err == nil {
		if id, ok := m.Verify(c.Value); ok {
			return id, m.get(id)
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    m.Sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, m.get(id)
}

// get returns the root for id, creating it on first use. A verified id whose
// session was swept starts over from the initial state.
func (m *Manager) get(id string) *state.Root {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		e = &entry{root: state.New()}
		m.sessions[id] = e
	}
	e.lastSeen = m.now()
	return e.root
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than the timeout
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idle)
	removed := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// SweepInterval is how often idle sessions should be swept: a quarter of
// the idle timeout, at most an hour.
func (m *Manager) SweepInterval() time.Duration {
	interval := m.idle / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	return interval
}

type ctxKey struct{}

// Middleware loads the session root and stores it in the request context
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, root := m.Load(w, r)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, root)))
	})
}

// FromContext returns the session root stored by Middleware
func FromContext(ctx context.Context) (*state.Root, bool) {
	root, ok := ctx.Value(ctxKey{}).(*state.Root)
	return root, ok
}
