package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"shopledger/internal/core"
)

const sessionCookieName = "shopledger_session"

// SessionStore keeps authenticated sessions in memory, keyed by opaque
// random tokens. Sessions never carry the password hash and expire after a
// fixed TTL; lookups evict lazily.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
}

type session struct {
	user      core.User
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
	}
}

// Create registers a session for the user and returns its token.
func (s *SessionStore) Create(user core.User) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	user.PasswordHash = ""

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{user: user, expiresAt: time.Now().Add(s.ttl)}
	return token, nil
}

// Lookup resolves a token to its user. Expired sessions are removed on the
// spot and report as absent.
func (s *SessionStore) Lookup(token string) (core.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return core.User{}, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return core.User{}, false
	}
	return sess.user, true
}

// Delete removes a session. Unknown tokens are a no-op.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
