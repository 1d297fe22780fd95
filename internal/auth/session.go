package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Sessions is an in-memory token store. Tokens are opaque 128-bit hex
// strings; entries expire after the configured TTL and are reaped lazily on
// access.
type Sessions struct {
	ttl time.Duration
	mu  sync.Mutex
	m   map[string]session
}

type session struct {
	user    string
	expires time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{ttl: ttl, m: map[string]session{}}
}

// Create mints a token for user.
func (s *Sessions) Create(user string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.m[token] = session{user: user, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// User resolves a token to its username. Expired or unknown tokens report
// false; expired entries are removed on the way out.
func (s *Sessions) User(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[token]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expires) {
		delete(s.m, token)
		return "", false
	}
	return sess.user, true
}

// Destroy invalidates a token. Unknown tokens are ignored.
func (s *Sessions) Destroy(token string) {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
}

func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
