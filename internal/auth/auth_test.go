package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/users"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSessions(time.Hour)

	token, err := s.Create("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	u, ok := s.User(token)
	assert.True(t, ok)
	assert.Equal(t, "alice", u)

	s.Destroy(token)
	_, ok = s.User(token)
	assert.False(t, ok)

	_, ok = s.User("no-such-token")
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	s := NewSessions(50 * time.Millisecond)
	token, err := s.Create("alice")
	require.NoError(t, err)

	_, ok := s.User(token)
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)
	_, ok = s.User(token)
	assert.False(t, ok, "sessions expire after the TTL")
}

func TestGuard(t *testing.T) {
	ledger, err := users.Open(filepath.Join(t.TempDir(), "users.yml"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ledger.Register("alice", "pw"))

	sessions := NewSessions(time.Hour)
	g := &Guard{Sessions: sessions, Ledger: ledger}

	withCookie := func(token string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		}
		return r
	}

	assert.Empty(t, g.User(withCookie("")), "no cookie means anonymous")
	assert.Empty(t, g.User(withCookie("bogus")))

	token, err := sessions.Create("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", g.User(withCookie(token)))

	// a session outlives its user only on paper
	require.NoError(t, ledger.Remove("alice"))
	assert.Empty(t, g.User(withCookie(token)), "removed users lose their sessions")
}

func TestAttach(t *testing.T) {
	ledger, err := users.Open(filepath.Join(t.TempDir(), "users.yml"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ledger.Register("alice", "pw"))
	sessions := NewSessions(time.Hour)
	g := &Guard{Sessions: sessions, Ledger: ledger}

	var got string
	h := g.Attach(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
	}))

	token, err := sessions.Create("alice")
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "alice", got)

	got = ""
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, got)
}
