package auth

import (
	"context"
	"errors"
	"net/http"

	"inkwell/internal/users"
)

// ErrUnauthenticated is returned when an operation requires a signed-in user
// and none is present.
var ErrUnauthenticated = errors.New("you must be signed in to do that")

// CookieName carries the session token.
const CookieName = "inkwell_session"

type ctxKey string

const userKey ctxKey = "inkwell.user"

func UserFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userKey).(string)
	return v
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Guard resolves request identity: a session token is only valid while its
// user is still present in the ledger.
type Guard struct {
	Sessions *Sessions
	Ledger   *users.Ledger
}

// User returns the authenticated username for r, or "".
func (g *Guard) User(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	u, ok := g.Sessions.User(c.Value)
	if !ok || !g.Ledger.Exists(u) {
		return ""
	}
	return u
}

// Attach resolves the session once and stores the username on the request
// context for downstream handlers.
func (g *Guard) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := g.User(r); u != "" {
			r = r.WithContext(WithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}
