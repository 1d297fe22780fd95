package httpserver

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"golang.org/x/net/webdav"

	"inkwell/internal/auth"
)

// davHandler mounts the document root over WebDAV. DAV clients cannot carry
// a browser session, so every request authenticates with BasicAuth against
// the ledger.
func (s *Server) davHandler() http.Handler {
	dav := &webdav.Handler{
		Prefix:     "/dav",
		FileSystem: webdav.Dir(s.store.Root()),
		LockSystem: webdav.NewMemLS(),
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := parseBasicAuth(r.Header.Get("Authorization"))
		if !ok || !s.ledger.Verify(u, p) {
			davDeny(w)
			return
		}
		dav.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
	})
}

func davDeny(w http.ResponseWriter) {
	// constant-ish work
	_ = subtle.ConstantTimeByteEq(1, 1)
	w.Header().Set("WWW-Authenticate", `Basic realm="inkwell"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func parseBasicAuth(v string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(v, prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(strings.TrimPrefix(v, prefix)))
	if err != nil {
		return "", "", false
	}
	s := string(raw)
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", "", false
	}
	u := s[:i]
	p := s[i+1:]
	if u == "" {
		return "", "", false
	}
	if strings.Contains(u, "\x00") || strings.Contains(p, "\x00") {
		return "", "", false
	}
	return u, p, true
}
