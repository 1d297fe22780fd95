package httpserver

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/docs"
	"inkwell/internal/users"
)

type Options struct {
	Config   config.Config
	Store    *docs.Store
	Ledger   *users.Ledger
	Sessions *auth.Sessions
	Watcher  *docs.Watcher // optional; /api/changes reports 0 without it
}

type Server struct {
	cfg      config.Config
	store    *docs.Store
	ledger   *users.Ledger
	sessions *auth.Sessions
	guard    *auth.Guard
	watcher  *docs.Watcher
	pages    map[string]*template.Template
}

//go:embed web/*.html
var embeddedWeb embed.FS

func New(opts Options) (*Server, error) {
	s := &Server{
		cfg:      opts.Config,
		store:    opts.Store,
		ledger:   opts.Ledger,
		sessions: opts.Sessions,
		guard:    &auth.Guard{Sessions: opts.Sessions, Ledger: opts.Ledger},
		watcher:  opts.Watcher,
		pages:    map[string]*template.Template{},
	}
	for _, page := range []string{"index", "edit", "new", "signin", "signup", "upload"} {
		t, err := template.ParseFS(embeddedWeb, "web/layout.html", "web/"+page+".html")
		if err != nil {
			return nil, err
		}
		s.pages[page] = t
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /api/changes", s.handleChanges)

	// accounts
	mux.HandleFunc("GET /users/signin", s.handleSigninForm)
	mux.HandleFunc("POST /users/signin", s.handleSignin)
	mux.HandleFunc("GET /users/signout", s.handleSignout)
	mux.HandleFunc("GET /users/signup", s.handleSignupForm)
	mux.HandleFunc("POST /users/signup", s.handleSignup)

	// documents
	mux.Handle("GET /{$}", s.requireReader(http.HandlerFunc(s.handleIndex)))
	mux.Handle("GET /{name}", s.requireReader(http.HandlerFunc(s.handleView)))
	mux.Handle("GET /thumb", s.requireReader(http.HandlerFunc(s.handleThumb)))
	mux.Handle("GET /{name}/edit", s.requireUser(http.HandlerFunc(s.handleEditForm)))
	mux.Handle("POST /{name}/edit", s.requireUser(http.HandlerFunc(s.handleEdit)))
	mux.Handle("POST /{name}/delete", s.requireUser(http.HandlerFunc(s.handleDelete)))
	mux.Handle("POST /{name}/duplicate", s.requireUser(http.HandlerFunc(s.handleDuplicate)))
	mux.Handle("GET /new_doc/{$}", s.requireUser(http.HandlerFunc(s.handleNewForm)))
	mux.Handle("POST /new_doc/{$}", s.requireUser(http.HandlerFunc(s.handleCreate)))
	mux.Handle("GET /image/upload", s.requireUser(http.HandlerFunc(s.handleUploadForm)))
	mux.Handle("POST /image/upload", s.requireUser(http.HandlerFunc(s.handleUpload)))

	// WebDAV clients carry no browser session; they authenticate per request.
	// The /dav/ subtree is dispatched ahead of the mux: ServeMux refuses to
	// register the method-less prefix pattern alongside GET /{name}/edit.
	dav := s.davHandler()
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dav" {
			http.Redirect(w, r, "/dav/", http.StatusMovedPermanently)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/dav/") {
			dav.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	return withHeaders(s.guard.Attach(root))
}

func withHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Basic hardening / UX.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		if strings.HasPrefix(r.URL.Path, "/thumb") {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}

// requireUser refuses requests without a signed-in user. Refused mutations
// never reach the store.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) == "" {
			s.flashRedirect(w, r, "You must be signed in to do that.", "/users/signin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireReader gates reads only when the configured policy says so.
func (s *Server) requireReader(next http.Handler) http.Handler {
	if !s.cfg.RequireSignin {
		return next
	}
	return s.requireUser(next)
}

// --- page plumbing ---

type docItem struct {
	Name     string
	Kind     string
	Editable bool
}

type pageData struct {
	User      string
	CanMutate bool
	Flash     string
	Error     string
	Docs      []docItem
	Name      string
	NewName   string
	Content   string
	Username  string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.User = auth.UserFromContext(r.Context())
	data.CanMutate = data.User != ""
	if data.Flash == "" {
		data.Flash = s.takeFlash(w, r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages[page].ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("render failed", "page", page, "err", err)
	}
}

const flashCookie = "inkwell_flash"

func (s *Server) setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	b, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(b)
}

func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, msg, to string) {
	s.setFlash(w, msg)
	http.Redirect(w, r, to, http.StatusFound)
}

// errStatus maps store and ledger failures to response codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, docs.ErrAlreadyExists), errors.Is(err, users.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, docs.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, docs.ErrEmptyName),
		errors.Is(err, users.ErrEmptyUsername),
		errors.Is(err, users.ErrEmptyPassword),
		errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnprocessableEntity
	case errors.Is(err, docs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	var gen int64
	if s.watcher != nil {
		gen = s.watcher.Generation()
	}
	writeJSON(w, map[string]any{"generation": gen})
}
