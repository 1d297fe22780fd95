package httpserver

import (
	"log/slog"
	"net/http"

	"inkwell/internal/auth"
	"inkwell/internal/users"
)

func (s *Server) handleSigninForm(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) != "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "signin", pageData{})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	if !s.ledger.Verify(username, password) {
		s.render(w, r, errStatus(users.ErrInvalidCredentials), "signin", pageData{
			Error:    "Invalid credentials.",
			Username: username,
		})
		return
	}
	token, err := s.sessions.Create(username)
	if err != nil {
		http.Error(w, "signin failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("signin", "user", username)
	s.flashRedirect(w, r, "Welcome!", "/")
}

func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.CookieName); err == nil {
		s.sessions.Destroy(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "", Path: "/", MaxAge: -1})
	s.flashRedirect(w, r, "You have been signed out.", "/users/signin")
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) != "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "signup", pageData{})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	if err := s.ledger.Register(username, password); err != nil {
		s.render(w, r, errStatus(err), "signup", pageData{
			Error:    err.Error(),
			Username: username,
		})
		return
	}
	slog.Info("signup", "user", username)
	s.flashRedirect(w, r, "Account created. Please sign in.", "/users/signin")
}
