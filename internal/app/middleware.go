package app

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/ctxutil"
)

// requestID tags every request with an id that the api client forwards to
// the backend, so one id threads the whole call chain.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
	})
}

// requireSession is the route guard. While the persisted session is still
// restoring, the decision is deferred; a missing or expired credential drops
// the session and redirects to /login before any backend call is made.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.session.Loading() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "sesión restaurándose", http.StatusServiceUnavailable)
			return
		}
		if !s.session.Authenticated() {
			s.session.Logout()
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
