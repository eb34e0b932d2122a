package adapthttp

import (
	"net/http"

	"microblog/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth         *app.AuthService
	posts        *app.PostService
	maxBodyBytes int64
	sso          *SSO
}

// New creates a Server wired to the given application services. sso may be
// nil, in which case the SSO routes answer 404.
func New(auth *app.AuthService, posts *app.PostService, maxBodyBytes int64, sso *SSO) *Server {
	return &Server{auth: auth, posts: posts, maxBodyBytes: maxBodyBytes, sso: sso}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/signup", s.handleSignup)
	api.HandleFunc("/login", s.handleLogin)
	api.Handle("/posts", s.requireAuth(http.HandlerFunc(s.handlePosts)))

	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(s.limitBody(root))
}
