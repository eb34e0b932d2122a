package adapthttp

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"microblog/internal/app"
	"microblog/internal/domain"
	"microblog/internal/token"
)

type contextKey string

const userContextKey contextKey = "user"

var errUnauthorized = errors.New("unauthorized")

// requireAuth validates the bearer token and resolves the account into the
// request context. Every token failure answers with the same 401 body so the
// response does not reveal which check rejected the token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}

		user, err := s.auth.ResolveToken(r.Context(), tok)
		switch {
		case err == nil:
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		case errors.Is(err, token.ErrExpired),
			errors.Is(err, token.ErrInvalidSignature),
			errors.Is(err, token.ErrMalformed),
			errors.Is(err, app.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, errUnauthorized)
		default:
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		}
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, tok, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || tok == "" {
		return "", false
	}
	return tok, true
}

// userFrom returns the authenticated user stored by requireAuth.
func userFrom(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

// limitBody caps the accepted request body size.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && s.maxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request with a generated request id.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		reqID := uuid.NewString()

		next.ServeHTTP(rec, r)

		log.Printf("%s %s %s %d %s", reqID, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
