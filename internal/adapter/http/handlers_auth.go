// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"errors"
	"net/http"
	"net/mail"

	"microblog/internal/app"
)

const minPasswordLength = 8

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func validateCredentials(req credentialsRequest, signup bool) error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	if signup && len(req.Password) < minPasswordLength {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req credentialsRequest
	if err := parseJSON(r, &req); err != nil {
		writeParseError(w, err)
		return
	}
	if err := validateCredentials(req, true); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	tok, err := s.auth.Signup(r.Context(), req.Email, req.Password)
	if errors.Is(err, app.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req credentialsRequest
	if err := parseJSON(r, &req); err != nil {
		writeParseError(w, err)
		return
	}
	if err := validateCredentials(req, false); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	tok, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: tok, TokenType: "bearer"})
}
