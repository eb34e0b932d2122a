package adapthttp

import (
	"errors"
	"net/http"

	"microblog/internal/app"
)

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreatePost(w, r)
	case http.MethodGet:
		s.handleListPosts(w, r)
	case http.MethodDelete:
		s.handleDeletePost(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeParseError(w, err)
		return
	}

	id, err := s.posts.Create(r.Context(), userFrom(r).ID, req.Text)
	if errors.Is(err, app.ErrEmptyPost) || errors.Is(err, app.ErrPostTooLong) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"post_id": id})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context(), userFrom(r).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID int64 `json:"post_id"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeParseError(w, err)
		return
	}

	err := s.posts.Delete(r.Context(), userFrom(r).ID, req.PostID)
	switch {
	case errors.Is(err, app.ErrPostNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, app.ErrNotPostOwner):
		writeError(w, http.StatusForbidden, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
	}
}
