package adapthttp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adapthttp "microblog/internal/adapter/http"
	"microblog/internal/adapter/memory"
	"microblog/internal/app"
	"microblog/internal/cache"
	"microblog/internal/domain"
	"microblog/internal/token"
)

func newTestHandler(t *testing.T, maxBodyBytes int64) http.Handler {
	t.Helper()
	db := memory.New()
	tokens, err := token.NewManager("test-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("token.NewManager: %v", err)
	}
	authSvc := app.NewAuthService(db, tokens)
	postSvc := app.NewPostService(memory.NewPostRepo(db), cache.New(), time.Minute)
	return adapthttp.New(authSvc, postSvc, maxBodyBytes, nil).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func signup(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/signup", "", map[string]string{
		"email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, w, &resp)
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	w := doJSON(t, h, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSignupThenLogin(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	signupToken := signup(t, h, "a@x.com", "password123")

	w := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &resp)

	// Both tokens resolve to the same account.
	for _, tok := range []string{signupToken, resp.AccessToken} {
		w := doJSON(t, h, http.MethodGet, "/api/posts", tok, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list with token: expected 200, got %d", w.Code)
		}
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	signup(t, h, "a@x.com", "password123")

	w := doJSON(t, h, http.MethodPost, "/api/signup", "", map[string]string{
		"email": "a@x.com", "password": "password456",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", w.Code)
	}
}

func TestSignup_Validation(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"invalid email", "not-an-email", "password123"},
		{"short password", "a@x.com", "short"},
		{"missing password", "a@x.com", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/api/signup", "", map[string]string{
				"email": tc.email, "password": tc.password,
			})
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", w.Code)
			}
		})
	}
}

func TestLogin_InvalidCredentialsAreUniform(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	signup(t, h, "a@x.com", "password123")

	wrongPassword := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong-password",
	})
	unknownEmail := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "b@x.com", "password": "password123",
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("failure bodies must not reveal which check failed: %q vs %q",
			wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestPosts_RequireAuth(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"garbage token", "garbage"},
		{"wrong scheme", "Basic abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tc.header != "" {
				if strings.Contains(tc.header, " ") {
					req.Header.Set("Authorization", tc.header)
				} else {
					req.Header.Set("Authorization", "Bearer "+tc.header)
				}
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestPosts_ExpiredToken(t *testing.T) {
	db := memory.New()
	shortLived, err := token.NewManager("test-secret", "HS256", time.Nanosecond)
	if err != nil {
		t.Fatalf("token.NewManager: %v", err)
	}
	authSvc := app.NewAuthService(db, shortLived)
	postSvc := app.NewPostService(memory.NewPostRepo(db), cache.New(), time.Minute)
	h := adapthttp.New(authSvc, postSvc, 1<<20, nil).Handler()

	tok := signup(t, h, "a@x.com", "password123")
	time.Sleep(10 * time.Millisecond)

	w := doJSON(t, h, http.MethodGet, "/api/posts", tok, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestPostLifecycle(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	tok := signup(t, h, "a@x.com", "password123")

	createPost := func(text string) int64 {
		w := doJSON(t, h, http.MethodPost, "/api/posts", tok, map[string]string{"text": text})
		if w.Code != http.StatusCreated {
			t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			PostID int64 `json:"post_id"`
		}
		decode(t, w, &resp)
		return resp.PostID
	}
	listPosts := func() []domain.Post {
		w := doJSON(t, h, http.MethodGet, "/api/posts", tok, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list: expected 200, got %d", w.Code)
		}
		var posts []domain.Post
		decode(t, w, &posts)
		return posts
	}

	if posts := listPosts(); len(posts) != 0 {
		t.Fatalf("expected empty list, got %d posts", len(posts))
	}

	first := createPost("first")
	second := createPost("second")

	posts := listPosts()
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != second || posts[0].Text != "second" {
		t.Errorf("expected newest post first, got %+v", posts[0])
	}
	if posts[1].ID != first || posts[1].Text != "first" {
		t.Errorf("expected oldest post last, got %+v", posts[1])
	}

	// Empty text is rejected.
	w := doJSON(t, h, http.MethodPost, "/api/posts", tok, map[string]string{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank post, got %d", w.Code)
	}

	// Delete the first post; the next list reflects it immediately.
	w = doJSON(t, h, http.MethodDelete, "/api/posts", tok, map[string]int64{"post_id": first})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	posts = listPosts()
	if len(posts) != 1 || posts[0].ID != second {
		t.Fatalf("expected only post %d to remain, got %+v", second, posts)
	}
}

func TestDeletePost_Ownership(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	owner := signup(t, h, "owner@x.com", "password123")
	intruder := signup(t, h, "intruder@x.com", "password123")

	w := doJSON(t, h, http.MethodPost, "/api/posts", owner, map[string]string{"text": "mine"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	var created struct {
		PostID int64 `json:"post_id"`
	}
	decode(t, w, &created)

	// Someone else's post is Forbidden, a missing post is NotFound.
	w = doJSON(t, h, http.MethodDelete, "/api/posts", intruder, map[string]int64{"post_id": created.PostID})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodDelete, "/api/posts", intruder, map[string]int64{"post_id": 9999})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// The owner still sees the post.
	w = doJSON(t, h, http.MethodGet, "/api/posts", owner, nil)
	var posts []domain.Post
	decode(t, w, &posts)
	if len(posts) != 1 {
		t.Fatalf("expected the post to survive, got %+v", posts)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	h := newTestHandler(t, 64)
	w := doJSON(t, h, http.MethodPost, "/api/signup", "", map[string]string{
		"email":    "a@x.com",
		"password": strings.Repeat("x", 256),
	})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestSSO_DisabledRoutes(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	for _, path := range []string{"/api/auth/sso/login", "/api/auth/sso/callback"} {
		w := doJSON(t, h, http.MethodGet, path, "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 when SSO is not configured, got %d", path, w.Code)
		}
	}
}

func TestPosts_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	tok := signup(t, h, "a@x.com", "password123")

	w := doJSON(t, h, http.MethodPut, "/api/posts", tok, map[string]string{"text": "hi"})
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
