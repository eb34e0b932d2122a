package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"microblog/internal/cache"
	"microblog/internal/domain"
)

const maxPostLength = 1_000_000

var (
	// ErrEmptyPost indicates the post text was empty after trimming.
	ErrEmptyPost = errors.New("post text must not be empty")
	// ErrPostTooLong indicates the post text exceeded the maximum length.
	ErrPostTooLong = errors.New("post text too long")
	// ErrPostNotFound indicates no post exists with the given ID.
	ErrPostNotFound = errors.New("post not found")
	// ErrNotPostOwner indicates the post belongs to another user.
	ErrNotPostOwner = errors.New("post belongs to another user")
)

// PostService handles the post lifecycle: create, list and delete, keeping
// the per-user list cache coherent with every mutation this process performs.
type PostService struct {
	posts    domain.PostRepository
	cache    *cache.PostCache
	cacheTTL time.Duration
}

// NewPostService creates a PostService using the given repository and cache.
func NewPostService(posts domain.PostRepository, c *cache.PostCache, cacheTTL time.Duration) *PostService {
	return &PostService{posts: posts, cache: c, cacheTTL: cacheTTL}
}

// Create validates and stores a new post for the user, then drops the user's
// cached list so no read starting after this call returns can see stale data.
// The store write is shielded from request cancellation to avoid torn writes.
func (s *PostService) Create(ctx context.Context, userID int64, text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyPost
	}
	if len(text) > maxPostLength {
		return 0, ErrPostTooLong
	}

	id, err := s.posts.Create(context.WithoutCancel(ctx), userID, text, time.Now())
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(userID)
	return id, nil
}

// List returns the user's posts newest-first, serving from the cache when a
// live entry exists and filling it on a miss.
func (s *PostService) List(ctx context.Context, userID int64) ([]domain.Post, error) {
	if posts, ok := s.cache.Get(userID); ok {
		return posts, nil
	}

	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(userID, posts, s.cacheTTL)
	return posts, nil
}

// Delete removes a post owned by the user. Existence is checked before
// ownership, so deleting another user's post reports ErrNotPostOwner rather
// than ErrPostNotFound. The owner's cached list is dropped after the delete
// commits.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}

	if err := s.posts.Delete(context.WithoutCancel(ctx), userID, postID); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}
