// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"microblog/internal/domain"
)

// DB implements the domain repositories in process memory.
type DB struct {
	mu    sync.Mutex
	users []*domain.User
	posts []domain.Post

	userIDCounter int64
	postIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.PostRepository = (*PostRepo)(nil)

// GetByEmail retrieves a user by exact email match.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create adds a new user, enforcing email uniqueness.
func (d *DB) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	d.userIDCounter++
	u := &domain.User{
		ID:           d.userIDCounter,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	d.users = append(d.users, u)
	cp := *u
	return &cp, nil
}

// PostRepo exposes the post side of the in-memory database.
type PostRepo struct {
	db *DB
}

// NewPostRepo wraps a DB as a PostRepository.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create stores a new post and returns its ID.
func (r *PostRepo) Create(ctx context.Context, userID int64, text string, createdAt time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.postIDCounter++
	r.db.posts = append(r.db.posts, domain.Post{
		ID:        r.db.postIDCounter,
		UserID:    userID,
		Text:      text,
		CreatedAt: createdAt,
	})
	return r.db.postIDCounter, nil
}

// GetByID retrieves a post by ID regardless of owner.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.posts {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByUser returns a user's posts newest-first. IDs are monotonic, so they
// break ties between posts created within the same timestamp granularity.
func (r *PostRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.Post{}
	for _, p := range r.db.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Delete removes a post by ID, scoped to its owner.
func (r *PostRepo) Delete(ctx context.Context, userID int64, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, p := range r.db.posts {
		if p.ID == id && p.UserID == userID {
			r.db.posts = append(r.db.posts[:i], r.db.posts[i+1:]...)
			return nil
		}
	}
	return nil
}
