package domain

import (
	"context"
	"time"
)

// Post represents a short text post owned by a single user. Ownership never
// changes after creation.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PostRepository is the port for post persistence. GetByID returns (nil, nil)
// when no post matches. ListByUser returns posts newest-first.
type PostRepository interface {
	Create(ctx context.Context, userID int64, text string, createdAt time.Time) (int64, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	ListByUser(ctx context.Context, userID int64) ([]Post, error)
	Delete(ctx context.Context, userID int64, id int64) error
}
