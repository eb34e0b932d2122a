package postgres

import (
	"context"
	"database/sql"
	"time"

	"microblog/internal/domain"
)

// PostRepo implements post repository operations on DB.
type PostRepo struct {
	db *DB
}

// NewPostRepo wraps a DB as a PostRepository.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create inserts a new post and returns its ID.
func (r *PostRepo) Create(ctx context.Context, userID int64, text string, createdAt time.Time) (int64, error) {
	var id int64
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO posts (user_id, text, created_at) VALUES ($1, $2, $3) RETURNING id;",
		userID, text, createdAt.UTC(),
	).Scan(&id)
	return id, err
}

// GetByID retrieves a post by ID regardless of owner.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, user_id, text, created_at FROM posts WHERE id = $1;",
		id,
	).Scan(&p.ID, &p.UserID, &p.Text, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns all posts for a user, newest-first.
func (r *PostRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT id, user_id, text, created_at FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC;",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a post by ID, scoped to its owner.
func (r *PostRepo) Delete(ctx context.Context, userID int64, id int64) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM posts WHERE id = $1 AND user_id = $2;", id, userID)
	return err
}
