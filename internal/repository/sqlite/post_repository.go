package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"post-muse/internal/domain"
	"post-muse/internal/repository"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	content TEXT NOT NULL,
	platforms TEXT NOT NULL,
	outcomes TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	post.CreatedAt = time.Now().UTC()

	platforms, err := json.Marshal(post.Platforms)
	if err != nil {
		return fmt.Errorf("encode platforms: %w", err)
	}
	outcomes, err := json.Marshal(post.Outcomes)
	if err != nil {
		return fmt.Errorf("encode outcomes: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO posts (id, user_id, content, platforms, outcomes, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Content,
		string(platforms),
		string(outcomes),
		post.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, content, platforms, outcomes, created_at
FROM posts
WHERE user_id=?
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	return posts, rows.Err()
}

func (r *PostRepository) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("post delete rows affected: %w", err)
	}
	return aff > 0, nil
}

func scanPost(scanner interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var (
		post      domain.Post
		platforms string
		outcomes  string
	)
	if err := scanner.Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&platforms,
		&outcomes,
		&post.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("post not found")
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	if err := json.Unmarshal([]byte(platforms), &post.Platforms); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	if err := json.Unmarshal([]byte(outcomes), &post.Outcomes); err != nil {
		return nil, fmt.Errorf("decode outcomes: %w", err)
	}
	return &post, nil
}
