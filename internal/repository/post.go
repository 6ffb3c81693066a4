package repository

import (
	"context"

	"post-muse/internal/domain"
)

// PostRepository exposes persistence operations for publish records.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) error
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	// DeleteOwned removes a post only when it belongs to userID and reports
	// whether a row was removed.
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)
}
