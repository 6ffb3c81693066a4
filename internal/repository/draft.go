package repository

import (
	"context"

	"post-muse/internal/domain"
)

// DraftRepository exposes persistence operations for saved drafts.
type DraftRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, draft *domain.Draft) error
	ListByUser(ctx context.Context, userID string) ([]domain.Draft, error)
	// DeleteOwned removes a draft only when it belongs to userID and reports
	// whether a row was removed.
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)
}
