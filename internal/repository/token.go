package repository

import (
	"context"

	"post-muse/internal/domain"
)

// TokenRepository stores encrypted platform tokens, one per (user, platform).
type TokenRepository interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, token *domain.PlatformToken) error
	Get(ctx context.Context, userID, platform string) (*domain.PlatformToken, error)
}
