package repository

import (
	"context"
	"time"

	"post-muse/internal/domain"
)

// UserRepository defines persistence operations for User entities,
// including the atomic quota bookkeeping the enforcer relies on.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateAccessToken(ctx context.Context, id, token string) error

	// ResetQuotaIfDue zeroes the monthly counter and advances the reset
	// boundary, but only when the stored boundary is at or before now.
	ResetQuotaIfDue(ctx context.Context, id string, now, nextReset time.Time) error
	// IncrementQuotaBelow bumps the counter only while it is under limit and
	// reports whether the reservation was taken. The check and increment are
	// a single statement, so two concurrent callers cannot both take the
	// last slot.
	IncrementQuotaBelow(ctx context.Context, id string, limit int) (bool, error)
	// IncrementQuota bumps the counter unconditionally (admin accounting).
	IncrementQuota(ctx context.Context, id string) error
}
