// Package quota gates publish attempts against per-user monthly caps.
package quota

import (
	"context"
	"fmt"
	"time"

	"post-muse/internal/domain"
)

// Store is the slice of user persistence the enforcer needs. Both increment
// operations must be atomic with respect to a single user's counter; the
// sqlite implementation uses single conditional UPDATE statements, so no
// locking is needed here and unrelated users are never serialized against
// each other.
type Store interface {
	ResetQuotaIfDue(ctx context.Context, id string, now, nextReset time.Time) error
	IncrementQuotaBelow(ctx context.Context, id string, limit int) (bool, error)
	IncrementQuota(ctx context.Context, id string) error
}

// Enforcer tracks and reserves monthly publish slots. Free-tier users get a
// fixed cap per calendar month; admins are unconditionally allowed but still
// counted for accounting.
type Enforcer struct {
	store      Store
	monthlyCap int
	now        func() time.Time
}

func NewEnforcer(store Store, monthlyCap int) *Enforcer {
	if monthlyCap <= 0 {
		monthlyCap = domain.FreeTierMonthlyCap
	}
	return &Enforcer{
		store:      store,
		monthlyCap: monthlyCap,
		now:        time.Now,
	}
}

// CheckAndReserve reserves one publish slot for the user, reporting false
// when the user is at cap. The reservation is taken before any platform is
// attempted and is not returned if every platform later fails.
//
// The lazy monthly reset runs first: it is a conditional update keyed on the
// stored boundary, so concurrent callers cannot double-reset, and the
// reservation itself is a single check-and-increment. Two concurrent
// requests racing for the last slot resolve to exactly one winner.
func (e *Enforcer) CheckAndReserve(ctx context.Context, user *domain.User) (bool, error) {
	now := e.now().UTC()
	if err := e.store.ResetQuotaIfDue(ctx, user.ID, now, NextReset(now)); err != nil {
		return false, fmt.Errorf("lazy quota reset: %w", err)
	}

	if user.IsAdmin() {
		if err := e.store.IncrementQuota(ctx, user.ID); err != nil {
			return false, fmt.Errorf("count admin publish: %w", err)
		}
		return true, nil
	}

	allowed, err := e.store.IncrementQuotaBelow(ctx, user.ID, e.monthlyCap)
	if err != nil {
		return false, fmt.Errorf("reserve quota slot: %w", err)
	}
	return allowed, nil
}

// NextReset returns the boundary at which the counter resets: the first
// instant of the next calendar month, UTC server clock. Pure function of its
// input.
func NextReset(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}
