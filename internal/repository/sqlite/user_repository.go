package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"post-muse/internal/domain"
	"post-muse/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	tier TEXT NOT NULL DEFAULT 'free',
	access_token TEXT NOT NULL DEFAULT '',
	quota_count INTEGER NOT NULL DEFAULT 0,
	quota_reset_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, tier, access_token, quota_count, quota_reset_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		string(user.Tier),
		user.AccessToken,
		user.QuotaCount,
		user.QuotaResetAt.UTC(),
		user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("user already exists: %w", err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, tier, access_token, quota_count, quota_reset_at, created_at
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, tier, access_token, quota_count, quota_reset_at, created_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) UpdateAccessToken(ctx context.Context, id, token string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET access_token=? WHERE id=?`, token, id); err != nil {
		return fmt.Errorf("update access token: %w", err)
	}
	return nil
}

func (r *UserRepository) ResetQuotaIfDue(ctx context.Context, id string, now, nextReset time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET quota_count=0, quota_reset_at=?
WHERE id=? AND quota_reset_at <= ?`,
		nextReset.UTC(),
		id,
		now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("reset quota: %w", err)
	}
	return nil
}

func (r *UserRepository) IncrementQuotaBelow(ctx context.Context, id string, limit int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET quota_count = quota_count + 1
WHERE id=? AND quota_count < ?`,
		id,
		limit,
	)
	if err != nil {
		return false, fmt.Errorf("reserve quota slot: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("quota rows affected: %w", err)
	}
	return aff > 0, nil
}

func (r *UserRepository) IncrementQuota(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE users
SET quota_count = quota_count + 1
WHERE id=?`,
		id,
	); err != nil {
		return fmt.Errorf("increment quota: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user domain.User
		tier string
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&tier,
		&user.AccessToken,
		&user.QuotaCount,
		&user.QuotaResetAt,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Tier = domain.Tier(tier)
	return &user, nil
}
