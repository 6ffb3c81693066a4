package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"post-muse/internal/domain"
	"post-muse/internal/repository"
)

const createPlatformTokensTable = `
CREATE TABLE IF NOT EXISTS platform_tokens (
	user_id TEXT NOT NULL,
	platform TEXT NOT NULL,
	encrypted_secret TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, platform)
);
`

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) repository.TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPlatformTokensTable); err != nil {
		return fmt.Errorf("create platform_tokens table: %w", err)
	}
	return nil
}

func (r *TokenRepository) Upsert(ctx context.Context, token *domain.PlatformToken) error {
	token.UpdatedAt = time.Now().UTC()

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO platform_tokens (user_id, platform, encrypted_secret, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, platform) DO UPDATE SET encrypted_secret=excluded.encrypted_secret, updated_at=excluded.updated_at`,
		token.UserID,
		token.Platform,
		token.EncryptedSecret,
		token.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert platform token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, userID, platform string) (*domain.PlatformToken, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_id, platform, encrypted_secret, updated_at
FROM platform_tokens
WHERE user_id=? AND platform=?`,
		userID,
		platform,
	)

	var token domain.PlatformToken
	if err := row.Scan(&token.UserID, &token.Platform, &token.EncryptedSecret, &token.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("platform token not found")
		}
		return nil, fmt.Errorf("scan platform token: %w", err)
	}
	return &token, nil
}
