package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"post-muse/internal/domain"
	"post-muse/internal/repository"
)

const createDraftsTable = `
CREATE TABLE IF NOT EXISTS drafts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	platform TEXT NOT NULL,
	content TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'saved',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_drafts_user_id ON drafts(user_id);
`

type DraftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) repository.DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createDraftsTable); err != nil {
		return fmt.Errorf("create drafts table: %w", err)
	}
	return nil
}

func (r *DraftRepository) Create(ctx context.Context, draft *domain.Draft) error {
	draft.CreatedAt = time.Now().UTC()

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO drafts (id, user_id, platform, content, status, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		draft.ID,
		draft.UserID,
		draft.Platform,
		draft.Content,
		string(draft.Status),
		draft.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) ListByUser(ctx context.Context, userID string) ([]domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, platform, content, status, created_at
FROM drafts
WHERE user_id=?
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft
	for rows.Next() {
		var (
			draft  domain.Draft
			status string
		)
		if err := rows.Scan(&draft.ID, &draft.UserID, &draft.Platform, &draft.Content, &status, &draft.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		draft.Status = domain.DraftStatus(status)
		drafts = append(drafts, draft)
	}

	return drafts, rows.Err()
}

func (r *DraftRepository) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete draft: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("draft delete rows affected: %w", err)
	}
	return aff > 0, nil
}
