package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"post-muse/internal/domain"
)

// Archiver exports persisted publish records as JSON objects, one per post.
// Archiving is best-effort: the durable record lives in the database and an
// archive failure never fails a publish.
type Archiver struct {
	svc       Service
	bucket    string
	keyPrefix string
}

func NewArchiver(svc Service, bucket, keyPrefix string) *Archiver {
	return &Archiver{
		svc:       svc,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

type archivedPost struct {
	ID        string                   `json:"id"`
	UserID    string                   `json:"user_id"`
	Content   string                   `json:"content"`
	Platforms []string                 `json:"platforms"`
	Outcomes  []domain.PlatformOutcome `json:"outcomes"`
	CreatedAt time.Time                `json:"created_at"`
}

// ArchivePost writes the post under <prefix>/<post id>.json and returns the
// object location.
func (a *Archiver) ArchivePost(ctx context.Context, post *domain.Post) (string, error) {
	body, err := json.Marshal(archivedPost{
		ID:        post.ID,
		UserID:    post.UserID,
		Content:   post.Content,
		Platforms: post.Platforms,
		Outcomes:  post.Outcomes,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("encode post archive: %w", err)
	}

	key := post.ID + ".json"
	if a.keyPrefix != "" {
		key = a.keyPrefix + "/" + key
	}

	if err := a.svc.PutObject(ctx, a.bucket, key, body, "application/json"); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// ListArchived enumerates the archived post objects under the configured
// prefix.
func (a *Archiver) ListArchived(ctx context.Context) ([]ObjectInfo, error) {
	return a.svc.ListObjects(ctx, a.bucket, a.keyPrefix)
}
