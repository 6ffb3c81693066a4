package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"post-muse/internal/domain"
	"post-muse/internal/draft"
	"post-muse/internal/repository"
)

var (
	// ErrInvalidPlatform flags an unsupported platform name.
	ErrInvalidPlatform = errors.New("invalid platform")
	// ErrDraftNotFound is returned when a draft does not exist or belongs to
	// another user.
	ErrDraftNotFound = errors.New("draft not found")
)

// DraftService coordinates draft generation and the saved-draft lifecycle.
type DraftService interface {
	Generate(ctx context.Context, platform string, vars map[string]string) ([]string, error)
	Save(ctx context.Context, userID, platform, content string) (*domain.Draft, error)
	List(ctx context.Context, userID string) ([]domain.Draft, error)
	Delete(ctx context.Context, id, userID string) error
}

type draftService struct {
	drafts    repository.DraftRepository
	generator *draft.Generator
}

func NewDraftService(drafts repository.DraftRepository, generator *draft.Generator) DraftService {
	return &draftService{
		drafts:    drafts,
		generator: generator,
	}
}

// Generate produces up to three draft candidates for the platform. A failed
// or timed-out generation yields an empty list, not an error; only bad
// input (unknown platform, missing template variable) fails.
func (s *draftService) Generate(ctx context.Context, platform string, vars map[string]string) ([]string, error) {
	if !domain.ValidPlatform(platform) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlatform, platform)
	}
	return s.generator.GenerateDrafts(ctx, platform, vars)
}

func (s *draftService) Save(ctx context.Context, userID, platform, content string) (*domain.Draft, error) {
	if !domain.ValidPlatform(platform) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlatform, platform)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("draft content is required")
	}

	record := &domain.Draft{
		ID:       uuid.NewString(),
		UserID:   userID,
		Platform: platform,
		Content:  content,
		Status:   domain.DraftStatusSaved,
	}
	if err := s.drafts.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *draftService) List(ctx context.Context, userID string) ([]domain.Draft, error) {
	return s.drafts.ListByUser(ctx, userID)
}

func (s *draftService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.drafts.DeleteOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrDraftNotFound
	}
	return nil
}
