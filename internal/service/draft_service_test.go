package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-muse/internal/domain"
	"post-muse/internal/draft"
)

type fakeDraftRepo struct {
	drafts map[string]*domain.Draft
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]*domain.Draft)}
}

func (r *fakeDraftRepo) Init(ctx context.Context) error { return nil }

func (r *fakeDraftRepo) Create(ctx context.Context, d *domain.Draft) error {
	r.drafts[d.ID] = d
	return nil
}

func (r *fakeDraftRepo) ListByUser(ctx context.Context, userID string) ([]domain.Draft, error) {
	var out []domain.Draft
	for _, d := range r.drafts {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDraftRepo) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	d, ok := r.drafts[id]
	if !ok || d.UserID != userID {
		return false, nil
	}
	delete(r.drafts, id)
	return true, nil
}

type cannedText struct{ text string }

func (c *cannedText) Complete(ctx context.Context, prompt string) (string, error) {
	return c.text, nil
}

func newTestDraftService(repo *fakeDraftRepo, text string) DraftService {
	generator := draft.NewGenerator(&cannedText{text: text}, draft.GeneratorConfig{})
	return NewDraftService(repo, generator)
}

func TestGenerateRejectsUnknownPlatform(t *testing.T) {
	svc := newTestDraftService(newFakeDraftRepo(), "unused")

	_, err := svc.Generate(context.Background(), "myspace", map[string]string{"topic": "x", "tone": "bold"})
	require.ErrorIs(t, err, ErrInvalidPlatform)
}

func TestGenerateReturnsCandidates(t *testing.T) {
	svc := newTestDraftService(newFakeDraftRepo(), "1. A\n2. B\n3. C")

	drafts, err := svc.Generate(context.Background(), "telegram", map[string]string{
		"topic": "launch", "tone": "bold",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, drafts)
}

func TestSaveDraft(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newTestDraftService(repo, "unused")
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", "linkedin", "A polished post")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, domain.DraftStatusSaved, saved.Status)

	_, err = svc.Save(ctx, "u1", "linkedin", "   ")
	require.Error(t, err)

	_, err = svc.Save(ctx, "u1", "myspace", "content")
	require.ErrorIs(t, err, ErrInvalidPlatform)
}

func TestDeleteDraftOwnership(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newTestDraftService(repo, "unused")
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", "linkedin", "mine")
	require.NoError(t, err)

	err = svc.Delete(ctx, saved.ID, "u2")
	require.ErrorIs(t, err, ErrDraftNotFound)

	require.NoError(t, svc.Delete(ctx, saved.ID, "u1"))
	require.ErrorIs(t, svc.Delete(ctx, saved.ID, "u1"), ErrDraftNotFound)
}
