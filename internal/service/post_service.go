package service

import (
	"context"
	"errors"

	"post-muse/internal/domain"
	"post-muse/internal/repository"
)

// ErrPostNotFound is returned when a post does not exist or belongs to
// another user.
var ErrPostNotFound = errors.New("post not found")

// PostService exposes read/delete operations over persisted publish records.
// Creation happens only through the publish dispatcher.
type PostService interface {
	List(ctx context.Context, userID string) ([]domain.Post, error)
	Delete(ctx context.Context, id, userID string) error
}

type postService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts}
}

func (s *postService) List(ctx context.Context, userID string) ([]domain.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

func (s *postService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.posts.DeleteOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}
	return nil
}
