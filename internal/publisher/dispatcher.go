// Package publisher fans validated posts out to platform adapters.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"post-muse/internal/domain"
	"post-muse/internal/platform"
	"post-muse/internal/quota"
	"post-muse/internal/repository"
	"post-muse/internal/storage"
)

var (
	// ErrQuotaExceeded means the monthly publish cap denied the request
	// before any platform was attempted.
	ErrQuotaExceeded = errors.New("monthly publish quota exceeded")
	// ErrInvalidPlatform flags an unsupported platform name.
	ErrInvalidPlatform = errors.New("invalid platform")
	// ErrEmptyContent flags a publish with nothing to post.
	ErrEmptyContent = errors.New("post content is required")
)

// Config tunes the dispatcher.
type Config struct {
	// PlatformTimeout caps each individual platform attempt. A timeout
	// resolves that platform's outcome without delaying the others.
	PlatformTimeout time.Duration
	Logger          *logrus.Logger
	// Archive, when set, receives a best-effort JSON copy of every
	// persisted post.
	Archive *storage.Archiver
}

// Dispatcher publishes a post to a set of platforms, best-effort and
// independently per platform, after reserving exactly one quota slot for
// the whole post. Outcomes are collected completely before the aggregate
// result is persisted or reported.
type Dispatcher struct {
	quota    *quota.Enforcer
	posts    repository.PostRepository
	adapters map[string]platform.Adapter
	timeout  time.Duration
	logger   *logrus.Logger
	archive  *storage.Archiver
}

func NewDispatcher(enforcer *quota.Enforcer, posts repository.PostRepository, adapters []platform.Adapter, cfg Config) *Dispatcher {
	if cfg.PlatformTimeout <= 0 {
		cfg.PlatformTimeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	byName := make(map[string]platform.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}

	return &Dispatcher{
		quota:    enforcer,
		posts:    posts,
		adapters: byName,
		timeout:  cfg.PlatformTimeout,
		logger:   cfg.Logger,
		archive:  cfg.Archive,
	}
}

// Publish validates the request, reserves one quota slot, fans out to every
// target platform concurrently, and persists the post with the full outcome
// map whether all, some, or none of the platforms succeeded.
func (d *Dispatcher) Publish(ctx context.Context, user *domain.User, content string, platforms []string) (*domain.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("%w: no platforms given", ErrInvalidPlatform)
	}
	for _, name := range platforms {
		if !domain.ValidPlatform(name) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPlatform, name)
		}
	}

	// One reservation per post, not per platform. The slot is consumed even
	// if every platform attempt fails afterwards.
	allowed, err := d.quota.CheckAndReserve(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("quota check: %w", err)
	}
	if !allowed {
		return nil, ErrQuotaExceeded
	}

	logger := d.logger.WithField("user_id", user.ID)

	outcomes := make([]domain.PlatformOutcome, len(platforms))
	var wg sync.WaitGroup
	for i, name := range platforms {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			outcomes[i] = d.attempt(ctx, user, content, name)
		}(i, name)
	}
	wg.Wait()

	post := &domain.Post{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Content:   content,
		Platforms: platforms,
		Outcomes:  outcomes,
	}
	if err := d.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("persist post: %w", err)
	}

	logger.WithField("post_id", post.ID).Infof("post published to %d platform(s)", len(platforms))

	if d.archive != nil {
		go d.archivePost(post)
	}

	return post, nil
}

// attempt resolves exactly one platform's outcome. Failures here are data,
// not errors: they land in the outcome map and never abort the post.
func (d *Dispatcher) attempt(ctx context.Context, user *domain.User, content, name string) domain.PlatformOutcome {
	adapter, ok := d.adapters[name]
	if !ok {
		adapter = platform.NewMockAdapter(name)
	}

	// Capability gate, consulted once here rather than inside each adapter.
	if adapter.AdminOnly() && !user.IsAdmin() {
		d.logger.WithField("user_id", user.ID).Warnf("non-admin publish to %s rejected", name)
		return domain.PlatformOutcome{
			Platform: name,
			Status:   domain.OutcomeFailed,
			Reason:   domain.ReasonForbidden,
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type attemptResult struct {
		result *platform.Result
		err    error
	}
	done := make(chan attemptResult, 1)
	go func() {
		result, err := adapter.Publish(callCtx, user.ID, content)
		done <- attemptResult{result: result, err: err}
	}()

	select {
	case <-callCtx.Done():
		// A cancelled parent is an abandoned request, not a slow platform.
		if errors.Is(ctx.Err(), context.Canceled) {
			d.logger.Warnf("publish to %s cancelled", name)
			return domain.PlatformOutcome{
				Platform: name,
				Status:   domain.OutcomeFailed,
				Reason:   domain.ReasonCancelled,
			}
		}
		d.logger.Warnf("publish to %s timed out after %s", name, d.timeout)
		return domain.PlatformOutcome{
			Platform: name,
			Status:   domain.OutcomeFailed,
			Reason:   domain.ReasonTimeout,
		}
	case r := <-done:
		if r.err != nil {
			d.logger.Warnf("publish to %s failed: %v", name, r.err)
			reason := r.err.Error()
			switch {
			case errors.Is(r.err, platform.ErrMissingCredential):
				reason = domain.ReasonMissingCredential
			case errors.Is(r.err, context.Canceled):
				reason = domain.ReasonCancelled
			case errors.Is(r.err, context.DeadlineExceeded):
				reason = domain.ReasonTimeout
			}
			return domain.PlatformOutcome{
				Platform: name,
				Status:   domain.OutcomeFailed,
				Reason:   reason,
			}
		}
		return domain.PlatformOutcome{
			Platform:   name,
			Status:     domain.OutcomeSuccess,
			ExternalID: r.result.ExternalID,
			PostURL:    r.result.PostURL,
		}
	}
}

func (d *Dispatcher) archivePost(post *domain.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dest, err := d.archive.ArchivePost(ctx, post)
	if err != nil {
		d.logger.WithField("post_id", post.ID).Warnf("archive post: %v", err)
		return
	}
	d.logger.WithField("post_id", post.ID).Debugf("post archived to %s", dest)
}
