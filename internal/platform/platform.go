// Package platform holds the per-platform publishing adapters.
package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMissingCredential indicates the adapter could not obtain a usable
// platform token for the user.
var ErrMissingCredential = errors.New("missing platform credential")

// Result carries the external identifiers of a successful publish.
type Result struct {
	ExternalID string
	PostURL    string
}

// Adapter publishes content to one platform. Adapters do not enforce
// capability tiers themselves; the dispatcher consults AdminOnly once at its
// boundary.
type Adapter interface {
	Name() string
	AdminOnly() bool
	Publish(ctx context.Context, userID, content string) (*Result, error)
}

// CredentialSource hands adapters a decrypted token for (user, platform).
type CredentialSource interface {
	Retrieve(ctx context.Context, userID, platform string) (string, error)
}

// MockAdapter synthesizes a success for platforms without a real
// integration.
type MockAdapter struct {
	name string
}

func NewMockAdapter(name string) *MockAdapter {
	return &MockAdapter{name: name}
}

func (a *MockAdapter) Name() string    { return a.name }
func (a *MockAdapter) AdminOnly() bool { return false }

func (a *MockAdapter) Publish(ctx context.Context, userID, content string) (*Result, error) {
	id := uuid.NewString()
	return &Result{
		ExternalID: id,
		PostURL:    fmt.Sprintf("https://%s.com/post/%s", a.name, id),
	}, nil
}

var (
	_ Adapter = (*MockAdapter)(nil)
	_ Adapter = (*TwitterAdapter)(nil)
	_ Adapter = (*InstagramAdapter)(nil)
)
