package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTextService struct {
	text  string
	err   error
	delay time.Duration
}

func (s *stubTextService) Complete(ctx context.Context, prompt string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func TestGeneratePassthrough(t *testing.T) {
	g := NewGenerator(&stubTextService{text: "hello"}, GeneratorConfig{})
	assert.Equal(t, "hello", g.Generate(context.Background(), "prompt"))
}

func TestGenerateProviderErrorYieldsEmpty(t *testing.T) {
	g := NewGenerator(&stubTextService{err: errors.New("quota exhausted")}, GeneratorConfig{})
	assert.Equal(t, "", g.Generate(context.Background(), "prompt"))
}

func TestGenerateTimeoutYieldsEmpty(t *testing.T) {
	g := NewGenerator(&stubTextService{text: "late", delay: 500 * time.Millisecond}, GeneratorConfig{
		Timeout: 20 * time.Millisecond,
	})

	start := time.Now()
	assert.Equal(t, "", g.Generate(context.Background(), "prompt"))
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGenerator(&stubTextService{text: "hello"}, GeneratorConfig{})
	assert.Equal(t, "", g.Generate(ctx, "prompt"))
}

func TestGenerateDrafts(t *testing.T) {
	g := NewGenerator(&stubTextService{text: "1. Alpha\n2. Beta\n3. Gamma"}, GeneratorConfig{})

	drafts, err := g.GenerateDrafts(context.Background(), "twitter", map[string]string{
		"topic":    "release week",
		"tone":     "bold",
		"hashtags": "#ship",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, drafts)
}

func TestGenerateDraftsMissingVariable(t *testing.T) {
	g := NewGenerator(&stubTextService{text: "unused"}, GeneratorConfig{})

	_, err := g.GenerateDrafts(context.Background(), "twitter", map[string]string{
		"topic": "release week",
	})
	require.ErrorIs(t, err, ErrMissingVariable)
}

func TestGenerateDraftsFailureDegradesToEmpty(t *testing.T) {
	g := NewGenerator(&stubTextService{err: errors.New("backend down")}, GeneratorConfig{})

	drafts, err := g.GenerateDrafts(context.Background(), "twitter", map[string]string{
		"topic":    "release week",
		"tone":     "bold",
		"hashtags": "#ship",
	})
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
