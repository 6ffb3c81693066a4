package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptTwitter(t *testing.T) {
	prompt, err := BuildPrompt("twitter", map[string]string{
		"topic":    "Go generics",
		"tone":     "casual",
		"hashtags": "#golang #dev",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Go generics")
	assert.Contains(t, prompt, "casual")
	assert.Contains(t, prompt, "#golang #dev")
	assert.NotContains(t, prompt, "{")
}

func TestBuildPromptMissingVariable(t *testing.T) {
	_, err := BuildPrompt("twitter", map[string]string{
		"topic": "Go generics",
		"tone":  "casual",
	})
	require.ErrorIs(t, err, ErrMissingVariable)
	assert.Contains(t, err.Error(), "hashtags")
}

func TestBuildPromptBlankValueIsMissing(t *testing.T) {
	_, err := BuildPrompt("linkedin", map[string]string{
		"topic":   "hiring",
		"tone":    "professional",
		"insight": "   ",
	})
	require.ErrorIs(t, err, ErrMissingVariable)
}

func TestBuildPromptGenericFallback(t *testing.T) {
	prompt, err := BuildPrompt("telegram", map[string]string{
		"topic": "launch day",
		"tone":  "enthusiastic",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "telegram")
	assert.Contains(t, prompt, "launch day")
}

func TestTonesReturnsCopy(t *testing.T) {
	first := Tones()
	first[0] = "mutated"
	assert.NotEqual(t, first[0], Tones()[0])
}
