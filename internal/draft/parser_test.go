package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberedDrafts(t *testing.T) {
	candidates := Parse("1. Hello world\n2. Second draft\n3. Third one")
	require.Equal(t, []string{"Hello world", "Second draft", "Third one"}, candidates)
}

func TestParseParenthesisMarkers(t *testing.T) {
	candidates := Parse("1) First\n2) Second\n3) Third")
	require.Equal(t, []string{"First", "Second", "Third"}, candidates)
}

func TestParseKeepsDiscoveryOrder(t *testing.T) {
	candidates := Parse("3. Gamma\n1. Alpha\n2. Beta")
	require.Equal(t, []string{"Gamma", "Alpha", "Beta"}, candidates)
}

func TestParseCapsCandidates(t *testing.T) {
	candidates := Parse("1. a\n2. b\n3. c\n4. d\n5. e")
	require.Len(t, candidates, MaxCandidates)
	assert.Equal(t, []string{"a", "b", "c"}, candidates)
}

func TestParseMultilineCandidate(t *testing.T) {
	text := "1. First line\nstill the first draft\n2. Second\n3. Third"
	candidates := Parse(text)
	require.Len(t, candidates, 3)
	assert.Equal(t, "First line\nstill the first draft", candidates[0])
}

func TestParseFallsBackToParagraphs(t *testing.T) {
	text := "A post without numbering.\n\nAnother take on the topic.\n\nA third variant."
	candidates := Parse(text)
	require.Equal(t, []string{
		"A post without numbering.",
		"Another take on the topic.",
		"A third variant.",
	}, candidates)
}

func TestParseFewMarkersUsesParagraphs(t *testing.T) {
	// Two markers is below the expected count, so blank lines win.
	text := "1. Only one\n\n2. And two"
	candidates := Parse(text)
	require.Equal(t, []string{"Only one", "And two"}, candidates)
}

func TestParseDropsEmptySegments(t *testing.T) {
	candidates := Parse("\n\n   \n\nOnly real content here\n\n")
	require.Equal(t, []string{"Only real content here"}, candidates)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n\t\n  "))
}

func TestParseIgnoresInlineNumbers(t *testing.T) {
	// Numbers not at line start are content, not markers.
	text := "Ship v2. It is ready.\n\nTop 3. reasons to upgrade.\n\nFinal thoughts."
	candidates := Parse(text)
	require.Len(t, candidates, 3)
	assert.Equal(t, "Ship v2. It is ready.", candidates[0])
}

func TestParseStripsStackedMarkers(t *testing.T) {
	candidates := Parse("1. 2. double trouble\n\nplain paragraph\n\nthird paragraph")
	require.Equal(t, []string{"double trouble", "plain paragraph", "third paragraph"}, candidates)

	// No candidate may begin with a marker, or a re-parse would strip it.
	for _, candidate := range candidates {
		require.Equal(t, []string{candidate}, Parse(candidate))
	}
}

func TestParseIdempotent(t *testing.T) {
	text := "1. First line\nwith continuation\n\n\n2. Second\n3. Third"
	first := Parse(text)
	require.Len(t, first, 3)

	for _, candidate := range first {
		again := Parse(candidate)
		require.Equal(t, []string{candidate}, again)
	}
}
