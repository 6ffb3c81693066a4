package draft

import (
	"regexp"
	"strings"
)

// MaxCandidates caps how many drafts a single generation yields.
const MaxCandidates = 3

var (
	// A marker is an integer at the start of a line immediately followed by
	// a "." or ")" delimiter, e.g. "1." or "12)".
	markerPattern        = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]`)
	leadingMarkerPattern = regexp.MustCompile(`^\s*\d+[.)]\s*`)
	blankLinePattern     = regexp.MustCompile(`\n[ \t]*\n+`)
)

// Parse extracts up to MaxCandidates discrete draft candidates from raw
// generated text, in discovery order. Numbered markers are the primary
// structure; when fewer than MaxCandidates markers exist the text is
// segmented on blank lines instead. Candidates are cleaned (marker stripped,
// trimmed, interior blank lines collapsed) and never empty. Parse tolerates
// any input and never fails: malformed text degrades to fewer candidates,
// an internal panic to none.
func Parse(text string) (candidates []string) {
	defer func() {
		// Model output is arbitrary; a parse must never take down a request.
		if r := recover(); r != nil {
			candidates = nil
		}
	}()

	segments := splitOnMarkers(text)
	if len(segments) < MaxCandidates {
		segments = splitOnBlankLines(text)
	}

	for _, segment := range segments {
		cleaned := clean(segment)
		if cleaned == "" {
			continue
		}
		candidates = append(candidates, cleaned)
		if len(candidates) == MaxCandidates {
			break
		}
	}
	return candidates
}

// splitOnMarkers captures each run of text from one numbered marker to the
// next (or end of input). Marker numbers are ignored for ordering: the model
// may skip, duplicate, or scramble them, so discovery order wins.
func splitOnMarkers(text string) []string {
	locations := markerPattern.FindAllStringIndex(text, -1)
	if len(locations) == 0 {
		return nil
	}

	segments := make([]string, 0, len(locations))
	for i, loc := range locations {
		end := len(text)
		if i+1 < len(locations) {
			end = locations[i+1][0]
		}
		segments = append(segments, text[loc[0]:end])
	}
	return segments
}

func splitOnBlankLines(text string) []string {
	return blankLinePattern.Split(text, -1)
}

// clean strips leading markers, trims surrounding whitespace, and collapses
// interior blank lines so that re-parsing a candidate yields the candidate
// itself. Markers are stripped until none remain: a candidate that still
// started with one would lose it on a second parse.
func clean(segment string) string {
	for {
		stripped := leadingMarkerPattern.ReplaceAllString(segment, "")
		if stripped == segment {
			break
		}
		segment = stripped
	}
	segment = blankLinePattern.ReplaceAllString(segment, "\n")

	lines := strings.Split(segment, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
