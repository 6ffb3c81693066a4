package draft

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissingVariable indicates a template placeholder had no value.
var ErrMissingVariable = errors.New("missing template variable")

// Platform-specific prompt templates. Placeholders use {name} syntax and
// must all be resolvable from the caller's variables. Platforms without a
// dedicated template fall back to genericTemplate.
var promptTemplates = map[string]string{
	"twitter": "Write 3 separate Twitter posts under 280 characters each about '{topic}'. " +
		"Use a {tone} tone with emojis and the hashtags {hashtags}. " +
		"Output only the posts, numbered 1, 2, and 3, without any extra explanation or introduction.",
	"linkedin": "Write 3 professional LinkedIn posts about '{topic}'. " +
		"Include the insight '{insight}'. Use a {tone} tone. " +
		"Output only the posts, numbered 1, 2, and 3, with no extra introduction.",
	"instagram": "Write 3 Instagram captions about '{topic}' with a {tone} tone and relevant emojis. " +
		"Include a call to action in each. " +
		"Output only the captions, numbered 1, 2, and 3, without extra text.",
}

const genericTemplate = "Write 3 separate social media posts for {platform} about '{topic}'. " +
	"Use a {tone} tone. " +
	"Output only the posts, numbered 1, 2, and 3, without any extra explanation or introduction."

var tones = []string{
	"casual", "professional", "humorous", "enthusiastic",
	"bold", "friendly", "sarcastic", "inspirational",
}

// Tones returns the tone catalog offered to callers building variables.
func Tones() []string {
	out := make([]string, len(tones))
	copy(out, tones)
	return out
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// BuildPrompt renders the platform's template with the supplied variables.
// Every placeholder must have a value; the first unresolved one fails the
// build with ErrMissingVariable. Pure function, no side effects.
func BuildPrompt(platform string, vars map[string]string) (string, error) {
	template, ok := promptTemplates[platform]
	if !ok {
		template = genericTemplate
	}

	var missing string
	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if name == "platform" {
			return platform
		}
		value, ok := vars[name]
		if !ok || strings.TrimSpace(value) == "" {
			if missing == "" {
				missing = name
			}
			return match
		}
		return value
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %s", ErrMissingVariable, missing)
	}

	return rendered, nil
}
