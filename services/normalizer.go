package services

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRe collapses internal whitespace runs to a single space.
	whitespaceRe = regexp.MustCompile(`\s+`)
	// hashtagRe captures hashtag bodies in captions or hashtag strings.
	hashtagRe = regexp.MustCompile(`#(\w+)`)
	// tokenSplitRe splits normalized text into tokens, keeping hyphenated
	// terms like "0-3m" intact.
	tokenSplitRe = regexp.MustCompile(`[^\w-]+`)
)

// Normalize lowercases text, converts newlines to spaces, trims leading and
// trailing whitespace and collapses internal whitespace runs. It never fails:
// empty input yields an empty string, and the function is idempotent.
func Normalize(text string) string {
	cleaned := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(text, "\n", " ")))
	return whitespaceRe.ReplaceAllString(cleaned, " ")
}

// ExtractHashtags returns the hashtag bodies found in text, in order.
func ExtractHashtags(text string) []string {
	matches := hashtagRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// Tokenize splits normalized text into a token set.
func Tokenize(normalized string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range tokenSplitRe.Split(normalized, -1) {
		if tok != "" {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}
