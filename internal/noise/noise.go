// Package noise classifies extracted text as article content or boilerplate.
// Subscription prompts, follow links and similar chrome must never reach the
// composed document.
package noise

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultPhrases is the built-in boilerplate list. The classifier matches by
// case-insensitive substring containment, so short generic phrases like
// "subscribe" intentionally catch whole families of prompts.
var DefaultPhrases = []string{
	"follow this publication",
	"subscribe",
	"join the discussion",
	"become a subscriber",
	"unlock full access",
	"sign up for our newsletter",
	"share this article",
	"follow us on",
	"continue reading",
	"related articles",
	"advertisement",
}

// Classifier decides whether a piece of text is boilerplate. The phrase list
// is configuration: callers may extend or replace it without code changes.
type Classifier struct {
	phrases []string
}

// NewClassifier builds a classifier from the default phrases plus any extra
// ones from configuration. Phrases are lowercased once at construction.
func NewClassifier(extra ...string) *Classifier {
	phrases := make([]string, 0, len(DefaultPhrases)+len(extra))
	for _, p := range DefaultPhrases {
		phrases = append(phrases, strings.ToLower(p))
	}
	for _, p := range extra {
		if s := strings.ToLower(strings.TrimSpace(p)); s != "" {
			phrases = append(phrases, s)
		}
	}
	return &Classifier{phrases: phrases}
}

// IsNoise reports whether text is boilerplate. Whitespace runs are collapsed
// and the text NFC-normalized before matching; empty or whitespace-only input
// counts as noise.
func (c *Classifier) IsNoise(text string) bool {
	s := Collapse(text)
	if s == "" {
		return true
	}
	s = strings.ToLower(norm.NFC.String(s))
	for _, p := range c.phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Collapse trims text and collapses internal whitespace runs to single spaces.
func Collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
