// Package extractor pulls pain points and quote-like statements out of
// free-form session transcripts using keyword heuristics.
package extractor

import (
	"strings"
	"unicode/utf8"
)

const (
	maxPainPoints = 3
	maxQuotes     = 5

	painPointMinLen = 10
	painPointMaxLen = 200

	quoteSplitMinLen = 15
	quoteMinLen      = 20
	quoteMaxLen      = 150
)

// painKeywords flag a sentence as expressing frustration.
var painKeywords = []string{
	"frustrated",
	"confused",
	"difficult",
	"hard",
	"problem",
	"issue",
	"doesn't work",
	"broken",
	"slow",
	"complicated",
	"unclear",
	"annoying",
	"bothersome",
	"trouble",
	"struggle",
	"challenge",
}

// quoteMarkers flag a sentence as a first-person statement.
var quoteMarkers = []string{"i ", "me ", "my ", "think", "feel", "like", "prefer"}

// ExtractPainPoints returns up to three transcript sentences that mention a
// frustration keyword, in transcript order.
func ExtractPainPoints(transcript string) []string {
	out := []string{}
	for _, s := range SplitSentences(transcript, painPointMinLen) {
		if !containsAny(strings.ToLower(s), painKeywords) {
			continue
		}
		clean := stripQuotes(s)
		if n := utf8.RuneCountInString(clean); n < painPointMinLen || n > painPointMaxLen {
			continue
		}
		out = append(out, clean)
		if len(out) == maxPainPoints {
			break
		}
	}
	return out
}

// ExtractQuotes returns up to five transcript sentences that read like
// first-person statements, in transcript order.
func ExtractQuotes(transcript string) []string {
	out := []string{}
	for _, s := range SplitSentences(transcript, quoteSplitMinLen) {
		if !containsAny(strings.ToLower(s), quoteMarkers) {
			continue
		}
		clean := stripQuotes(s)
		if n := utf8.RuneCountInString(clean); n < quoteMinLen || n > quoteMaxLen {
			continue
		}
		out = append(out, clean)
		if len(out) == maxQuotes {
			break
		}
	}
	return out
}

// SplitSentences splits text on '.', '!' and '?' and returns the trimmed
// fragments that are at least minLen characters long.
func SplitSentences(text string, minLen int) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var sentences []string
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if utf8.RuneCountInString(s) < minLen {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences
}

func stripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\"'“”‘’"))
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
