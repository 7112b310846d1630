package search

import (
	"strings"
	"unicode"
)

// Match scores, lower is better.
const (
	ScorePrefix    = 0
	ScoreSubstring = 1
	ScoreFuzzy     = 2
	NoMatch        = -1
)

// FuzzyMatch reports whether the characters of query appear in text in
// order, not necessarily contiguous. Case and whitespace in the query are
// ignored.
func FuzzyMatch(text, query string) bool {
	t := []rune(strings.ToLower(text))
	i := 0
	for _, q := range strings.ToLower(query) {
		if unicode.IsSpace(q) {
			continue
		}
		for i < len(t) && t[i] != q {
			i++
		}
		if i == len(t) {
			return false
		}
		i++
	}
	return true
}

// Score ranks text against query: prefix, then substring, then subsequence.
func Score(text, query string) int {
	t := strings.ToLower(strings.TrimSpace(text))
	q := strings.ToLower(strings.TrimSpace(query))
	if t == "" || q == "" {
		return NoMatch
	}
	switch {
	case strings.HasPrefix(t, q):
		return ScorePrefix
	case strings.Contains(t, q):
		return ScoreSubstring
	case FuzzyMatch(t, q):
		return ScoreFuzzy
	default:
		return NoMatch
	}
}

// bestScore scores the product name and its previous name and keeps the
// better one.
func bestScore(name, previousName, query string) (int, bool) {
	score := Score(name, query)
	prev := Score(previousName, query)
	if prev != NoMatch && (score == NoMatch || prev < score) {
		return prev, true
	}
	return score, false
}
