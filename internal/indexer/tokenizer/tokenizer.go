// Package tokenizer provides text tokenisation for the article index.
// It lower-cases input and splits on every character that is not an ASCII
// letter or digit. Nothing is filtered: markup and script tokens in fetched
// pages are counted like any other word.
package tokenizer

import (
	"strings"
)

// Tokenize breaks text into lowercased ASCII alphanumeric terms in the order
// they appear.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, isSeparator)
}

// Frequencies counts every term of text. The returned map never contains a
// zero count.
func Frequencies(text string) map[string]int {
	terms := Tokenize(text)
	counts := make(map[string]int, len(terms)/2)
	for _, term := range terms {
		counts[term]++
	}
	return counts
}

// NormalizeQuery reduces a user query to its first term using the same rule
// as Tokenize. A query without any letter or digit normalizes to "".
func NormalizeQuery(query string) string {
	terms := Tokenize(strings.TrimSpace(query))
	if len(terms) == 0 {
		return ""
	}
	return terms[0]
}

func isSeparator(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return false
	case r >= 'A' && r <= 'Z':
		return false
	case r >= '0' && r <= '9':
		return false
	default:
		return true
	}
}
