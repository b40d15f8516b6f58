// Package textfold normalizes free text before keyword comparison: requests and
// catalog rows arrive with mixed case and Spanish accents, so every match in the
// parser and the reranker goes through Fold first.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritical marks ("Aislado" -> "aislado",
// "Galón" -> "galon"). It never fails; untransformable input is returned lowered.
func Fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// FoldToken folds s and removes everything that is not a letter or digit.
// Used for unit alias lookup where tokens arrive with trailing punctuation
// ("mts.", "und,").
func FoldToken(s string) string {
	folded := Fold(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsWord reports whether word occurs in text bounded by non-alphanumeric
// runes on both sides. text and word must already be folded.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		leftOK := i == 0 || !isWordRune(rune(text[i-1]))
		rightOK := end == len(text) || !isWordRune(rune(text[end]))
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
