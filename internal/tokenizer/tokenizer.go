// Package tokenizer produces a deterministic, ordered token sequence from a
// text string. Segmentation is script-aware: CJK characters are emitted one
// token per rune (there are no spaces to split on), while alphabetic scripts
// are split into lowercased words on non-letter/non-digit boundaries.
package tokenizer

import (
	"strings"
	"unicode"
)

// cjkTables lists the scripts segmented one rune per token.
var cjkTables = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
}

func isCJK(r rune) bool {
	for _, table := range cjkTables {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}

// Tokenize splits text into an ordered sequence of tokens. Identical input
// always yields identical output. Punctuation and whitespace are delimiters
// and never appear in the result.
func Tokenize(text string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			word.WriteRune(unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// NGrams returns the contiguous n-grams of tokens joined by "\x1f" (unit
// separator, which cannot occur inside a token). Returns nil when tokens is
// shorter than n or n < 1.
func NGrams(tokens []string, n int) []string {
	if n < 1 || len(tokens) < n {
		return nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], "\x1f"))
	}
	return grams
}
