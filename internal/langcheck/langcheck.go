// Package langcheck verifies that generated story content is written in the
// configured story language. Detection is advisory: mismatches are reported
// so the loop can warn, never to block a version from being saved.
package langcheck

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minCheckLength is the minimum rune count required to attempt detection.
// Shorter texts produce unreliable results and are accepted unchecked.
const minCheckLength = 20

// Checker detects the language of generated content. The underlying
// detector is expensive to build; construct once and reuse.
type Checker struct {
	detector lingua.LanguageDetector
}

func New() *Checker {
	return &Checker{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Check returns nil when content appears to be written in the language given
// by its ISO 639-1 code. Short texts and texts whose language cannot be
// determined pass without error. On mismatch the error names both codes.
func (c *Checker) Check(content, wantISO string) error {
	if wantISO == "" {
		return nil
	}

	text := strings.TrimSpace(content)
	if len([]rune(text)) < minCheckLength {
		return nil
	}

	lang, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		// Ambiguous language, cannot validate.
		return nil
	}

	detected := lang.IsoCode639_1().String()
	if !strings.EqualFold(detected, wantISO) {
		return fmt.Errorf("expected %s but detected %s", wantISO, detected)
	}
	return nil
}
