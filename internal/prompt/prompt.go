// Package prompt builds the system instruction and user prompts sent to the
// content generator: the initial story prompt from the fixed preferences,
// and the revision prompt that embeds the prior content and the reader's
// feedback.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/amplerelife/ai-story-tool/internal/story"
)

// SystemInstruction is sent with every generation request.
const SystemInstruction = "You are a professional story writer, skilled at crafting engaging stories that match the reader's requirements exactly."

// Initial builds the first prompt of a refinement chain.
func Initial(p story.Preferences) string {
	return fmt.Sprintf(`Write an engaging story that satisfies the following requirements.

Requirements:
- Theme: %s
- Type: %s
- Tone: %s
- Key elements: %s
- Language: %s

Guidelines:
1. The story must fully match the given theme and tone.
2. Adjust the form and length of the content to the given type.
3. Make sure every key element appears in the story.
4. Give the story a clear beginning, development, and ending.
5. Keep the plot coherent and creative.
6. Use vivid description and dialogue.

Write the story directly, without any extra explanation.`,
		p.Theme, p.Genre, p.Tone, strings.Join(p.Elements, ", "), LanguageName(p.Language))
}

// Revision builds the prompt for the next iteration: the previous version,
// the reader's feedback and rating, and the unchanged original requirements.
func Revision(p story.Preferences, previousContent, feedback string, rating int) string {
	return fmt.Sprintf(`Revise the story below according to the reader's feedback.

Previous version:
%s

Reader feedback (rated %d/5):
%s

The original requirements still apply:
- Theme: %s
- Type: %s
- Tone: %s
- Key elements: %s
- Language: %s

Rewrite the whole story, incorporating the feedback while keeping what the
reader did not object to. Write the story directly, without any extra
explanation.`,
		previousContent, rating, feedback,
		p.Theme, p.Genre, p.Tone, strings.Join(p.Elements, ", "), LanguageName(p.Language))
}

// LanguageName renders an ISO 639-1 code as an English language name for use
// inside a prompt ("zh" → "Chinese"). Unparseable codes pass through as-is.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	return display.English.Languages().Name(tag)
}
