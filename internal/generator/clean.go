package generator

import (
	"regexp"
	"strings"
)

// Clean removes common LLM artifacts from generated story text: thinking
// blocks, instruction echoes, code-fence wrapping, and outer quote pairs.
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeInstructionEchoes(text)
	text = removeCodeFence(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag is
// missing (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// echoPatterns match introductory phrases that models sometimes prepend even
// when instructed not to. Anchored to the start and requiring a colon to
// avoid false positives on legitimate story openings.
var echoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the| your| a)? (?:revised |updated |new )?story\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:revised |updated )?story\s*:`),
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.]? here(?:'s| is)(?: the| your| a)? (?:revised |updated |new )?story\s*:`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// removeCodeFence strips a single surrounding ``` fence, with or without a
// language tag.
func removeCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return text
	}
	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	}
	return strings.TrimSpace(body)
}

// removeQuoteWrapping strips a matching pair of outer quotes when the entire
// text is wrapped in them. Supported pairs: "…" '…' «…» “…” 「…」
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}

	pairs := map[rune]rune{
		'"':  '"',
		'\'': '\'',
		'«':  '»',
		'“':  '”',
		'「':  '」',
	}

	if closing, ok := pairs[runes[0]]; ok && runes[n-1] == closing {
		inner := string(runes[1 : n-1])
		// Only strip when the quotes wrap the whole text, not dialogue.
		if !strings.ContainsRune(inner, runes[0]) && !strings.ContainsRune(inner, closing) {
			return strings.TrimSpace(inner)
		}
	}
	return text
}
