package llm

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z]*\\n?")
	trailingFence = regexp.MustCompile("```$")
)

// CleanJSONBlock removes one leading markdown fence (with an optional language
// tag) and one trailing fence, then trims whitespace. Models wrap JSON in
// fences even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
