// Package sanitize normalizes raw generation-backend output into clean
// source text. The backend occasionally violates its output contract —
// markdown fences, stray backticks, block comments, invisible Unicode — and
// every violation this package can repair deterministically, it does.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// EncodingError reports text that could not be normalized into usable form.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot normalize generated text: %s", e.Reason)
}

var (
	// Fenced code blocks, with or without a language tag. Non-greedy so
	// multiple fences in one response each unwrap to their content.
	fenceRe = regexp.MustCompile("(?s)```(?:.*?\n)?(.*?)```")

	// C-style block comments such as /** ... */ emitted as commentary.
	blockCommentRe = regexp.MustCompile(`(?s)/\*\*.*?\*/`)

	// Zero-width and invisible characters: ZWSP, ZWNJ, ZWJ, BOM, NBSP.
	invisibleRe = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF\u00A0]")
)

// Clean strips delimiter fences, backtick markers, block comments, invisible
// Unicode, and byte sequences that do not round-trip UTF-8. Idempotent:
// Clean(Clean(x)) == Clean(x).
func Clean(raw string) (string, error) {
	text := fenceRe.ReplaceAllString(raw, "$1")
	text = strings.ReplaceAll(text, "`", "")
	text = strings.TrimSpace(blockCommentRe.ReplaceAllString(text, ""))
	text = strings.TrimSpace(invisibleRe.ReplaceAllString(text, ""))
	text = strings.ToValidUTF8(text, "")
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.TrimSpace(text)

	if text == "" && strings.TrimSpace(raw) != "" {
		return "", &EncodingError{Reason: "nothing usable left after stripping artifacts"}
	}
	return text, nil
}
