// Package textnorm canonicalizes order text before extraction and parses
// the Ukrainian long-form dates the orders use.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// horizontalWhitespacePattern collapses runs of spaces and tabs.
	horizontalWhitespacePattern = regexp.MustCompile(`[ \t]+`)

	// quoteCharsPattern matches the quote variants Word documents mix in.
	quoteCharsPattern = regexp.MustCompile("[«»“”„\"]")

	// apostropheCharsPattern matches the apostrophe variants used in
	// Ukrainian text, folded to the ASCII apostrophe.
	apostropheCharsPattern = regexp.MustCompile("[’ʼ‘`]")

	// paragraphBreakPattern splits text on blank lines.
	paragraphBreakPattern = regexp.MustCompile(`\n\s*\n+`)
)

// Normalize canonicalizes raw order text: CRLF to LF, NFC composition,
// collapsed horizontal whitespace, trimmed lines with empties dropped,
// and all quote variants folded to a straight double quote.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = quoteCharsPattern.ReplaceAllString(text, "\"")
	text = apostropheCharsPattern.ReplaceAllString(text, "'")
	text = horizontalWhitespacePattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// NormalizeDocument canonicalizes like Normalize but keeps paragraph
// structure: runs of blank lines collapse to a single blank line
// instead of disappearing, so paragraph-level processing downstream
// still sees the document's block layout.
func NormalizeDocument(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = quoteCharsPattern.ReplaceAllString(text, "\"")
	text = apostropheCharsPattern.ReplaceAllString(text, "'")
	text = horizontalWhitespacePattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(paragraphBreakPattern.ReplaceAllString(text, "\n\n"))
}

// Paragraphs splits text into blank-line-separated paragraphs, trimming
// each and dropping empties.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreakPattern.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
