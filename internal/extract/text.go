package extract

import (
	"regexp"
	"strings"
)

var (
	// paragraphBreakRe splits on blank lines, tolerating trailing whitespace
	paragraphBreakRe = regexp.MustCompile(`\n[ \t]*\n`)
	// sentenceRe yields runs of text ending in terminal punctuation or at a
	// line end
	sentenceRe = regexp.MustCompile(`(?m)[^.!?\n]+(?:[.!?]+|$)`)
)

// TruncateRunes shortens s to at most n runes without splitting a rune.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateMiddle shortens a string by replacing the middle with "..." if it
// exceeds maxLen runes. Preserves roughly equal portions from start and end.
func TruncateMiddle(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	available := maxLen - 3
	firstHalf := (available + 1) / 2
	lastHalf := available / 2
	return string(runes[:firstHalf]) + "..." + string(runes[len(runes)-lastHalf:])
}

// SplitParagraphs splits text on blank lines and trims each paragraph.
// Empty paragraphs are dropped.
func SplitParagraphs(text string) []string {
	parts := paragraphBreakRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitSentences splits text on terminal punctuation and line ends.
func SplitSentences(text string) []string {
	matches := sentenceRe.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
