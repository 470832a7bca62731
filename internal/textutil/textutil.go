package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	boldPattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern  = regexp.MustCompile(`\*(.+?)\*`)
	headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletPattern  = regexp.MustCompile(`(?m)^[\*\-\x{2022}]\s+`)
	numberPattern  = regexp.MustCompile(`(?m)^\d+\.\s+`)
	blankPattern   = regexp.MustCompile(`\n{3,}`)
)

// Sanitize strips markdown artifacts the verdict service emits despite
// being asked for plain prose: bold and italic markers, heading prefixes,
// bullet and numbered-list prefixes, and runs of blank lines.
func Sanitize(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = headingPattern.ReplaceAllString(text, "")
	text = bulletPattern.ReplaceAllString(text, "")
	text = numberPattern.ReplaceAllString(text, "")
	text = blankPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ClampSentences returns text unchanged when it holds at most limit
// sentences, otherwise the first limit sentences joined by single spaces.
// Sentence boundaries are terminal punctuation followed by whitespace or
// end of text.
func ClampSentences(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	sentences := splitSentences(text)
	if len(sentences) <= limit {
		return text
	}
	return strings.Join(sentences[:limit], " ")
}

func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				out = append(out, sentence)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}
