package chunking

import (
	"regexp"
	"strings"
)

// Heading-like lines act as section separators: markdown headings or
// ALL-CAPS lines of at least 7 characters (letters/digits/space/hyphen).
var headingLine = regexp.MustCompile(`(?m)^(?:#{1,6} .*|[A-Z0-9][A-Z0-9 -]{6,})\n`)

var paragraphBreak = regexp.MustCompile(`\n\n+`)

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// SplitUnits segments text into candidate units for packing. Tiers are tried
// in order (heading-delimited sections, then blank-line paragraphs, then
// sentences) and the first tier that produces more than one unit wins. The
// final tier returns a single unit for single-sentence input. Whitespace-only
// input yields no units.
func SplitUnits(text string) []string {
	if parts := trimNonEmpty(headingLine.Split(text, -1)); len(parts) > 1 {
		return parts
	}
	if paras := trimNonEmpty(paragraphBreak.Split(text, -1)); len(paras) > 1 {
		return paras
	}
	return trimNonEmpty(splitSentences(text))
}

// splitSentences breaks after ., ! or ? followed by whitespace, keeping the
// punctuation with the preceding sentence.
func splitSentences(text string) []string {
	var sents []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sents = append(sents, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		sents = append(sents, text[start:])
	}
	return sents
}

func trimNonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
