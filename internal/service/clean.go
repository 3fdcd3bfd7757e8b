package service

import (
	"regexp"
	"strings"
)

const (
	// Lines at most this long are header/footer candidates.
	repeatedLineMaxLen = 60
	// A short line appearing at least this often is dropped.
	repeatedLineMinCount = 3
)

var (
	nonBreakingSpace = regexp.MustCompile(`\x{00a0}`)
	horizontalRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns      = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes source text before card generation: line endings and
// whitespace runs are collapsed, and short lines repeated across the document
// (page headers, footers, page numbers) are removed.
func CleanText(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nonBreakingSpace.ReplaceAllString(s, " ")
	s = horizontalRuns.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	freq := make(map[string]int)
	for _, ln := range lines {
		if n := len(ln); n > 0 && n <= repeatedLineMaxLen {
			freq[ln]++
		}
	}

	kept := lines[:0]
	for _, ln := range lines {
		if ln != "" && freq[ln] >= repeatedLineMinCount {
			continue
		}
		kept = append(kept, ln)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
