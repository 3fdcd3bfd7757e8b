package parse

import (
	"regexp"
	"strings"
)

var (
	// Leading numbering or bullet markup: "1) ", "2. ", "- ", "• ", "* ".
	numPrefix = regexp.MustCompile(`^\s*[-•*]?\s*(\d+[).:-]|-|•|\*)\s*`)

	// Redundant question/answer labels the model sometimes repeats on a side.
	questionPrefix = regexp.MustCompile(`(?i)^\s*(q(uestion)?[:-]\s*)`)
	answerPrefix   = regexp.MustCompile(`(?i)^\s*(a(nswer)?[:-]\s*)`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// cleanSide normalizes one side of a card: numbering and bullet markup is
// stripped, a redundant Q:/A: label removed, and internal whitespace runs
// collapsed to single spaces.
func cleanSide(s string) string {
	s = numPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	s = questionPrefix.ReplaceAllString(s, "")
	s = answerPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
