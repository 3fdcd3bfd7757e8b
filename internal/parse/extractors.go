package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/deckgen-ai/deckgen/internal/domain"
)

// Extractor is one format-specific strategy for turning raw model text into
// flashcards. An empty result means the format did not match; extractors
// never fail on malformed input, they skip it.
type Extractor interface {
	Name() string
	Extract(text string) []domain.Flashcard
}

// tsvExtractor handles the preferred output format: one card per line,
// question and answer separated by the first tab.
type tsvExtractor struct{}

func (tsvExtractor) Name() string { return "tsv" }

func (tsvExtractor) Extract(text string) []domain.Flashcard {
	var cards []domain.Flashcard
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.Contains(line, "\t") {
			continue
		}
		q, a, _ := strings.Cut(line, "\t")
		cards = appendCard(cards, q, a)
	}
	return cards
}

// labeledLineExtractor handles "Q: ... A: ..." or "Q:/Question: ... Answer:
// ..." on a single line.
type labeledLineExtractor struct{}

func (labeledLineExtractor) Name() string { return "labeled-line" }

func (labeledLineExtractor) Extract(text string) []domain.Flashcard {
	var cards []domain.Flashcard
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(line, " A:") && strings.HasPrefix(lower, "q:"):
			_, rest, _ := strings.Cut(line, ":")
			q, a, _ := strings.Cut(rest, " A:")
			cards = appendCard(cards, q, a)
		case strings.Contains(line, " Answer:") &&
			(strings.HasPrefix(lower, "q:") || strings.HasPrefix(lower, "question:")):
			_, rest, _ := strings.Cut(line, ":")
			q, a, _ := strings.Cut(rest, " Answer:")
			cards = appendCard(cards, q, a)
		}
	}
	return cards
}

// labeledPairExtractor handles a question line followed by an answer line.
// On a match it consumes both lines; on a mismatch it advances by one line
// only, so a question line whose successor is not an answer line is skipped.
type labeledPairExtractor struct{}

func (labeledPairExtractor) Name() string { return "labeled-pair" }

func (labeledPairExtractor) Extract(text string) []domain.Flashcard {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	var cards []domain.Flashcard
	i := 0
	for i < len(lines)-1 {
		l1, l2 := lines[i], lines[i+1]
		if questionPrefix.MatchString(l1) && answerPrefix.MatchString(l2) {
			q := questionPrefix.ReplaceAllString(l1, "")
			a := answerPrefix.ReplaceAllString(l2, "")
			cards = appendCard(cards, q, a)
			i += 2
		} else {
			i++
		}
	}
	return cards
}

// pairSeparators are tried in order when splitting a numbered/bulleted line
// into question and answer.
var pairSeparators = []string{" - ", " — ", " : ", " – "}

// numberedExtractor handles "1) Question - Answer" and similar styles.
type numberedExtractor struct{}

func (numberedExtractor) Name() string { return "numbered" }

func (numberedExtractor) Extract(text string) []domain.Flashcard {
	var cards []domain.Flashcard
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = numPrefix.ReplaceAllString(line, "")
		for _, sep := range pairSeparators {
			if !strings.Contains(line, sep) {
				continue
			}
			q, a, _ := strings.Cut(line, sep)
			cards = appendCard(cards, q, a)
			break
		}
	}
	return cards
}

// jsonExtractor handles a JSON array of {question, answer} objects, either
// as the whole response or embedded in surrounding prose.
type jsonExtractor struct{}

func (jsonExtractor) Name() string { return "json" }

func (jsonExtractor) Extract(text string) []domain.Flashcard {
	items, err := decodeList(text)
	if err != nil {
		// Valid JSON that is not an array is a format mismatch, not prose
		// wrapping an embedded array. Only syntax errors get the retry.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil
		}
		// Retry on the outermost [...] substring.
		start := strings.Index(text, "[")
		end := strings.LastIndex(text, "]")
		if start == -1 || end == -1 || end <= start {
			return nil
		}
		if items, err = decodeList(text[start : end+1]); err != nil {
			return nil
		}
	}

	var cards []domain.Flashcard
	for _, item := range items {
		obj, isObj := item.(map[string]interface{})
		if !isObj {
			continue
		}
		cards = appendCard(cards, stringValue(obj["question"]), stringValue(obj["answer"]))
	}
	return cards
}

func decodeList(text string) ([]interface{}, error) {
	var items []interface{}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// appendCard cleans both sides and appends a card only when both survive
// cleaning.
func appendCard(cards []domain.Flashcard, q, a string) []domain.Flashcard {
	q = cleanSide(q)
	a = cleanSide(a)
	if q == "" || a == "" {
		return cards
	}
	return append(cards, domain.Flashcard{Question: q, Answer: a, SourceChunk: 0})
}
