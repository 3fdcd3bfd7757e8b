// Package parse turns raw LLM completion text into flashcards. Models do not
// reliably honor the requested tab-separated format, so a fixed cascade of
// extractors is tried in order of strictness and the first one that yields
// any cards wins.
package parse

import "github.com/deckgen-ai/deckgen/internal/domain"

// extractors in priority order: strictest format first.
var extractors = []Extractor{
	tsvExtractor{},
	labeledLineExtractor{},
	labeledPairExtractor{},
	numberedExtractor{},
	jsonExtractor{},
}

// ParseAny extracts flashcards from model output. It returns the result of
// the first extractor that produced at least one card, or an empty slice
// when no format matched. It never returns an error; unparseable input is
// handled by the caller's retry logic.
func ParseAny(text string) []domain.Flashcard {
	for _, ex := range extractors {
		if cards := ex.Extract(text); len(cards) > 0 {
			return cards
		}
	}
	return nil
}
