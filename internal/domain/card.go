package domain

import (
	"strings"
	"time"
)

// Side length limits keep generated cards usable in study mode and exports.
const (
	MaxQuestionChars = 600
	MaxAnswerChars   = 1500
)

// Flashcard is one parsed question/answer pair as produced by the output
// parser. SourceChunk records which chunk of the source document the card
// came from; the parser itself always reports 0.
type Flashcard struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	SourceChunk int    `json:"source_chunk"`
}

// StudyStatus tracks a card's progress within a study session.
type StudyStatus string

const (
	StudyStatusNew     StudyStatus = "new"
	StudyStatusReview  StudyStatus = "review"
	StudyStatusCorrect StudyStatus = "correct"
)

// Card is a persisted flashcard belonging to a deck.
type Card struct {
	ID          string
	DeckID      string
	Position    int
	Question    string
	Answer      string
	SourceChunk int
	StudyStatus StudyStatus
	CreatedAt   time.Time
}

// NewCard creates a persisted Card from a parsed Flashcard.
func NewCard(id, deckID string, position int, fc Flashcard, createdAt time.Time) *Card {
	return &Card{
		ID:          id,
		DeckID:      deckID,
		Position:    position,
		Question:    fc.Question,
		Answer:      fc.Answer,
		SourceChunk: fc.SourceChunk,
		StudyStatus: StudyStatusNew,
		CreatedAt:   createdAt,
	}
}

// ValidateFlashcard checks that both sides are non-empty after trimming and
// within the side length limits.
func ValidateFlashcard(fc Flashcard) error {
	q := strings.TrimSpace(fc.Question)
	a := strings.TrimSpace(fc.Answer)

	if q == "" || a == "" {
		return ErrEmptyCardSide
	}
	if len(q) > MaxQuestionChars {
		return ErrQuestionTooLong
	}
	if len(a) > MaxAnswerChars {
		return ErrAnswerTooLong
	}
	return nil
}

// ValidateCard validates a persisted Card instance.
func ValidateCard(c *Card) error {
	if c == nil {
		return NewDomainError(ErrCodeValidation, "card cannot be nil")
	}
	if c.ID == "" {
		return NewDomainError(ErrCodeValidation, "card ID is required")
	}
	if c.DeckID == "" {
		return NewDomainError(ErrCodeValidation, "card DeckID is required")
	}
	if !isValidStudyStatus(c.StudyStatus) {
		return ErrInvalidStudyStatus
	}
	return ValidateFlashcard(Flashcard{Question: c.Question, Answer: c.Answer, SourceChunk: c.SourceChunk})
}

func isValidStudyStatus(s StudyStatus) bool {
	switch s {
	case StudyStatusNew, StudyStatusReview, StudyStatusCorrect:
		return true
	}
	return false
}
