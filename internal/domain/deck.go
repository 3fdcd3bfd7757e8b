package domain

import "time"

// DeckStatus represents where a deck is in its generation lifecycle.
type DeckStatus string

const (
	DeckStatusPending    DeckStatus = "pending"
	DeckStatusGenerating DeckStatus = "generating"
	DeckStatusReady      DeckStatus = "ready"
	DeckStatusFailed     DeckStatus = "failed"
)

// Deck is a set of flashcards generated from one source document.
type Deck struct {
	ID          string
	Name        string
	SourceText  string
	Status      DeckStatus
	TargetCards int
	CardCount   int
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDeck creates a new Deck instance in the pending state.
func NewDeck(id, name, sourceText string, targetCards int, createdAt time.Time) *Deck {
	return &Deck{
		ID:          id,
		Name:        name,
		SourceText:  sourceText,
		Status:      DeckStatusPending,
		TargetCards: targetCards,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// ValidateDeck validates a Deck instance.
func ValidateDeck(d *Deck) error {
	if d == nil {
		return NewDomainError(ErrCodeValidation, "deck cannot be nil")
	}
	if d.ID == "" {
		return NewDomainError(ErrCodeValidation, "deck ID is required")
	}
	if d.Name == "" {
		return NewDomainError(ErrCodeValidation, "deck Name is required")
	}
	if d.SourceText == "" {
		return ErrEmptySourceText
	}
	if d.TargetCards <= 0 {
		return NewDomainError(ErrCodeValidation, "deck TargetCards must be greater than 0")
	}
	if !isValidDeckStatus(d.Status) {
		return ErrInvalidDeckStatus
	}
	return nil
}

func isValidDeckStatus(s DeckStatus) bool {
	switch s {
	case DeckStatusPending, DeckStatusGenerating, DeckStatusReady, DeckStatusFailed:
		return true
	}
	return false
}
