package domain

import "time"

// GenerationJobStatus represents the status of a card generation job.
type GenerationJobStatus string

const (
	GenerationJobStatusPending    GenerationJobStatus = "pending"
	GenerationJobStatusProcessing GenerationJobStatus = "processing"
	GenerationJobStatusCompleted  GenerationJobStatus = "completed"
	GenerationJobStatusFailed     GenerationJobStatus = "failed"
)

// GenerationJob is a queued request to generate cards for a deck. Jobs are
// claimed and processed by the background worker.
type GenerationJob struct {
	ID          string
	DeckID      string
	Status      GenerationJobStatus
	Retries     int
	Error       string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewGenerationJob creates a pending job for the given deck.
func NewGenerationJob(id, deckID string, createdAt time.Time) *GenerationJob {
	return &GenerationJob{
		ID:        id,
		DeckID:    deckID,
		Status:    GenerationJobStatusPending,
		CreatedAt: createdAt,
	}
}

// ValidateGenerationJob validates a GenerationJob instance.
func ValidateGenerationJob(j *GenerationJob) error {
	if j == nil {
		return NewDomainError(ErrCodeValidation, "generation job cannot be nil")
	}
	if j.ID == "" {
		return NewDomainError(ErrCodeValidation, "generation job ID is required")
	}
	if j.DeckID == "" {
		return NewDomainError(ErrCodeValidation, "generation job DeckID is required")
	}
	if !isValidGenerationJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}
	return nil
}

func isValidGenerationJobStatus(s GenerationJobStatus) bool {
	switch s {
	case GenerationJobStatusPending, GenerationJobStatusProcessing,
		GenerationJobStatusCompleted, GenerationJobStatusFailed:
		return true
	}
	return false
}
