package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/deckgen-ai/deckgen/internal/domain"
)

const (
	// MaxRetries is the maximum number of retries for a failed job
	MaxRetries = 3
)

// GenerationJobRepository defines the interface for generation job persistence
type GenerationJobRepository interface {
	// GetPendingJobs retrieves and claims pending generation jobs
	GetPendingJobs(ctx context.Context) ([]*domain.GenerationJob, error)

	// UpdateJobStatus updates the status of a generation job
	UpdateJobStatus(ctx context.Context, jobID string, status domain.GenerationJobStatus, errMsg string) error

	// IncrementRetries increments the retry count for a job
	IncrementRetries(ctx context.Context, jobID string) error
}

// GenerationService defines the interface for generating deck cards
type GenerationService interface {
	GenerateDeck(ctx context.Context, deckID string) error
	MarkDeckFailed(ctx context.Context, deckID, reason string) error
}

// GenerationWorker processes card generation jobs
type GenerationWorker struct {
	repo    GenerationJobRepository
	service GenerationService
}

// NewGenerationWorker creates a new GenerationWorker instance
func NewGenerationWorker(repo GenerationJobRepository, service GenerationService) *GenerationWorker {
	return &GenerationWorker{
		repo:    repo,
		service: service,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *GenerationWorker) ProcessJobs(ctx context.Context) error {
	// Fetch pending jobs
	jobs, err := w.repo.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch pending jobs: %w", err)
	}

	if len(jobs) == 0 {
		return nil
	}

	log.Printf("Processing %d pending generation jobs", len(jobs))

	// Process each job
	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			log.Printf("Error processing job %s: %v", job.ID, err)
		}
	}

	return nil
}

func (w *GenerationWorker) processJob(ctx context.Context, job *domain.GenerationJob) error {
	if job.DeckID == "" {
		return fmt.Errorf("job %s has no deck_id", job.ID)
	}

	log.Printf("Processing job %s for deck %s", job.ID, job.DeckID)
	if err := w.service.GenerateDeck(ctx, job.DeckID); err != nil {
		return w.handleJobFailure(ctx, job, err)
	}

	if err := w.repo.UpdateJobStatus(ctx, job.ID, domain.GenerationJobStatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}

	log.Printf("Job %s completed successfully", job.ID)
	return nil
}

// handleJobFailure handles a failed job with retry logic
func (w *GenerationWorker) handleJobFailure(ctx context.Context, job *domain.GenerationJob, jobErr error) error {
	log.Printf("Job %s failed: %v", job.ID, jobErr)

	// Increment retry count
	if err := w.repo.IncrementRetries(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to increment retries: %w", err)
	}

	// Check if max retries exceeded
	if job.Retries+1 >= MaxRetries {
		log.Printf("Job %s exceeded max retries (%d), marking as failed", job.ID, MaxRetries)
		errMsg := fmt.Sprintf("max retries exceeded: %v", jobErr)
		if err := w.repo.UpdateJobStatus(ctx, job.ID, domain.GenerationJobStatusFailed, errMsg); err != nil {
			return fmt.Errorf("failed to update job status to failed: %w", err)
		}
		if err := w.service.MarkDeckFailed(ctx, job.DeckID, errMsg); err != nil {
			return fmt.Errorf("failed to mark deck as failed: %w", err)
		}
		return nil
	}

	// Reset to pending for retry
	log.Printf("Job %s will be retried (attempt %d/%d)", job.ID, job.Retries+1, MaxRetries)
	errMsg := fmt.Sprintf("retry %d: %v", job.Retries+1, jobErr)
	if err := w.repo.UpdateJobStatus(ctx, job.ID, domain.GenerationJobStatusPending, errMsg); err != nil {
		return fmt.Errorf("failed to reset job status to pending: %w", err)
	}

	return nil
}
