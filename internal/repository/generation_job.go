package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deckgen-ai/deckgen/internal/domain"
)

type GenerationJobRepository struct {
	db dbtx
}

func NewGenerationJobRepository(pool *pgxpool.Pool) *GenerationJobRepository {
	return &GenerationJobRepository{db: pool}
}

func NewGenerationJobRepositoryWithTx(tx pgx.Tx) *GenerationJobRepository {
	return &GenerationJobRepository{db: tx}
}

func (r *GenerationJobRepository) Create(ctx context.Context, job *domain.GenerationJob) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO generation_jobs (id, deck_id, status, retries, error, created_at, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.DeckID, job.Status, job.Retries, nullableString(job.Error), job.CreatedAt, job.ProcessedAt,
	)
	return err
}

func (r *GenerationJobRepository) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	var errMsg *string
	err := r.db.QueryRow(ctx,
		`SELECT id, deck_id, status, retries, error, created_at, processed_at
		 FROM generation_jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.DeckID, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	if errMsg != nil {
		job.Error = *errMsg
	}
	return &job, nil
}

// ClaimPending atomically claims up to limit pending jobs for processing.
// SKIP LOCKED keeps concurrent workers from claiming the same job.
func (r *GenerationJobRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.GenerationJob, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`WITH cte AS (
			 SELECT id
			 FROM generation_jobs
			 WHERE status = $1
			 ORDER BY created_at ASC
			 FOR UPDATE SKIP LOCKED
			 LIMIT $2
		 )
		 UPDATE generation_jobs
		 SET status = $3,
		     error = NULL,
		     processed_at = NULL
		 FROM cte
		 WHERE generation_jobs.id = cte.id
		 RETURNING generation_jobs.id, generation_jobs.deck_id, generation_jobs.status,
		           generation_jobs.retries, generation_jobs.error, generation_jobs.created_at,
		           generation_jobs.processed_at`,
		domain.GenerationJobStatusPending, limit, domain.GenerationJobStatusProcessing,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.GenerationJob
	for rows.Next() {
		var job domain.GenerationJob
		var errMsg *string
		if err := rows.Scan(&job.ID, &job.DeckID, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.ProcessedAt); err != nil {
			return nil, err
		}
		if errMsg != nil {
			job.Error = *errMsg
		}
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

func (r *GenerationJobRepository) UpdateStatus(ctx context.Context, id string, status domain.GenerationJobStatus, errMsg string) error {
	var processedAt *time.Time
	if status == domain.GenerationJobStatusCompleted || status == domain.GenerationJobStatusFailed {
		now := time.Now().UTC()
		processedAt = &now
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE generation_jobs SET status = $1, error = $2, processed_at = $3 WHERE id = $4`,
		status, nullableString(errMsg), processedAt, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *GenerationJobRepository) IncrementRetries(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE generation_jobs SET retries = retries + 1 WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *GenerationJobRepository) GetPendingJobs(ctx context.Context) ([]*domain.GenerationJob, error) {
	return r.ClaimPending(ctx, 100)
}

func (r *GenerationJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status domain.GenerationJobStatus, errMsg string) error {
	return r.UpdateStatus(ctx, jobID, status, errMsg)
}
