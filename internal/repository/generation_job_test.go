//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/testutil"
)

func createTestJob(ctx context.Context, t *testing.T, jobRepo *GenerationJobRepository, deckID string, createdAt time.Time) *domain.GenerationJob {
	t.Helper()
	job := domain.NewGenerationJob(uuid.NewString(), deckID, createdAt)
	require.NoError(t, jobRepo.Create(ctx, job))
	return job
}

func TestGenerationJobRepository_CreateAndGetByID(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	deckRepo := NewDeckRepository(pool)
	jobRepo := NewGenerationJobRepository(pool)

	deck := createTestDeck(ctx, t, deckRepo)
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := createTestJob(ctx, t, jobRepo, deck.ID, now)

	got, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, deck.ID, got.DeckID)
	assert.Equal(t, domain.GenerationJobStatusPending, got.Status)
	assert.Equal(t, 0, got.Retries)
	assert.Empty(t, got.Error)
	assert.Nil(t, got.ProcessedAt)
	assert.Equal(t, now, got.CreatedAt.UTC())
}

func TestGenerationJobRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	jobRepo := NewGenerationJobRepository(pool)

	_, err := jobRepo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestGenerationJobRepository_ClaimPending(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	deckRepo := NewDeckRepository(pool)
	jobRepo := NewGenerationJobRepository(pool)

	deck := createTestDeck(ctx, t, deckRepo)
	base := time.Now().UTC().Truncate(time.Microsecond)

	oldest := createTestJob(ctx, t, jobRepo, deck.ID, base)
	middle := createTestJob(ctx, t, jobRepo, deck.ID, base.Add(time.Second))
	newest := createTestJob(ctx, t, jobRepo, deck.ID, base.Add(2*time.Second))

	claimed, err := jobRepo.ClaimPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 2)

	// The two oldest jobs are claimed and flip to processing.
	claimedIDs := []string{claimed[0].ID, claimed[1].ID}
	assert.ElementsMatch(t, []string{oldest.ID, middle.ID}, claimedIDs)
	for _, job := range claimed {
		assert.Equal(t, domain.GenerationJobStatusProcessing, job.Status)
	}

	got, err := jobRepo.GetByID(ctx, oldest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationJobStatusProcessing, got.Status)

	// The unclaimed job stays pending and is picked up next.
	remaining, err := jobRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, newest.ID, remaining[0].ID)
}

func TestGenerationJobRepository_ClaimPending_NoneAvailable(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	jobRepo := NewGenerationJobRepository(pool)

	claimed, err := jobRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestGenerationJobRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	deckRepo := NewDeckRepository(pool)
	jobRepo := NewGenerationJobRepository(pool)

	deck := createTestDeck(ctx, t, deckRepo)
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := createTestJob(ctx, t, jobRepo, deck.ID, now)

	err := jobRepo.UpdateStatus(ctx, job.ID, domain.GenerationJobStatusCompleted, "")
	require.NoError(t, err)

	got, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationJobStatusCompleted, got.Status)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.ProcessedAt)
	assert.WithinDuration(t, time.Now().UTC(), *got.ProcessedAt, 5*time.Second)
}

func TestGenerationJobRepository_UpdateStatus_FailedRecordsError(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	deckRepo := NewDeckRepository(pool)
	jobRepo := NewGenerationJobRepository(pool)

	deck := createTestDeck(ctx, t, deckRepo)
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := createTestJob(ctx, t, jobRepo, deck.ID, now)

	err := jobRepo.UpdateStatus(ctx, job.ID, domain.GenerationJobStatusFailed, "completion request failed")
	require.NoError(t, err)

	got, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationJobStatusFailed, got.Status)
	assert.Equal(t, "completion request failed", got.Error)
	assert.NotNil(t, got.ProcessedAt)
}

func TestGenerationJobRepository_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	jobRepo := NewGenerationJobRepository(pool)

	err := jobRepo.UpdateStatus(ctx, uuid.NewString(), domain.GenerationJobStatusCompleted, "")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestGenerationJobRepository_IncrementRetries(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	deckRepo := NewDeckRepository(pool)
	jobRepo := NewGenerationJobRepository(pool)

	deck := createTestDeck(ctx, t, deckRepo)
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := createTestJob(ctx, t, jobRepo, deck.ID, now)

	require.NoError(t, jobRepo.IncrementRetries(ctx, job.ID))
	require.NoError(t, jobRepo.IncrementRetries(ctx, job.ID))

	got, err := jobRepo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Retries)
}

func TestGenerationJobRepository_IncrementRetries_NotFound(t *testing.T) {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	jobRepo := NewGenerationJobRepository(pool)

	err := jobRepo.IncrementRetries(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
