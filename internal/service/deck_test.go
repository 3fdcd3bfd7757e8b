package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/pagination"
)

func TestDeckService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending deck and queues generation job", func(t *testing.T) {
		deckRepo := new(MockDeckRepository)
		cardRepo := new(MockCardRepository)
		jobRepo := new(MockGenerationJobRepository)
		svc := NewDeckServiceWithUUIDGen(deckRepo, cardRepo, jobRepo, NewMockUUIDGenerator("deck-id-1", "job-id-1"))

		deckRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Deck) bool {
			return d.ID == "deck-id-1" &&
				d.Name == "biology" &&
				d.Status == domain.DeckStatusPending &&
				d.TargetCards == 12
		})).Return(nil)
		jobRepo.On("Create", mock.Anything, mock.MatchedBy(func(job *domain.GenerationJob) bool {
			return job.ID == "job-id-1" &&
				job.DeckID == "deck-id-1" &&
				job.Status == domain.GenerationJobStatusPending &&
				job.Retries == 0
		})).Return(nil)

		deck, err := svc.Create(ctx, CreateDeckInput{
			Name:        "biology",
			SourceText:  "cells are the basic unit of life",
			TargetCards: 12,
		})

		require.NoError(t, err)
		assert.Equal(t, "deck-id-1", deck.ID)
		deckRepo.AssertExpectations(t)
		jobRepo.AssertExpectations(t)
	})

	t.Run("cleans source text before storing", func(t *testing.T) {
		deckRepo := new(MockDeckRepository)
		jobRepo := new(MockGenerationJobRepository)
		svc := NewDeckService(deckRepo, new(MockCardRepository), jobRepo)

		deckRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Deck) bool {
			return d.SourceText == "line one\nline two"
		})).Return(nil)
		jobRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(ctx, CreateDeckInput{
			Name:       "notes",
			SourceText: "line one\r\nline   two",
		})

		require.NoError(t, err)
		deckRepo.AssertExpectations(t)
	})

	t.Run("defaults and caps target cards", func(t *testing.T) {
		deckRepo := new(MockDeckRepository)
		jobRepo := new(MockGenerationJobRepository)
		svc := NewDeckService(deckRepo, new(MockCardRepository), jobRepo)

		deckRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Deck) bool {
			return d.TargetCards == DefaultTargetCards
		})).Return(nil).Once()
		deckRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Deck) bool {
			return d.TargetCards == MaxTargetCards
		})).Return(nil).Once()
		jobRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(ctx, CreateDeckInput{Name: "a", SourceText: "text"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, CreateDeckInput{Name: "b", SourceText: "text", TargetCards: 500})
		require.NoError(t, err)
		deckRepo.AssertExpectations(t)
	})

	t.Run("rejects empty source text", func(t *testing.T) {
		svc := NewDeckService(new(MockDeckRepository), new(MockCardRepository), new(MockGenerationJobRepository))

		_, err := svc.Create(ctx, CreateDeckInput{Name: "empty", SourceText: "   \n\n "})

		assert.Equal(t, domain.ErrEmptySourceText, err)
	})

	t.Run("returns repository error", func(t *testing.T) {
		deckRepo := new(MockDeckRepository)
		svc := NewDeckService(deckRepo, new(MockCardRepository), new(MockGenerationJobRepository))

		repoErr := errors.New("connection refused")
		deckRepo.On("Create", mock.Anything, mock.Anything).Return(repoErr)

		_, err := svc.Create(ctx, CreateDeckInput{Name: "x", SourceText: "text"})

		assert.Equal(t, repoErr, err)
	})
}

func TestDeckService_List(t *testing.T) {
	deckRepo := new(MockDeckRepository)
	svc := NewDeckService(deckRepo, new(MockCardRepository), new(MockGenerationJobRepository))

	ctx := context.Background()
	now := time.Now().UTC()
	decks := []*domain.Deck{domain.NewDeck("d1", "a", "t", 10, now)}
	nextCursor := pagination.EncodeCursor("d1", now)

	deckRepo.On("ListWithCursor", mock.Anything, (*pagination.Cursor)(nil), 20).Return(&DeckPageResult{
		Items:      decks,
		NextCursor: nextCursor,
		HasMore:    true,
	}, nil)

	out, err := svc.List(ctx, ListDecksInput{})

	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, nextCursor, out.Cursor)
	assert.True(t, out.HasMore)
}

func TestDeckService_GetCards(t *testing.T) {
	deckRepo := new(MockDeckRepository)
	cardRepo := new(MockCardRepository)
	svc := NewDeckService(deckRepo, cardRepo, new(MockGenerationJobRepository))

	ctx := context.Background()
	deckRepo.On("GetByID", mock.Anything, "deck-1").Return(readyDeck("deck-1"), nil)
	cardRepo.On("ListByDeck", mock.Anything, "deck-1").Return(studyCards("deck-1"), nil)

	cards, err := svc.GetCards(ctx, "deck-1")

	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestDeckService_GetCards_DeckMissing(t *testing.T) {
	deckRepo := new(MockDeckRepository)
	svc := NewDeckService(deckRepo, new(MockCardRepository), new(MockGenerationJobRepository))

	deckRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrDeckNotFound)

	_, err := svc.GetCards(context.Background(), "missing")

	assert.Equal(t, domain.ErrDeckNotFound, err)
}

func TestDeckService_Delete(t *testing.T) {
	deckRepo := new(MockDeckRepository)
	svc := NewDeckService(deckRepo, new(MockCardRepository), new(MockGenerationJobRepository))

	ctx := context.Background()
	deckRepo.On("GetByID", mock.Anything, "deck-1").Return(readyDeck("deck-1"), nil)
	deckRepo.On("Delete", mock.Anything, "deck-1").Return(nil)

	err := svc.Delete(ctx, "deck-1")

	require.NoError(t, err)
	deckRepo.AssertExpectations(t)
}
