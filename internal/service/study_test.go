package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deckgen-ai/deckgen/internal/domain"
)

func readyDeck(id string) *domain.Deck {
	deck := domain.NewDeck(id, "bio", "notes", 3, time.Now().UTC())
	deck.Status = domain.DeckStatusReady
	deck.CardCount = 3
	return deck
}

func studyCards(deckID string) []*domain.Card {
	now := time.Now().UTC()
	return []*domain.Card{
		domain.NewCard("c1", deckID, 0, domain.Flashcard{Question: "Q1?", Answer: "A1"}, now),
		domain.NewCard("c2", deckID, 1, domain.Flashcard{Question: "Q2?", Answer: "A2"}, now),
		domain.NewCard("c3", deckID, 2, domain.Flashcard{Question: "Q3?", Answer: "A3"}, now),
	}
}

func newStudyFixture(t *testing.T) (*StudyService, *MockDeckRepository, *MockCardRepository) {
	t.Helper()
	deckRepo := new(MockDeckRepository)
	cardRepo := new(MockCardRepository)
	svc := NewStudyService(deckRepo, cardRepo)
	// Keep the card order deterministic.
	svc.shuffle = func(cards []*domain.Card) {}
	return svc, deckRepo, cardRepo
}

func startSession(t *testing.T, svc *StudyService, deckRepo *MockDeckRepository, cardRepo *MockCardRepository) *StudyState {
	t.Helper()
	ctx := context.Background()
	deckRepo.On("GetByID", mock.Anything, "deck-1").Return(readyDeck("deck-1"), nil)
	cardRepo.On("ListByDeck", mock.Anything, "deck-1").Return(studyCards("deck-1"), nil)
	cardRepo.On("ResetStudyStatuses", mock.Anything, "deck-1").Return(nil)

	state, err := svc.Start(ctx, "deck-1", false)
	require.NoError(t, err)
	return state
}

func TestStudyStart(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	state := startSession(t, svc, deckRepo, cardRepo)

	assert.Equal(t, 0, state.Position)
	assert.Equal(t, 3, state.Total)
	assert.False(t, state.Complete)
	require.NotNil(t, state.Card)
	assert.Equal(t, "Q1?", state.Card.Question)
	assert.Empty(t, state.Card.Answer)
	assert.Equal(t, domain.StudyStatusNew, state.Card.Status)
}

func TestStudyStart_DeckNotReady(t *testing.T) {
	svc, deckRepo, _ := newStudyFixture(t)
	deck := domain.NewDeck("deck-1", "bio", "notes", 3, time.Now().UTC())
	deckRepo.On("GetByID", mock.Anything, "deck-1").Return(deck, nil)

	_, err := svc.Start(context.Background(), "deck-1", false)

	assert.Equal(t, domain.ErrDeckNotReady, err)
}

func TestStudyCurrent_NoSession(t *testing.T) {
	svc, _, _ := newStudyFixture(t)

	_, err := svc.Current(context.Background(), "deck-1")

	assert.Equal(t, domain.ErrStudyNotStarted, err)
}

func TestStudyReveal(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	startSession(t, svc, deckRepo, cardRepo)

	state, err := svc.Reveal(context.Background(), "deck-1")

	require.NoError(t, err)
	assert.True(t, state.Card.Revealed)
	assert.Equal(t, "A1", state.Card.Answer)
}

func TestStudyGrade_RequiresReveal(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	startSession(t, svc, deckRepo, cardRepo)

	_, err := svc.Grade(context.Background(), "deck-1", true)

	assert.Equal(t, domain.ErrAnswerNotRevealed, err)
}

func TestStudyGrade_CorrectAdvances(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	startSession(t, svc, deckRepo, cardRepo)
	ctx := context.Background()

	cardRepo.On("UpdateStudyStatus", mock.Anything, "c1", domain.StudyStatusCorrect).Return(nil)

	_, err := svc.Reveal(ctx, "deck-1")
	require.NoError(t, err)
	state, err := svc.Grade(ctx, "deck-1", true)

	require.NoError(t, err)
	assert.Equal(t, 1, state.Correct)
	assert.Equal(t, 0, state.NeedsReview)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, "Q2?", state.Card.Question)
	assert.False(t, state.Card.Revealed)
	cardRepo.AssertExpectations(t)
}

func TestStudyGrade_ReviewResurfacesAtEnd(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	startSession(t, svc, deckRepo, cardRepo)
	ctx := context.Background()

	cardRepo.On("UpdateStudyStatus", mock.Anything, "c1", domain.StudyStatusReview).Return(nil)

	_, err := svc.Reveal(ctx, "deck-1")
	require.NoError(t, err)
	state, err := svc.Grade(ctx, "deck-1", false)

	require.NoError(t, err)
	assert.Equal(t, 0, state.Correct)
	assert.Equal(t, 1, state.NeedsReview)
	// Position is unchanged; the next card moves into the slot and the
	// reviewed card waits at the end of the order.
	assert.Equal(t, 0, state.Position)
	assert.Equal(t, "Q2?", state.Card.Question)

	sess := svc.sessions["deck-1"]
	assert.Equal(t, "c1", sess.order[len(sess.order)-1].ID)
}

func TestStudyGrade_ReviewThenCorrectAccounting(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	startSession(t, svc, deckRepo, cardRepo)
	ctx := context.Background()

	cardRepo.On("UpdateStudyStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Mark every card for review once, then answer all of them correctly.
	for i := 0; i < 3; i++ {
		_, err := svc.Reveal(ctx, "deck-1")
		require.NoError(t, err)
		_, err = svc.Grade(ctx, "deck-1", false)
		require.NoError(t, err)
	}

	var state *StudyState
	for i := 0; i < 3; i++ {
		_, err := svc.Reveal(ctx, "deck-1")
		require.NoError(t, err)
		var gerr error
		state, gerr = svc.Grade(ctx, "deck-1", true)
		require.NoError(t, gerr)
	}

	// Review count drains as cards graduate; totals never inflate.
	assert.Equal(t, 3, state.Correct)
	assert.Equal(t, 0, state.NeedsReview)
	assert.True(t, state.Complete)
}

func TestStudyGrade_AfterComplete(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	startSession(t, svc, deckRepo, cardRepo)
	ctx := context.Background()

	cardRepo.On("UpdateStudyStatus", mock.Anything, mock.Anything, domain.StudyStatusCorrect).Return(nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Reveal(ctx, "deck-1")
		require.NoError(t, err)
		_, err = svc.Grade(ctx, "deck-1", true)
		require.NoError(t, err)
	}

	_, err := svc.Reveal(ctx, "deck-1")
	assert.Equal(t, domain.ErrDeckComplete, err)
	_, err = svc.Grade(ctx, "deck-1", true)
	assert.Equal(t, domain.ErrDeckComplete, err)
}

func TestStudyEnd(t *testing.T) {
	svc, deckRepo, cardRepo := newStudyFixture(t)
	startSession(t, svc, deckRepo, cardRepo)

	svc.End("deck-1")

	_, err := svc.Current(context.Background(), "deck-1")
	assert.Equal(t, domain.ErrStudyNotStarted, err)
}
