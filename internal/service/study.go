package service

import (
	"context"
	"math/rand"
	"sync"

	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/telemetry"
)

// StudyService runs in-memory study sessions over generated decks. One
// session exists per deck at a time; starting a new session replaces the
// previous one. Card study statuses are persisted so progress survives the
// session itself.
type StudyService struct {
	deckRepo DeckRepositoryInterface
	cardRepo CardRepositoryInterface

	mu       sync.Mutex
	sessions map[string]*studySession
	shuffle  func(cards []*domain.Card)
}

type studySession struct {
	order      []*domain.Card
	idx        int
	showAnswer bool
	correct    int
	review     int
	status     map[string]domain.StudyStatus
}

// StudyCard is the client-facing view of the current card. Answer stays
// empty until the card has been revealed.
type StudyCard struct {
	ID       string             `json:"id"`
	Question string             `json:"question"`
	Answer   string             `json:"answer,omitempty"`
	Status   domain.StudyStatus `json:"status"`
	Revealed bool               `json:"revealed"`
}

// StudyState is a snapshot of a session after an operation.
type StudyState struct {
	DeckID      string     `json:"deck_id"`
	Position    int        `json:"position"`
	Total       int        `json:"total"`
	Correct     int        `json:"correct"`
	NeedsReview int        `json:"needs_review"`
	Complete    bool       `json:"complete"`
	Card        *StudyCard `json:"card,omitempty"`
}

// NewStudyService creates a new StudyService instance
func NewStudyService(deckRepo DeckRepositoryInterface, cardRepo CardRepositoryInterface) *StudyService {
	return &StudyService{
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		sessions: make(map[string]*studySession),
		shuffle: func(cards []*domain.Card) {
			rand.Shuffle(len(cards), func(i, j int) {
				cards[i], cards[j] = cards[j], cards[i]
			})
		},
	}
}

// Start begins a session over a ready deck, optionally shuffling the card
// order. Any previous session for the deck is discarded and the persisted
// study statuses are reset.
func (s *StudyService) Start(ctx context.Context, deckID string, shuffle bool) (*StudyState, error) {
	ctx, span := telemetry.StartSpan(ctx, "StudyService.Start", telemetry.SpanAttributes{
		DeckID:    deckID,
		Operation: "study",
	})
	defer span.End()

	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.Status != domain.DeckStatusReady {
		return nil, domain.ErrDeckNotReady
	}

	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, domain.ErrDeckNotReady
	}

	if err := s.cardRepo.ResetStudyStatuses(ctx, deckID); err != nil {
		return nil, err
	}

	order := make([]*domain.Card, len(cards))
	copy(order, cards)

	s.mu.Lock()
	defer s.mu.Unlock()

	if shuffle {
		s.shuffle(order)
	}

	sess := &studySession{
		order:  order,
		status: make(map[string]domain.StudyStatus, len(order)),
	}
	for _, c := range order {
		sess.status[c.ID] = domain.StudyStatusNew
	}
	s.sessions[deckID] = sess

	return s.snapshot(deckID, sess), nil
}

// Current returns the state of the active session for a deck.
func (s *StudyService) Current(ctx context.Context, deckID string) (*StudyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[deckID]
	if !ok {
		return nil, domain.ErrStudyNotStarted
	}
	return s.snapshot(deckID, sess), nil
}

// Reveal flips the current card so it can be graded.
func (s *StudyService) Reveal(ctx context.Context, deckID string) (*StudyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[deckID]
	if !ok {
		return nil, domain.ErrStudyNotStarted
	}
	if sess.idx >= len(sess.order) {
		return nil, domain.ErrDeckComplete
	}

	sess.showAnswer = true
	return s.snapshot(deckID, sess), nil
}

// Grade records the result for the current card. A card can only be graded
// after its answer was revealed. Grading correct advances to the next card;
// grading needs-review moves the card to the end of the order so it comes
// around again. Counters track status transitions, not button presses, so
// regrading the same card never inflates them.
func (s *StudyService) Grade(ctx context.Context, deckID string, correct bool) (*StudyState, error) {
	ctx, span := telemetry.StartSpan(ctx, "StudyService.Grade", telemetry.SpanAttributes{
		DeckID:    deckID,
		Operation: "study",
	})
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[deckID]
	if !ok {
		return nil, domain.ErrStudyNotStarted
	}
	if sess.idx >= len(sess.order) {
		return nil, domain.ErrDeckComplete
	}
	if !sess.showAnswer {
		return nil, domain.ErrAnswerNotRevealed
	}

	card := sess.order[sess.idx]
	prev := sess.status[card.ID]

	var next domain.StudyStatus
	if correct {
		next = domain.StudyStatusCorrect
		if prev != domain.StudyStatusCorrect {
			sess.correct++
			if prev == domain.StudyStatusReview {
				sess.review--
			}
			sess.status[card.ID] = next
		}
		sess.idx++
	} else {
		next = domain.StudyStatusReview
		if prev != domain.StudyStatusReview {
			sess.review++
			if prev == domain.StudyStatusCorrect {
				sess.correct--
			}
		}
		sess.status[card.ID] = next
		// Resurface the card at the end of the run.
		sess.order = append(sess.order[:sess.idx], sess.order[sess.idx+1:]...)
		sess.order = append(sess.order, card)
	}
	sess.showAnswer = false

	if err := s.cardRepo.UpdateStudyStatus(ctx, card.ID, next); err != nil {
		return nil, err
	}

	return s.snapshot(deckID, sess), nil
}

// End discards the session for a deck, if any.
func (s *StudyService) End(deckID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, deckID)
}

// snapshot builds a StudyState; callers must hold s.mu.
func (s *StudyService) snapshot(deckID string, sess *studySession) *StudyState {
	state := &StudyState{
		DeckID:      deckID,
		Position:    sess.idx,
		Total:       len(sess.order),
		Correct:     sess.correct,
		NeedsReview: sess.review,
	}

	if sess.idx >= len(sess.order) {
		state.Complete = true
		return state
	}

	card := sess.order[sess.idx]
	sc := &StudyCard{
		ID:       card.ID,
		Question: card.Question,
		Status:   sess.status[card.ID],
		Revealed: sess.showAnswer,
	}
	if sess.showAnswer {
		sc.Answer = card.Answer
	}
	state.Card = sc
	return state
}
