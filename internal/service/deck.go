package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/pagination"
	"github.com/deckgen-ai/deckgen/internal/telemetry"
)

const (
	// DefaultTargetCards is used when a request does not specify a count.
	DefaultTargetCards = 30
	// MaxTargetCards caps a single generation request.
	MaxTargetCards = 120
)

// DeckRepositoryInterface defines the repository interface for deck persistence
type DeckRepositoryInterface interface {
	Create(ctx context.Context, d *domain.Deck) error
	GetByID(ctx context.Context, id string) (*domain.Deck, error)
	ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*DeckPageResult, error)
	Update(ctx context.Context, d *domain.Deck) error
	Delete(ctx context.Context, id string) error
}

// CardRepositoryInterface defines the repository interface for card persistence
type CardRepositoryInterface interface {
	ReplaceForDeck(ctx context.Context, deckID string, cards []*domain.Card) error
	ListByDeck(ctx context.Context, deckID string) ([]*domain.Card, error)
	UpdateStudyStatus(ctx context.Context, id string, status domain.StudyStatus) error
	ResetStudyStatuses(ctx context.Context, deckID string) error
}

// GenerationJobRepositoryInterface defines the repository interface for generation job persistence
type GenerationJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.GenerationJob) error
}

type DeckPageResult struct {
	Items      []*domain.Deck
	NextCursor string
	HasMore    bool
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// DeckService handles business logic for decks
type DeckService struct {
	deckRepo DeckRepositoryInterface
	cardRepo CardRepositoryInterface
	jobRepo  GenerationJobRepositoryInterface
	uuidGen  UUIDGenerator
}

// NewDeckService creates a new DeckService instance
func NewDeckService(
	deckRepo DeckRepositoryInterface,
	cardRepo CardRepositoryInterface,
	jobRepo GenerationJobRepositoryInterface,
) *DeckService {
	return &DeckService{
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		jobRepo:  jobRepo,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewDeckServiceWithUUIDGen creates a new DeckService with custom UUID generator (for testing)
func NewDeckServiceWithUUIDGen(
	deckRepo DeckRepositoryInterface,
	cardRepo CardRepositoryInterface,
	jobRepo GenerationJobRepositoryInterface,
	uuidGen UUIDGenerator,
) *DeckService {
	return &DeckService{
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		jobRepo:  jobRepo,
		uuidGen:  uuidGen,
	}
}

// CreateDeckInput represents the input for creating a deck
type CreateDeckInput struct {
	Name        string
	SourceText  string
	TargetCards int
}

type ListDecksInput struct {
	Cursor string
	Limit  int
}

type ListDecksOutput struct {
	Items   []*domain.Deck
	Cursor  string
	HasMore bool
}

// Create normalizes the source text, creates a pending deck, and queues a
// generation job for the background worker.
func (s *DeckService) Create(ctx context.Context, input CreateDeckInput) (*domain.Deck, error) {
	ctx, span := telemetry.StartSpan(ctx, "DeckService.Create", telemetry.SpanAttributes{
		Operation: "create",
	})
	defer span.End()

	cleaned := CleanText(input.SourceText)
	if cleaned == "" {
		return nil, domain.ErrEmptySourceText
	}

	targetCards := input.TargetCards
	if targetCards <= 0 {
		targetCards = DefaultTargetCards
	}
	if targetCards > MaxTargetCards {
		targetCards = MaxTargetCards
	}

	now := time.Now().UTC()
	deck := domain.NewDeck(s.uuidGen.NewString(), input.Name, cleaned, targetCards, now)

	if err := domain.ValidateDeck(deck); err != nil {
		return nil, err
	}

	if err := s.deckRepo.Create(ctx, deck); err != nil {
		return nil, err
	}

	job := domain.NewGenerationJob(s.uuidGen.NewString(), deck.ID, now)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	return deck, nil
}

// GetByID retrieves a deck by ID
func (s *DeckService) GetByID(ctx context.Context, id string) (*domain.Deck, error) {
	ctx, span := telemetry.StartSpan(ctx, "DeckService.GetByID", telemetry.SpanAttributes{
		DeckID:    id,
		Operation: "get",
	})
	defer span.End()

	return s.deckRepo.GetByID(ctx, id)
}

// List retrieves decks with cursor pagination, newest first.
func (s *DeckService) List(ctx context.Context, input ListDecksInput) (*ListDecksOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "DeckService.List", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	cursor, _ := pagination.DecodeCursor(input.Cursor)
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.deckRepo.ListWithCursor(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListDecksOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}

// GetCards retrieves the cards of a deck in position order.
func (s *DeckService) GetCards(ctx context.Context, deckID string) ([]*domain.Card, error) {
	ctx, span := telemetry.StartSpan(ctx, "DeckService.GetCards", telemetry.SpanAttributes{
		DeckID:    deckID,
		Operation: "get",
	})
	defer span.End()

	if _, err := s.deckRepo.GetByID(ctx, deckID); err != nil {
		return nil, err
	}
	return s.cardRepo.ListByDeck(ctx, deckID)
}

// Delete removes a deck and everything hanging off it.
func (s *DeckService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "DeckService.Delete", telemetry.SpanAttributes{
		DeckID:    id,
		Operation: "delete",
	})
	defer span.End()

	if _, err := s.deckRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.deckRepo.Delete(ctx, id)
}
