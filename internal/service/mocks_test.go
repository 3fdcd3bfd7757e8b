package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/openai"
	"github.com/deckgen-ai/deckgen/internal/pagination"
)

// MockDeckRepository is a mock implementation of DeckRepositoryInterface
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Create(ctx context.Context, d *domain.Deck) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeckRepository) GetByID(ctx context.Context, id string) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *MockDeckRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*DeckPageResult, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DeckPageResult), args.Error(1)
}

func (m *MockDeckRepository) Update(ctx context.Context, d *domain.Deck) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeckRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCardRepository is a mock implementation of CardRepositoryInterface
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) ReplaceForDeck(ctx context.Context, deckID string, cards []*domain.Card) error {
	args := m.Called(ctx, deckID, cards)
	return args.Error(0)
}

func (m *MockCardRepository) ListByDeck(ctx context.Context, deckID string) ([]*domain.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *MockCardRepository) UpdateStudyStatus(ctx context.Context, id string, status domain.StudyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCardRepository) ResetStudyStatuses(ctx context.Context, deckID string) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}

// MockGenerationJobRepository is a mock implementation of GenerationJobRepositoryInterface
type MockGenerationJobRepository struct {
	mock.Mock
}

func (m *MockGenerationJobRepository) Create(ctx context.Context, job *domain.GenerationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockCompletionClient is a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req openai.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockObjectStore is a mock implementation of ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockUUIDGenerator returns a fixed sequence of IDs
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		id := m.uuids[m.callCount]
		m.callCount++
		return id
	}
	return "default-uuid"
}

// stubTxRunner runs the transaction body directly against the given repos.
type stubTxRunner struct {
	decks DeckRepositoryInterface
	cards CardRepositoryInterface
	jobs  GenerationJobRepositoryInterface
	err   error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(s)
}

func (s *stubTxRunner) Decks() DeckRepositoryInterface                   { return s.decks }
func (s *stubTxRunner) Cards() CardRepositoryInterface                   { return s.cards }
func (s *stubTxRunner) GenerationJobs() GenerationJobRepositoryInterface { return s.jobs }
