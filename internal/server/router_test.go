package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deckgen-ai/deckgen/internal/api/handlers"
	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/service"
)

type MockDeckService struct {
	mock.Mock
}

func (m *MockDeckService) Create(ctx context.Context, input service.CreateDeckInput) (*domain.Deck, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *MockDeckService) GetByID(ctx context.Context, id string) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *MockDeckService) List(ctx context.Context, input service.ListDecksInput) (*service.ListDecksOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListDecksOutput), args.Error(1)
}

func (m *MockDeckService) GetCards(ctx context.Context, deckID string) ([]*domain.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *MockDeckService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStudyService struct {
	mock.Mock
}

func (m *MockStudyService) Start(ctx context.Context, deckID string, shuffle bool) (*service.StudyState, error) {
	args := m.Called(ctx, deckID, shuffle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudyState), args.Error(1)
}

func (m *MockStudyService) Current(ctx context.Context, deckID string) (*service.StudyState, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudyState), args.Error(1)
}

func (m *MockStudyService) Reveal(ctx context.Context, deckID string) (*service.StudyState, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudyState), args.Error(1)
}

func (m *MockStudyService) Grade(ctx context.Context, deckID string, correct bool) (*service.StudyState, error) {
	args := m.Called(ctx, deckID, correct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudyState), args.Error(1)
}

func (m *MockStudyService) End(deckID string) {
	m.Called(deckID)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, deckID string, format service.ExportFormat) (*service.ExportResult, error) {
	args := m.Called(ctx, deckID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockExportService) ExportToStorage(ctx context.Context, deckID string, format service.ExportFormat) (string, error) {
	args := m.Called(ctx, deckID, format)
	return args.String(0), args.Error(1)
}

func setupRouter(apiToken string) (http.Handler, *MockDeckService, *MockStudyService, *MockExportService) {
	deckSvc := new(MockDeckService)
	studySvc := new(MockStudyService)
	exportSvc := new(MockExportService)

	cfg := RouterConfig{
		APIToken:      apiToken,
		DeckHandler:   handlers.NewDeckHandler(deckSvc),
		StudyHandler:  handlers.NewStudyHandler(studySvc),
		ExportHandler: handlers.NewExportHandler(exportSvc),
	}

	router := NewRouter(cfg)
	return router, deckSvc, studySvc, exportSvc
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router, _, _, _ := setupRouter("")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestRouter_ProtectedRoutes_RequireAuth(t *testing.T) {
	router, _, _, _ := setupRouter("secret-token")

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/decks"},
		{http.MethodGet, "/v1/decks"},
		{http.MethodGet, "/v1/decks/123"},
		{http.MethodDelete, "/v1/decks/123"},
		{http.MethodGet, "/v1/decks/123/cards"},
		{http.MethodPost, "/v1/decks/123/study"},
		{http.MethodGet, "/v1/decks/123/study"},
		{http.MethodPost, "/v1/decks/123/study/reveal"},
		{http.MethodPost, "/v1/decks/123/study/grade"},
		{http.MethodGet, "/v1/decks/123/export"},
		{http.MethodPost, "/v1/decks/123/export/url"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_ProtectedRoutes_WithValidAuth(t *testing.T) {
	router, deckSvc, _, _ := setupRouter("secret-token")

	expectedDeck := &domain.Deck{
		ID:          "deck-123",
		Name:        "Biology Notes",
		SourceText:  "notes",
		Status:      domain.DeckStatusReady,
		TargetCards: 20,
		CardCount:   20,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	deckSvc.On("GetByID", mock.Anything, "deck-123").Return(expectedDeck, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/decks/deck-123", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	deckSvc.AssertExpectations(t)
}

func TestRouter_OpenAccessWhenNoToken(t *testing.T) {
	router, deckSvc, _, _ := setupRouter("")

	output := &service.ListDecksOutput{Items: []*domain.Deck{}}
	deckSvc.On("List", mock.Anything, mock.Anything).Return(output, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/decks", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	deckSvc.AssertExpectations(t)
}

func TestRouter_StudyFlow(t *testing.T) {
	router, _, studySvc, _ := setupRouter("")

	state := &service.StudyState{DeckID: "deck-123", Total: 2}
	studySvc.On("Start", mock.Anything, "deck-123", false).Return(state, nil)
	studySvc.On("Reveal", mock.Anything, "deck-123").Return(state, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/decks/deck-123/study", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/decks/deck-123/study/reveal", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	studySvc.AssertExpectations(t)
}
