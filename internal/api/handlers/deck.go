package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deckgen-ai/deckgen/internal/api"
	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/service"
)

type DeckService interface {
	Create(ctx context.Context, input service.CreateDeckInput) (*domain.Deck, error)
	GetByID(ctx context.Context, id string) (*domain.Deck, error)
	List(ctx context.Context, input service.ListDecksInput) (*service.ListDecksOutput, error)
	GetCards(ctx context.Context, deckID string) ([]*domain.Card, error)
	Delete(ctx context.Context, id string) error
}

type DeckHandler struct {
	svc DeckService
}

func NewDeckHandler(svc DeckService) *DeckHandler {
	return &DeckHandler{svc: svc}
}

type CreateDeckRequest struct {
	Name        string `json:"name"`
	SourceText  string `json:"source_text"`
	TargetCards int    `json:"target_cards"`
}

type DeckResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	TargetCards int    `json:"target_cards"`
	CardCount   int    `json:"card_count"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CardResponse struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	SourceChunk int    `json:"source_chunk"`
	StudyStatus string `json:"study_status"`
}

func deckToResponse(d *domain.Deck) *DeckResponse {
	return &DeckResponse{
		ID:          d.ID,
		Name:        d.Name,
		Status:      string(d.Status),
		TargetCards: d.TargetCards,
		CardCount:   d.CardCount,
		Error:       d.Error,
		CreatedAt:   d.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   d.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func cardToResponse(c *domain.Card) *CardResponse {
	return &CardResponse{
		ID:          c.ID,
		Position:    c.Position,
		Question:    c.Question,
		Answer:      c.Answer,
		SourceChunk: c.SourceChunk,
		StudyStatus: string(c.StudyStatus),
	}
}

func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.SourceText == "" {
		api.Error(w, http.StatusBadRequest, "source_text is required")
		return
	}

	input := service.CreateDeckInput{
		Name:        req.Name,
		SourceText:  req.SourceText,
		TargetCards: req.TargetCards,
	}

	deck, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, deckToResponse(deck))
}

func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	deck, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, deckToResponse(deck))
}

type DeckListResponse struct {
	Items   []*DeckResponse `json:"items"`
	Cursor  string          `json:"cursor,omitempty"`
	HasMore bool            `json:"has_more"`
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limitStr := r.URL.Query().Get("limit")
	limit := 20
	if limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	output, err := h.svc.List(r.Context(), service.ListDecksInput{
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*DeckResponse, len(output.Items))
	for i, d := range output.Items {
		responses[i] = deckToResponse(d)
	}

	api.Success(w, http.StatusOK, DeckListResponse{
		Items:   responses,
		Cursor:  output.Cursor,
		HasMore: output.HasMore,
	})
}

type CardListResponse struct {
	Items []*CardResponse `json:"items"`
}

func (h *DeckHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	cards, err := h.svc.GetCards(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*CardResponse, len(cards))
	for i, c := range cards {
		responses[i] = cardToResponse(c)
	}

	api.Success(w, http.StatusOK, CardListResponse{Items: responses})
}

func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}
