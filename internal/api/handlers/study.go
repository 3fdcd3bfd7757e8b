package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckgen-ai/deckgen/internal/api"
	"github.com/deckgen-ai/deckgen/internal/service"
)

type StudyService interface {
	Start(ctx context.Context, deckID string, shuffle bool) (*service.StudyState, error)
	Current(ctx context.Context, deckID string) (*service.StudyState, error)
	Reveal(ctx context.Context, deckID string) (*service.StudyState, error)
	Grade(ctx context.Context, deckID string, correct bool) (*service.StudyState, error)
	End(deckID string)
}

type StudyHandler struct {
	svc StudyService
}

func NewStudyHandler(svc StudyService) *StudyHandler {
	return &StudyHandler{svc: svc}
}

type StartStudyRequest struct {
	Shuffle bool `json:"shuffle"`
}

type GradeRequest struct {
	Correct bool `json:"correct"`
}

func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req StartStudyRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	state, err := h.svc.Start(r.Context(), id, req.Shuffle)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, state)
}

func (h *StudyHandler) Current(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	state, err := h.svc.Current(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, state)
}

func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	state, err := h.svc.Reveal(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, state)
}

func (h *StudyHandler) Grade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.svc.Grade(r.Context(), id, req.Correct)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, state)
}

func (h *StudyHandler) End(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	h.svc.End(id)
	api.Success(w, http.StatusOK, map[string]string{"deck_id": id, "status": "ended"})
}
