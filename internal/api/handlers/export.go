package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckgen-ai/deckgen/internal/api"
	"github.com/deckgen-ai/deckgen/internal/service"
)

type ExportService interface {
	Export(ctx context.Context, deckID string, format service.ExportFormat) (*service.ExportResult, error)
	ExportToStorage(ctx context.Context, deckID string, format service.ExportFormat) (string, error)
}

type ExportHandler struct {
	svc ExportService
}

func NewExportHandler(svc ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

type ExportURLResponse struct {
	DownloadURL string `json:"download_url"`
}

// Download streams the rendered export directly in the response body.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.ExportFormatCSV
	}

	result, err := h.svc.Export(r.Context(), id, format)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

// GetDownloadURL uploads the export to object storage and returns a
// presigned URL.
func (h *ExportHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.ExportFormatCSV
	}

	url, err := h.svc.ExportToStorage(r.Context(), id, format)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ExportURLResponse{DownloadURL: url})
}
