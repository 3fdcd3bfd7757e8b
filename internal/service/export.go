package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/telemetry"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	// ExportFormatCSV is a front,back CSV importable by most tools.
	ExportFormatCSV ExportFormat = "csv"
	// ExportFormatAnki is Anki's plain-text import format, one
	// tab-separated card per line.
	ExportFormatAnki ExportFormat = "anki"
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = domain.NewDomainError(domain.ErrCodeValidation, "unsupported export format")

// ObjectStore defines the storage interface for export artifacts.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// ExportResult is a rendered export artifact.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders decks into downloadable formats and optionally
// pushes the artifact to object storage.
type ExportService struct {
	deckRepo DeckRepositoryInterface
	cardRepo CardRepositoryInterface
	store    ObjectStore
}

// NewExportService creates a new ExportService instance. store may be nil
// when object storage is not configured.
func NewExportService(deckRepo DeckRepositoryInterface, cardRepo CardRepositoryInterface, store ObjectStore) *ExportService {
	return &ExportService{
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		store:    store,
	}
}

// Export renders a ready deck in the requested format.
func (s *ExportService) Export(ctx context.Context, deckID string, format ExportFormat) (*ExportResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ExportService.Export", telemetry.SpanAttributes{
		DeckID:    deckID,
		Operation: "export",
	})
	defer span.End()

	cards, err := s.exportableCards(ctx, deckID)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExportFormatCSV:
		data, err := renderCSV(cards)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    "flashcards.csv",
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatAnki:
		return &ExportResult{
			Filename:    "flashcards_anki.txt",
			ContentType: "text/plain",
			Data:        renderAnki(cards),
		}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ExportToStorage renders the deck, uploads the artifact, and returns a
// presigned download URL.
func (s *ExportService) ExportToStorage(ctx context.Context, deckID string, format ExportFormat) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "ExportService.ExportToStorage", telemetry.SpanAttributes{
		DeckID:    deckID,
		Operation: "export",
	})
	defer span.End()

	if s.store == nil {
		return "", domain.ErrStorageOperationFail
	}

	result, err := s.Export(ctx, deckID, format)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/%s/%s", deckID, result.Filename)
	if err := s.store.PutObject(ctx, key, result.Data, result.ContentType); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "export upload failed", err)
	}

	url, err := s.store.GenerateDownloadURL(ctx, key)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "export URL generation failed", err)
	}
	return url, nil
}

func (s *ExportService) exportableCards(ctx context.Context, deckID string) ([]*domain.Card, error) {
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

	for _, c := range cards {
		if err := domain.ValidateCard(c); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

func renderCSV(cards []*domain.Card) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"front", "back"}); err != nil {
		return nil, err
	}
	for _, c := range cards {
		if err := w.Write([]string{c.Question, c.Answer}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderAnki(cards []*domain.Card) []byte {
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		lines = append(lines, c.Question+"\t"+c.Answer)
	}
	return []byte(strings.Join(lines, "\n"))
}
