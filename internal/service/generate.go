package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deckgen-ai/deckgen/internal/chunking"
	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/openai"
	"github.com/deckgen-ai/deckgen/internal/parse"
	"github.com/deckgen-ai/deckgen/internal/telemetry"
)

// The system prompt is deliberately short and strict; it holds up well on
// small instruct models as well as on the large hosted ones.
const systemPrompt = "you create high-quality study flashcards from user notes. " +
	"ask clear, testable questions and give short, precise answers only from the notes. " +
	"prefer why/how/compare when useful. if not in notes, write 'not found in notes'. " +
	"return exactly N flashcards."

const (
	userPromptHeader = "notes (compressed excerpts):\n---\n"
	userPromptFooter = "---\n\n" +
		"create exactly %d flashcards about the core ideas. keep answers 1-2 sentences.\n" +
		"preferred output: one line per card, tab-separated -> question\tanswer\n" +
		"acceptable fallback formats if needed: 'Q: ... A: ...' on one line OR two lines.\n" +
		"do not add numbering, bullets, headers, or extra commentary."

	// Appended to the user prompt on the strict retry pass.
	tsvOnlyReminder = "\nRespond TSV only: question\tanswer per line; no extra text."
)

const (
	// DefaultTemperature keeps the output format stable across models.
	DefaultTemperature float32 = 0.2

	// Completion budget: enough room per card without letting slow models
	// ramble.
	maxCompletionTokens = 1200
	tokensPerCard       = 45
)

// CompletionClient defines the interface for chat completion calls
type CompletionClient interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

// GenerationService turns source text into flashcards with a single model
// call plus one strict retry, and persists the result for a deck.
type GenerationService struct {
	client      CompletionClient
	deckRepo    DeckRepositoryInterface
	txRunner    TxRunner
	uuidGen     UUIDGenerator
	compressCfg chunking.CompressConfig
	temperature float32
}

// NewGenerationService creates a new GenerationService instance
func NewGenerationService(client CompletionClient, deckRepo DeckRepositoryInterface, txRunner TxRunner) *GenerationService {
	return &GenerationService{
		client:      client,
		deckRepo:    deckRepo,
		txRunner:    txRunner,
		uuidGen:     &DefaultUUIDGenerator{},
		compressCfg: chunking.DefaultCompressConfig(),
		temperature: DefaultTemperature,
	}
}

// NewGenerationServiceWithUUIDGen creates a new GenerationService with custom UUID generator (for testing)
func NewGenerationServiceWithUUIDGen(client CompletionClient, deckRepo DeckRepositoryInterface, txRunner TxRunner, uuidGen UUIDGenerator) *GenerationService {
	s := NewGenerationService(client, deckRepo, txRunner)
	s.uuidGen = uuidGen
	return s
}

// GenerateCards asks the model for n cards over the given text and parses
// whatever comes back. When the first pass parses fewer than half the
// requested cards, one retry is made with a strict TSV-only reminder.
func (s *GenerationService) GenerateCards(ctx context.Context, sourceText string, n int, topics []string) ([]domain.Flashcard, error) {
	ctx, span := telemetry.StartSpan(ctx, "GenerationService.GenerateCards", telemetry.SpanAttributes{
		Operation: "generate",
	})
	defer span.End()

	if strings.TrimSpace(sourceText) == "" {
		return nil, domain.ErrEmptySourceText
	}
	if n < 1 {
		n = 1
	}

	corpus := chunking.CompressCorpus(sourceText, s.compressCfg)
	if len(topics) > 0 {
		corpus += "\nFocus on: " + strings.Join(topics, ", ")
	}

	user := buildUserPrompt(corpus, n)
	req := openai.CompletionRequest{
		System:      systemPrompt,
		User:        user,
		Temperature: s.temperature,
		MaxTokens:   completionBudget(n),
	}

	out, err := s.client.Complete(ctx, req)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstreamFailure, "card generation call failed", err)
	}

	cards := parse.ParseAny(out)
	if len(cards) >= retryThreshold(n) {
		return truncateCards(cards, n), nil
	}

	// Second try: very strict reminder to return TSV only.
	req.User = user + tsvOnlyReminder
	out, err = s.client.Complete(ctx, req)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstreamFailure, "card generation retry failed", err)
	}

	cards = parse.ParseAny(out)
	if len(cards) == 0 {
		return nil, domain.ErrNoCardsGenerated
	}
	return truncateCards(cards, n), nil
}

// GenerateDeck runs the full pipeline for one deck: generate, validate, and
// store the cards, then mark the deck ready. Called by the background worker.
func (s *GenerationService) GenerateDeck(ctx context.Context, deckID string) error {
	ctx, span := telemetry.StartSpan(ctx, "GenerationService.GenerateDeck", telemetry.SpanAttributes{
		DeckID:    deckID,
		Operation: "generate",
	})
	defer span.End()

	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return err
	}

	deck.Status = domain.DeckStatusGenerating
	deck.Error = ""
	deck.UpdatedAt = time.Now().UTC()
	if err := s.deckRepo.Update(ctx, deck); err != nil {
		return err
	}

	flashcards, err := s.GenerateCards(ctx, deck.SourceText, deck.TargetCards, nil)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	cards := make([]*domain.Card, 0, len(flashcards))
	for _, fc := range flashcards {
		if domain.ValidateFlashcard(fc) != nil {
			continue
		}
		cards = append(cards, domain.NewCard(s.uuidGen.NewString(), deck.ID, len(cards), fc, now))
	}
	if len(cards) == 0 {
		return domain.ErrNoCardsGenerated
	}

	return s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Cards().ReplaceForDeck(ctx, deck.ID, cards); err != nil {
			return err
		}
		deck.Status = domain.DeckStatusReady
		deck.CardCount = len(cards)
		deck.UpdatedAt = time.Now().UTC()
		return repos.Decks().Update(ctx, deck)
	})
}

// MarkDeckFailed records a terminal generation failure on the deck. Called
// by the worker once a job has exhausted its retries.
func (s *GenerationService) MarkDeckFailed(ctx context.Context, deckID, reason string) error {
	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	deck.Status = domain.DeckStatusFailed
	deck.Error = reason
	deck.UpdatedAt = time.Now().UTC()
	return s.deckRepo.Update(ctx, deck)
}

func buildUserPrompt(corpus string, n int) string {
	return userPromptHeader + corpus + "\n" + fmt.Sprintf(userPromptFooter, n)
}

func completionBudget(n int) int {
	budget := tokensPerCard * n
	if budget > maxCompletionTokens {
		return maxCompletionTokens
	}
	return budget
}

// retryThreshold is the minimum usable card count for the first pass.
func retryThreshold(n int) int {
	if n/2 < 1 {
		return 1
	}
	return n / 2
}

func truncateCards(cards []domain.Flashcard, n int) []domain.Flashcard {
	if len(cards) > n {
		return cards[:n]
	}
	return cards
}
