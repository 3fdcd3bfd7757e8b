package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deckgen-ai/deckgen/internal/domain"
)

// CardRepository handles persistence of generated flashcards.
type CardRepository struct {
	db dbtx
}

func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{db: pool}
}

func NewCardRepositoryWithTx(tx pgx.Tx) *CardRepository {
	return &CardRepository{db: tx}
}

// ReplaceForDeck deletes existing cards for a deck and inserts new ones.
// Regeneration always replaces the full set.
func (r *CardRepository) ReplaceForDeck(ctx context.Context, deckID string, cards []*domain.Card) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cards WHERE deck_id = $1`, deckID)
	if err != nil {
		return err
	}

	for _, c := range cards {
		_, err := r.db.Exec(ctx,
			`INSERT INTO cards (id, deck_id, position, question, answer, source_chunk, study_status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.ID, c.DeckID, c.Position, c.Question, c.Answer, c.SourceChunk, c.StudyStatus, c.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	var c domain.Card
	err := r.db.QueryRow(ctx,
		`SELECT id, deck_id, position, question, answer, source_chunk, study_status, created_at
		 FROM cards WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.DeckID, &c.Position, &c.Question, &c.Answer, &c.SourceChunk, &c.StudyStatus, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CardRepository) ListByDeck(ctx context.Context, deckID string) ([]*domain.Card, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, deck_id, position, question, answer, source_chunk, study_status, created_at
		 FROM cards WHERE deck_id = $1 ORDER BY position ASC`,
		deckID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Position, &c.Question, &c.Answer, &c.SourceChunk, &c.StudyStatus, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, &c)
	}
	return cards, rows.Err()
}

func (r *CardRepository) UpdateStudyStatus(ctx context.Context, id string, status domain.StudyStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE cards SET study_status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// ResetStudyStatuses puts every card of a deck back to the new state.
func (r *CardRepository) ResetStudyStatuses(ctx context.Context, deckID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE cards SET study_status = $1 WHERE deck_id = $2`,
		domain.StudyStatusNew, deckID,
	)
	return err
}
