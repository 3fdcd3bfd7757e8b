package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deckgen-ai/deckgen/internal/domain"
	"github.com/deckgen-ai/deckgen/internal/pagination"
	"github.com/deckgen-ai/deckgen/internal/service"
)

type DeckRepository struct {
	db dbtx
}

func NewDeckRepository(pool *pgxpool.Pool) *DeckRepository {
	return &DeckRepository{db: pool}
}

func NewDeckRepositoryWithTx(tx pgx.Tx) *DeckRepository {
	return &DeckRepository{db: tx}
}

func (r *DeckRepository) Create(ctx context.Context, d *domain.Deck) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO decks (id, name, source_text, status, target_cards, card_count, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.Name, d.SourceText, d.Status, d.TargetCards, d.CardCount, nullableString(d.Error), d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *DeckRepository) GetByID(ctx context.Context, id string) (*domain.Deck, error) {
	var d domain.Deck
	var errMsg *string
	err := r.db.QueryRow(ctx,
		`SELECT id, name, source_text, status, target_cards, card_count, error, created_at, updated_at
		 FROM decks WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Name, &d.SourceText, &d.Status, &d.TargetCards, &d.CardCount, &errMsg, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeckNotFound
		}
		return nil, err
	}
	if errMsg != nil {
		d.Error = *errMsg
	}
	return &d, nil
}

func (r *DeckRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.DeckPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, name, source_text, status, target_cards, card_count, error, created_at, updated_at
			 FROM decks
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, name, source_text, status, target_cards, card_count, error, created_at, updated_at
			 FROM decks
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanDeckRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		lastItem := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(lastItem.ID, lastItem.CreatedAt)
	}

	return &service.DeckPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *DeckRepository) Update(ctx context.Context, d *domain.Deck) error {
	d.UpdatedAt = time.Now().UTC()
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE decks
		 SET name = $1, status = $2, target_cards = $3, card_count = $4, error = $5, updated_at = $6
		 WHERE id = $7`,
		d.Name, d.Status, d.TargetCards, d.CardCount, nullableString(d.Error), d.UpdatedAt, d.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDeckNotFound
	}
	return nil
}

func (r *DeckRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDeckNotFound
	}
	return nil
}

func scanDeckRows(rows pgx.Rows) ([]*domain.Deck, error) {
	var decks []*domain.Deck
	for rows.Next() {
		var d domain.Deck
		var errMsg *string
		if err := rows.Scan(&d.ID, &d.Name, &d.SourceText, &d.Status, &d.TargetCards, &d.CardCount, &errMsg, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if errMsg != nil {
			d.Error = *errMsg
		}
		decks = append(decks, &d)
	}
	return decks, rows.Err()
}
