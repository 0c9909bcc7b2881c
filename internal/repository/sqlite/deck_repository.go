package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/models"
	"github.com/vytor/recallvault/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, name=%s", d.ID, d.Name)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO decks (id, name, description, created_at)
VALUES (?, ?, ?, ?)
`, d.ID, d.Name, d.Description, utc(d.CreatedAt))
	if isUniqueViolation(err) {
		log.Debug("deck already exists: name=%s", d.Name)
		return fmt.Errorf("deck %q: %w", d.Name, repository.ErrDuplicate)
	}
	if err != nil {
		log.Error("failed to insert deck: %v", err)
	}
	return err
}

func (r *deckRepository) getWhere(ctx context.Context, column string, value string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: %s=%s", column, value)

	query, args, err := sqlBuilder.Select("id", "name", "description", "created_at").
		From("decks").Where(squirrel.Eq{column: value}).ToSql()
	if err != nil {
		return nil, err
	}

	var d models.Deck
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: %s=%s", column, value)
		return nil, fmt.Errorf("deck %s: %w", value, repository.ErrNotFound)
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	return r.getWhere(ctx, "id", id)
}

func (r *deckRepository) GetByName(ctx context.Context, name string) (*models.Deck, error) {
	return r.getWhere(ctx, "name", name)
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks")

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM decks ORDER BY name ASC`)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// Delete removes a deck; its flashcards and their history cascade.
func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}
	return requireAffected(res, fmt.Errorf("deck %s: %w", id, repository.ErrNotFound))
}
