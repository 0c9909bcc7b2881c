package repository

import (
	"context"
	"errors"

	"github.com/vytor/recallvault/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate")

// DeckRepository handles deck data access
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	Get(ctx context.Context, id string) (*models.Deck, error)
	GetByName(ctx context.Context, name string) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Delete(ctx context.Context, id string) error
}

// FlashcardRepository handles flashcard data access. Scheduling fields
// are only written through Update and RecordReview.
type FlashcardRepository interface {
	Insert(ctx context.Context, card models.Flashcard) error
	InsertBatch(ctx context.Context, cards []models.Flashcard) error
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	GetAll(ctx context.Context, deckID string) ([]models.Flashcard, error)
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	Update(ctx context.Context, id string, update models.ScheduleUpdate) (*models.Flashcard, error)
	// RecordReview writes update and appends entry to the review log atomically.
	RecordReview(ctx context.Context, id string, update models.ScheduleUpdate, entry models.ReviewEntry) (*models.Flashcard, error)
	ReviewHistory(ctx context.Context, id string) ([]models.ReviewEntry, error)
}
