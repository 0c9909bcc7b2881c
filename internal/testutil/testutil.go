package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallvault/internal/db"
	"github.com/vytor/recallvault/internal/models"
)

// Epoch is the reference "now" shared by tests.
var Epoch = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedDeck inserts a deck row directly and returns it.
func SeedDeck(t *testing.T, sqlDB *sql.DB, name string) models.Deck {
	t.Helper()
	deck := models.Deck{ID: uuid.NewString(), Name: name, CreatedAt: Epoch}
	_, err := sqlDB.ExecContext(context.Background(),
		`INSERT INTO decks (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		deck.ID, deck.Name, deck.Description, deck.CreatedAt)
	require.NoError(t, err)
	return deck
}

// NewCard builds an unsaved card in deckID. A nil next leaves it unscheduled.
func NewCard(deckID, front string, next *time.Time) models.Flashcard {
	c := models.Flashcard{
		ID:        uuid.NewString(),
		DeckID:    deckID,
		Front:     front,
		Back:      "answer to " + front,
		CreatedAt: Epoch,
		UpdatedAt: Epoch,
	}
	if next != nil {
		c.Schedule = &models.SpacedRepetitionState{
			EaseFactor:     models.InitialEaseFactor,
			NextReviewDate: *next,
		}
	}
	return c
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
