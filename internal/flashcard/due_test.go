package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/models"
)

func scheduledAt(id string, next time.Time) models.Flashcard {
	return models.Flashcard{
		ID: id,
		Schedule: &models.SpacedRepetitionState{
			EaseFactor:     models.InitialEaseFactor,
			NextReviewDate: next,
		},
	}
}

func ids(cards []models.Flashcard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestIsDue(t *testing.T) {
	assert.True(t, flashcard.IsDue(t0.Add(-time.Minute), t0))
	assert.True(t, flashcard.IsDue(t0, t0), "a card due exactly now is due")
	assert.False(t, flashcard.IsDue(t0.Add(time.Second), t0))
}

func TestSelectDue(t *testing.T) {
	cards := []models.Flashcard{
		scheduledAt("overdue", t0.AddDate(0, 0, -3)),
		scheduledAt("later", t0.Add(2*time.Hour)),
		{ID: "new"},
		scheduledAt("now", t0),
	}

	due := flashcard.SelectDue(cards, t0)

	assert.Equal(t, []string{"overdue", "new", "now"}, ids(due), "input order is preserved")
	assert.Equal(t, ids(due), ids(flashcard.SelectDue(cards, t0)), "selection is repeatable")
}

func TestSelectDue_Empty(t *testing.T) {
	due := flashcard.SelectDue(nil, t0)
	require.NotNil(t, due)
	assert.Empty(t, due)
}

func TestSelectDueToday(t *testing.T) {
	cards := []models.Flashcard{
		scheduledAt("earlier-today", t0.Add(-2*time.Hour)),
		scheduledAt("later-today", t0.Add(3*time.Hour)),
		scheduledAt("yesterday", t0.AddDate(0, 0, -1)),
		scheduledAt("tomorrow", t0.AddDate(0, 0, 1)),
		{ID: "new"},
	}

	assert.Equal(t, []string{"earlier-today", "new"}, ids(flashcard.SelectDueToday(cards, t0)))
}

func TestSelectDueTomorrow(t *testing.T) {
	cards := []models.Flashcard{
		scheduledAt("tomorrow-morning", time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC)),
		scheduledAt("tomorrow-night", time.Date(2025, 6, 16, 23, 0, 0, 0, time.UTC)),
		scheduledAt("today", t0),
		scheduledAt("in-two-days", t0.AddDate(0, 0, 2)),
		{ID: "new"},
	}

	tomorrow := flashcard.SelectDueTomorrow(cards, t0)

	assert.Equal(t, []string{"tomorrow-morning", "tomorrow-night"}, ids(tomorrow))
	for _, c := range tomorrow {
		assert.False(t, flashcard.IsDue(c.Schedule.NextReviewDate, t0), "tomorrow's cards are not yet due")
	}
}

func TestSelectCram(t *testing.T) {
	cards := []models.Flashcard{
		scheduledAt("far-future", t0.AddDate(1, 0, 0)),
		scheduledAt("tomorrow", t0.AddDate(0, 0, 1)),
		{ID: "new"},
	}

	assert.Empty(t, ids(flashcard.SelectDue(cards[:2], t0)))
	assert.Equal(t, []string{"far-future", "tomorrow", "new"}, ids(flashcard.SelectCram(cards)))
}

func TestSelect_Buckets(t *testing.T) {
	cards := []models.Flashcard{
		scheduledAt("yesterday", t0.AddDate(0, 0, -1)),
		scheduledAt("tomorrow", t0.AddDate(0, 0, 1)),
	}

	assert.Equal(t, []string{"yesterday"}, ids(flashcard.Select(flashcard.BucketNow, cards, t0)))
	assert.Empty(t, flashcard.Select(flashcard.BucketToday, cards, t0))
	assert.Equal(t, []string{"tomorrow"}, ids(flashcard.Select(flashcard.BucketTomorrow, cards, t0)))
}

func TestParseBucket(t *testing.T) {
	b, err := flashcard.ParseBucket("")
	require.NoError(t, err)
	assert.Equal(t, flashcard.BucketNow, b)

	b, err = flashcard.ParseBucket("tomorrow")
	require.NoError(t, err)
	assert.Equal(t, flashcard.BucketTomorrow, b)

	_, err = flashcard.ParseBucket("yesterday")
	assert.Error(t, err)
}

func TestReviewLifecycle_DueAgainAfterInterval(t *testing.T) {
	card := models.Flashcard{ID: "c1"}
	state := flashcard.NewState(t0, 0)
	card.Schedule = &state

	require.True(t, flashcard.IsDue(card.Schedule.NextReviewDate, t0), "new card is due before any review")

	res, err := flashcard.CalculateNextReview(*card.Schedule, 4, t0)
	require.NoError(t, err)
	card, _ = flashcard.ApplyResult(card, res, 4, t0)

	assert.Empty(t, flashcard.SelectDue([]models.Flashcard{card}, t0))
	assert.Empty(t, flashcard.SelectDueToday([]models.Flashcard{card}, t0))
	assert.Equal(t, []string{"c1"}, ids(flashcard.SelectDueTomorrow([]models.Flashcard{card}, t0)))

	later := t0.Add(24 * time.Hour)
	assert.Equal(t, []string{"c1"}, ids(flashcard.SelectDue([]models.Flashcard{card}, later)))
}
