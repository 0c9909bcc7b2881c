package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallvault/internal/clock"
	"github.com/vytor/recallvault/internal/errors"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/models"
	"github.com/vytor/recallvault/internal/repository"
	"github.com/vytor/recallvault/internal/services"
	"github.com/vytor/recallvault/internal/testutil"
	"github.com/vytor/recallvault/internal/testutil/mocks"
)

func studyFixture(t *testing.T) (services.StudyService, *mocks.MockDeckRepository, *mocks.MockFlashcardRepository) {
	t.Helper()
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockFlashcardRepository)
	t.Cleanup(func() {
		decks.AssertExpectations(t)
		cards.AssertExpectations(t)
	})
	return services.NewStudyService(decks, cards, clock.NewFixed(testutil.Epoch)), decks, cards
}

func deckCards() []models.Flashcard {
	return []models.Flashcard{
		testutil.NewCard("d1", "overdue", testutil.TimePtr(testutil.Epoch.Add(-48*time.Hour))),
		testutil.NewCard("d1", "later today", testutil.TimePtr(testutil.Epoch.Add(3*time.Hour))),
		testutil.NewCard("d1", "tomorrow", testutil.TimePtr(testutil.Epoch.Add(24*time.Hour))),
		testutil.NewCard("d1", "new", nil),
	}
}

func TestDueCards_Buckets(t *testing.T) {
	svc, decks, cards := studyFixture(t)
	decks.On("Get", ctx, "d1").Return(&models.Deck{ID: "d1"}, nil)
	cards.On("GetAll", ctx, "d1").Return(deckCards(), nil)

	now, err := svc.DueCards(ctx, "d1", flashcard.BucketNow)
	require.NoError(t, err)
	assert.Len(t, now, 2, "overdue and unscheduled")

	tomorrow, err := svc.DueCards(ctx, "d1", flashcard.BucketTomorrow)
	require.NoError(t, err)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "tomorrow", tomorrow[0].Front)
}

func TestCramCards_ReturnsWholeDeck(t *testing.T) {
	svc, decks, cards := studyFixture(t)
	decks.On("Get", ctx, "d1").Return(&models.Deck{ID: "d1"}, nil)
	cards.On("GetAll", ctx, "d1").Return(deckCards(), nil)

	got, err := svc.CramCards(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestStats_ReportsRetention(t *testing.T) {
	svc, decks, cards := studyFixture(t)
	decks.On("Get", ctx, "d1").Return(&models.Deck{ID: "d1"}, nil)
	cards.On("GetAll", ctx, "d1").Return(deckCards(), nil)

	report, err := svc.Stats(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalCards)
	assert.Equal(t, 2, report.DueCount)
	assert.InDelta(t, 0.5, report.RetentionRate, 1e-9)
}

func TestStudy_DeckNotFound(t *testing.T) {
	svc, decks, _ := studyFixture(t)
	decks.On("Get", ctx, "gone").Return(nil, repository.ErrNotFound)

	_, err := svc.Stats(ctx, "gone")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestReviewHistory_ChecksDeck(t *testing.T) {
	svc, _, cards := studyFixture(t)
	cards.On("Get", ctx, "c1").Return(&models.Flashcard{ID: "c1", DeckID: "d2"}, nil)

	_, err := svc.ReviewHistory(ctx, "d1", "c1")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestReviewHistory_ReturnsEntries(t *testing.T) {
	svc, _, cards := studyFixture(t)
	entries := []models.ReviewEntry{{ID: 1, FlashcardID: "c1", Quality: 4, ReviewedAt: testutil.Epoch}}
	cards.On("Get", ctx, "c1").Return(&models.Flashcard{ID: "c1", DeckID: "d1"}, nil)
	cards.On("ReviewHistory", ctx, "c1").Return(entries, nil)

	got, err := svc.ReviewHistory(ctx, "d1", "c1")
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
