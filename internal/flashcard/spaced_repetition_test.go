package flashcard_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func freshState() models.SpacedRepetitionState {
	return flashcard.NewState(t0, 0)
}

func TestCalculateNextReview_FirstSuccess(t *testing.T) {
	res, err := flashcard.CalculateNextReview(freshState(), 4, t0)

	require.NoError(t, err)
	assert.Equal(t, 1, res.IntervalDays, "first success should schedule one day out")
	assert.Equal(t, 1, res.Repetitions)
	assert.InDelta(t, 2.5, res.EaseFactor, 1e-9, "quality 4 leaves ease unchanged")
	assert.Equal(t, t0.AddDate(0, 0, 1), res.NextReviewDate)
}

func TestCalculateNextReview_PerfectStreak(t *testing.T) {
	state := freshState()

	res, err := flashcard.CalculateNextReview(state, 5, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.IntervalDays)
	assert.Equal(t, 1, res.Repetitions)
	assert.InDelta(t, 2.6, res.EaseFactor, 1e-9)

	state.EaseFactor, state.Repetitions, state.IntervalDays = res.EaseFactor, res.Repetitions, res.IntervalDays
	res, err = flashcard.CalculateNextReview(state, 5, t0)
	require.NoError(t, err)
	assert.Equal(t, 6, res.IntervalDays)
	assert.Equal(t, 2, res.Repetitions)
	assert.InDelta(t, 2.7, res.EaseFactor, 1e-9)

	state.EaseFactor, state.Repetitions, state.IntervalDays = res.EaseFactor, res.Repetitions, res.IntervalDays
	res, err = flashcard.CalculateNextReview(state, 5, t0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Repetitions)
	assert.InDelta(t, 2.8, res.EaseFactor, 1e-9)
	assert.Equal(t, int(math.Round(6*res.EaseFactor)), res.IntervalDays)
	assert.Equal(t, 17, res.IntervalDays)
}

func TestCalculateNextReview_LapseAfterStreak(t *testing.T) {
	state := models.SpacedRepetitionState{
		EaseFactor:     2.7,
		Repetitions:    4,
		IntervalDays:   40,
		NextReviewDate: t0,
	}

	res, err := flashcard.CalculateNextReview(state, 0, t0)

	require.NoError(t, err)
	assert.Equal(t, 0, res.Repetitions, "lapse resets the streak")
	assert.Equal(t, 0, res.IntervalDays, "lapse resets the interval")
	assert.InDelta(t, 1.9, res.EaseFactor, 1e-9, "ease is reduced, not reset")
	assert.Equal(t, t0, res.NextReviewDate, "lapsed card is due immediately")
	assert.True(t, flashcard.IsDue(res.NextReviewDate, t0))
}

func TestCalculateNextReview_EaseFactorByQuality(t *testing.T) {
	tests := []struct {
		name     string
		quality  int
		expected float64
	}{
		{name: "blackout", quality: 0, expected: 1.7},
		{name: "wrong", quality: 1, expected: 1.96},
		{name: "somewhat hard", quality: 2, expected: 2.18},
		{name: "hard", quality: 3, expected: 2.36},
		{name: "good", quality: 4, expected: 2.5},
		{name: "perfect", quality: 5, expected: 2.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := flashcard.CalculateNextReview(freshState(), tt.quality, t0)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, res.EaseFactor, 1e-9)
		})
	}
}

func TestCalculateNextReview_IntervalCalculation(t *testing.T) {
	tests := []struct {
		name        string
		quality     int
		repetitions int
		interval    int
		easeFactor  float64
		expected    int
	}{
		{
			name:        "second success is six days",
			quality:     4,
			repetitions: 1,
			interval:    1,
			easeFactor:  2.5,
			expected:    6,
		},
		{
			name:        "third success multiplies by ease",
			quality:     4,
			repetitions: 2,
			interval:    6,
			easeFactor:  2.5,
			expected:    15, // 6 * 2.5
		},
		{
			name:        "hard success uses reduced ease",
			quality:     3,
			repetitions: 5,
			interval:    10,
			easeFactor:  2.5,
			expected:    24, // 10 * 2.36 rounded
		},
		{
			name:        "streak with zero stored interval never schedules today",
			quality:     5,
			repetitions: 3,
			interval:    0,
			easeFactor:  2.5,
			expected:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.SpacedRepetitionState{
				EaseFactor:   tt.easeFactor,
				Repetitions:  tt.repetitions,
				IntervalDays: tt.interval,
			}

			res, err := flashcard.CalculateNextReview(state, tt.quality, t0)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.IntervalDays)
			assert.Equal(t, tt.repetitions+1, res.Repetitions)
			assert.Equal(t, t0.AddDate(0, 0, tt.expected), res.NextReviewDate)
		})
	}
}

func TestCalculateNextReview_MinEaseFactor(t *testing.T) {
	state := models.SpacedRepetitionState{EaseFactor: 1.3, IntervalDays: 10}

	for i := 0; i < 10; i++ {
		res, err := flashcard.CalculateNextReview(state, 0, t0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.EaseFactor, models.MinEaseFactor, "ease factor should not drop below 1.3")
		state.EaseFactor = res.EaseFactor
	}
}

func TestCalculateNextReview_Invariants(t *testing.T) {
	for _, ef := range []float64{1.3, 1.8, 2.5, 3.1} {
		for reps := 0; reps <= 6; reps++ {
			for q := flashcard.MinQuality; q <= flashcard.MaxQuality; q++ {
				state := models.SpacedRepetitionState{EaseFactor: ef, Repetitions: reps, IntervalDays: reps * 3}
				res, err := flashcard.CalculateNextReview(state, q, t0)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, res.EaseFactor, models.MinEaseFactor)
				if q < flashcard.PassingQuality {
					assert.Equal(t, 0, res.Repetitions)
					assert.Equal(t, 0, res.IntervalDays)
				} else {
					assert.Equal(t, reps+1, res.Repetitions)
					assert.GreaterOrEqual(t, res.IntervalDays, 1)
				}
			}
		}
	}
}

func TestCalculateNextReview_IntervalCapped(t *testing.T) {
	state := models.SpacedRepetitionState{EaseFactor: 2.8, Repetitions: 12, IntervalDays: flashcard.MaxIntervalDays - 10}

	res, err := flashcard.CalculateNextReview(state, 5, t0)

	require.NoError(t, err)
	assert.Equal(t, flashcard.MaxIntervalDays, res.IntervalDays)
	assert.Equal(t, t0.AddDate(0, 0, flashcard.MaxIntervalDays), res.NextReviewDate)
	assert.Less(t, res.NextReviewDate.Year(), 10000)
}

func TestCalculateNextReview_Deterministic(t *testing.T) {
	state := models.SpacedRepetitionState{EaseFactor: 2.2, Repetitions: 3, IntervalDays: 9}

	a, errA := flashcard.CalculateNextReview(state, 3, t0)
	b, errB := flashcard.CalculateNextReview(state, 3, t0)

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestCalculateNextReview_InvalidQuality(t *testing.T) {
	for _, q := range []int{-1, 6, 100} {
		_, err := flashcard.CalculateNextReview(freshState(), q, t0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, flashcard.ErrInvalidQuality))
		var qErr *flashcard.InvalidQualityError
		require.True(t, errors.As(err, &qErr))
		assert.Equal(t, float64(q), qErr.Quality)
	}
}

func TestParseQuality(t *testing.T) {
	q, err := flashcard.ParseQuality(4)
	require.NoError(t, err)
	assert.Equal(t, 4, q)

	for _, v := range []float64{4.5, -1, 6, math.NaN()} {
		_, err := flashcard.ParseQuality(v)
		assert.ErrorIs(t, err, flashcard.ErrInvalidQuality, "value %v should be rejected", v)
	}
}

func TestApplyResult_AppendsHistoryEntry(t *testing.T) {
	card := models.Flashcard{ID: "card-1", DeckID: "deck-1"}
	res, err := flashcard.CalculateNextReview(flashcard.StateOf(card, t0), 4, t0)
	require.NoError(t, err)

	updated, entry := flashcard.ApplyResult(card, res, 4, t0)

	require.NotNil(t, updated.Schedule)
	assert.Nil(t, card.Schedule, "input card should not be mutated")
	assert.Equal(t, 1, updated.Schedule.ReviewCount)
	assert.Equal(t, 1, updated.Schedule.IntervalDays)
	require.NotNil(t, updated.Schedule.LastReviewDate)
	assert.Equal(t, updated.Schedule.LastReviewDate.AddDate(0, 0, updated.Schedule.IntervalDays), updated.Schedule.NextReviewDate)
	assert.Equal(t, models.ReviewEntry{FlashcardID: "card-1", Quality: 4, ReviewedAt: t0}, entry)

	res, err = flashcard.CalculateNextReview(*updated.Schedule, 2, t0.Add(time.Hour))
	require.NoError(t, err)
	again, _ := flashcard.ApplyResult(updated, res, 2, t0.Add(time.Hour))
	assert.Equal(t, 2, again.Schedule.ReviewCount, "history only grows")
}
