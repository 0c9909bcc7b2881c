package flashcard

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vytor/recallvault/internal/models"
)

// Recall quality bounds. Reviews below PassingQuality are lapses.
const (
	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3
)

// MaxIntervalDays caps interval growth at roughly a century.
const MaxIntervalDays = 36500

// ErrInvalidQuality matches any InvalidQualityError via errors.Is.
var ErrInvalidQuality = errors.New("quality must be an integer between 0 and 5")

// InvalidQualityError reports a rating outside the 0..5 integer range.
type InvalidQualityError struct {
	Quality float64
}

func (e *InvalidQualityError) Error() string {
	return fmt.Sprintf("invalid quality %v: must be an integer between %d and %d", e.Quality, MinQuality, MaxQuality)
}

func (e *InvalidQualityError) Is(target error) bool {
	return target == ErrInvalidQuality
}

// ValidateQuality rejects ratings outside [MinQuality, MaxQuality].
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return &InvalidQualityError{Quality: float64(quality)}
	}
	return nil
}

// ParseQuality converts a decoded JSON number into a rating. Fractional
// values are rejected rather than rounded.
func ParseQuality(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, &InvalidQualityError{Quality: v}
	}
	if v < MinQuality || v > MaxQuality {
		return 0, &InvalidQualityError{Quality: v}
	}
	return int(v), nil
}

// NewState returns the scheduling state of a freshly created card, due at now.
func NewState(now time.Time, initialInterval int) models.SpacedRepetitionState {
	return models.SpacedRepetitionState{
		EaseFactor:     models.InitialEaseFactor,
		Repetitions:    0,
		IntervalDays:   initialInterval,
		NextReviewDate: now,
	}
}

// StateOf returns the card's scheduling state, or a fresh one when the card
// has never been scheduled.
func StateOf(card models.Flashcard, now time.Time) models.SpacedRepetitionState {
	if card.Schedule == nil {
		return NewState(now, 0)
	}
	return *card.Schedule
}

// CalculateNextReview computes the next scheduling state using an SM-2 variant.
// quality: 0=blackout .. 5=perfect recall. The input state is not modified.
func CalculateNextReview(state models.SpacedRepetitionState, quality int, now time.Time) (models.ReviewResult, error) {
	if err := ValidateQuality(quality); err != nil {
		return models.ReviewResult{}, err
	}

	// Ease tracks every observed rating, lapses included.
	d := float64(MaxQuality - quality)
	ef := state.EaseFactor + (0.1 - d*(0.08+d*0.02))
	if ef < models.MinEaseFactor {
		ef = models.MinEaseFactor
	}

	reps, interval := 0, 0
	if quality >= PassingQuality {
		reps = state.Repetitions + 1
		switch reps {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Round(math.Min(float64(state.IntervalDays)*ef, MaxIntervalDays)))
			// A streak with a zero stored interval only comes from hand-edited data.
			if interval < 1 {
				interval = 1
			}
		}
	}

	return models.ReviewResult{
		NextReviewDate: now.AddDate(0, 0, interval),
		IntervalDays:   interval,
		EaseFactor:     ef,
		Repetitions:    reps,
	}, nil
}

// ApplyResult merges an engine result into the card and returns the updated
// card together with the history entry that must be appended for it.
func ApplyResult(card models.Flashcard, res models.ReviewResult, quality int, now time.Time) (models.Flashcard, models.ReviewEntry) {
	prev := StateOf(card, now)
	reviewedAt := now
	card.Schedule = &models.SpacedRepetitionState{
		EaseFactor:     res.EaseFactor,
		Repetitions:    res.Repetitions,
		IntervalDays:   res.IntervalDays,
		NextReviewDate: res.NextReviewDate,
		LastReviewDate: &reviewedAt,
		ReviewCount:    prev.ReviewCount + 1,
	}
	card.UpdatedAt = now
	entry := models.ReviewEntry{
		FlashcardID: card.ID,
		Quality:     quality,
		ReviewedAt:  now,
	}
	return card, entry
}

// Review runs the engine on card and merges the result. Nothing is persisted.
func Review(card models.Flashcard, quality int, now time.Time) (models.Flashcard, models.ReviewResult, models.ReviewEntry, error) {
	res, err := CalculateNextReview(StateOf(card, now), quality, now)
	if err != nil {
		return card, models.ReviewResult{}, models.ReviewEntry{}, err
	}
	updated, entry := ApplyResult(card, res, quality, now)
	return updated, res, entry, nil
}

// UpdateFor builds the partial write for a computed result.
func UpdateFor(res models.ReviewResult, now time.Time) models.ScheduleUpdate {
	return models.ScheduleUpdate{
		NextReviewDate: res.NextReviewDate,
		IntervalDays:   res.IntervalDays,
		EaseFactor:     res.EaseFactor,
		Repetitions:    res.Repetitions,
		LastReviewDate: now,
		UpdatedAt:      now,
	}
}

// ResetUpdate puts a card back at the start of its schedule, due at now.
// The last review date and review count are kept.
func ResetUpdate(now time.Time) models.ScheduleUpdate {
	return models.ScheduleUpdate{
		NextReviewDate: now,
		EaseFactor:     models.InitialEaseFactor,
		UpdatedAt:      now,
	}
}
