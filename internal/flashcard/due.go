package flashcard

import (
	"fmt"
	"time"

	"github.com/vytor/recallvault/internal/models"
)

// Bucket names a due-date selection.
type Bucket string

const (
	BucketNow      Bucket = "now"
	BucketToday    Bucket = "today"
	BucketTomorrow Bucket = "tomorrow"
)

// ParseBucket maps a query value to a Bucket. Empty means BucketNow.
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case "", BucketNow:
		return BucketNow, nil
	case BucketToday:
		return BucketToday, nil
	case BucketTomorrow:
		return BucketTomorrow, nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// IsDue reports whether a card scheduled at next is due at now.
func IsDue(next, now time.Time) bool {
	return !next.After(now)
}

// cardDue treats never-scheduled cards as due.
func cardDue(c models.Flashcard, now time.Time) bool {
	return c.Schedule == nil || IsDue(c.Schedule.NextReviewDate, now)
}

// SelectDue returns the cards due at now, in input order.
func SelectDue(cards []models.Flashcard, now time.Time) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		if cardDue(c, now) {
			out = append(out, c)
		}
	}
	return out
}

// SelectDueToday returns due cards whose review date falls on now's calendar day.
// Unscheduled cards count as due today.
func SelectDueToday(cards []models.Flashcard, now time.Time) []models.Flashcard {
	out := make([]models.Flashcard, 0)
	for _, c := range cards {
		if c.Schedule == nil {
			out = append(out, c)
			continue
		}
		next := c.Schedule.NextReviewDate
		if IsDue(next, now) && sameDay(next, now) {
			out = append(out, c)
		}
	}
	return out
}

// SelectDueTomorrow returns cards whose review date falls on the calendar day after now.
func SelectDueTomorrow(cards []models.Flashcard, now time.Time) []models.Flashcard {
	tomorrow := now.AddDate(0, 0, 1)
	out := make([]models.Flashcard, 0)
	for _, c := range cards {
		if c.Schedule != nil && sameDay(c.Schedule.NextReviewDate, tomorrow) {
			out = append(out, c)
		}
	}
	return out
}

// SelectCram returns every card regardless of schedule.
func SelectCram(cards []models.Flashcard) []models.Flashcard {
	out := make([]models.Flashcard, len(cards))
	copy(out, cards)
	return out
}

// Select dispatches to the selector for b.
func Select(b Bucket, cards []models.Flashcard, now time.Time) []models.Flashcard {
	switch b {
	case BucketToday:
		return SelectDueToday(cards, now)
	case BucketTomorrow:
		return SelectDueTomorrow(cards, now)
	default:
		return SelectDue(cards, now)
	}
}

// sameDay compares calendar dates in ref's location.
func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
