package models

import "time"

// Initial scheduling values for a card that has never been reviewed.
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// SpacedRepetitionState is the scheduling state carried by a reviewed or
// freshly created card. A nil state means the card was never scheduled.
type SpacedRepetitionState struct {
	EaseFactor     float64    `json:"easeFactor"`
	Repetitions    int        `json:"repetitions"`
	IntervalDays   int        `json:"interval"`
	NextReviewDate time.Time  `json:"nextReviewDate"`
	LastReviewDate *time.Time `json:"lastReviewDate,omitempty"`
	// ReviewCount is the length of the card's review history.
	ReviewCount int `json:"reviewCount"`
}

type Flashcard struct {
	ID        string                 `json:"id"`
	DeckID    string                 `json:"deckId"`
	Front     string                 `json:"front"`
	Back      string                 `json:"back"`
	Schedule  *SpacedRepetitionState `json:"schedule,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// ReviewEntry is one row of the append-only review log.
type ReviewEntry struct {
	ID          int64     `json:"id,omitempty"`
	FlashcardID string    `json:"flashcardId"`
	Quality     int       `json:"quality"`
	ReviewedAt  time.Time `json:"reviewedAt"`
}

// ReviewResult is the scheduling engine output for a single review.
type ReviewResult struct {
	NextReviewDate time.Time `json:"nextReviewDate"`
	IntervalDays   int       `json:"interval"`
	EaseFactor     float64   `json:"easeFactor"`
	Repetitions    int       `json:"repetitions"`
}

// ScheduleUpdate is the partial set of fields written back after a review
// or reset. A zero LastReviewDate keeps the stored one. A zero UpdatedAt
// falls back to LastReviewDate.
type ScheduleUpdate struct {
	NextReviewDate time.Time
	IntervalDays   int
	EaseFactor     float64
	Repetitions    int
	LastReviewDate time.Time
	UpdatedAt      time.Time
}

// FlashcardFilter narrows flashcard listings. Zero values are ignored.
type FlashcardFilter struct {
	DeckID          string
	DueBefore       *time.Time
	UnscheduledOnly bool
	Limit           int
	Offset          int
}
