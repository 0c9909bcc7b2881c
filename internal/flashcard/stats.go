package flashcard

import (
	"math"
	"time"

	"github.com/vytor/recallvault/internal/models"
)

// ComputeStats aggregates dashboard metrics over cards at now.
func ComputeStats(cards []models.Flashcard, now time.Time) models.StudyStats {
	stats := models.StudyStats{TotalCards: len(cards)}
	if len(cards) == 0 {
		return stats
	}

	var easeSum float64
	for _, c := range cards {
		if c.Schedule == nil {
			easeSum += models.InitialEaseFactor
			continue
		}
		easeSum += c.Schedule.EaseFactor
		stats.TotalReviews += c.Schedule.ReviewCount
	}

	stats.DueCount = len(SelectDue(cards, now))
	stats.DueToday = len(SelectDueToday(cards, now))
	stats.DueTomorrow = len(SelectDueTomorrow(cards, now))
	stats.AverageEaseFactor = round2(easeSum / float64(len(cards)))
	return stats
}

// RetentionRate is the share of cards not currently due; 0 for an empty collection.
func RetentionRate(stats models.StudyStats) float64 {
	if stats.TotalCards == 0 {
		return 0
	}
	return float64(stats.TotalCards-stats.DueCount) / float64(stats.TotalCards)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
