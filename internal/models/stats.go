package models

// StudyStats summarises a flashcard collection for the dashboard.
type StudyStats struct {
	TotalCards        int     `json:"totalCards"`
	DueCount          int     `json:"dueCount"`
	DueToday          int     `json:"dueToday"`
	DueTomorrow       int     `json:"dueTomorrow"`
	TotalReviews      int     `json:"totalReviews"`
	AverageEaseFactor float64 `json:"averageEasinessFactor"`
}

// StudyReport is StudyStats plus the derived retention rate.
type StudyReport struct {
	StudyStats
	RetentionRate float64 `json:"retentionRate"`
}
