package services

import (
	"context"

	"github.com/vytor/recallvault/internal/clock"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/models"
	"github.com/vytor/recallvault/internal/repository"
)

// StudyService selects cards for a study session and reports deck metrics.
type StudyService interface {
	DueCards(ctx context.Context, deckID string, bucket flashcard.Bucket) ([]models.Flashcard, error)
	// CramCards returns the whole deck regardless of schedule.
	CramCards(ctx context.Context, deckID string) ([]models.Flashcard, error)
	Stats(ctx context.Context, deckID string) (*models.StudyReport, error)
	ReviewHistory(ctx context.Context, deckID, cardID string) ([]models.ReviewEntry, error)
}

type studyService struct {
	deckRepo      repository.DeckRepository
	flashcardRepo repository.FlashcardRepository
	clock         clock.Clock
}

// NewStudyService creates a new StudyService
func NewStudyService(deckRepo repository.DeckRepository, flashcardRepo repository.FlashcardRepository, clk clock.Clock) StudyService {
	return &studyService{deckRepo: deckRepo, flashcardRepo: flashcardRepo, clock: clk}
}

func (s *studyService) deckCards(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	if _, err := s.deckRepo.Get(ctx, deckID); err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	cards, err := s.flashcardRepo.GetAll(ctx, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "flashcards for deck", deckID)
	}
	return cards, nil
}

func (s *studyService) DueCards(ctx context.Context, deckID string, bucket flashcard.Bucket) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting due cards: deck_id=%s, bucket=%s", deckID, bucket)

	cards, err := s.deckCards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	due := flashcard.Select(bucket, cards, s.clock.Now())
	log.Debug("%d of %d cards selected", len(due), len(cards))
	return due, nil
}

func (s *studyService) CramCards(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	logger.FromContext(ctx).Debug("selecting cram cards: deck_id=%s", deckID)

	cards, err := s.deckCards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	return flashcard.SelectCram(cards), nil
}

func (s *studyService) Stats(ctx context.Context, deckID string) (*models.StudyReport, error) {
	logger.FromContext(ctx).Debug("computing study stats: deck_id=%s", deckID)

	cards, err := s.deckCards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	stats := flashcard.ComputeStats(cards, s.clock.Now())
	return &models.StudyReport{
		StudyStats:    stats,
		RetentionRate: flashcard.RetentionRate(stats),
	}, nil
}

func (s *studyService) ReviewHistory(ctx context.Context, deckID, cardID string) ([]models.ReviewEntry, error) {
	logger.FromContext(ctx).Debug("fetching review history: deck_id=%s, flashcard_id=%s", deckID, cardID)

	card, err := s.flashcardRepo.Get(ctx, cardID)
	if err != nil {
		return nil, repoError(ctx, err, "flashcard", cardID)
	}
	if card.DeckID != deckID {
		return nil, repoError(ctx, repository.ErrNotFound, "flashcard", cardID)
	}
	history, err := s.flashcardRepo.ReviewHistory(ctx, cardID)
	if err != nil {
		return nil, repoError(ctx, err, "review history", cardID)
	}
	return history, nil
}
