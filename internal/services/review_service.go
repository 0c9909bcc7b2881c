package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/vytor/recallvault/internal/clock"
	"github.com/vytor/recallvault/internal/errors"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/models"
	"github.com/vytor/recallvault/internal/repository"
)

// ReviewSubmission is one rating in a study session.
type ReviewSubmission struct {
	FlashcardID string
	Quality     int
}

// ReviewOutcome reports a single submission. Result is set whenever the
// schedule was computed, even if persisting it failed; Card is set only
// once the write succeeded.
type ReviewOutcome struct {
	FlashcardID string
	Result      *models.ReviewResult
	Card        *models.Flashcard
	Err         error
}

type BatchResult struct {
	Updated         int
	NextReviewDates map[string]time.Time
	Outcomes        []ReviewOutcome
}

// Failures returns the outcomes that did not persist.
func (b *BatchResult) Failures() []ReviewOutcome {
	var failed []ReviewOutcome
	for _, o := range b.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// ReviewService applies recall ratings to flashcards and persists the new schedule.
type ReviewService interface {
	// SubmitReview reviews one card. deckID may be empty to skip the deck check.
	SubmitReview(ctx context.Context, deckID, cardID string, quality int) (*models.Flashcard, models.ReviewResult, error)
	// SubmitBatch reviews each submission independently; one failure does not stop the rest.
	SubmitBatch(ctx context.Context, deckID string, reviews []ReviewSubmission) (*BatchResult, error)
	// ResetCard restarts a card's schedule and makes it due now. History is kept.
	ResetCard(ctx context.Context, deckID, cardID string) (*models.Flashcard, error)
}

type reviewService struct {
	deckRepo      repository.DeckRepository
	flashcardRepo repository.FlashcardRepository
	clock         clock.Clock
	maxBatchSize  int
}

// NewReviewService creates a new ReviewService
func NewReviewService(deckRepo repository.DeckRepository, flashcardRepo repository.FlashcardRepository, clk clock.Clock, maxBatchSize int) ReviewService {
	return &reviewService{
		deckRepo:      deckRepo,
		flashcardRepo: flashcardRepo,
		clock:         clk,
		maxBatchSize:  maxBatchSize,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, deckID, cardID string, quality int) (*models.Flashcard, models.ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting review: flashcard_id=%s, quality=%d", cardID, quality)

	if err := flashcard.ValidateQuality(quality); err != nil {
		return nil, models.ReviewResult{}, qualityError(err)
	}

	card, err := s.loadCard(ctx, deckID, cardID)
	if err != nil {
		return nil, models.ReviewResult{}, err
	}

	out := s.review(ctx, *card, quality, s.clock.Now())
	var res models.ReviewResult
	if out.Result != nil {
		res = *out.Result
	}
	if out.Err != nil {
		return nil, res, out.Err
	}
	log.Info("flashcard reviewed: interval=%d days, ease_factor=%.2f", res.IntervalDays, res.EaseFactor)
	return out.Card, res, nil
}

func (s *reviewService) SubmitBatch(ctx context.Context, deckID string, reviews []ReviewSubmission) (*BatchResult, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	log.Debug("submitting review batch: size=%d", len(reviews))

	if len(reviews) == 0 {
		return nil, errors.NewValidationError("reviews", "must contain at least one review", nil)
	}
	if s.maxBatchSize > 0 && len(reviews) > s.maxBatchSize {
		return nil, errors.NewValidationError("reviews", fmt.Sprintf("at most %d reviews per batch", s.maxBatchSize), nil)
	}
	if _, err := s.deckRepo.Get(ctx, deckID); err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}

	now := s.clock.Now()
	result := &BatchResult{
		NextReviewDates: make(map[string]time.Time, len(reviews)),
		Outcomes:        make([]ReviewOutcome, 0, len(reviews)),
	}
	for _, r := range reviews {
		var out ReviewOutcome
		if err := flashcard.ValidateQuality(r.Quality); err != nil {
			out = ReviewOutcome{FlashcardID: r.FlashcardID, Err: qualityError(err)}
		} else if card, err := s.loadCard(ctx, deckID, r.FlashcardID); err != nil {
			out = ReviewOutcome{FlashcardID: r.FlashcardID, Err: err}
		} else {
			out = s.review(ctx, *card, r.Quality, now)
		}

		if out.Err != nil {
			log.Warn("review failed: flashcard_id=%s, err=%v", r.FlashcardID, out.Err)
		} else {
			result.Updated++
			result.NextReviewDates[out.FlashcardID] = out.Card.Schedule.NextReviewDate
		}
		result.Outcomes = append(result.Outcomes, out)
	}

	log.Info("review batch applied: updated=%d, failed=%d", result.Updated, len(reviews)-result.Updated)
	return result, nil
}

// review computes and persists one rating. On a failed write the previous
// record stays authoritative and the computed result is kept for a retry.
func (s *reviewService) review(ctx context.Context, card models.Flashcard, quality int, now time.Time) ReviewOutcome {
	log := logger.FromContext(ctx)
	out := ReviewOutcome{FlashcardID: card.ID}

	_, res, entry, err := flashcard.Review(card, quality, now)
	if err != nil {
		out.Err = qualityError(err)
		return out
	}
	out.Result = &res

	persisted, err := s.flashcardRepo.RecordReview(ctx, card.ID, flashcard.UpdateFor(res, now), entry)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			out.Err = errors.NewNotFoundError("flashcard", card.ID)
			return out
		}
		log.Error("failed to persist review: flashcard_id=%s, err=%v", card.ID, err)
		out.Err = errors.NewStorageError(err)
		return out
	}
	out.Card = persisted
	return out
}

func (s *reviewService) ResetCard(ctx context.Context, deckID, cardID string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("resetting flashcard: flashcard_id=%s", cardID)

	card, err := s.loadCard(ctx, deckID, cardID)
	if err != nil {
		return nil, err
	}
	updated, err := s.flashcardRepo.Update(ctx, card.ID, flashcard.ResetUpdate(s.clock.Now()))
	if err != nil {
		return nil, repoError(ctx, err, "flashcard", card.ID)
	}
	log.Info("flashcard reset: flashcard_id=%s", card.ID)
	return updated, nil
}

func (s *reviewService) loadCard(ctx context.Context, deckID, cardID string) (*models.Flashcard, error) {
	card, err := s.flashcardRepo.Get(ctx, cardID)
	if err != nil {
		return nil, repoError(ctx, err, "flashcard", cardID)
	}
	if deckID != "" && card.DeckID != deckID {
		return nil, errors.NewNotFoundError("flashcard", cardID)
	}
	return card, nil
}

func qualityError(err error) error {
	return errors.NewValidationError("quality", fmt.Sprintf("must be an integer between %d and %d", flashcard.MinQuality, flashcard.MaxQuality), err)
}

// repoError maps repository failures onto the application error taxonomy.
func repoError(ctx context.Context, err error, resource string, id string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError(resource, id)
	}
	if stderrors.Is(err, repository.ErrDuplicate) {
		return errors.NewConflictError(fmt.Sprintf("%s already exists: %s", resource, id))
	}
	logger.FromContext(ctx).Error("failed to access %s %s: %v", resource, id, err)
	return errors.NewInternalError(err)
}
