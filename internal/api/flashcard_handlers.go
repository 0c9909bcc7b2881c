package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/recallvault/internal/errors"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/models"
	"github.com/vytor/recallvault/internal/services"
)

type createFlashcardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Quality is decoded as a float so that 4.5 is rejected instead of failing
// the whole body with a type error.
type reviewItem struct {
	FlashcardID string   `json:"flashcardId"`
	Quality     *float64 `json:"quality"`
}

type submitReviewsRequest struct {
	Reviews []reviewItem `json:"reviews"`
}

type singleReviewRequest struct {
	Quality *float64 `json:"quality"`
}

type reviewFailure struct {
	FlashcardID string `json:"flashcardId"`
	Code        string `json:"code"`
	Message     string `json:"message"`
}

type submitReviewsResponse struct {
	Updated         int               `json:"updated"`
	NextReviewDates map[string]string `json:"nextReviewDates"`
	Failures        []reviewFailure   `json:"failures,omitempty"`
}

type singleReviewResponse struct {
	Flashcard *models.Flashcard   `json:"flashcard"`
	Result    models.ReviewResult `json:"result"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseQuality(field string, v *float64) (int, error) {
	if v == nil {
		return 0, errors.NewValidationError(field, "is required", nil)
	}
	q, err := flashcard.ParseQuality(*v)
	if err != nil {
		return 0, errors.NewValidationError(field, fmt.Sprintf("must be an integer between %d and %d", flashcard.MinQuality, flashcard.MaxQuality), err)
	}
	return q, nil
}

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dueBefore, err := queryTime(r, "dueBefore")
	if err != nil {
		handleError(w, r, err)
		return
	}
	unscheduled, err := queryBool(r, "unscheduled")
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.DeckService.ListCards(r.Context(), models.FlashcardFilter{
		DeckID:          chi.URLParam(r, "deckId"),
		DueBefore:       dueBefore,
		UnscheduledOnly: unscheduled,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req createFlashcardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.DeckService.AddCard(r.Context(), chi.URLParam(r, "deckId"), req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleDueFlashcards(w http.ResponseWriter, r *http.Request) {
	bucket, err := flashcard.ParseBucket(r.URL.Query().Get("bucket"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}

	cards, err := s.StudyService.DueCards(r.Context(), chi.URLParam(r, "deckId"), bucket)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"bucket": bucket, "flashcards": cards})
}

func (s *Server) handleCramFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.StudyService.CramCards(r.Context(), chi.URLParam(r, "deckId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.StudyService.Stats(r.Context(), chi.URLParam(r, "deckId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// handleSubmitReviews applies a study session's ratings. A malformed quality
// rejects the request; missing cards and failed writes are reported per entry.
func (s *Server) handleSubmitReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	deckID := chi.URLParam(r, "deckId")

	var req submitReviewsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	submissions := make([]services.ReviewSubmission, 0, len(req.Reviews))
	for i, item := range req.Reviews {
		if item.FlashcardID == "" {
			handleError(w, r, errors.NewValidationError(fmt.Sprintf("reviews[%d].flashcardId", i), "is required", nil))
			return
		}
		q, err := parseQuality(fmt.Sprintf("reviews[%d].quality", i), item.Quality)
		if err != nil {
			handleError(w, r, err)
			return
		}
		submissions = append(submissions, services.ReviewSubmission{FlashcardID: item.FlashcardID, Quality: q})
	}

	res, err := s.ReviewService.SubmitBatch(r.Context(), deckID, submissions)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := submitReviewsResponse{
		Updated:         res.Updated,
		NextReviewDates: make(map[string]string, len(res.NextReviewDates)),
	}
	for id, next := range res.NextReviewDates {
		resp.NextReviewDates[id] = formatTime(next)
	}
	for _, f := range res.Failures() {
		appErr, ok := errors.As(f.Err)
		if !ok {
			appErr = errors.NewInternalError(f.Err)
		}
		resp.Failures = append(resp.Failures, reviewFailure{
			FlashcardID: f.FlashcardID,
			Code:        appErr.Code,
			Message:     appErr.Message,
		})
	}

	log.Info("review batch submitted: updated=%d, failed=%d", resp.Updated, len(resp.Failures))
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckId")
	cardID := chi.URLParam(r, "cardId")

	var req singleReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	q, err := parseQuality("quality", req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, res, err := s.ReviewService.SubmitReview(r.Context(), deckID, cardID, q)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, singleReviewResponse{Flashcard: card, Result: res})
}

func (s *Server) handleResetFlashcard(w http.ResponseWriter, r *http.Request) {
	card, err := s.ReviewService.ResetCard(r.Context(), chi.URLParam(r, "deckId"), chi.URLParam(r, "cardId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleReviewHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.StudyService.ReviewHistory(r.Context(), chi.URLParam(r, "deckId"), chi.URLParam(r, "cardId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if history == nil {
		history = []models.ReviewEntry{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"history": history})
}
