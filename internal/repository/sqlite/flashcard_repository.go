package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/models"
	"github.com/vytor/recallvault/internal/repository"
)

var flashcardColumns = []string{
	"id", "deck_id", "front", "back", "next_review_at", "interval_days", "ease_factor",
	"repetitions", "last_reviewed_at", "review_count", "created_at", "updated_at",
}

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

func scanFlashcard(row rowScanner) (models.Flashcard, error) {
	var (
		c          models.Flashcard
		next, last sql.NullTime
		state      models.SpacedRepetitionState
	)
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &next, &state.IntervalDays, &state.EaseFactor,
		&state.Repetitions, &last, &state.ReviewCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	// The driver yields a zero time for DATETIME text it cannot parse.
	if (next.Valid && next.Time.IsZero()) || (last.Valid && last.Time.IsZero()) {
		return c, fmt.Errorf("flashcard %s: unreadable review date", c.ID)
	}
	if next.Valid {
		state.NextReviewDate = next.Time
		if last.Valid {
			t := last.Time
			state.LastReviewDate = &t
		}
		c.Schedule = &state
	}
	return c, nil
}

func insertFlashcard(ctx context.Context, q queryer, c models.Flashcard) error {
	var (
		next, last  sql.NullTime
		interval    int
		reps, count int
		ease        = models.InitialEaseFactor
	)
	if s := c.Schedule; s != nil {
		next = nullTime(&s.NextReviewDate)
		last = nullTime(s.LastReviewDate)
		interval, ease, reps, count = s.IntervalDays, s.EaseFactor, s.Repetitions, s.ReviewCount
	}
	_, err := q.ExecContext(ctx, `
INSERT INTO flashcards (id, deck_id, front, back, next_review_at, interval_days, ease_factor, repetitions,
                        last_reviewed_at, review_count, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.DeckID, c.Front, c.Back, next, interval, ease, reps, last, count, utc(c.CreatedAt), utc(c.UpdatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("flashcard %s: %w", c.ID, repository.ErrDuplicate)
	}
	return err
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: id=%s, deck_id=%s", c.ID, c.DeckID)

	if err := insertFlashcard(ctx, r.db, c); err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return err
	}
	return nil
}

func (r *flashcardRepository) InsertBatch(ctx context.Context, cards []models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting %d flashcards", len(cards))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range cards {
			if err := insertFlashcard(ctx, tx, c); err != nil {
				log.Error("failed to insert flashcard %s: %v", c.ID, err)
				return err
			}
		}
		return nil
	})
}

func getFlashcard(ctx context.Context, q queryer, id string) (*models.Flashcard, error) {
	query, args, err := sqlBuilder.Select(flashcardColumns...).From("flashcards").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanFlashcard(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("flashcard %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%s", id)

	c, err := getFlashcard(ctx, r.db, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("flashcard not found: id=%s", id)
		} else {
			log.Error("failed to get flashcard: %v", err)
		}
		return nil, err
	}
	return c, nil
}

func (r *flashcardRepository) GetAll(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	return r.List(ctx, models.FlashcardFilter{DeckID: deckID})
}

func (r *flashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards: deck_id=%s, unscheduled_only=%t, limit=%d, offset=%d",
		filter.DeckID, filter.UnscheduledOnly, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(flashcardColumns...).From("flashcards")
	if filter.DeckID != "" {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.UnscheduledOnly {
		query = query.Where(squirrel.Eq{"next_review_at": nil})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"next_review_at": nil},
			squirrel.LtOrEq{"next_review_at": utc(*filter.DueBefore)},
		})
	}
	query = query.OrderBy("created_at ASC", "id ASC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		// SQLite requires LIMIT when OFFSET is present.
		if filter.Limit <= 0 {
			query = query.Limit(uint64(1<<62))
		}
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

func updateSchedule(ctx context.Context, q queryer, id string, u models.ScheduleUpdate, incrementReviews bool) error {
	bump := 0
	if incrementReviews {
		bump = 1
	}
	var last sql.NullTime
	if !u.LastReviewDate.IsZero() {
		last = nullTime(&u.LastReviewDate)
	}
	touched := u.UpdatedAt
	if touched.IsZero() {
		touched = u.LastReviewDate
	}
	res, err := q.ExecContext(ctx, `
UPDATE flashcards
SET next_review_at = ?, interval_days = ?, ease_factor = ?, repetitions = ?,
    last_reviewed_at = COALESCE(?, last_reviewed_at), review_count = review_count + ?, updated_at = ?
WHERE id = ?
`, utc(u.NextReviewDate), u.IntervalDays, u.EaseFactor, u.Repetitions, last, bump, utc(touched), id)
	if err != nil {
		return err
	}
	return requireAffected(res, fmt.Errorf("flashcard %s: %w", id, repository.ErrNotFound))
}

func (r *flashcardRepository) Update(ctx context.Context, id string, u models.ScheduleUpdate) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%s, interval=%d, ease=%.2f", id, u.IntervalDays, u.EaseFactor)

	if err := updateSchedule(ctx, r.db, id, u, false); err != nil {
		log.Error("failed to update flashcard: %v", err)
		return nil, err
	}
	return getFlashcard(ctx, r.db, id)
}

func (r *flashcardRepository) RecordReview(ctx context.Context, id string, u models.ScheduleUpdate, entry models.ReviewEntry) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("recording review: id=%s, quality=%d, interval=%d", id, entry.Quality, u.IntervalDays)

	var updated *models.Flashcard
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := updateSchedule(ctx, tx, id, u, true); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO review_history (flashcard_id, quality, reviewed_at)
VALUES (?, ?, ?)
`, id, entry.Quality, utc(entry.ReviewedAt)); err != nil {
			return err
		}
		var err error
		updated, err = getFlashcard(ctx, tx, id)
		return err
	})
	if err != nil {
		log.Error("failed to record review: %v", err)
		return nil, err
	}
	return updated, nil
}

func (r *flashcardRepository) ReviewHistory(ctx context.Context, id string) ([]models.ReviewEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("fetching review history: id=%s", id)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, flashcard_id, quality, reviewed_at
FROM review_history
WHERE flashcard_id = ?
ORDER BY id ASC
`, id)
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	history := []models.ReviewEntry{}
	for rows.Next() {
		var e models.ReviewEntry
		if err := rows.Scan(&e.ID, &e.FlashcardID, &e.Quality, &e.ReviewedAt); err != nil {
			log.Error("failed to scan review history row: %v", err)
			return nil, err
		}
		history = append(history, e)
	}
	return history, rows.Err()
}
