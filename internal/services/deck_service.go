package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/recallvault/internal/clock"
	"github.com/vytor/recallvault/internal/errors"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/models"
	"github.com/vytor/recallvault/internal/repository"
)

// ImportResult summarises a deck file import.
type ImportResult struct {
	Deck     models.Deck `json:"deck"`
	Created  bool        `json:"created"`
	Imported int         `json:"imported"`
}

// DeckService manages decks and the cards inside them
type DeckService interface {
	CreateDeck(ctx context.Context, name, description string) (*models.Deck, error)
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, id string) (*models.Deck, error)
	FindDeck(ctx context.Context, name string) (*models.Deck, error)
	DeleteDeck(ctx context.Context, id string) error
	AddCard(ctx context.Context, deckID, front, back string) (*models.Flashcard, error)
	ListCards(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	ImportDeck(ctx context.Context, file models.DeckFile) (*ImportResult, error)
}

type deckService struct {
	deckRepo            repository.DeckRepository
	flashcardRepo       repository.FlashcardRepository
	clock               clock.Clock
	newCardIntervalDays int
	newID               func() string
}

// NewDeckService creates a new DeckService. newCardIntervalDays is the
// interval stored on newly created cards.
func NewDeckService(deckRepo repository.DeckRepository, flashcardRepo repository.FlashcardRepository, clk clock.Clock, newCardIntervalDays int) DeckService {
	return &deckService{
		deckRepo:            deckRepo,
		flashcardRepo:       flashcardRepo,
		clock:               clk,
		newCardIntervalDays: newCardIntervalDays,
		newID:               uuid.NewString,
	}
}

func (s *deckService) CreateDeck(ctx context.Context, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating deck: name=%s", name)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty", nil)
	}

	deck := models.Deck{
		ID:          s.newID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.clock.Now(),
	}
	if err := s.deckRepo.Insert(ctx, deck); err != nil {
		return nil, repoError(ctx, err, "deck", name)
	}
	log.Info("deck created: id=%s", deck.ID)
	return &deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	logger.FromContext(ctx).Debug("listing decks")

	decks, err := s.deckRepo.List(ctx)
	if err != nil {
		return nil, repoError(ctx, err, "decks", "all")
	}
	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		return nil, repoError(ctx, err, "deck", id)
	}
	return deck, nil
}

func (s *deckService) FindDeck(ctx context.Context, name string) (*models.Deck, error) {
	deck, err := s.deckRepo.GetByName(ctx, name)
	if err != nil {
		return nil, repoError(ctx, err, "deck", name)
	}
	return deck, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%s", id)

	if err := s.deckRepo.Delete(ctx, id); err != nil {
		return repoError(ctx, err, "deck", id)
	}
	log.Info("deck deleted: id=%s", id)
	return nil
}

func (s *deckService) newCard(deckID, front, back string, scheduled bool) models.Flashcard {
	now := s.clock.Now()
	card := models.Flashcard{
		ID:        s.newID(),
		DeckID:    deckID,
		Front:     strings.TrimSpace(front),
		Back:      strings.TrimSpace(back),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if scheduled {
		state := flashcard.NewState(now, s.newCardIntervalDays)
		card.Schedule = &state
	}
	return card
}

func (s *deckService) AddCard(ctx context.Context, deckID, front, back string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding card: deck_id=%s", deckID)

	if strings.TrimSpace(front) == "" {
		return nil, errors.NewValidationError("front", "cannot be empty", nil)
	}
	if _, err := s.deckRepo.Get(ctx, deckID); err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}

	card := s.newCard(deckID, front, back, true)
	if err := s.flashcardRepo.Insert(ctx, card); err != nil {
		return nil, repoError(ctx, err, "flashcard", card.ID)
	}
	return &card, nil
}

// ListCards pages through a deck's cards. DueBefore keeps unscheduled cards
// and those due at or before it; UnscheduledOnly keeps cards never scheduled.
func (s *deckService) ListCards(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	if _, err := s.deckRepo.Get(ctx, filter.DeckID); err != nil {
		return nil, repoError(ctx, err, "deck", filter.DeckID)
	}
	cards, err := s.flashcardRepo.List(ctx, filter)
	if err != nil {
		return nil, repoError(ctx, err, "flashcards for deck", filter.DeckID)
	}
	return cards, nil
}

// ImportDeck adds the file's cards to the deck of the same name, creating
// the deck when it does not exist. Cards stay unscheduled unless the file
// sets schedule: true.
func (s *deckService) ImportDeck(ctx context.Context, file models.DeckFile) (*ImportResult, error) {
	log := logger.FromContext(ctx).WithField("deck", file.Name)
	log.Debug("importing deck: cards=%d", len(file.Cards))

	for i, entry := range file.Cards {
		if strings.TrimSpace(entry.Front) == "" {
			return nil, errors.NewValidationError("cards", fmt.Sprintf("card %d: front cannot be empty", i+1), nil)
		}
	}

	result := &ImportResult{}
	deck, err := s.deckRepo.GetByName(ctx, strings.TrimSpace(file.Name))
	switch {
	case err == nil:
		result.Deck = *deck
	case stderrors.Is(err, repository.ErrNotFound):
		created, err := s.CreateDeck(ctx, file.Name, file.Description)
		if err != nil {
			return nil, err
		}
		result.Deck = *created
		result.Created = true
	default:
		return nil, repoError(ctx, err, "deck", file.Name)
	}

	cards := make([]models.Flashcard, 0, len(file.Cards))
	for _, entry := range file.Cards {
		cards = append(cards, s.newCard(result.Deck.ID, entry.Front, entry.Back, file.Schedule))
	}
	if len(cards) > 0 {
		if err := s.flashcardRepo.InsertBatch(ctx, cards); err != nil {
			return nil, repoError(ctx, err, "flashcards for deck", result.Deck.ID)
		}
	}
	result.Imported = len(cards)

	log.Info("deck imported: created=%t, imported=%d", result.Created, result.Imported)
	return result, nil
}
