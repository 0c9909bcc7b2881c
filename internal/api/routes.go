package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/knowledge", func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{deckId}", s.handleGetDeck)
		r.Delete("/decks/{deckId}", s.handleDeleteDeck)

		r.Route("/flashcards/{deckId}", func(r chi.Router) {
			r.Get("/", s.handleListFlashcards)
			r.Post("/", s.handleCreateFlashcard)
			r.Post("/review", s.handleSubmitReviews)
			r.Get("/due", s.handleDueFlashcards)
			r.Get("/cram", s.handleCramFlashcards)
			r.Get("/stats", s.handleStats)
			r.Post("/cards/{cardId}/review", s.handleReviewFlashcard)
			r.Post("/cards/{cardId}/reset", s.handleResetFlashcard)
			r.Get("/cards/{cardId}/history", s.handleReviewHistory)
		})
	})
	return r
}
