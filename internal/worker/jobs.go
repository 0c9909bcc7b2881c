package worker

import (
	"context"
	"fmt"

	"github.com/vytor/recallvault/internal/deckfile"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/services"
)

// ImportDeckFileJob loads one YAML deck file and imports it.
type ImportDeckFileJob struct {
	DeckService services.DeckService
	Path        string
	// OnDone, if set, receives the outcome. It may be called from any worker.
	OnDone func(path string, res *services.ImportResult, err error)
}

func (j *ImportDeckFileJob) Name() string { return "import_deck_file" }

func (j *ImportDeckFileJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("path", j.Path)
	log.Debug("loading deck file")

	res, err := j.run(ctx)
	if j.OnDone != nil {
		j.OnDone(j.Path, res, err)
	}
	return err
}

func (j *ImportDeckFileJob) run(ctx context.Context) (*services.ImportResult, error) {
	file, err := deckfile.Load(j.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j.Path, err)
	}
	res, err := j.DeckService.ImportDeck(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j.Path, err)
	}
	return res, nil
}
