package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/recallvault/internal/clock"
	"github.com/vytor/recallvault/internal/config"
	"github.com/vytor/recallvault/internal/db"
	"github.com/vytor/recallvault/internal/logger"
	"github.com/vytor/recallvault/internal/repository/sqlite"
	"github.com/vytor/recallvault/internal/services"
)

// NewRootCmd builds the recallvault command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recallvault",
		Short:         "Spaced-repetition flashcard vault",
		Long:          "recallvault schedules flashcard reviews with SM-2 and serves decks over a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db", "", "database path (overrides DB_PATH)")
	root.PersistentFlags().String("log-level", "", "log level (overrides LOG_LEVEL)")
	root.PersistentFlags().StringP("output", "o", outputTable, "output format (table, json, yaml)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newDueCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newImportCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupLogger installs the default logger. CLI commands log to stderr so
// stdout carries only command output.
func setupLogger(cfg config.Config, colors bool) *logger.Logger {
	log := logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(colors),
	)
	logger.SetDefault(log)
	return log
}

// app bundles an open database with the services built on it.
type app struct {
	db      *db.DB
	decks   services.DeckService
	reviews services.ReviewService
	study   services.StudyService
}

func openApp(cfg config.Config, clk clock.Clock) (*app, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	deckRepo := sqlite.NewDeckRepository(database.DB)
	flashcardRepo := sqlite.NewFlashcardRepository(database.DB)
	return &app{
		db:      database,
		decks:   services.NewDeckService(deckRepo, flashcardRepo, clk, cfg.NewCardIntervalDays),
		reviews: services.NewReviewService(deckRepo, flashcardRepo, clk, cfg.MaxBatchSize),
		study:   services.NewStudyService(deckRepo, flashcardRepo, clk),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// prepare loads config, logging and the app for a one-shot command.
func prepare(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg, false)
	return openApp(cfg, clock.Real{})
}
