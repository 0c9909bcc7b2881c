package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type statsView struct {
	Deck              string  `json:"deck" yaml:"deck"`
	TotalCards        int     `json:"totalCards" yaml:"totalCards"`
	DueCount          int     `json:"dueCount" yaml:"dueCount"`
	DueToday          int     `json:"dueToday" yaml:"dueToday"`
	DueTomorrow       int     `json:"dueTomorrow" yaml:"dueTomorrow"`
	TotalReviews      int     `json:"totalReviews" yaml:"totalReviews"`
	AverageEaseFactor float64 `json:"averageEasinessFactor" yaml:"averageEasinessFactor"`
	RetentionRate     float64 `json:"retentionRate" yaml:"retentionRate"`
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics for a deck",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	cmd.Flags().String("deck", "", "deck name")
	_ = cmd.MarkFlagRequired("deck")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	deckName, _ := cmd.Flags().GetString("deck")

	a, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	deck, err := a.decks.FindDeck(cmd.Context(), deckName)
	if err != nil {
		return err
	}
	report, err := a.study.Stats(cmd.Context(), deck.ID)
	if err != nil {
		return err
	}

	v := statsView{
		Deck:              deck.Name,
		TotalCards:        report.TotalCards,
		DueCount:          report.DueCount,
		DueToday:          report.DueToday,
		DueTomorrow:       report.DueTomorrow,
		TotalReviews:      report.TotalReviews,
		AverageEaseFactor: report.AverageEaseFactor,
		RetentionRate:     report.RetentionRate,
	}

	out := cmd.OutOrStdout()
	if format != outputTable {
		return writeStructured(out, format, v)
	}
	tw := newTable(out)
	fmt.Fprintf(tw, "Deck:\t%s\n", v.Deck)
	fmt.Fprintf(tw, "Total cards:\t%d\n", v.TotalCards)
	fmt.Fprintf(tw, "Due now:\t%d\n", v.DueCount)
	fmt.Fprintf(tw, "Due today:\t%d\n", v.DueToday)
	fmt.Fprintf(tw, "Due tomorrow:\t%d\n", v.DueTomorrow)
	fmt.Fprintf(tw, "Total reviews:\t%d\n", v.TotalReviews)
	fmt.Fprintf(tw, "Average ease:\t%.2f\n", v.AverageEaseFactor)
	fmt.Fprintf(tw, "Retention:\t%.0f%%\n", v.RetentionRate*100)
	return tw.Flush()
}
