package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/recallvault/internal/flashcard"
	"github.com/vytor/recallvault/internal/models"
)

type cardView struct {
	ID             string     `json:"id" yaml:"id"`
	Front          string     `json:"front" yaml:"front"`
	Back           string     `json:"back" yaml:"back"`
	NextReviewDate *time.Time `json:"nextReviewDate,omitempty" yaml:"nextReviewDate,omitempty"`
	IntervalDays   int        `json:"interval" yaml:"interval"`
	EaseFactor     float64    `json:"easeFactor" yaml:"easeFactor"`
	Repetitions    int        `json:"repetitions" yaml:"repetitions"`
}

func viewCard(c models.Flashcard) cardView {
	v := cardView{ID: c.ID, Front: c.Front, Back: c.Back, EaseFactor: models.InitialEaseFactor}
	if c.Schedule != nil {
		next := c.Schedule.NextReviewDate
		v.NextReviewDate = &next
		v.IntervalDays = c.Schedule.IntervalDays
		v.EaseFactor = c.Schedule.EaseFactor
		v.Repetitions = c.Schedule.Repetitions
	}
	return v
}

func newDueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List the cards due for review in a deck",
		Args:  cobra.NoArgs,
		RunE:  runDue,
	}
	cmd.Flags().String("deck", "", "deck name")
	cmd.Flags().String("bucket", string(flashcard.BucketNow), "now, today or tomorrow")
	cmd.Flags().Bool("cram", false, "list every card regardless of schedule")
	_ = cmd.MarkFlagRequired("deck")
	return cmd
}

func runDue(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	deckName, _ := cmd.Flags().GetString("deck")
	rawBucket, _ := cmd.Flags().GetString("bucket")
	cram, _ := cmd.Flags().GetBool("cram")
	bucket, err := flashcard.ParseBucket(rawBucket)
	if err != nil {
		return err
	}

	a, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	deck, err := a.decks.FindDeck(ctx, deckName)
	if err != nil {
		return err
	}

	var cards []models.Flashcard
	if cram {
		cards, err = a.study.CramCards(ctx, deck.ID)
	} else {
		cards, err = a.study.DueCards(ctx, deck.ID, bucket)
	}
	if err != nil {
		return err
	}

	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, viewCard(c))
	}

	out := cmd.OutOrStdout()
	if format != outputTable {
		return writeStructured(out, format, views)
	}
	if len(views) == 0 {
		fmt.Fprintf(out, "No cards due in %s.\n", deck.Name)
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tFRONT\tNEXT REVIEW\tINTERVAL\tEF")
	for _, v := range views {
		next := "new"
		if v.NextReviewDate != nil {
			next = v.NextReviewDate.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\n", v.ID, v.Front, next, v.IntervalDays, v.EaseFactor)
	}
	return tw.Flush()
}
