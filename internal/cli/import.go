package cli

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"github.com/vytor/recallvault/internal/services"
	"github.com/vytor/recallvault/internal/worker"
)

type importView struct {
	File     string `json:"file" yaml:"file"`
	Deck     string `json:"deck,omitempty" yaml:"deck,omitempty"`
	Created  bool   `json:"created" yaml:"created"`
	Imported int    `json:"imported" yaml:"imported"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE.yaml [FILE.yaml...]",
		Short: "Import YAML deck files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}
	cmd.Flags().Int("workers", 2, "number of files imported concurrently")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers")

	a, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var mu sync.Mutex
	views := make([]importView, 0, len(args))
	onDone := func(path string, res *services.ImportResult, err error) {
		v := importView{File: path}
		if err != nil {
			v.Error = err.Error()
		} else {
			v.Deck = res.Deck.Name
			v.Created = res.Created
			v.Imported = res.Imported
		}
		mu.Lock()
		views = append(views, v)
		mu.Unlock()
	}

	pool := worker.NewPool(workers, len(args))
	pool.Start(cmd.Context())
	for _, path := range args {
		pool.Submit(&worker.ImportDeckFileJob{DeckService: a.decks, Path: path, OnDone: onDone})
	}
	pool.Stop()

	sort.Slice(views, func(i, j int) bool { return views[i].File < views[j].File })

	out := cmd.OutOrStdout()
	if format != outputTable {
		if err := writeStructured(out, format, views); err != nil {
			return err
		}
	} else {
		for _, v := range views {
			switch {
			case v.Error != "":
				fmt.Fprintf(out, "%s: failed: %s\n", v.File, v.Error)
			case v.Created:
				fmt.Fprintf(out, "%s: created deck %s with %d cards\n", v.File, v.Deck, v.Imported)
			default:
				fmt.Fprintf(out, "%s: added %d cards to %s\n", v.File, v.Imported, v.Deck)
			}
		}
	}

	if n := pool.Failed(); n > 0 {
		return fmt.Errorf("%d of %d files failed to import", n, len(args))
	}
	return nil
}
