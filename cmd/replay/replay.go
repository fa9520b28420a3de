package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"planche-service/internal/domain/entity"
	"planche-service/internal/domain/patch"
	"planche-service/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	replayDate   string
	replayFile   string
	replayUnique bool
	replayDebug  bool
)

func init() {
	rootCmd.Flags().StringVarP(&replayDate, "date", "d", "", "Roster date (YYYY-MM-DD)")
	rootCmd.Flags().StringVarP(&replayFile, "file", "f", "-", "JSON file of updates, - for stdin")
	rootCmd.Flags().BoolVar(&replayUnique, "unique", false, "Reject creation of an already existing flight")
	rootCmd.Flags().BoolVar(&replayDebug, "debug", false, "Log every applied update")
	rootCmd.MarkFlagRequired("date")
}

func runReplay(cmd *cobra.Command, args []string) error {
	date, err := entity.ParseDate(replayDate)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if replayFile != "-" {
		f, err := os.Open(replayFile)
		if err != nil {
			return fmt.Errorf("failed to open updates: %w", err)
		}
		defer f.Close()
		in = f
	}

	log := logger.NewLogger(replayDebug)
	defer log.Sync()

	var opts []patch.Option
	if replayUnique {
		opts = append(opts, patch.WithUniqueFlights())
	}

	roster, rejected, err := replay(in, date, patch.NewApplier(opts...), log)
	if err != nil {
		return err
	}
	if rejected > 0 {
		log.Warn("Some updates were rejected", "rejected", rejected)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(roster)
}

// replay applies every update read from r to a new roster of date and counts the rejected ones
func replay(r io.Reader, date entity.Date, applier *patch.Applier, log logger.Logger) (*entity.DailyRoster, int, error) {
	var updates []entity.UpdateCommand
	if err := json.NewDecoder(r).Decode(&updates); err != nil {
		return nil, 0, fmt.Errorf("failed to decode updates: %w", err)
	}

	roster := entity.NewDailyRoster(date)
	rejected := 0
	for i, update := range updates {
		if update.Date.IsZero() {
			update.Date = date
		}
		if _, err := applier.Apply(roster, update); err != nil {
			rejected++
			log.Warn("Update rejected", "index", i, "kind", patch.KindOf(err), "error", err)
			continue
		}
		log.Debug("Update applied", "index", i, "ognNumber", update.OgnNumber, "field", update.Field)
	}
	return roster, rejected, nil
}
