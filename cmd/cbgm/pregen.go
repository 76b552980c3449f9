package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/coherence"
)

func newPregenCmd(log *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "pregen <store> <w1>",
		Short: "Print pre-genealogical coherence for a focal witness",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPregen(log, args[0], args[1])
		},
	}
}

func runPregen(log *zap.SugaredLogger, storePath, w1 string) error {
	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireManuscript(s, w1); err != nil {
		return err
	}

	rows, err := coherence.BuildPreGenealogical(s, w1)
	if err != nil {
		return fmt.Errorf("build pre-genealogical coherence for %s: %w", w1, err)
	}

	log.Infow("computed pre-genealogical coherence", "w1", w1, "rows", len(rows))
	fmt.Printf("%-8s %6s %6s %8s %5s %5s\n", "W2", "RANK", "NR", "PERC1", "EQ", "PASS")
	for _, r := range rows {
		fmt.Printf("%-8s %6d %6d %8.2f %5d %5d\n", r.W2, r.Rank, r.NR, r.Perc1, r.Eq, r.Pass)
	}
	return nil
}
