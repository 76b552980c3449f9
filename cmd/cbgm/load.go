package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/loader"
)

func newLoadCmd(log *zap.SugaredLogger) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "load <store> <dataset.yaml>",
		Short: "Load a declarative witness/reading dataset into a store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(log, args[0], args[1], clear)
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the store before loading")
	return cmd
}

func runLoad(log *zap.SugaredLogger, storePath, datasetPath string, clear bool) error {
	data, err := os.ReadFile(datasetPath)
	if err != nil {
		return cberr.MissingData(fmt.Errorf("%w: read %s: %v", cberr.ErrMissingInput, datasetPath, err))
	}

	ds, err := loader.Parse(data)
	if err != nil {
		return err
	}

	rows, err := loader.Load(ds)
	if err != nil {
		return err
	}

	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if clear {
		if err := s.Clear(); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}

	if err := s.LoadRows(rows); err != nil {
		return err
	}

	log.Infow("loaded dataset", "store", storePath, "dataset", datasetPath, "rows", len(rows))
	fmt.Printf("Loaded %d rows into %s\n", len(rows), storePath)
	return nil
}
