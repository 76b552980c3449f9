package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/store"
)

func newResolveCmd(log *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <store> <variant-unit> <reading1> <reading2>",
		Short: "Classify the relationship between two readings at one variant unit",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(log, args[0], args[1], args[2], args[3])
		},
	}
}

func runResolve(log *zap.SugaredLogger, storePath, vu, r1, r2 string) error {
	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireVariantUnit(s, vu); err != nil {
		return err
	}
	if err := requireReading(s, vu, r1); err != nil {
		return err
	}
	if err := requireReading(s, vu, r2); err != nil {
		return err
	}

	resolver := resolverFor(s)
	rel := resolver.Classify(vu, r1, r2)

	log.Infow("classified reading relationship", "vu", vu, "r1", r1, "r2", r2, "relation", rel)
	fmt.Println(rel)
	return nil
}

// requireReading returns a missing-variant-unit error if label is not
// declared at vu in the store.
func requireReading(s *store.Store, vu, label string) error {
	readings, err := s.ReadingsAt(vu)
	if err != nil {
		return err
	}
	for _, r := range readings {
		if r.Label == label {
			return nil
		}
	}
	return cberr.MissingData(fmt.Errorf("%w: reading %q at %s", cberr.ErrMissingVariantUnit, label, vu))
}
