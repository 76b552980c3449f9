package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/stemma"
)

// newCompareCmd ports the original CBGM/compare_witnesses.py's
// pairwise attestation report: for every variant unit both witnesses
// are extant at, classify the relationship and tally the outcomes.
func newCompareCmd(log *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <store> <w1> <w2>",
		Short: "Compare two witnesses' attestations variant-unit by variant-unit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(log, args[0], args[1], args[2])
		},
	}
}

func runCompare(log *zap.SugaredLogger, storePath, w1, w2 string) error {
	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireManuscript(s, w1); err != nil {
		return err
	}
	if err := requireManuscript(s, w2); err != nil {
		return err
	}

	readingsW1, err := s.AllReadingsOf(w1)
	if err != nil {
		return err
	}
	readingsW2, err := s.AllReadingsOf(w2)
	if err != nil {
		return err
	}

	resolver := resolverFor(s)

	var shared []string
	for vu := range readingsW1 {
		if _, ok := readingsW2[vu]; ok {
			shared = append(shared, vu)
		}
	}
	shared = model.SortVariantUnits(shared)

	tally := make(map[stemma.Relationship]int)
	fmt.Printf("%-14s %-6s %-6s %s\n", "VARIANT UNIT", w1, w2, "RELATION")
	for _, vu := range shared {
		l1, l2 := readingsW1[vu], readingsW2[vu]
		rel := resolver.Classify(vu, l1, l2)
		tally[rel]++
		fmt.Printf("%-14s %-6s %-6s %s\n", vu, l1, l2, rel)
	}

	log.Infow("compared witnesses", "w1", w1, "w2", w2, "shared_variant_units", len(shared))
	fmt.Println()
	printSummary(w1, w2, tally)
	return nil
}

func printSummary(w1, w2 string, tally map[stemma.Relationship]int) {
	order := []stemma.Relationship{stemma.Equal, stemma.Prior, stemma.Posterior, stemma.Unclear, stemma.NoRelation}
	fmt.Printf("%s vs %s:\n", w1, w2)
	for _, rel := range order {
		fmt.Printf("  %-10s %d\n", rel, tally[rel])
	}
}
