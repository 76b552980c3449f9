package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
)

func newParentsCmd(log *zap.SugaredLogger) *cobra.Command {
	var connectivities []string
	var outDir string

	cmd := &cobra.Command{
		Use:   "parents <store> <w1> <variant-unit>",
		Short: "Search for parent combinations explaining w1's reading at one variant unit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParents(log, args[0], args[1], args[2], connectivities, outDir)
		},
	}
	cmd.Flags().StringSliceVar(&connectivities, "connectivity", []string{"499"}, "connectivity bound(s): bare integer or N%")
	cmd.Flags().StringVar(&outDir, "output", "", "output directory (default: current directory)")
	return cmd
}

func runParents(log *zap.SugaredLogger, storePath, w1, vu string, connectivities []string, outDir string) error {
	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireManuscript(s, w1); err != nil {
		return err
	}
	if err := requireVariantUnit(s, vu); err != nil {
		return err
	}

	reading, ok, err := s.ReadingOf(w1, vu)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is lacunose at %s", cberr.ErrMissingVariantUnit, w1, vu)
	}

	readings, err := s.ReadingsAt(vu)
	if err != nil {
		return err
	}
	var parentExpr model.ParentExpr
	parentOf := make(map[string]model.ParentExpr, len(readings))
	for _, r := range readings {
		parentOf[r.Label] = r.Parent
		if r.Label == reading {
			parentExpr = r.Parent
		}
	}

	resolver := resolverFor(s)
	genRows, err := coherence.BuildGenealogical(s, resolver, w1)
	if err != nil {
		return fmt.Errorf("build genealogical coherence for %s: %w", w1, err)
	}
	annotated, err := coherence.WithVariantUnit(s, genRows, vu)
	if err != nil {
		return err
	}

	bounds, err := parseConnectivities(connectivities)
	if err != nil {
		return err
	}

	for _, bound := range bounds {
		searcher := parentsearch.Searcher{
			Rows: annotated,
			ParentOf: func(l string) (model.ParentExpr, bool) {
				p, ok := parentOf[l]
				return p, ok
			},
		}
		combos := searcher.Search(reading, parentExpr, bound)

		if outDir == "" {
			printCombinations(log, w1, vu, bound, combos)
			continue
		}
		if err := writeCombinations(connectivitySubdir(outDir, bound), w1, vu, combos); err != nil {
			return err
		}
	}
	return nil
}

func printCombinations(log *zap.SugaredLogger, w1, vu string, bound parentsearch.ConnectivityBound, combos []parentsearch.Combination) {
	log.Infow("parent combination search", "w1", w1, "vu", vu, "connectivity", bound.String(), "combinations", len(combos))
	for _, c := range combos {
		fmt.Printf("%s@%s c%s: %v\n", w1, vu, bound.String(), c)
	}
}

func writeCombinations(dir, w1, vu string, combos []parentsearch.Combination) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, w1+"_"+sanitizeVU(vu)+".json")
	data, err := json.MarshalIndent(combos, "", "  ")
	if err != nil {
		return fmt.Errorf("encode combinations: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func sanitizeVU(vu string) string {
	out := make([]rune, 0, len(vu))
	for _, r := range vu {
		if r == '/' || r == ',' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
