package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/flow"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/store"
)

func newFlowCmd(log *zap.SugaredLogger) *cobra.Command {
	var connectivity string
	var outDir string
	var perfectOnly bool
	var boxReading string

	cmd := &cobra.Command{
		Use:   "flow <store> <variant-unit>",
		Short: "Build a textual-flow diagram for one variant unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlow(log, args[0], args[1], connectivity, outDir, perfectOnly, boxReading)
		},
	}
	cmd.Flags().StringVar(&connectivity, "connectivity", viper.GetString("connectivity.default"), "connectivity bound: bare integer or N%")
	cmd.Flags().StringVar(&outDir, "output", "", "output directory for the DOT file (default: current directory)")
	cmd.Flags().BoolVar(&perfectOnly, "perfect-only", false, "fail with a forest error instead of skipping parentless witnesses")
	cmd.Flags().StringVar(&boxReading, "box-reading", "", "emit only the per-reading subgraph for this reading label")
	return cmd
}

func runFlow(log *zap.SugaredLogger, storePath, vu, connectivitySpec, outDir string, perfectOnly bool, boxReading string) error {
	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireVariantUnit(s, vu); err != nil {
		return err
	}

	bound, err := parentsearch.ParseConnectivity(connectivitySpec)
	if err != nil {
		return fmt.Errorf("bad connectivity %q: %w", connectivitySpec, err)
	}

	witnesses, err := witnessInputsAt(s, vu, bound)
	if err != nil {
		return err
	}

	thresholds := flow.Thresholds{
		Strong: viper.GetInt("flow.thresholds.strong"),
		Weak:   viper.GetInt("flow.thresholds.weak"),
	}

	diagram, err := flow.Build(vu, bound.String(), witnesses, thresholds, perfectOnly)
	if err != nil {
		return cberr.Compute("", vu, err)
	}

	if boxReading != "" {
		edges := flow.BoxReadings(witnesses, boxReading)
		log.Infow("box-reading subgraph", "vu", vu, "reading", boxReading, "edges", len(edges))
		for _, e := range edges {
			fmt.Printf("%s -> %s (rank=%d)\n", e.From, e.To, e.Rank)
		}
		return nil
	}

	dir := outDir
	if dir == "" {
		dir = "."
	} else {
		dir = connectivitySubdir(dir, bound)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, sanitizeVU(vu)+".dot")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := diagram.WriteDOT(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.Infow("wrote textual flow diagram", "vu", vu, "connectivity", bound.String(), "path", path, "nodes", len(diagram.Nodes), "edges", len(diagram.Edges))
	fmt.Println(path)
	return nil
}

// witnessInputsAt assembles flow.WitnessInput for every manuscript
// attested at vu: its own reading and parent declaration, the parent
// combinations parentsearch finds for it, and the genealogical
// coherence rows parentsearch.SelectForFlow/flow.Build need for
// rank/percentage/strength lookup.
func witnessInputsAt(s *store.Store, vu string, bound parentsearch.ConnectivityBound) ([]flow.WitnessInput, error) {
	readings, err := s.ReadingsAt(vu)
	if err != nil {
		return nil, err
	}
	parentOf := make(map[string]model.ParentExpr, len(readings))
	for _, r := range readings {
		parentOf[r.Label] = r.Parent
	}

	mss, err := s.AllManuscripts()
	if err != nil {
		return nil, err
	}
	mss = append(mss, model.InitialWS)

	resolver := resolverFor(s)

	var out []flow.WitnessInput
	for _, ms := range mss {
		label, ok, err := s.ReadingOf(ms, vu)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		// The virtual initial-text witness has no parent by
		// definition; it never searches for one.
		if ms == model.InitialWS {
			out = append(out, flow.WitnessInput{Witness: ms, Reading: label, ParentExpr: model.ParentExpr(model.INIT)})
			continue
		}

		genRows, err := coherence.BuildGenealogical(s, resolver, ms)
		if err != nil {
			return nil, fmt.Errorf("build genealogical coherence for %s: %w", ms, err)
		}
		annotated, err := coherence.WithVariantUnit(s, genRows, vu)
		if err != nil {
			return nil, err
		}

		parentExpr := parentOf[label]
		searcher := parentsearch.Searcher{
			Rows: annotated,
			ParentOf: func(l string) (model.ParentExpr, bool) {
				p, ok := parentOf[l]
				return p, ok
			},
		}
		combos := searcher.Search(label, parentExpr, bound)
		chosen := parentsearch.SelectForFlow(combos, parentExpr)

		out = append(out, flow.WitnessInput{
			Witness:    ms,
			Reading:    label,
			ParentExpr: parentExpr,
			Chosen:     chosen,
			Rows:       annotated,
		})
	}
	return out, nil
}
