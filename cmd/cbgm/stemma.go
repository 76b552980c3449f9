package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/flow"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/witness"
)

// newStemmaCmd ports lib/local_stemma.py's reading table, minus its
// dot/svg shell-out: witnesses are grouped by the reading they attest
// at a variant unit, with a lac row for everything else.
func newStemmaCmd(log *zap.SugaredLogger) *cobra.Command {
	var writeDOT bool
	var connectivity string

	cmd := &cobra.Command{
		Use:   "stemma <store> <variant-unit>",
		Short: "Print a variant unit's local stemma: readings, parents, and attesting witnesses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStemma(log, args[0], args[1], writeDOT, connectivity)
		},
	}
	cmd.Flags().BoolVar(&writeDOT, "dot", false, "also write the internal/flow DOT description for this variant unit")
	cmd.Flags().StringVar(&connectivity, "connectivity", viper.GetString("connectivity.default"), "connectivity bound for --dot")
	return cmd
}

func runStemma(log *zap.SugaredLogger, storePath, vu string, writeDOT bool, connectivitySpec string) error {
	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireVariantUnit(s, vu); err != nil {
		return err
	}

	readings, err := s.ReadingsAt(vu)
	if err != nil {
		return err
	}

	mss, err := s.AllManuscripts()
	if err != nil {
		return err
	}
	mss = append(mss, model.InitialWS)

	attesters := make(map[string][]string, len(readings))
	attested := make(map[string]bool, len(mss))
	for _, ms := range mss {
		label, ok, err := s.ReadingOf(ms, vu)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		attesters[label] = append(attesters[label], ms)
		attested[ms] = true
	}

	fmt.Printf("Local stemma at %s\n", vu)
	fmt.Printf("%-8s %-12s %-30s %s\n", "LABEL", "PARENT", "TEXT", "WITNESSES")
	for _, r := range readings {
		wits := witness.Sort(attesters[r.Label])
		pretty := make([]string, len(wits))
		for i, w := range wits {
			pretty[i] = witness.Pretty(w)
		}
		fmt.Printf("%-8s %-12s %-30s %s\n", r.Label, r.Parent, r.Text, joinCommas(pretty))
	}

	var lacunose []string
	for _, ms := range mss {
		if !attested[ms] {
			lacunose = append(lacunose, ms)
		}
	}
	if len(lacunose) > 0 {
		wits := witness.Sort(lacunose)
		pretty := make([]string, len(wits))
		for i, w := range wits {
			pretty[i] = witness.Pretty(w)
		}
		fmt.Printf("%-8s %-12s %-30s %s\n", model.LAC, "", "", joinCommas(pretty))
	}

	log.Infow("printed local stemma", "vu", vu, "readings", len(readings), "lacunose", len(lacunose))

	if !writeDOT {
		return nil
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
	diagram, err := flow.Build(vu, bound.String(), witnesses, thresholds, false)
	if err != nil {
		return err
	}

	path := filepath.Join(".", sanitizeVU(vu)+".dot")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := diagram.WriteDOT(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Println(path)
	return nil
}

func joinCommas(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
