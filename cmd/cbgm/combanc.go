package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/combanc"
	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/worker"
)

func newCombancCmd(log *zap.SugaredLogger) *cobra.Command {
	var connectivitySpec string
	var maxCombLen int
	var allowIncomplete bool
	var outDir string
	var debug bool

	cmd := &cobra.Command{
		Use:   "combanc <store> <w1>...",
		Short: "Rank combinations of a witness's potential ancestors (optimal substemma search)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombanc(log, args[0], args[1:], connectivitySpec, maxCombLen, allowIncomplete, outDir, debug)
		},
	}
	cmd.Flags().StringVar(&connectivitySpec, "connectivity", viper.GetString("connectivity.default"), "connectivity bound: bare integer or N%")
	cmd.Flags().IntVar(&maxCombLen, "max-comb-len", viper.GetInt("combanc.max_comb_len"), "cap on the number of combinations considered (-1 for unlimited)")
	cmd.Flags().BoolVar(&allowIncomplete, "allow-incomplete", true, "keep combinations that leave some variant units unexplained, marking them Offen")
	cmd.Flags().StringVar(&outDir, "output", ".", "output directory for the per-witness CSV files")
	cmd.Flags().BoolVar(&debug, "debug", false, "add the vus_stellen/vus_fragl/vus_offen columns")
	return cmd
}

func runCombanc(log *zap.SugaredLogger, storePath string, witnesses []string, connectivitySpec string, maxCombLen int, allowIncomplete bool, outDir string, debug bool) error {
	s, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, w1 := range witnesses {
		if err := requireManuscript(s, w1); err != nil {
			return err
		}
	}

	bound, err := parentsearch.ParseConnectivity(connectivitySpec)
	if err != nil {
		return fmt.Errorf("bad connectivity %q: %w", connectivitySpec, err)
	}

	dir := connectivitySubdir(outDir, bound)
	engine := combanc.Engine{
		Store:        s,
		Resolver:     resolverFor(s),
		Cache:        coherenceCache(log),
		Connectivity: bound,
		OutputDir:    dir,
		Debug:        debug,
	}

	pool := worker.NewPool(
		viper.GetInt("worker.count"),
		viper.GetDuration("worker.timeout"),
		viper.GetInt("worker.max_retries"),
	)

	tasks := make([]worker.Task, len(witnesses))
	for i, w1 := range witnesses {
		w1 := w1
		tasks[i] = worker.Task{
			Kind:    worker.TaskCombAnc,
			Witness: w1,
			Run: func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				path, err := engine.Run(w1, maxCombLen, allowIncomplete)
				if err != nil {
					if e, ok := cberrAsOutputCollision(err); ok {
						log.Warnw("skipping existing combinations-of-ancestors output", "witness", w1, "error", e)
						return nil
					}
					return err
				}
				log.Infow("wrote combinations-of-ancestors table", "witness", w1, "path", path)
				return nil
			},
		}
	}

	results := pool.Run(context.Background(), tasks)
	var failures int
	for _, r := range results {
		if r.Err != nil {
			failures++
			log.Errorw("combanc task failed", "witness", r.Task.Witness, "error", r.Err)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d combanc tasks failed", failures, len(tasks))
	}

	fmt.Printf("Wrote combinations-of-ancestors tables for %d witnesses in %s\n", len(witnesses), dir)
	return nil
}
