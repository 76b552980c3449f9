package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/stemma"
	"github.com/criticaltext/cbgm/internal/store"
	"github.com/criticaltext/cbgm/internal/worker"
)

func newGencohCmd(log *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "gencoh <store> <w1>...",
		Short: "Compute and cache genealogical coherence for one or more witnesses",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGencoh(log, args[0], args[1:])
		},
	}
}

func runGencoh(log *zap.SugaredLogger, storePath string, witnesses []string) error {
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

	resolver := resolverFor(s)
	cache := coherenceCache(log)

	pool := worker.NewPool(
		viper.GetInt("worker.count"),
		viper.GetDuration("worker.timeout"),
		viper.GetInt("worker.max_retries"),
	)

	tasks := make([]worker.Task, len(witnesses))
	for i, w1 := range witnesses {
		w1 := w1
		tasks[i] = worker.Task{
			Kind:    worker.TaskGenCoh,
			Witness: w1,
			Run: func(ctx context.Context) error {
				return genCohOne(ctx, log, s, resolver, cache, w1)
			},
		}
	}

	results := pool.Run(context.Background(), tasks)
	var failures int
	for _, r := range results {
		if r.Err != nil {
			failures++
			log.Errorw("gencoh task failed", "witness", r.Task.Witness, "error", r.Err)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d gencoh tasks failed", failures, len(tasks))
	}

	fmt.Printf("Computed genealogical coherence for %d witnesses\n", len(witnesses))
	return nil
}

// genCohOne computes and caches one witness's genealogical coherence
// rowset. It checks ctx before the (synchronous, deterministic)
// compute step, the only suspension point spec.md §5 names for this
// task kind besides the cache I/O that cache.Load/cache.Store
// perform.
func genCohOne(ctx context.Context, log *zap.SugaredLogger, s *store.Store, resolver stemma.Resolver, cache *coherence.Cache, w1 string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if cache != nil {
		if _, ok, err := cache.Load(s.ID(), w1); err != nil {
			return err
		} else if ok {
			log.Debugw("genealogical coherence cache hit", "w1", w1)
			return nil
		}
	}

	rows, err := coherence.BuildGenealogical(s, resolver, w1)
	if err != nil {
		return fmt.Errorf("build genealogical coherence for %s: %w", w1, err)
	}

	if cache != nil {
		if err := cache.Store(s.ID(), w1, rows); err != nil {
			return fmt.Errorf("cache genealogical coherence for %s: %w", w1, err)
		}
	}
	log.Infow("computed genealogical coherence", "w1", w1, "rows", len(rows))
	return nil
}
