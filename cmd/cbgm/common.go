package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/stemma"
	"github.com/criticaltext/cbgm/internal/store"
)

// openStore opens the data store at path, wrapping "file not found"
// style errors as a missing-input condition.
func openStore(path string) (*store.Store, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, cberr.MissingData(fmt.Errorf("open store %s: %w", path, err))
	}
	return s, nil
}

// resolverFor builds a stemma.Resolver backed by s, looking up each
// reading's parent expression directly from the store.
func resolverFor(s *store.Store) stemma.Resolver {
	return stemma.Resolver{
		ParentOf: func(vu, label string) (model.ParentExpr, bool) {
			readings, err := s.ReadingsAt(vu)
			if err != nil {
				return "", false
			}
			for _, r := range readings {
				if r.Label == label {
					return r.Parent, true
				}
			}
			return "", false
		},
	}
}

// coherenceCache returns a disk cache rooted at the configured cache
// directory, or nil (caching disabled) if that directory cannot be
// created.
func coherenceCache(log *zap.SugaredLogger) *coherence.Cache {
	dir := viper.GetString("cache.dir")
	c, err := coherence.NewCache(dir)
	if err != nil {
		log.Warnw("disabling genealogical-coherence cache", "dir", dir, "error", err)
		return nil
	}
	return c
}

// parseConnectivities parses one or more connectivity-spec strings
// (spec.md §6: a bare integer or a trailing-percent string).
func parseConnectivities(specs []string) ([]parentsearch.ConnectivityBound, error) {
	bounds := make([]parentsearch.ConnectivityBound, len(specs))
	for i, s := range specs {
		b, err := parentsearch.ParseConnectivity(s)
		if err != nil {
			return nil, fmt.Errorf("bad connectivity %q: %w", s, err)
		}
		bounds[i] = b
	}
	return bounds, nil
}

// connectivitySubdir returns the `c<value>` output subdirectory name
// for one connectivity bound, per spec.md §6's disambiguation rule.
func connectivitySubdir(outDir string, bound parentsearch.ConnectivityBound) string {
	return filepath.Join(outDir, "c"+bound.String())
}

// requireManuscript returns a missing-witness error if ms is not
// among the store's known manuscripts.
func requireManuscript(s *store.Store, ms string) error {
	mss, err := s.AllManuscripts()
	if err != nil {
		return err
	}
	for _, m := range mss {
		if m == ms {
			return nil
		}
	}
	return cberr.MissingData(fmt.Errorf("%w: %q", cberr.ErrMissingWitness, ms))
}

// requireVariantUnit returns a missing-variant-unit error if vu is not
// among the store's known variant units.
func requireVariantUnit(s *store.Store, vu string) error {
	vus, err := s.AllVariantUnits()
	if err != nil {
		return err
	}
	for _, v := range vus {
		if v == vu {
			return nil
		}
	}
	return cberr.MissingData(fmt.Errorf("%w: %q", cberr.ErrMissingVariantUnit, vu))
}
