// Package combanc ranks combinations of a witness's potential
// ancestors by how much of its text they jointly explain, the
// "optimal substemma" search of §4.G.
package combanc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/stemma"
)

// Store is the data access surface combanc needs: everything
// coherence.VUStore provides, plus a witness's own attested readings
// (for the "what must be explained" list) and a stable store identity
// (for the genealogical-coherence disk cache key).
type Store interface {
	coherence.VUStore
	WitnessTriples(w1 string) ([]model.Reading, error)
	ID() string
}

// Engine runs the combinations-of-ancestors search for one focal
// witness against a store.
type Engine struct {
	Store        Store
	Resolver     stemma.Resolver
	Cache        *coherence.Cache // optional; nil disables caching
	Connectivity parentsearch.ConnectivityBound

	// OutputDir is the directory CSV files are written to; empty
	// means the current directory.
	OutputDir string
	// Debug adds the vus_stellen/vus_fragl/vus_offen columns to the
	// CSV output.
	Debug bool
}

type vuTriple struct {
	vu, label string
	parent    model.ParentExpr
}

// Run computes and writes the combinations-of-ancestors CSV for w1,
// returning the path written. maxCombLen caps the number of
// combinations considered (-1 for unlimited); combinations are always
// tried smallest-first, so a cap never excludes a combination while
// including a larger one. If the destination file already exists, Run
// returns a cberr.KindOutputCollision error and writes nothing
// (spec.md's output-collision policy: skip, don't overwrite).
func (e Engine) Run(w1 string, maxCombLen int, allowIncomplete bool) (string, error) {
	outputPath := filepath.Join(e.OutputDir, w1+".csv")
	if _, err := os.Stat(outputPath); err == nil {
		return "", cberr.OutputCollision(fmt.Errorf("%s already exists", outputPath))
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat %s: %w", outputPath, err)
	}

	genRows, err := e.genealogicalRows(w1)
	if err != nil {
		return "", fmt.Errorf("compute genealogical coherence for %s: %w", w1, err)
	}
	potAn := coherence.PotentialAncestors(genRows)

	readings, err := e.Store.WitnessTriples(w1)
	if err != nil {
		return "", fmt.Errorf("list %s's attestations: %w", w1, err)
	}
	triples := make([]vuTriple, len(readings))
	for i, r := range readings {
		triples[i] = vuTriple{vu: r.VariantUnit, label: r.Label, parent: r.Parent}
	}

	vuMap, err := e.combinationsByVU(genRows, triples)
	if err != nil {
		return "", fmt.Errorf("search parent combinations for %s: %w", w1, err)
	}

	ranks := make(map[string]int, len(genRows))
	for _, r := range genRows {
		ranks[r.W2] = r.NR
	}

	var results []ResultRow
	bestBySize := make(map[int]int)
	for _, combo := range Powerset(potAn, maxCombLen) {
		if len(combo) == 0 {
			continue
		}
		rr, ok := checkCombination(combo, triples, vuMap, allowIncomplete, ranks)
		if !ok {
			continue
		}
		if rr.Offen == 0 && rr.Stellen > bestBySize[rr.Vorfanz] {
			bestBySize[rr.Vorfanz] = rr.Stellen
		}
		results = append(results, rr)
	}

	for i := range results {
		if results[i].Offen == 0 && results[i].Stellen == bestBySize[results[i].Vorfanz] {
			results[i].Hinweis = "<<"
		}
	}
	sortResultRows(results)

	if err := writeCSV(outputPath, results, e.Debug); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

func (e Engine) genealogicalRows(w1 string) ([]coherence.Row, error) {
	if e.Cache != nil {
		if rows, ok, err := e.Cache.Load(e.Store.ID(), w1); err != nil {
			return nil, err
		} else if ok {
			return rows, nil
		}
	}

	rows, err := coherence.BuildGenealogical(e.Store, e.Resolver, w1)
	if err != nil {
		return nil, err
	}
	if e.Cache != nil {
		if err := e.Cache.Store(e.Store.ID(), w1, rows); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// combinationsByVU precomputes, for every variant unit w1 is attested
// at with a resolvable (non-UNCL) parent, the parent combinations that
// explain that reading.
func (e Engine) combinationsByVU(genRows []coherence.Row, triples []vuTriple) (map[string]vuInfo, error) {
	out := make(map[string]vuInfo, len(triples))
	for _, t := range triples {
		if string(t.parent) == model.UNCL {
			continue
		}
		combos, err := e.vuCombinations(genRows, t.vu, t.label, t.parent)
		if err != nil {
			return nil, err
		}
		out[t.vu] = vuInfo{combos: combos}
	}
	return out, nil
}

func (e Engine) vuCombinations(genRows []coherence.Row, vu, label string, parentExpr model.ParentExpr) ([]parentsearch.Combination, error) {
	rowsCopy := make([]coherence.Row, len(genRows))
	copy(rowsCopy, genRows)
	annotated, err := coherence.WithVariantUnit(e.Store, rowsCopy, vu)
	if err != nil {
		return nil, err
	}

	readings, err := e.Store.ReadingsAt(vu)
	if err != nil {
		return nil, err
	}
	parentOf := make(map[string]model.ParentExpr, len(readings))
	for _, r := range readings {
		parentOf[r.Label] = r.Parent
	}

	s := parentsearch.Searcher{
		Rows: annotated,
		ParentOf: func(l string) (model.ParentExpr, bool) {
			p, ok := parentOf[l]
			return p, ok
		},
	}
	return s.Search(label, parentExpr, e.Connectivity), nil
}
