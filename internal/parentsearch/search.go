package parentsearch

import (
	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/model"
)

// Ancestor is one member of a parent combination: the witness, the
// joint rank (NR) at which it satisfied the connectivity bound, and
// the generation depth (1 = attests the target reading directly, 2 =
// attests a parent reading, and so on).
type Ancestor struct {
	Witness    string
	Rank       int
	Generation int
}

// Combination is a set of ancestors whose readings, taken together,
// explain a target reading (each `&`-conjunct of a multi-parent
// expression covered by at least one member).
type Combination []Ancestor

// ParentOf answers a reading label's parent expression at a fixed
// variant unit, used to recurse across generations.
type ParentOf func(label string) (model.ParentExpr, bool)

// Searcher runs the parent-combination search against one focal
// witness's ranked, reading-annotated potential-ancestor table at one
// variant unit (coherence.BuildGenealogical + WithVariantUnit).
type Searcher struct {
	Rows     []coherence.Row
	ParentOf ParentOf
}

// Search finds every combination of potential ancestors that explains
// reading given its declared parent expression, within bound. It is
// the entry point; recursion depth (generation) starts at 1 and a
// fresh cycle-guard set is used for the whole call tree.
func (s Searcher) Search(reading string, parentExpr model.ParentExpr, bound ConnectivityBound) []Combination {
	return s.search(reading, parentExpr, bound, 1, map[string]bool{})
}

func (s Searcher) search(reading string, parentExpr model.ParentExpr, bound ConnectivityBound, gen int, visited map[string]bool) []Combination {
	var direct []Combination
	for _, row := range s.Rows {
		if row.Direction == "-" {
			continue
		}
		if !bound.Satisfies(row) {
			continue
		}
		if row.HasReading && row.Reading == reading {
			direct = append(direct, Combination{{Witness: row.W2, Rank: row.NR, Generation: gen}})
		}
	}

	if parentExpr.IsSentinel() {
		return direct
	}

	var partials [][]Combination
	for _, conjunct := range parentExpr.Conjuncts() {
		if visited[conjunct] {
			continue
		}
		visited[conjunct] = true

		if conjunct == model.INIT || conjunct == model.OLParent {
			partials = append(partials, s.search(conjunct, "", bound, gen+1, visited))
			continue
		}

		conjunctParent, _ := s.ParentOf(conjunct)
		partials = append(partials, s.search(conjunct, conjunctParent, bound, gen+1, visited))
	}

	if len(partials) == 0 {
		return nil
	}
	if len(partials) == 1 {
		return append(direct, partials[0]...)
	}

	return cartesianMerge(partials)
}

// cartesianMerge combines one combination from each partial
// explanation list into a single, deduplicated combination, across
// every combination of choices (the product over all partials). This
// is used only when a multi-parent expression ("a&b") splits into
// more than one conjunct, mirroring the original's itertools.product
// + set-union combine step.
func cartesianMerge(partials [][]Combination) []Combination {
	merged := []Combination{nil}
	for _, options := range partials {
		if len(options) == 0 {
			return nil
		}
		var next []Combination
		for _, prefix := range merged {
			for _, option := range options {
				next = append(next, unionAncestors(prefix, option))
			}
		}
		merged = next
	}
	return merged
}

func unionAncestors(a, b Combination) Combination {
	seen := make(map[Ancestor]bool, len(a)+len(b))
	out := make(Combination, 0, len(a)+len(b))
	for _, x := range a {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	for _, x := range b {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
