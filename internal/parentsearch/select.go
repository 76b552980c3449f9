package parentsearch

import "github.com/criticaltext/cbgm/internal/model"

// maxAcceptableGeneration caps how many generations back the textual
// flow builder will look for an explaining ancestor.
const maxAcceptableGeneration = 2

func maxOf(c Combination, pick func(Ancestor) int) int {
	m := pick(c[0])
	for _, a := range c[1:] {
		if v := pick(a); v > m {
			m = v
		}
	}
	return m
}

func rankOf(a Ancestor) int { return a.Rank }
func genOf(a Ancestor) int  { return a.Generation }

// SelectForFlow picks the single best combination to use as the
// textual-flow parent arcs for one witness at one variant unit, from
// all combinations a Search call returned. Combinations at generation
// > maxAcceptableGeneration are rejected outright. Among the rest, a
// generation-1 combination is preferred (tie-broken by the lowest
// maximum rank within generation 1); failing that, the combination
// with the lowest maximum rank overall wins.
//
// If parentExpr is OL_PARENT and no combination survives, a synthetic
// OL_PARENT ancestor is returned (rank -1, generation 1) marking the
// witness as parented by the overlapping unit's initial text.
func SelectForFlow(combinations []Combination, parentExpr model.ParentExpr) Combination {
	var bestByGen Combination
	bestGen := -1
	var bestByRank Combination
	bestRank := -1

	for _, c := range combinations {
		if len(c) == 0 {
			continue
		}
		gen := maxOf(c, genOf)
		if gen > maxAcceptableGeneration {
			continue
		}
		rank := maxOf(c, rankOf)

		if bestGen == -1 || gen < bestGen {
			bestByGen = c
			bestGen = gen
		} else if gen == bestGen && rank < maxOf(bestByGen, rankOf) {
			bestByGen = c
		}

		if bestRank == -1 || rank < bestRank {
			bestByRank = c
			bestRank = rank
		}
	}

	var chosen Combination
	if bestGen == 1 {
		chosen = bestByGen
	} else {
		chosen = bestByRank
	}

	if string(parentExpr) == model.OLParent && len(chosen) == 0 {
		return Combination{{Witness: model.OLParent, Rank: -1, Generation: 1}}
	}
	return chosen
}
