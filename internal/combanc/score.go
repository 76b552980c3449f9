package combanc

import (
	"strconv"
	"strings"

	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/witness"
)

// ResultRow is one scored combination, named after the original's
// German column headers (Vorf = combination, Vorfanz = its size,
// Stellen = explained-by-agreement count, Post = explained-by-
// posterity count, Fragl = unknown-source count, Offen = unexplained
// count).
type ResultRow struct {
	Vorf    string
	Vorfanz int
	Stellen int
	Post    int
	Fragl   int
	Offen   int
	Hinweis string
	SumRank int
	Ranks   string

	VUsStellen string
	VUsPost    string
	VUsFragl   string
	VUsOffen   string
}

// vuInfo is the precomputed set of parent combinations that can
// explain the focal witness's reading at one variant unit.
type vuInfo struct {
	combos []parentsearch.Combination
}

// checkCombination scores one candidate combination of ancestors
// against every variant unit the focal witness is attested at. It
// returns ok == false only when allowIncomplete is false and at least
// one variant unit has no matching explanation at all — in which case
// the combination is dropped entirely, not merely penalized.
func checkCombination(combo []string, triples []vuTriple, vuMap map[string]vuInfo, allowIncomplete bool, ranks map[string]int) (ResultRow, bool) {
	combSet := make(map[string]bool, len(combo))
	for _, w := range combo {
		combSet[w] = true
	}

	var stellenVUs, postVUs, fraglVUs, offenVUs []string
	stellen, post, fragl, offen := 0, 0, 0, 0

	for _, t := range triples {
		info, explained := vuMap[t.vu]
		if !explained {
			fragl++
			fraglVUs = append(fraglVUs, t.vu)
			continue
		}

		bestGen := -1
		for _, c := range info.combos {
			if !subsetOf(c, combSet) {
				continue
			}
			if gen := maxGeneration(c); bestGen == -1 || gen < bestGen {
				bestGen = gen
			}
		}

		switch {
		case bestGen == -1:
			if !allowIncomplete {
				return ResultRow{}, false
			}
			offen++
			offenVUs = append(offenVUs, t.vu)
		case bestGen == 1:
			stellen++
			stellenVUs = append(stellenVUs, t.vu)
		case bestGen == 2:
			post++
			postVUs = append(postVUs, t.vu)
		default:
			// Too distant a relative: optimal-substemma ancestors
			// must read the same, or the direct parent reading.
			offen++
			offenVUs = append(offenVUs, t.vu)
		}
	}

	sumRank := 0
	rankParts := make([]string, len(combo))
	prettyParts := make([]string, len(combo))
	for i, w := range combo {
		sumRank += ranks[w]
		rankParts[i] = strconv.Itoa(ranks[w])
		prettyParts[i] = witness.Pretty(w)
	}

	return ResultRow{
		Vorf:       strings.Join(prettyParts, ", "),
		Vorfanz:    len(combo),
		Stellen:    stellen,
		Post:       post,
		Fragl:      fragl,
		Offen:      offen,
		SumRank:    sumRank,
		Ranks:      strings.Join(rankParts, ", "),
		VUsStellen: strings.Join(stellenVUs, ", "),
		VUsPost:    strings.Join(postVUs, ", "),
		VUsFragl:   strings.Join(fraglVUs, ", "),
		VUsOffen:   strings.Join(offenVUs, ", "),
	}, true
}

func subsetOf(c parentsearch.Combination, combSet map[string]bool) bool {
	for _, a := range c {
		if !combSet[a.Witness] {
			return false
		}
	}
	return true
}

func maxGeneration(c parentsearch.Combination) int {
	m := c[0].Generation
	for _, a := range c[1:] {
		if a.Generation > m {
			m = a.Generation
		}
	}
	return m
}
