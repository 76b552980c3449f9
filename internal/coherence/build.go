package coherence

import (
	"fmt"
	"sort"

	"github.com/criticaltext/cbgm/internal/stemma"
	"github.com/criticaltext/cbgm/internal/witness"
)

// Store is the subset of *store.Store coherence needs, declared
// locally to keep this package testable against a plain map-backed
// fake.
type Store interface {
	AllManuscripts() ([]string, error)
	AllReadingsOf(ms string) (map[string]string, error)
}

// rowBuilder accumulates the per-(w1,w2) intermediate state the field
// table reads and writes while building one row.
type rowBuilder struct {
	w1, w2     string
	readingsW1 map[string]string
	readingsW2 map[string]string
	resolver   *stemma.Resolver // nil when building pre-genealogical-only rows

	row Row
}

var preGenFields = newFieldTable([]field{
	{name: "pass", compute: func(b *rowBuilder) {
		n := 0
		for vu := range b.readingsW1 {
			if _, ok := b.readingsW2[vu]; ok {
				n++
			}
		}
		b.row.Pass = n
	}},
	{name: "eq", compute: func(b *rowBuilder) {
		n := 0
		for vu, l1 := range b.readingsW1 {
			if l2, ok := b.readingsW2[vu]; ok && l1 == l2 {
				n++
			}
		}
		b.row.Eq = n
	}},
	{name: "perc1", deps: []string{"pass", "eq"}, compute: func(b *rowBuilder) {
		if b.row.Pass == 0 {
			b.row.Perc1 = 0
			return
		}
		b.row.Perc1 = 100.0 * float64(b.row.Eq) / float64(b.row.Pass)
	}},
})

var genFields = newFieldTable([]field{
	{name: "pass", compute: preGenFields.order[0].compute},
	{name: "eq", compute: preGenFields.order[1].compute},
	{name: "perc1", deps: []string{"pass", "eq"}, compute: preGenFields.order[2].compute},
	{name: "w1lt2", compute: func(b *rowBuilder) {
		b.row.WLtW2 = b.relationCount(stemma.Posterior)
	}},
	{name: "w1gt2", compute: func(b *rowBuilder) {
		b.row.WGtW2 = b.relationCount(stemma.Prior)
	}},
	{name: "uncl", compute: func(b *rowBuilder) {
		b.row.Uncl = b.relationCount(stemma.Unclear)
	}},
	{name: "norel", deps: []string{"pass", "eq", "uncl", "w1lt2", "w1gt2"}, compute: func(b *rowBuilder) {
		b.row.Norel = b.row.Pass - b.row.Eq - b.row.Uncl - b.row.WGtW2 - b.row.WLtW2
	}},
	{name: "d", deps: []string{"w1lt2", "w1gt2"}, compute: func(b *rowBuilder) {
		if b.row.WLtW2 == b.row.WGtW2 {
			b.row.Direction = "-"
			b.row.NR = 0
		} else {
			b.row.Direction = ""
		}
	}},
})

// relationCount counts, across every variant unit w1 is extant at,
// how many times classifying w1's reading against w2's yields want.
func (b *rowBuilder) relationCount(want stemma.Relationship) int {
	n := 0
	for vu, l1 := range b.readingsW1 {
		l2, ok := b.readingsW2[vu]
		if !ok {
			continue
		}
		if b.resolver.Classify(vu, l1, l2) == want {
			n++
		}
	}
	return n
}

// BuildPreGenealogical computes §4.C: for every W2 != w1, PASS, EQ,
// PERC1, and competition rank, sorted descending by (PERC1, EQ, PASS)
// then ascending by witness name.
func BuildPreGenealogical(s Store, w1 string) ([]Row, error) {
	readingsW1, err := s.AllReadingsOf(w1)
	if err != nil {
		return nil, fmt.Errorf("read %s's readings: %w", w1, err)
	}

	mss, err := s.AllManuscripts()
	if err != nil {
		return nil, fmt.Errorf("list manuscripts: %w", err)
	}

	var rows []Row
	for _, w2 := range mss {
		if w2 == w1 {
			continue
		}
		readingsW2, err := s.AllReadingsOf(w2)
		if err != nil {
			return nil, fmt.Errorf("read %s's readings: %w", w2, err)
		}
		b := &rowBuilder{w1: w1, w2: w2, readingsW1: readingsW1, readingsW2: readingsW2, row: Row{W2: w2}}
		preGenFields.run(b)
		rows = append(rows, b.row)
	}

	sortAndRank(rows)
	return rows, nil
}

// BuildGenealogical computes §4.D on top of BuildPreGenealogical: per
// variant unit direction counts via resolver, D/rank-forcing when
// undirected, filtering to the potential-ancestor set, and re-ranking.
func BuildGenealogical(s Store, resolver stemma.Resolver, w1 string) ([]Row, error) {
	readingsW1, err := s.AllReadingsOf(w1)
	if err != nil {
		return nil, fmt.Errorf("read %s's readings: %w", w1, err)
	}

	mss, err := s.AllManuscripts()
	if err != nil {
		return nil, fmt.Errorf("list manuscripts: %w", err)
	}

	var rows []Row
	for _, w2 := range mss {
		if w2 == w1 {
			continue
		}
		readingsW2, err := s.AllReadingsOf(w2)
		if err != nil {
			return nil, fmt.Errorf("read %s's readings: %w", w2, err)
		}
		b := &rowBuilder{w1: w1, w2: w2, readingsW1: readingsW1, readingsW2: readingsW2, resolver: &resolver, row: Row{W2: w2}}
		genFields.run(b)
		rows = append(rows, b.row)
	}

	// Keep only rows where W2 is at least as often prior as posterior.
	filtered := rows[:0]
	for _, r := range rows {
		if r.WGtW2 > r.WLtW2 {
			continue
		}
		filtered = append(filtered, r)
	}
	rows = filtered

	sortAndRank(rows)
	return rows, nil
}

// sortAndRank sorts rows descending by (Perc1, Eq, Pass) and ascending
// by witness name, then assigns Rank (sequential, never shared) and NR
// (joint/competition rank: ties share the lower rank, the next
// distinct value skips the intervening integers). Rows already forced
// to Direction == "-" keep NR == 0 and reset the running tie tracker.
func sortAndRank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Perc1 != b.Perc1 {
			return a.Perc1 > b.Perc1
		}
		if a.Eq != b.Eq {
			return a.Eq > b.Eq
		}
		if a.Pass != b.Pass {
			return a.Pass > b.Pass
		}
		return witness.Less(a.W2, b.W2)
	})

	rank := 0
	prevPerc := 0.0
	havePrev := false
	for i := range rows {
		if rows[i].Direction == "-" {
			rows[i].Rank = 0
			rows[i].NR = 0
			havePrev = false
			continue
		}
		rank++
		rows[i].Rank = rank
		if havePrev && rows[i].Perc1 == prevPerc {
			rows[i].NR = rows[i-1].NR
		} else {
			rows[i].NR = rank
			prevPerc = rows[i].Perc1
			havePrev = true
		}
	}
}

// PotentialAncestors returns the W2 labels of rows surviving the
// genealogical filter, in sort order, for use by the parent-combination
// search (§4.E).
func PotentialAncestors(rows []Row) []string {
	var out []string
	for _, r := range rows {
		if r.IsPotentialAncestor() {
			out = append(out, r.W2)
		}
	}
	return out
}
