package model

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	reVref    = regexp.MustCompile(`^B([0-9]+)K([0-9]+)V([0-9]+)`)
	reContext = regexp.MustCompile(`^([^.]+)\.(\d+|\w+)\.?(\d+)?$`)
)

// VariantUnitKey is the two-key sortable pair for a variant unit
// identifier: a primary encoded-location integer and a secondary
// start-of-range-or-word value.
type VariantUnitKey struct {
	Primary   int64
	Secondary float64
}

// Less reports whether k sorts before other.
func (k VariantUnitKey) Less(other VariantUnitKey) bool {
	if k.Primary != other.Primary {
		return k.Primary < other.Primary
	}
	return k.Secondary < other.Secondary
}

// NumifyVariantUnit turns a variant unit identifier into its sortable
// key. Composite identifiers (comma-separated) use only their first
// component, matching the original source's numify().
//
// Recognized forms for the primary component:
//   - "B<book>K<chapter>V<verse>" -> 100000*book + 1000*chapter + verse
//   - "<context>.<n>[.<m>]"       -> 100000 + 1000*n [+ m], with the
//     special context names "inscriptio" (n=0) and "subscriptio" (n=99)
//   - a bare integer verse number
func NumifyVariantUnit(vu string) VariantUnitKey {
	first := vu
	if idx := strings.Index(vu, ","); idx >= 0 {
		first = vu[:idx]
	}

	a, b, found := strings.Cut(first, "/")
	if !found {
		// No range component; just encode the location.
		return VariantUnitKey{Primary: numifyLocation(a), Secondary: 0}
	}

	return VariantUnitKey{Primary: numifyLocation(a), Secondary: numifyRange(b)}
}

func numifyRange(b string) float64 {
	if lo, hi, found := strings.Cut(b, "-"); found {
		loN, _ := strconv.Atoi(lo)
		hiN, _ := strconv.Atoi(hi)
		f, _ := strconv.ParseFloat(strconv.Itoa(loN)+"."+strconv.Itoa(hiN), 64)
		return f
	}
	n, _ := strconv.Atoi(b)
	return float64(n)
}

func numifyLocation(a string) int64 {
	if m := reVref.FindStringSubmatch(a); m != nil {
		book, _ := strconv.ParseInt(m[1], 10, 64)
		chapter, _ := strconv.ParseInt(m[2], 10, 64)
		verse, _ := strconv.ParseInt(m[3], 10, 64)
		return 100000*book + 1000*chapter + verse
	}

	if m := reContext.FindStringSubmatch(a); m != nil {
		switch m[2] {
		case "inscriptio":
			return 100000
		case "subscriptio":
			return 100000 + 1000*99
		}
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 100000
		}
		var m2 int64
		if m[3] != "" {
			m2, _ = strconv.ParseInt(m[3], 10, 64)
		}
		return 100000 + 1000*n + m2
	}

	if n, err := strconv.ParseInt(a, 10, 64); err == nil {
		return n
	}
	return 0
}

// SortVariantUnits returns a copy of vus sorted by their numeric key.
// The sort is stable, matching the Testable Properties requirement
// that sorting variant units twice is idempotent.
func SortVariantUnits(vus []string) []string {
	out := make([]string, len(vus))
	copy(out, vus)
	keys := make(map[string]VariantUnitKey, len(out))
	for _, vu := range out {
		keys[vu] = NumifyVariantUnit(vu)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return keys[out[i]].Less(keys[out[j]])
	})
	return out
}
