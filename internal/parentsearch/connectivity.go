// Package parentsearch implements the parent-combination search
// (§4.E): finding the minimal sets of potential ancestors whose
// readings jointly explain a focal witness's reading at one variant
// unit, within a connectivity bound.
package parentsearch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/criticaltext/cbgm/internal/coherence"
)

// ConnectivityBound is either a maximum joint rank or a minimum
// coherence percentage, parsed from a string: a bare integer ("499")
// means "max rank N"; a trailing percent sign ("75%") means "minimum
// coherence percentage".
type ConnectivityBound struct {
	raw        string
	maxRank    int
	minPercent float64
	isPercent  bool
}

// ParseConnectivity parses a connectivity specification string.
func ParseConnectivity(s string) (ConnectivityBound, error) {
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return ConnectivityBound{}, fmt.Errorf("parse connectivity %q: %w", s, err)
		}
		return ConnectivityBound{raw: s, minPercent: v, isPercent: true}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ConnectivityBound{}, fmt.Errorf("parse connectivity %q: %w", s, err)
	}
	return ConnectivityBound{raw: s, maxRank: n}, nil
}

// String returns the original specification text, used to name the
// `c<value>` output subdirectory.
func (c ConnectivityBound) String() string {
	return c.raw
}

// Satisfies reports whether row falls within this connectivity bound.
func (c ConnectivityBound) Satisfies(row coherence.Row) bool {
	if c.isPercent {
		return row.Perc1 >= c.minPercent
	}
	return row.NR <= c.maxRank
}
