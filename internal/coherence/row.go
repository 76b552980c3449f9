// Package coherence computes pre-genealogical and genealogical
// coherence between a focal witness and every other manuscript in the
// store (§4.C, §4.D).
package coherence

// Row is one witness-to-witness coherence record. Pre-genealogical
// rows populate only Pass, Eq, Perc1, Rank, NR. Genealogical rows
// additionally populate Direction, WLtW2, WGtW2, Uncl, Norel.
type Row struct {
	W2 string

	Pass int
	Eq   int
	// Perc1 is 100*Eq/Pass, 0 when Pass is 0.
	Perc1 float64

	// Rank is the raw sequential position in sorted order (the
	// original's "_RANK": always increments, never shared).
	Rank int
	// NR is the displayed joint/competition rank: rows tied on Perc1
	// share the rank of the first row in their tie group, and the
	// next distinct value resumes at the current sequential
	// position (skipping the intervening integers). Forced to 0 when
	// Direction == "-".
	NR int

	// Direction is "-" when W1<W2 == W1>W2 (no direction), "" otherwise.
	// Genealogical rows only.
	Direction string
	WLtW2     int
	WGtW2     int
	Uncl      int
	Norel     int

	// Reading and Text are the per-variant-unit extension added by
	// WithVariantUnit; they are never cached.
	HasReading bool
	Reading    string
	Text       string
}

// IsPotentialAncestor reports whether this row survives the
// genealogical potential-ancestor filter (NR != 0).
func (r Row) IsPotentialAncestor() bool {
	return r.NR != 0
}
