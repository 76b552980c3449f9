// Package model defines the core CBGM data types: variant units,
// readings, parent expressions, and attestations.
package model

import "strings"

// Sentinel parent expressions. INIT marks the reconstructed initial
// text; OL_PARENT marks a reading whose parent lies across an
// overlapping variant unit; UNCL marks an unknown parent; LAC marks a
// lacuna (a manuscript that does not attest any reading here).
const (
	INIT      = "INIT"
	OLParent  = "OL_PARENT"
	UNCL      = "UNCL"
	LAC       = "LAC"
	InitialWS = "A" // the distinguished virtual witness for the initial text
)

// ParentExpr is a reading's parent field: one of the sentinels above,
// or one or more reading labels joined by '&' (multi-parent split).
type ParentExpr string

// IsSentinel reports whether the expression is INIT, OL_PARENT, or UNCL.
func (p ParentExpr) IsSentinel() bool {
	s := string(p)
	return s == INIT || s == OLParent || s == UNCL
}

// Conjuncts splits a multi-parent expression ("a&b") into its
// individual reading-label conjuncts. For a sentinel or single-label
// expression it returns a single-element slice.
func (p ParentExpr) Conjuncts() []string {
	return strings.Split(string(p), "&")
}

// String returns the raw expression text.
func (p ParentExpr) String() string {
	return string(p)
}

// Reading is a single attested text at one variant unit.
type Reading struct {
	VariantUnit string
	Label       string
	Text        string
	Parent      ParentExpr
}

// Attestation records that a manuscript reads a particular label at a
// variant unit. Lacunose manuscripts have no attestation there.
type Attestation struct {
	Witness     string
	VariantUnit string
	Label       string
}
