// Package cberr classifies the error taxonomy used across the CBGM
// pipeline (invariant violations, missing data, compute failures,
// concurrency failures, output collisions) and maps it onto process
// exit codes at the command boundary.
package cberr

import (
	"errors"
	"fmt"
)

// Kind is one of the five error categories from the error handling
// design: fatal invariant violations, fatal missing data, recoverable
// compute failures, recoverable concurrency failures, and recoverable
// output collisions.
type Kind int

const (
	// KindInvariant marks a data-invariant violation: duplicate
	// witness at a variant unit, a cyclic local stemma, a
	// self-referential parent, or an unknown parent label. Fatal;
	// it cancels the whole run.
	KindInvariant Kind = iota
	// KindMissingData marks an unresolvable name lookup: unknown
	// witness, unknown variant unit, or an unparseable input file.
	// Fatal at the command boundary.
	KindMissingData
	// KindCompute marks a recoverable per-witness search failure
	// (no explaining parent combination found).
	KindCompute
	// KindConcurrency marks a worker timeout or queue backpressure.
	// Recoverable by requeue up to a retry limit.
	KindConcurrency
	// KindOutputCollision marks a destination file that already
	// exists. Recoverable by skipping the task.
	KindOutputCollision
)

func (k Kind) String() string {
	switch k {
	case KindInvariant:
		return "invariant violation"
	case KindMissingData:
		return "missing data"
	case KindCompute:
		return "compute failure"
	case KindConcurrency:
		return "concurrency failure"
	case KindOutputCollision:
		return "output collision"
	default:
		return "unknown error"
	}
}

// Fatal reports whether an error of this kind must cancel the
// enclosing run rather than merely skip the offending unit of work.
func (k Kind) Fatal() bool {
	return k == KindInvariant || k == KindMissingData
}

// Error wraps an underlying error with a taxonomy Kind and, where
// applicable, the witness / variant unit it concerns.
type Error struct {
	Kind        Kind
	Witness     string
	VariantUnit string
	Err         error
}

func (e *Error) Error() string {
	switch {
	case e.Witness != "" && e.VariantUnit != "":
		return fmt.Sprintf("%s (witness=%s, vu=%s): %v", e.Kind, e.Witness, e.VariantUnit, e.Err)
	case e.VariantUnit != "":
		return fmt.Sprintf("%s (vu=%s): %v", e.Kind, e.VariantUnit, e.Err)
	case e.Witness != "":
		return fmt.Sprintf("%s (witness=%s): %v", e.Kind, e.Witness, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Invariant wraps err as a KindInvariant error concerning the given
// variant unit.
func Invariant(vu string, err error) error {
	return &Error{Kind: KindInvariant, VariantUnit: vu, Err: err}
}

// MissingData wraps err as a KindMissingData error.
func MissingData(err error) error {
	return &Error{Kind: KindMissingData, Err: err}
}

// Compute wraps err as a KindCompute error concerning a witness at a
// variant unit.
func Compute(witness, vu string, err error) error {
	return &Error{Kind: KindCompute, Witness: witness, VariantUnit: vu, Err: err}
}

// Concurrency wraps err as a KindConcurrency error.
func Concurrency(err error) error {
	return &Error{Kind: KindConcurrency, Err: err}
}

// OutputCollision wraps err as a KindOutputCollision error.
func OutputCollision(err error) error {
	return &Error{Kind: KindOutputCollision, Err: err}
}

// As extracts the *Error wrapper from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ExitCode maps an error returned from a cobra RunE handler to the
// process exit code table in the external interfaces design: 0 on a
// nil error, 1 for a plain (non-taxonomy) configuration error, 2-5 for
// the missing-input/witness/variant-unit/conflicting-source cases
// (distinguished by the wrapped sentinel), and a fixed non-zero code
// for any invariant violation.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	e, ok := As(err)
	if !ok {
		return 1
	}
	switch e.Kind {
	case KindMissingData:
		switch {
		case errors.Is(e.Err, ErrMissingInput):
			return 2
		case errors.Is(e.Err, ErrMissingWitness):
			return 3
		case errors.Is(e.Err, ErrMissingVariantUnit):
			return 4
		case errors.Is(e.Err, ErrConflictingSource):
			return 5
		default:
			return 2
		}
	case KindInvariant:
		return 6
	default:
		return 1
	}
}

// Sentinels distinguished by ExitCode for the missing-data exit
// codes 2-5.
var (
	ErrMissingInput       = errors.New("missing input")
	ErrMissingWitness     = errors.New("missing witness")
	ErrMissingVariantUnit = errors.New("missing variant unit")
	ErrConflictingSource  = errors.New("conflicting data sources")
)
