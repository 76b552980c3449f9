package cberr

import (
	"errors"
	"testing"
)

func TestExitCodeTable(t *testing.T) {
	if code := ExitCode(nil); code != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", code)
	}
	if code := ExitCode(errors.New("plain")); code != 1 {
		t.Errorf("ExitCode(plain) = %d, want 1", code)
	}
	if code := ExitCode(MissingData(ErrMissingWitness)); code != 3 {
		t.Errorf("ExitCode(missing witness) = %d, want 3", code)
	}
	if code := ExitCode(MissingData(ErrConflictingSource)); code != 5 {
		t.Errorf("ExitCode(conflicting source) = %d, want 5", code)
	}
	if code := ExitCode(Invariant("B04K01V04/5-7", errors.New("cycle"))); code != 6 {
		t.Errorf("ExitCode(invariant) = %d, want 6", code)
	}
}

func TestFatalClassification(t *testing.T) {
	if !KindInvariant.Fatal() {
		t.Errorf("KindInvariant should be fatal")
	}
	if !KindMissingData.Fatal() {
		t.Errorf("KindMissingData should be fatal")
	}
	if KindCompute.Fatal() {
		t.Errorf("KindCompute should not be fatal")
	}
	if KindConcurrency.Fatal() {
		t.Errorf("KindConcurrency should not be fatal")
	}
	if KindOutputCollision.Fatal() {
		t.Errorf("KindOutputCollision should not be fatal")
	}
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := Compute("P75", "B04K01V04/5-7", base)
	if !errors.Is(err, base) {
		t.Errorf("Compute error should unwrap to base error")
	}
	e, ok := As(err)
	if !ok || e.Kind != KindCompute {
		t.Errorf("As() should recover KindCompute")
	}
}
