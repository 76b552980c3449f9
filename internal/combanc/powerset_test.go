package combanc

import "testing"

func TestPowersetAscendingSize(t *testing.T) {
	got := Powerset([]string{"a", "b", "c"}, -1)
	if len(got) != 8 {
		t.Fatalf("expected 8 subsets of a 3-element set, got %d", len(got))
	}
	if len(got[0]) != 0 {
		t.Errorf("first subset should be the empty set, got %v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if len(got[i]) < len(got[i-1]) {
			t.Errorf("subsets not in ascending size order at index %d: %v then %v", i, got[i-1], got[i])
		}
	}
}

func TestPowersetCapsTotal(t *testing.T) {
	got := Powerset([]string{"a", "b", "c", "d"}, 5)
	if len(got) != 5 {
		t.Fatalf("expected exactly 5 subsets with maxCombLen=5, got %d", len(got))
	}
}

func TestPowersetUnlimitedWhenNegative(t *testing.T) {
	got := Powerset([]string{"a", "b"}, -1)
	if len(got) != 4 {
		t.Fatalf("expected all 4 subsets, got %d", len(got))
	}
}
