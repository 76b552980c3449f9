package model

import "testing"

func TestNumifyVariantUnit(t *testing.T) {
	tests := []struct {
		vu   string
		want VariantUnitKey
	}{
		{"B04K21V20-24/2-10", VariantUnitKey{Primary: 421020, Secondary: 2.10}},
		{"B04K01V04/5-7", VariantUnitKey{Primary: 401004, Secondary: 5.7}},
		{"B04K01V50/2-36,B04K01V51/2-22", VariantUnitKey{Primary: 401050, Secondary: 2.36}},
		{"22/20", VariantUnitKey{Primary: 22, Secondary: 20}},
		{"3.inscriptio/1", VariantUnitKey{Primary: 100000, Secondary: 1}},
		{"3.subscriptio/1", VariantUnitKey{Primary: 199000, Secondary: 1}},
		{"3.21.5/1", VariantUnitKey{Primary: 121005, Secondary: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.vu, func(t *testing.T) {
			got := NumifyVariantUnit(tt.vu)
			if got != tt.want {
				t.Errorf("NumifyVariantUnit(%q) = %+v, want %+v", tt.vu, got, tt.want)
			}
		})
	}
}

func TestSortVariantUnitsStable(t *testing.T) {
	in := []string{"22/20", "21/2", "B04K01V04/5-7"}
	once := SortVariantUnits(in)
	twice := SortVariantUnits(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("sort not idempotent: %v vs %v", once, twice)
		}
	}
}

func TestParentExprConjuncts(t *testing.T) {
	p := ParentExpr("a&b")
	got := p.Conjuncts()
	want := []string{"a", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Conjuncts() = %v, want %v", got, want)
	}
	if !ParentExpr(INIT).IsSentinel() {
		t.Errorf("INIT should be a sentinel")
	}
	if ParentExpr("a").IsSentinel() {
		t.Errorf("plain label should not be a sentinel")
	}
}
