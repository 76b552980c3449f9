package stemma

import (
	"testing"

	"github.com/criticaltext/cbgm/internal/model"
)

func newResolver(parents map[string]model.ParentExpr) Resolver {
	return Resolver{
		ParentOf: func(vu, label string) (model.ParentExpr, bool) {
			p, ok := parents[label]
			return p, ok
		},
	}
}

func TestClassify(t *testing.T) {
	r := newResolver(map[string]model.ParentExpr{
		"a": model.ParentExpr(model.INIT),
		"b": model.ParentExpr("a"),
		"c": model.ParentExpr(model.UNCL),
		"d": model.ParentExpr("a&b"),
	})

	if got := r.Classify("vu1", "a", "a"); got != Equal {
		t.Errorf("Classify(a,a) = %v, want EQUAL", got)
	}
	if got := r.Classify("vu1", "a", "b"); got != Prior {
		t.Errorf("Classify(a,b) = %v, want PRIOR", got)
	}
	if got := r.Classify("vu1", "b", "a"); got != Posterior {
		t.Errorf("Classify(b,a) = %v, want POSTERIOR", got)
	}
	if got := r.Classify("vu1", "c", "a"); got != Unclear {
		t.Errorf("Classify(c,a) = %v, want UNCLEAR", got)
	}
	if got := r.Classify("vu1", "a", "d"); got != NoRelation {
		// d's parent is "a&b" as a whole expression, which does not equal "a"
		t.Errorf("Classify(a,d) = %v, want NOREL", got)
	}
}

func TestCheckAcyclicDetectsCycle(t *testing.T) {
	readings := []model.Reading{
		{Label: "a", Parent: model.ParentExpr("b")},
		{Label: "b", Parent: model.ParentExpr("a")},
	}
	if err := CheckAcyclic("vu1", readings); err == nil {
		t.Fatalf("expected cyclic dependency error")
	}
}

func TestCheckAcyclicSelfParent(t *testing.T) {
	readings := []model.Reading{
		{Label: "a", Parent: model.ParentExpr("a")},
	}
	if err := CheckAcyclic("vu1", readings); err == nil {
		t.Fatalf("expected cyclic dependency error for self-parent")
	}
}

func TestCheckAcyclicOK(t *testing.T) {
	readings := []model.Reading{
		{Label: "a", Parent: model.ParentExpr(model.INIT)},
		{Label: "b", Parent: model.ParentExpr("a")},
		{Label: "c", Parent: model.ParentExpr("a&b")},
	}
	if err := CheckAcyclic("vu1", readings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
