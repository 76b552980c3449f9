package combanc

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/stemma"
)

// fakeStore is a minimal in-memory Store for testing, shaped like
// internal/coherence's fake but extended with WitnessTriples/ID.
type fakeStore struct {
	mss       []string
	byWitness map[string]map[string]string
	readings  map[string][]model.Reading
}

func (f *fakeStore) AllManuscripts() ([]string, error) { return f.mss, nil }

func (f *fakeStore) AllReadingsOf(ms string) (map[string]string, error) {
	return f.byWitness[ms], nil
}

func (f *fakeStore) ReadingsAt(vu string) ([]model.Reading, error) {
	return f.readings[vu], nil
}

func (f *fakeStore) ID() string { return "fake" }

func (f *fakeStore) WitnessTriples(ms string) ([]model.Reading, error) {
	var out []model.Reading
	for _, vu := range []string{"vu1", "vu2", "vu3"} {
		label := f.byWitness[ms][vu]
		for _, r := range f.readings[vu] {
			if r.Label == label {
				out = append(out, model.Reading{VariantUnit: vu, Label: label, Parent: r.Parent})
			}
		}
	}
	return out, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		mss: []string{"03", "05"},
		byWitness: map[string]map[string]string{
			"W1": {"vu1": "a", "vu2": "a", "vu3": "b"},
			"03": {"vu1": "a", "vu2": "a", "vu3": "b"},
			"05": {"vu1": "b", "vu2": "a", "vu3": "a"},
		},
		readings: map[string][]model.Reading{
			"vu1": {
				{VariantUnit: "vu1", Label: "a", Parent: model.ParentExpr(model.INIT)},
				{VariantUnit: "vu1", Label: "b", Parent: model.ParentExpr("a")},
			},
			"vu2": {
				{VariantUnit: "vu2", Label: "a", Parent: model.ParentExpr(model.INIT)},
			},
			"vu3": {
				{VariantUnit: "vu3", Label: "a", Parent: model.ParentExpr(model.INIT)},
				{VariantUnit: "vu3", Label: "b", Parent: model.ParentExpr("a")},
			},
		},
	}
}

func newResolver(s *fakeStore) stemma.Resolver {
	return stemma.Resolver{
		ParentOf: func(vu, label string) (model.ParentExpr, bool) {
			for _, r := range s.readings[vu] {
				if r.Label == label {
					return r.Parent, true
				}
			}
			return "", false
		},
	}
}

func TestEngineRunProducesRankedCSV(t *testing.T) {
	s := newFakeStore()
	bound, err := parentsearch.ParseConnectivity("499")
	if err != nil {
		t.Fatalf("ParseConnectivity: %v", err)
	}

	dir := t.TempDir()
	e := Engine{
		Store:        s,
		Resolver:     newResolver(s),
		Connectivity: bound,
		OutputDir:    dir,
	}

	path, err := e.Run("W1", -1, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if filepath.Base(path) != "W1.csv" {
		t.Errorf("output path = %s, want basename W1.csv", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	header := records[0]
	wantHeader := []string{"Vorf", "Vorfanz", "Stellen", "Post", "Fragl", "Offen", "Hinweis", "sum_rank", "ranks", "vus_post"}
	if len(header) != len(wantHeader) {
		t.Fatalf("header = %v, want %v", header, wantHeader)
	}

	body := records[1:]
	if len(body) != 3 {
		t.Fatalf("expected 3 scored combinations (2 singles + 1 pair), got %d: %v", len(body), body)
	}

	// Column indices: Vorf=0 Vorfanz=1 Stellen=2 Post=3 Fragl=4 Offen=5 Hinweis=6
	first := body[0]
	if first[0] != "03" || first[1] != "1" || first[2] != "3" || first[6] != "<<" {
		t.Errorf("best row = %v, want 03 alone, Vorfanz=1 Stellen=3 Hinweis=<<", first)
	}
	second := body[1]
	if second[1] != "2" || second[2] != "3" || second[6] != "<<" {
		t.Errorf("second row = %v, want the size-2 combination also marked <<", second)
	}
	last := body[2]
	if last[0] != "05" || last[6] == "<<" {
		t.Errorf("last row = %v, want 05 alone, unmarked", last)
	}
}

func TestEngineRunSkipsExistingOutput(t *testing.T) {
	s := newFakeStore()
	bound, _ := parentsearch.ParseConnectivity("499")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "W1.csv"), []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed existing file: %v", err)
	}

	e := Engine{Store: s, Resolver: newResolver(s), Connectivity: bound, OutputDir: dir}
	_, err := e.Run("W1", -1, true)
	if err == nil {
		t.Fatal("expected output-collision error")
	}
}
