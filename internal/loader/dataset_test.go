package loader

import (
	"testing"

	"github.com/criticaltext/cbgm/internal/model"
)

const sampleYAML = `
all_mss:
  - "01"
  - "03"
  - "P75"
struct:
  B04K01V04:
    "5-7":
      - label: a
        surface_text: "ho"
        parent: INIT
        support:
          witnesses: ["01"]
      - label: b
        surface_text: "ho de"
        parent: a
        support:
          all_except: ["01"]
`

func TestParseAndLoad(t *testing.T) {
	ds, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rows, err := Load(ds)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	byWitness := make(map[string]string)
	for _, r := range rows {
		byWitness[r.Witness] = r.Label
	}

	if byWitness["01"] != "a" {
		t.Errorf("witness 01 label = %q, want a", byWitness["01"])
	}
	if byWitness["03"] != "b" || byWitness["P75"] != "b" {
		t.Errorf("all_except witnesses did not resolve correctly: %v", byWitness)
	}
	if byWitness[model.InitialWS] != "a" {
		t.Errorf("implicit A witness not added to INIT reading: %v", byWitness)
	}
}

func TestParseRejectsAInAllMss(t *testing.T) {
	_, err := Parse([]byte("all_mss: [\"A\"]\nstruct: {}\n"))
	if err == nil {
		t.Fatalf("expected error for all_mss containing A")
	}
}

func TestLoadOmitsLacunoseWitnessRows(t *testing.T) {
	ds, err := Parse([]byte(`
all_mss:
  - "01"
  - "03"
  - "P75"
struct:
  B04K01V04:
    "5-7":
      - label: a
        surface_text: "ho"
        parent: INIT
        support:
          witnesses: ["01", "03"]
      - support:
          witnesses: ["P75"]
        lacuna: true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rows, err := Load(ds)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, r := range rows {
		if r.Witness == "P75" {
			t.Fatalf("lacunose witness P75 produced a row: %+v", r)
		}
	}
}

func TestLoadRejectsDuplicateWitness(t *testing.T) {
	ds, err := Parse([]byte(`
all_mss: ["01"]
struct:
  v1:
    s1:
      - label: a
        parent: INIT
        support:
          witnesses: ["01"]
      - label: b
        parent: a
        support:
          witnesses: ["01"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Load(ds); err == nil {
		t.Fatalf("expected error for duplicate witness across readings")
	}
}
