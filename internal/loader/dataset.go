// Package loader parses the declarative YAML dataset format described
// by the external interfaces contract (§6) and expands it into
// normalized store rows.
package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/store"
)

// Dataset is the top-level shape of an input data file: the full
// manuscript universe (never containing "A"), and a nested mapping
// verse -> variant-unit suffix -> reading records.
type Dataset struct {
	AllMss []string                               `yaml:"all_mss"`
	Struct map[string]map[string][]ReadingRecord `yaml:"struct"`
}

// ReadingRecord is one reading declaration within a variant unit.
// Lacuna records carry only Support (Label is left empty, Parent
// ignored).
type ReadingRecord struct {
	Label   string       `yaml:"label"`
	Text    string       `yaml:"surface_text"`
	Support *SupportSpec `yaml:"support"`
	Parent  string       `yaml:"parent"`
	Lacuna  bool         `yaml:"lacuna"`
}

// SupportSpec is a oneof: either an explicit witness list, or an
// "all manuscripts except {...}" marker resolved against the
// dataset's full manuscript universe at load time.
type SupportSpec struct {
	Witnesses []string `yaml:"witnesses,omitempty"`
	AllExcept []string `yaml:"all_except,omitempty"`
}

// resolve expands the spec into a concrete witness set.
func (s *SupportSpec) resolve(allMss []string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("missing support specification")
	}
	if len(s.Witnesses) > 0 {
		return s.Witnesses, nil
	}

	except := make(map[string]bool, len(s.AllExcept))
	for _, x := range s.AllExcept {
		except[x] = true
	}
	out := make([]string, 0, len(allMss))
	for _, ms := range allMss {
		if !except[ms] {
			out = append(out, ms)
		}
	}
	return out, nil
}

// Parse decodes a YAML document into a Dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, cberr.MissingData(fmt.Errorf("parse dataset: %w", err))
	}
	for _, ms := range ds.AllMss {
		if ms == model.InitialWS {
			return nil, cberr.MissingData(fmt.Errorf("all_mss must not contain %q", model.InitialWS))
		}
	}
	return &ds, nil
}

// Load expands a parsed dataset into normalized store rows. Lacuna
// support contributes no row at all: a witness's absence at a variant
// unit is the sole lacuna signal (mirroring populate_db.py's
// `if reading.lacuna: continue`), matching §4.A's
// reading_of(ms, vu) -> label | none. Per invariant 1, the virtual
// witness "A" is implicitly added to whichever reading at a variant
// unit carries parent INIT.
func Load(ds *Dataset) ([]store.Row, error) {
	allMssSet := make(map[string]bool, len(ds.AllMss))
	for _, ms := range ds.AllMss {
		allMssSet[ms] = true
	}

	var rows []store.Row
	for verse, units := range ds.Struct {
		for suffix, records := range units {
			vu := fmt.Sprintf("%s/%s", verse, suffix)

			seenWitnesses := make(map[string]bool)
			var initLabel, initText string

			for _, rec := range records {
				witnesses, err := rec.Support.resolve(ds.AllMss)
				if err != nil {
					return nil, cberr.MissingData(fmt.Errorf("variant unit %s: %w", vu, err))
				}

				if rec.Lacuna {
					for _, w := range witnesses {
						if seenWitnesses[w] {
							return nil, cberr.Invariant(vu, fmt.Errorf("witness %q appears twice", w))
						}
						seenWitnesses[w] = true
					}
					continue
				}

				if rec.Parent == model.INIT {
					initLabel = rec.Label
					initText = rec.Text
				}

				for _, w := range witnesses {
					if w != model.InitialWS && !allMssSet[w] {
						return nil, cberr.MissingData(fmt.Errorf("variant unit %s: unknown witness %q", vu, w))
					}
					if seenWitnesses[w] {
						return nil, cberr.Invariant(vu, fmt.Errorf("witness %q appears twice", w))
					}
					seenWitnesses[w] = true
					rows = append(rows, store.Row{
						Witness:     w,
						VariantUnit: vu,
						Label:       rec.Label,
						Text:        rec.Text,
						Parent:      model.ParentExpr(rec.Parent),
					})
				}
			}

			if initLabel != "" && !seenWitnesses[model.InitialWS] {
				rows = append(rows, store.Row{
					Witness:     model.InitialWS,
					VariantUnit: vu,
					Label:       initLabel,
					Text:        initText,
					Parent:      model.ParentExpr(model.INIT),
				})
			}
		}
	}
	return rows, nil
}
