package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/criticaltext/cbgm/internal/model"
)

// ReadingsAt returns every (label, parent) pair declared at vu.
func (s *Store) ReadingsAt(vu string) ([]model.Reading, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT label, text, parent FROM cbgm WHERE variant_unit = ?`, vu)
	if err != nil {
		return nil, fmt.Errorf("query readings at %s: %w", vu, err)
	}
	defer rows.Close()

	var out []model.Reading
	for rows.Next() {
		var label, text, parent string
		if err := rows.Scan(&label, &text, &parent); err != nil {
			return nil, fmt.Errorf("scan reading at %s: %w", vu, err)
		}
		out = append(out, model.Reading{
			VariantUnit: vu,
			Label:       label,
			Text:        text,
			Parent:      model.ParentExpr(parent),
		})
	}
	return out, rows.Err()
}

// AttestersOf returns the set of witnesses attesting label at vu.
func (s *Store) AttestersOf(vu, label string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT witness FROM cbgm WHERE variant_unit = ? AND label = ?`, vu, label)
	if err != nil {
		return nil, fmt.Errorf("query attesters of %s@%s: %w", label, vu, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan attester of %s@%s: %w", label, vu, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ReadingOf returns the reading label ms attests at vu, and false if
// ms is lacunose there.
func (s *Store) ReadingOf(ms, vu string) (string, bool, error) {
	var label string
	err := s.db.QueryRow(
		`SELECT label FROM cbgm WHERE witness = ? AND variant_unit = ?`, ms, vu).Scan(&label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query reading of %s@%s: %w", ms, vu, err)
	}
	return label, true, nil
}

// AllReadingsOf returns every variant unit ms is extant at, mapped to
// the label it attests there.
func (s *Store) AllReadingsOf(ms string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT variant_unit, label FROM cbgm WHERE witness = ?`, ms)
	if err != nil {
		return nil, fmt.Errorf("query all readings of %s: %w", ms, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var vu, label string
		if err := rows.Scan(&vu, &label); err != nil {
			return nil, fmt.Errorf("scan reading of %s: %w", ms, err)
		}
		out[vu] = label
	}
	return out, rows.Err()
}

// WitnessTriples returns every (variant_unit, label, parent) reading
// ms attests, sorted by the project's canonical variant-unit order
// (combanc.Engine needs this fixed order so that powerset members are
// scored against a stable vu list).
func (s *Store) WitnessTriples(ms string) ([]model.Reading, error) {
	rows, err := s.db.Query(
		`SELECT variant_unit, label, text, parent FROM cbgm WHERE witness = ?`, ms)
	if err != nil {
		return nil, fmt.Errorf("query triples of %s: %w", ms, err)
	}
	defer rows.Close()

	var out []model.Reading
	for rows.Next() {
		var vu, label, text, parent string
		if err := rows.Scan(&vu, &label, &text, &parent); err != nil {
			return nil, fmt.Errorf("scan triple of %s: %w", ms, err)
		}
		out = append(out, model.Reading{
			VariantUnit: vu,
			Label:       label,
			Text:        text,
			Parent:      model.ParentExpr(parent),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return model.NumifyVariantUnit(out[i].VariantUnit).Less(model.NumifyVariantUnit(out[j].VariantUnit))
	})
	return out, nil
}

// AllManuscripts returns every distinct witness in the store,
// excluding the virtual initial-text witness "A".
func (s *Store) AllManuscripts() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT witness FROM cbgm WHERE witness != ?`, model.InitialWS)
	if err != nil {
		return nil, fmt.Errorf("query all manuscripts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan manuscript: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// AllVariantUnits returns every distinct variant unit, sorted by the
// project's canonical numeric ordering.
func (s *Store) AllVariantUnits() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT variant_unit FROM cbgm`)
	if err != nil {
		return nil, fmt.Errorf("query all variant units: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var vu string
		if err := rows.Scan(&vu); err != nil {
			return nil, fmt.Errorf("scan variant unit: %w", err)
		}
		out = append(out, vu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.SortVariantUnits(out), nil
}
