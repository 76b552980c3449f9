package store

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/stemma"
)

// LoadRows validates rows against invariants 2-4 of the data model
// (per-vu uniqueness of witness, acyclic local stemma, no self-parent,
// every parent label resolvable at the same vu) and, if they hold,
// bulk-inserts them using the Appender API, following the teacher's
// WriteVariantResults pattern.
func (s *Store) LoadRows(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	if err := validateRows(rows); err != nil {
		return err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "cbgm")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(r.Witness, r.VariantUnit, r.Label, r.Text, r.Parent.String()); err != nil {
			return fmt.Errorf("append row %s@%s: %w", r.Witness, r.VariantUnit, err)
		}
	}
	return appender.Flush()
}

// validateRows checks invariants 2-4 (duplicate witness per vu,
// acyclic DAG, self-parent, unknown parent label) across the rows
// being loaded, grouped by variant unit.
func validateRows(rows []Row) error {
	byVU := make(map[string][]Row)
	for _, r := range rows {
		byVU[r.VariantUnit] = append(byVU[r.VariantUnit], r)
	}

	for vu, vuRows := range byVU {
		labels := make(map[string]bool)
		readings := make([]model.Reading, 0)
		seenLabel := make(map[string]bool)
		witnessSeen := make(map[string]bool)

		for _, r := range vuRows {
			if witnessSeen[r.Witness] {
				return cberr.Invariant(vu, fmt.Errorf("duplicate witness %q at variant unit", r.Witness))
			}
			witnessSeen[r.Witness] = true

			if !seenLabel[r.Label] {
				seenLabel[r.Label] = true
				labels[r.Label] = true
				readings = append(readings, model.Reading{
					VariantUnit: vu,
					Label:       r.Label,
					Text:        r.Text,
					Parent:      r.Parent,
				})
			}
		}

		for _, rd := range readings {
			for _, conj := range rd.Parent.Conjuncts() {
				if conj == rd.Label {
					return cberr.Invariant(vu, fmt.Errorf("reading %q is its own parent", rd.Label))
				}
				if rd.Parent.IsSentinel() {
					continue
				}
				if !labels[conj] {
					return cberr.Invariant(vu, fmt.Errorf("reading %q declares unknown parent label %q", rd.Label, conj))
				}
			}
		}

		if err := stemma.CheckAcyclic(vu, readings); err != nil {
			return cberr.Invariant(vu, err)
		}
	}
	return nil
}
