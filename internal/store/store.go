// Package store provides the normalized, indexed data store of
// witness/variant-unit/reading attestation records that underlies
// every other CBGM component.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/criticaltext/cbgm/internal/model"
)

// Store wraps a DuckDB connection holding the canonical `cbgm` table:
// one row per (witness, variant_unit, reading label) attestation,
// plus the reading's surface text and parent expression.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB-backed store at path. An empty path
// opens an in-memory database, mirroring the teacher's cache-store
// convention.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for callers that need to run SQL
// against the store directly.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ID returns a stable identity for this store, used as half of the
// genealogical-coherence disk-cache key. A file-backed store is
// identified by its path; an in-memory store has no durable identity
// and always reports "memory" (callers should not rely on cross-process
// cache hits for in-memory stores).
func (s *Store) ID() string {
	if s.path == "" {
		return "memory"
	}
	return s.path
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cbgm (
		witness      VARCHAR,
		variant_unit VARCHAR,
		label        VARCHAR,
		text         VARCHAR,
		parent       VARCHAR
	)`)
	if err != nil {
		return err
	}
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_cbgm_vu ON cbgm(variant_unit)`,
		`CREATE INDEX IF NOT EXISTS idx_cbgm_witness ON cbgm(witness)`,
		`CREATE INDEX IF NOT EXISTS idx_cbgm_label ON cbgm(variant_unit, label)`,
		`CREATE INDEX IF NOT EXISTS idx_cbgm_parent ON cbgm(variant_unit, parent)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Row is one attestation record as loaded from an input dataset: a
// witness's reading at a variant unit, plus that reading's shared
// surface text and parent expression.
type Row struct {
	Witness     string
	VariantUnit string
	Label       string
	Text        string
	Parent      model.ParentExpr
}

// Clear removes all rows, used by loaders that reload a dataset into
// an existing store path.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM cbgm`)
	return err
}
