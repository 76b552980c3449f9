package combanc

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// sortResultRows orders rows by the documented combinations-of-
// ancestors sort: Stellen desc, Post desc, Offen asc, Fragl asc,
// Vorfanz asc, sum_rank asc.
func sortResultRows(rows []ResultRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Stellen != b.Stellen {
			return a.Stellen > b.Stellen
		}
		if a.Post != b.Post {
			return a.Post > b.Post
		}
		if a.Offen != b.Offen {
			return a.Offen < b.Offen
		}
		if a.Fragl != b.Fragl {
			return a.Fragl < b.Fragl
		}
		if a.Vorfanz != b.Vorfanz {
			return a.Vorfanz < b.Vorfanz
		}
		return a.SumRank < b.SumRank
	})
}

func csvColumns(debug bool) []string {
	base := []string{"Vorf", "Vorfanz", "Stellen", "Post", "Fragl", "Offen", "Hinweis", "sum_rank", "ranks", "vus_post"}
	if debug {
		return append(base, "vus_stellen", "vus_fragl", "vus_offen")
	}
	return base
}

func csvRecord(r ResultRow, debug bool) []string {
	record := []string{
		r.Vorf, strconv.Itoa(r.Vorfanz), strconv.Itoa(r.Stellen), strconv.Itoa(r.Post),
		strconv.Itoa(r.Fragl), strconv.Itoa(r.Offen), r.Hinweis, strconv.Itoa(r.SumRank), r.Ranks,
		r.VUsPost,
	}
	if debug {
		record = append(record, r.VUsStellen, r.VUsFragl, r.VUsOffen)
	}
	return record
}

// writeCSV writes rows to path atomically: a temp file in the same
// directory is written and flushed, then renamed into place, so a
// reader never observes a partial file.
func writeCSV(path string, rows []ResultRow, debug bool) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".combanc-*.csv")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := csv.NewWriter(tmp)
	if err := w.Write(csvColumns(debug)); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range rows {
		if err := w.Write(csvRecord(r, debug)); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
