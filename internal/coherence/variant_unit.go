package coherence

import (
	"fmt"

	"github.com/criticaltext/cbgm/internal/model"
)

// VUStore is the additional store surface WithVariantUnit needs:
// looking up every reading's surface text at a given variant unit.
type VUStore interface {
	Store
	ReadingsAt(vu string) ([]model.Reading, error)
}

// WithVariantUnit extends rows in place with the Reading/Text each W2
// attests at vu. This extension is computed fresh every call and is
// never part of the disk cache (spec.md §4.C).
func WithVariantUnit(s VUStore, rows []Row, vu string) ([]Row, error) {
	readings, err := s.ReadingsAt(vu)
	if err != nil {
		return nil, fmt.Errorf("read readings at %s: %w", vu, err)
	}
	textOf := make(map[string]string, len(readings))
	for _, r := range readings {
		textOf[r.Label] = r.Text
	}

	for i := range rows {
		w2Readings, err := s.AllReadingsOf(rows[i].W2)
		if err != nil {
			return nil, fmt.Errorf("read %s's readings: %w", rows[i].W2, err)
		}
		label, ok := w2Readings[vu]
		rows[i].HasReading = ok
		if ok {
			rows[i].Reading = label
			rows[i].Text = textOf[label]
		}
	}
	return rows, nil
}
