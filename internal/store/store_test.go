package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/criticaltext/cbgm/internal/model"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "memory", s.ID())
}

func sampleRows() []Row {
	return []Row{
		{Witness: "A", VariantUnit: "B04K01V04/5-7", Label: "a", Text: "ho", Parent: model.ParentExpr(model.INIT)},
		{Witness: "01", VariantUnit: "B04K01V04/5-7", Label: "a", Text: "ho", Parent: model.ParentExpr(model.INIT)},
		{Witness: "03", VariantUnit: "B04K01V04/5-7", Label: "b", Text: "ho de", Parent: model.ParentExpr("a")},
		{Witness: "P75", VariantUnit: "B04K01V04/5-7", Label: "b", Text: "ho de", Parent: model.ParentExpr("a")},
	}
}

func TestLoadAndQuery(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.LoadRows(sampleRows()))

	readings, err := s.ReadingsAt("B04K01V04/5-7")
	require.NoError(t, err)
	assert.Len(t, readings, 2)

	attesters, err := s.AttestersOf("B04K01V04/5-7", "b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"03", "P75"}, attesters)

	label, ok, err := s.ReadingOf("01", "B04K01V04/5-7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", label)

	_, ok, err = s.ReadingOf("99", "B04K01V04/5-7")
	require.NoError(t, err)
	assert.False(t, ok)

	mss, err := s.AllManuscripts()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"01", "03", "P75"}, mss)

	vus, err := s.AllVariantUnits()
	require.NoError(t, err)
	assert.Equal(t, []string{"B04K01V04/5-7"}, vus)
}

func TestReadingOfLacunoseWitnessIsAbsent(t *testing.T) {
	s := openInMemory(t)
	rows := []Row{
		{Witness: "01", VariantUnit: "vu1", Label: "a", Parent: model.ParentExpr(model.INIT)},
	}
	require.NoError(t, s.LoadRows(rows))

	// P75 is lacunose at vu1: no row at all, not a row carrying LAC.
	label, ok, err := s.ReadingOf("P75", "vu1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, label)

	all, err := s.AllReadingsOf("P75")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoadRowsRejectsDuplicateWitness(t *testing.T) {
	s := openInMemory(t)
	rows := []Row{
		{Witness: "01", VariantUnit: "vu1", Label: "a", Parent: model.ParentExpr(model.INIT)},
		{Witness: "01", VariantUnit: "vu1", Label: "b", Parent: model.ParentExpr("a")},
	}
	err := s.LoadRows(rows)
	require.Error(t, err)
}

func TestLoadRowsRejectsSelfParent(t *testing.T) {
	s := openInMemory(t)
	rows := []Row{
		{Witness: "01", VariantUnit: "vu1", Label: "a", Parent: model.ParentExpr("a")},
	}
	err := s.LoadRows(rows)
	require.Error(t, err)
}

func TestLoadRowsRejectsUnknownParent(t *testing.T) {
	s := openInMemory(t)
	rows := []Row{
		{Witness: "01", VariantUnit: "vu1", Label: "a", Parent: model.ParentExpr("zzz")},
	}
	err := s.LoadRows(rows)
	require.Error(t, err)
}

func TestLoadRowsRejectsCycle(t *testing.T) {
	s := openInMemory(t)
	rows := []Row{
		{Witness: "01", VariantUnit: "vu1", Label: "a", Parent: model.ParentExpr("b")},
		{Witness: "03", VariantUnit: "vu1", Label: "b", Parent: model.ParentExpr("a")},
	}
	err := s.LoadRows(rows)
	require.Error(t, err)
}
