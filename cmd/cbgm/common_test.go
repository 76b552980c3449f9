package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/criticaltext/cbgm/internal/cberr"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
	"github.com/criticaltext/cbgm/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.LoadRows([]store.Row{
		{Witness: "A", VariantUnit: "B04K01V04/5-7", Label: "a", Text: "ho", Parent: model.ParentExpr(model.INIT)},
		{Witness: "01", VariantUnit: "B04K01V04/5-7", Label: "a", Text: "ho", Parent: model.ParentExpr(model.INIT)},
		{Witness: "03", VariantUnit: "B04K01V04/5-7", Label: "b", Text: "ho de", Parent: model.ParentExpr("a")},
	}))
	return s
}

func TestRequireManuscript(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, requireManuscript(s, "03"))

	err := requireManuscript(s, "99")
	require.Error(t, err)
	e, ok := cberr.As(err)
	require.True(t, ok)
	assert.Equal(t, cberr.KindMissingData, e.Kind)
}

func TestRequireVariantUnit(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, requireVariantUnit(s, "B04K01V04/5-7"))

	err := requireVariantUnit(s, "nope")
	require.Error(t, err)
	_, ok := cberr.As(err)
	assert.True(t, ok)
}

func TestParseConnectivities(t *testing.T) {
	bounds, err := parseConnectivities([]string{"499", "75%"})
	require.NoError(t, err)
	require.Len(t, bounds, 2)
	assert.Equal(t, "499", bounds[0].String())
	assert.Equal(t, "75%", bounds[1].String())

	_, err = parseConnectivities([]string{"not-a-number"})
	assert.Error(t, err)
}

func TestConnectivitySubdir(t *testing.T) {
	bound, err := parentsearch.ParseConnectivity("499")
	require.NoError(t, err)
	assert.Equal(t, "out/c499", connectivitySubdir("out", bound))
}

func TestSanitizeVU(t *testing.T) {
	assert.Equal(t, "B04K01V04_5-7", sanitizeVU("B04K01V04/5-7"))
	assert.Equal(t, "22_20,21_2", sanitizeVU("22/20,21/2"))
}

func TestResolverForClassifiesDirectParent(t *testing.T) {
	s := openTestStore(t)
	resolver := resolverFor(s)
	assert.Equal(t, "PRIOR", resolver.Classify("B04K01V04/5-7", "a", "b").String())
	assert.Equal(t, "POSTERIOR", resolver.Classify("B04K01V04/5-7", "b", "a").String())
}
