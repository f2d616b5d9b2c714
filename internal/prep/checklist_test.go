package prep

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/grimoire/internal/catalog"
	"github.com/idilsaglam/grimoire/internal/store/jsonstore"
)

var items = []catalog.Preparation{
	{ID: "arc", Label: "Nomoon Bow (2)"},
	{ID: "casque", Label: "Helmet"},
	{ID: "ortie", Label: "Nettle (50)"},
}

func open(t *testing.T, path string) *Checklist {
	t.Helper()
	c, err := Open(items, jsonstore.Store{Path: path})
	require.NoError(t, err)
	return c
}

func labels(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestSortedPutsUncheckedFirst(t *testing.T) {
	c := open(t, filepath.Join(t.TempDir(), jsonstore.Key))
	require.NoError(t, c.Set("arc", true))

	assert.Equal(t, []string{"casque", "ortie", "arc"}, labels(c.Sorted()))
	checked, total := c.Counts()
	assert.Equal(t, 1, checked)
	assert.Equal(t, 3, total)
	assert.False(t, c.AllChecked())
}

func TestStatePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), jsonstore.Key)
	c := open(t, path)
	for _, it := range items {
		require.NoError(t, c.Set(it.ID, true))
	}
	assert.True(t, c.AllChecked())

	reopened := open(t, path)
	assert.True(t, reopened.AllChecked())

	require.NoError(t, reopened.Set("casque", false))
	e, ok := open(t, path).Lookup("casque")
	require.True(t, ok)
	assert.False(t, e.Checked)
}

func TestSetUnknownID(t *testing.T) {
	c := open(t, filepath.Join(t.TempDir(), jsonstore.Key))
	assert.Error(t, c.Set("nope", true))
}

func TestOpenIgnoresStaleIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), jsonstore.Key)
	require.NoError(t, jsonstore.Store{Path: path}.Save(map[string]bool{"gone": true, "ortie": true}))

	c := open(t, path)
	checked, _ := c.Counts()
	assert.Equal(t, 1, checked)
}
