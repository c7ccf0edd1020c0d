package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapline/tapline/row"
	"github.com/tapline/tapline/storage"
)

func TestMemoryStoreInsertAndSelectAll(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateTable("main", []row.Column{{Name: "a", Type: "TEXT"}, {Name: "b", Type: "TEXT"}}))
	require.NoError(t, store.Insert("main", map[string]string{"a": "1", "b": "x"}))
	require.NoError(t, store.Insert("main", map[string]string{"a": "2", "b": "y"}))

	result, err := store.Execute("SELECT * FROM main;")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, result.Labels)
	require.Len(t, result.Rows, 2)
}

func TestMemoryStoreSelectColumnsAndWhere(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateTable("main", []row.Column{{Name: "id", Type: "TEXT"}, {Name: "name", Type: "TEXT"}}))
	require.NoError(t, store.Insert("main", map[string]string{"id": "1", "name": "abc"}))
	require.NoError(t, store.Insert("main", map[string]string{"id": "2", "name": "def"}))

	result, err := store.Execute("SELECT id, name FROM main WHERE id = '2'")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name"}, result.Labels)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "2", result.Rows[0][0].String())
	assert.Equal(t, "def", result.Rows[0][1].String())
}

func TestMemoryStoreOrderByAndLimit(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateTable("main", []row.Column{{Name: "n", Type: "TEXT"}}))
	for _, v := range []string{"3", "1", "2"} {
		require.NoError(t, store.Insert("main", map[string]string{"n": v}))
	}

	result, err := store.Execute("SELECT n FROM main ORDER BY n ASC LIMIT 2")
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "1", result.Rows[0][0].String())
	assert.Equal(t, "2", result.Rows[1][0].String())
}

// S6 — Union columns: missing column renders empty.
func TestMemoryStoreMissingColumnRendersEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateTable("main", []row.Column{{Name: "a", Type: "TEXT"}, {Name: "b", Type: "TEXT"}}))
	require.NoError(t, store.Insert("main", map[string]string{"a": "1"}))
	require.NoError(t, store.Insert("main", map[string]string{"b": "2"}))

	result, err := store.Execute("SELECT a, b FROM main")
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "1", result.Rows[0][0].String())
	assert.Equal(t, "", result.Rows[0][1].String())
	assert.Equal(t, "", result.Rows[1][0].String())
	assert.Equal(t, "2", result.Rows[1][1].String())
}

func TestMemoryStoreExecuteAgainstUnknownTable(t *testing.T) {
	store := storage.NewMemoryStore()
	_, err := store.Execute("SELECT * FROM missing")
	assert.Error(t, err)
}

func TestParseRejectsMalformedQuery(t *testing.T) {
	_, err := storage.Parse("SELECT FROM main")
	assert.Error(t, err)
}
