package row_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapline/tapline/row"
)

type fakeStore struct {
	tables  map[string][]row.Column
	inserts map[string][]map[string]string
	failOn  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string][]row.Column{}, inserts: map[string][]map[string]string{}}
}

func (f *fakeStore) CreateTable(name string, columns []row.Column) error {
	if f.failOn == "create" {
		return errors.New("boom")
	}
	f.tables[name] = columns
	return nil
}

func (f *fakeStore) Insert(table string, values map[string]string) error {
	if f.failOn == "insert" {
		return errors.New("boom")
	}
	f.inserts[table] = append(f.inserts[table], values)
	return nil
}

// S6 — Union columns.
func TestFlushUnionColumns(t *testing.T) {
	store := newFakeStore()
	rows := []row.Row{{"a": "1"}, {"b": "2"}}
	err := row.Flush(store, rows, "main", "", time.Now)
	require.NoError(t, err)

	cols := store.tables["main"]
	require.Len(t, cols, 2)
	assert.Equal(t, "a", cols[0].Name)
	assert.Equal(t, "b", cols[1].Name)

	inserted := store.inserts["main"]
	require.Len(t, inserted, 2)
	assert.Equal(t, "1", inserted[0]["a"])
	assert.Equal(t, "", inserted[0]["b"])
	assert.Equal(t, "", inserted[1]["a"])
	assert.Equal(t, "2", inserted[1]["b"])
}

func TestFlushAddsTimestampColumn(t *testing.T) {
	store := newFakeStore()
	fixed := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	err := row.Flush(store, []row.Row{{"a": "1"}}, "main", "captured_at", func() time.Time { return fixed })
	require.NoError(t, err)

	cols := store.tables["main"]
	require.Len(t, cols, 2)
	assert.Equal(t, "captured_at", cols[1].Name)
	assert.Equal(t, "TIMESTAMP", cols[1].Type)

	assert.Equal(t, "2026-07-29T12:00:00Z", store.inserts["main"][0]["captured_at"])
}

func TestFlushSurfacesStorageErrors(t *testing.T) {
	store := newFakeStore()
	store.failOn = "create"
	err := row.Flush(store, []row.Row{{"a": "1"}}, "main", "", time.Now)
	assert.Error(t, err)
}

func TestUnionKeysDeterministicOrder(t *testing.T) {
	keys := row.UnionKeys([]row.Row{{"z": "1"}, {"a": "2"}, {"m": "3"}})
	assert.Equal(t, []string{"a", "m", "z"}, keys)
}

func TestEscapeDoublesQuotes(t *testing.T) {
	assert.Equal(t, "it''s", row.Escape("it's"))
}

func TestBuildInsertSQL(t *testing.T) {
	sql := row.BuildInsertSQL("main", []string{"a", "b"}, map[string]string{"a": "it's", "b": "x"})
	assert.Equal(t, "INSERT INTO main (a, b) VALUES ('it''s', 'x')", sql)
}
