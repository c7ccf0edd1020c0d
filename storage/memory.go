package storage

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/tapline/tapline/row"
)

// Error is a storage-layer failure; the application treats it as
// fatal (spec §7, kind 3).
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

type table struct {
	columns []row.Column
	order   []uuid.UUID
	data    map[uuid.UUID]map[string]string
}

func columnNames(columns []row.Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// MemoryStore is the concrete, in-process storage collaborator. It
// satisfies row.Store for C5's flush step and additionally executes
// the read-only SQL subset a --query flag may name.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]*table
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: map[string]*table{}}
}

// CreateTable implements row.Store.
func (m *MemoryStore) CreateTable(name string, columns []row.Column) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = &table{columns: columns, data: map[uuid.UUID]map[string]string{}}
	return nil
}

// Insert implements row.Store.
func (m *MemoryStore) Insert(tableName string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[tableName]
	if !ok {
		return &Error{Op: "insert", Err: fmt.Errorf("no such table %q", tableName)}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return &Error{Op: "insert", Err: err}
	}
	rec := make(map[string]string, len(values))
	for k, v := range values {
		rec[k] = v
	}
	t.data[id] = rec
	t.order = append(t.order, id)
	return nil
}

// Execute runs a SELECT statement against the store, honouring WHERE,
// ORDER BY and LIMIT (spec §6).
func (m *MemoryStore) Execute(sql string) (*SelectResult, error) {
	stmt, err := Parse(sql)
	if err != nil {
		return nil, &Error{Op: "execute", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[stmt.Table]
	if !ok {
		return nil, &Error{Op: "execute", Err: fmt.Errorf("no such table %q", stmt.Table)}
	}

	labels := stmt.Columns
	if stmt.All {
		labels = columnNames(t.columns)
	}

	var matched []map[string]string
	for _, id := range t.order {
		rec := t.data[id]
		if stmt.Where == nil || evalWhere(stmt.Where, rec) {
			matched = append(matched, rec)
		}
	}

	if stmt.OrderBy != "" {
		col := stmt.OrderBy
		desc := stmt.Desc
		sort.SliceStable(matched, func(i, j int) bool {
			less := orderLess(matched[i][col], matched[j][col])
			if desc {
				return !less && matched[i][col] != matched[j][col]
			}
			return less
		})
	}

	if stmt.HasLimit && stmt.Limit < len(matched) {
		matched = matched[:stmt.Limit]
	}

	rows := make([][]Value, len(matched))
	for i, rec := range matched {
		cells := make([]Value, len(labels))
		for j, label := range labels {
			cells[j] = NewValue(rec[label])
		}
		rows[i] = cells
	}

	return &SelectResult{Labels: labels, Rows: rows}, nil
}

// orderLess compares two ORDER BY cell values numerically when both
// parse as numbers, falling back to lexicographic string order
// otherwise.
func orderLess(a, b string) bool {
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return af < bf
	}
	return a < b
}
