package row

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Store is the storage collaborator contract C5 flushes rows through
// (spec §4.5, §6): create a table with named columns, then insert rows
// one at a time.
type Store interface {
	CreateTable(name string, columns []Column) error
	Insert(table string, values map[string]string) error
}

// Column is one table column as passed to CreateTable.
type Column struct {
	Name string
	Type string
}

// Flush computes the union of keys across rows, creates tableName in
// store with one TEXT column per key (plus a TIMESTAMP column named
// timestampColumn if non-empty), and inserts every row in that fixed
// column order (spec §4.5). now is called once per row when a
// timestamp column is configured, so callers can inject a fixed clock
// in tests.
func Flush(store Store, rows []Row, tableName, timestampColumn string, now func() time.Time) error {
	keys := UnionKeys(rows)

	columns := make([]Column, 0, len(keys)+1)
	for _, k := range keys {
		columns = append(columns, Column{Name: k, Type: "TEXT"})
	}
	if timestampColumn != "" {
		columns = append(columns, Column{Name: timestampColumn, Type: "TIMESTAMP"})
	}

	if err := store.CreateTable(tableName, columns); err != nil {
		return fmt.Errorf("row: create table %q: %w", tableName, err)
	}

	for _, r := range rows {
		values := make(map[string]string, len(columns))
		for _, k := range keys {
			values[k] = r[k]
		}
		if timestampColumn != "" {
			values[timestampColumn] = now().UTC().Format(time.RFC3339)
		}
		if err := store.Insert(tableName, values); err != nil {
			return fmt.Errorf("row: insert into %q: %w", tableName, err)
		}
	}
	return nil
}

// BuildInsertSQL renders the literal INSERT statement a text-based SQL
// engine would receive for one row: values in columns order, with
// single quotes doubled (spec §4.5 step 3). tapline's own storage
// takes typed values directly rather than parsing this text back, so
// Flush does not call it.
func BuildInsertSQL(table string, columns []string, values map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (", table, strings.Join(columns, ", "))
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'%s'", Escape(values[c]))
	}
	b.WriteString(")")
	return b.String()
}

// UnionKeys returns the deterministic (sorted) union of keys across
// rows (spec §3 invariant 4, §4.5 step 1).
func UnionKeys(rows []Row) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Escape doubles single quotes the way a SQL string literal requires
// (spec §4.5 step 3).
func Escape(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
