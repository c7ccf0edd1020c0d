// Package storage implements the storage collaborator spec §1 and §6
// describe as an external, opaque "key-value-backed relational store"
// exposing create_table/insert/execute. It is made concrete here as an
// in-memory relational table keyed by row sink's union-of-keys schema.
package storage

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// DataKey identifies one stored row, mirroring the key-value backing
// the spec's storage contract assumes (its ID is minted per insert,
// never derived from row content).
type DataKey struct {
	TableName string
	ID        uuid.UUID
}

func (k DataKey) String() string { return fmt.Sprintf("%s/%s", k.TableName, k.ID) }

// Value is one result cell; it exposes a string accessor per the
// storage collaborator contract (spec §6).
type Value struct{ s string }

// NewValue wraps a string as a Value.
func NewValue(s string) Value { return Value{s: s} }

// String returns the cell's value.
func (v Value) String() string { return v.s }

// SelectResult is what Execute returns for a SELECT statement: column
// labels and the matching rows, in column order.
type SelectResult struct {
	Labels []string
	Rows   [][]Value
}
