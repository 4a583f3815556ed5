// Package types holds the tables that flow between pipeline stages.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrColumnNotFound is matched by every missing-column failure
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError reports a lookup of a column the table does not carry
type ColumnNotFoundError struct {
	Name      string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Is lets errors.Is(err, ErrColumnNotFound) match
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// Table is the cleaned dataset: numeric value columns keyed by a timestamp
// index. Rows keep source order; the index is neither sorted nor unique.
// Missing cells are NaN.
type Table struct {
	IndexName string
	Index     []time.Time

	columns []string
	values  map[string][]float64
}

// NewTable creates a table with the given index and no value columns
func NewTable(indexName string, index []time.Time) *Table {
	return &Table{
		IndexName: indexName,
		Index:     index,
		values:    make(map[string][]float64),
	}
}

// AddColumn appends a value column. values must have one entry per index row.
func (t *Table) AddColumn(name string, values []float64) error {
	if _, ok := t.values[name]; ok {
		return fmt.Errorf("column %q already present", name)
	}
	if len(values) != len(t.Index) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Index))
	}
	t.columns = append(t.columns, name)
	t.values[name] = values
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Index)
}

// Columns returns the value column names in projection order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is one of the value columns
func (t *Table) HasColumn(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns the values of the named column. The slice is shared with
// the table and must not be modified.
func (t *Table) Column(name string) ([]float64, error) {
	v, ok := t.values[name]
	if !ok {
		return nil, &ColumnNotFoundError{Name: name, Available: t.Columns()}
	}
	return v, nil
}

// Span returns the earliest and latest index values. ok is false for an
// empty table.
func (t *Table) Span() (first, last time.Time, ok bool) {
	if len(t.Index) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t.Index[0], t.Index[0]
	for _, ts := range t.Index[1:] {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	return first, last, true
}
