// Package table holds the in-memory tabular representation and the codecs
// that load it from and write it to csv, tsv and jsonl files.
package table

import (
	"fmt"
	"slices"
	"strconv"
)

// Value is a single cell: nil, string, int64, float64 or bool.
// JSONL input may also carry nested []any and map[string]any values.
type Value = any

// Table is an ordered set of named columns over an ordered set of rows.
// Each row has a stable identity (its index) that survives column appends.
//
// A Table is never mutated after construction; WithColumn returns a copy.
type Table struct {
	columns []string
	data    map[string][]Value
	index   []int
}

// New builds a table from column names and row-oriented values.
// Every row must have exactly len(columns) values.
func New(columns []string, rows [][]Value) (*Table, error) {
	data := make(map[string][]Value, len(columns))
	for _, c := range columns {
		if _, dup := data[c]; dup {
			return nil, fmt.Errorf("duplicate column %q: %w", c, ErrMalformed)
		}
		data[c] = make([]Value, len(rows))
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), len(columns), ErrMalformed)
		}
		for j, c := range columns {
			data[c][i] = row[j]
		}
	}

	index := make([]int, len(rows))
	for i := range index {
		index[i] = i
	}

	return &Table{
		columns: slices.Clone(columns),
		data:    data,
		index:   index,
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.index)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Index returns the row identities in order.
func (t *Table) Index() []int {
	return slices.Clone(t.index)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]Value, error) {
	vals, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	return slices.Clone(vals), nil
}

// Strings returns the named column as text, one entry per row.
// Null cells become empty strings; numbers and booleans are rendered
// the same way they are written to delimited files.
func (t *Table) Strings(name string) ([]string, error) {
	vals, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = s
			continue
		}
		text, err := formatCell(v)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = text
	}
	return out, nil
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = t.data[c][i]
	}
	return row
}

// WithColumn returns a new table with values appended as column name.
// Values are aligned to rows by position; row identity and order are kept.
// The receiver is not modified.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrColumnExists)
	}
	if len(values) != t.Len() {
		return nil, fmt.Errorf("column %q has %d values for %d rows: %w", name, len(values), t.Len(), ErrLengthMismatch)
	}

	data := make(map[string][]Value, len(t.data)+1)
	for c, vals := range t.data {
		data[c] = vals
	}
	data[name] = slices.Clone(values)

	return &Table{
		columns: append(slices.Clone(t.columns), name),
		data:    data,
		index:   t.index,
	}, nil
}

// String renders a short description for logs and test failures.
func (t *Table) String() string {
	return strconv.Itoa(t.Len()) + " rows x " + strconv.Itoa(len(t.columns)) + " columns"
}
