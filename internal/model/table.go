package model

import (
	"github.com/rotisserie/eris"
)

// Record is one submission row: field name to cell.
type Record map[string]Value

// Get returns the cell for field, null when absent.
func (r Record) Get(field string) Value {
	return r[field]
}

// Has reports whether the field is present in the record, null or not.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy of the record. Values are immutable so a
// shallow copy is a full snapshot.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns over a list of records. Columns keeps
// the presentation order; a record may lack cells for some columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NewTable builds a table, rejecting empty or repeated column names.
func NewTable(columns []string, rows []Record) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, eris.Errorf("model: column %d has an empty name", i)
		}
		if seen[c] {
			return nil, eris.Errorf("model: duplicate column %q", c)
		}
		seen[c] = true
	}
	return &Table{Columns: append([]string(nil), columns...), Rows: rows}, nil
}

// TableFromRecords builds a table from loosely-shaped records. Columns named in
// hint come first in hint order; the rest follow alphabetically.
func TableFromRecords(records []map[string]any, hint []string) *Table {
	t := &Table{}
	seen := make(map[string]bool)
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			t.Columns = append(t.Columns, c)
		}
	}
	present := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			present[k] = true
		}
	}
	for _, c := range hint {
		if present[c] {
			add(c)
		}
	}
	for _, c := range sortedKeys(present) {
		add(c)
	}

	t.Rows = make([]Record, len(records))
	for i, rec := range records {
		row := make(Record, len(rec))
		for k, v := range rec {
			row[k] = FromAny(v)
		}
		t.Rows[i] = row
	}
	return t
}

// Has reports whether the table carries the column.
func (t *Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// EnsureColumn appends the column if it is not already present.
func (t *Table) EnsureColumn(column string) {
	if !t.Has(column) {
		t.Columns = append(t.Columns, column)
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the cells of one column in row order.
func (t *Table) Column(column string) []Value {
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Get(column)
	}
	return out
}

// Set writes a cell, registering the column if needed.
func (t *Table) Set(row int, column string, v Value) {
	t.EnsureColumn(column)
	t.Rows[row][column] = v
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Maps converts the table to plain maps in column order, suitable for JSON.
func (t *Table) Maps() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i, r := range t.Rows {
		m := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			m[c] = r.Get(c).Any()
		}
		out[i] = m
	}
	return out
}
