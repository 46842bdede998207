// Package source loads tabular data for the grid and writes edits back.
//
// Rows are *Record values. A record is never mutated after it is handed to
// the grid; edits produce a new record through With, so the grid can tell
// a changed row from an unchanged one by pointer identity.
package source

import (
	"strconv"
	"strings"
)

// Record is one row of a Table.
type Record struct {
	ID     int64
	values map[string]string
}

// NewRecord copies values into a new record.
func NewRecord(id int64, values map[string]string) *Record {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Record{ID: id, values: cp}
}

// CellValue returns the text of column key, or "" when the record has no
// such column.
func (r *Record) CellValue(key string) string {
	if r == nil {
		return ""
	}
	return r.values[key]
}

// Values returns a copy of the record's cells.
func (r *Record) Values() map[string]string {
	if r == nil {
		return nil
	}
	cp := make(map[string]string, len(r.values))
	for k, v := range r.values {
		cp[k] = v
	}
	return cp
}

// With returns a copy of r with column key set to value. When the value is
// unchanged r itself is returned.
func (r *Record) With(key, value string) *Record {
	if cur, ok := r.values[key]; ok && cur == value {
		return r
	}
	next := NewRecord(r.ID, r.values)
	next.values[key] = value
	return next
}

// Table is a named set of records sharing one column list.
type Table struct {
	Name    string
	Columns []string
	Records []*Record
}

// Replace swaps old for next. It reports false when old is not in the table.
func (t *Table) Replace(old, next *Record) bool {
	for i, rec := range t.Records {
		if rec == old {
			t.Records[i] = next
			return true
		}
	}
	return false
}

// HasColumn reports whether key is one of the table's columns.
func (t *Table) HasColumn(key string) bool {
	for _, c := range t.Columns {
		if c == key {
			return true
		}
	}
	return false
}

// Compare orders two records by column key. Values that both parse as
// numbers compare numerically; everything else compares case-insensitively.
func Compare(a, b *Record, key string) int {
	av, bv := strings.TrimSpace(a.CellValue(key)), strings.TrimSpace(b.CellValue(key))
	af, aErr := strconv.ParseFloat(av, 64)
	bf, bErr := strconv.ParseFloat(bv, 64)
	if aErr == nil && bErr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	if c := strings.Compare(strings.ToLower(av), strings.ToLower(bv)); c != 0 {
		return c
	}
	return strings.Compare(av, bv)
}

// Paste copies one cell into another record.
func Paste(src *Record, srcKey string, target *Record, targetKey string) *Record {
	return target.With(targetKey, src.CellValue(srcKey))
}

// Fill copies src's value in column key into every target.
func Fill(key string, src *Record, targets []*Record) []*Record {
	value := src.CellValue(key)
	out := make([]*Record, len(targets))
	for i, rec := range targets {
		out[i] = rec.With(key, value)
	}
	return out
}
