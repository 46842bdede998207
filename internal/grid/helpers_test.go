package grid

import (
	"fmt"
	"testing"
)

type testRow struct {
	id     int
	region string
	team   string
	a      string
	b      string
	c      string
}

func (r *testRow) CellValue(key string) string {
	switch key {
	case "region":
		return r.region
	case "team":
		return r.team
	case "a":
		return r.a
	case "b":
		return r.b
	case "c":
		return r.c
	}
	return ""
}

func (r *testRow) with(key, value string) *testRow {
	cp := *r
	switch key {
	case "region":
		cp.region = value
	case "team":
		cp.team = value
	case "a":
		cp.a = value
	case "b":
		cp.b = value
	case "c":
		cp.c = value
	}
	return &cp
}

type textEditor struct{}

func (textEditor) EditValue(row *testRow, key string) string { return row.CellValue(key) }

func (textEditor) ApplyValue(row *testRow, key, value string) (*testRow, error) {
	return row.with(key, value), nil
}

func makeRows(n int) []*testRow {
	rows := make([]*testRow, n)
	for i := range rows {
		rows[i] = &testRow{
			id: i,
			a:  fmt.Sprintf("a%d", i),
			b:  fmt.Sprintf("b%d", i),
			c:  fmt.Sprintf("c%d", i),
		}
	}
	return rows
}

func abcColumns() []Column[*testRow] {
	return []Column[*testRow]{
		{Key: "a", Name: "A", Editor: textEditor{}},
		{Key: "b", Name: "B", Editor: textEditor{}},
		{Key: "c", Name: "C", Editor: textEditor{}},
	}
}

func rowID(r *testRow) int { return r.id }

// newTestGrid builds a 300x110 grid with 10-unit rows: three 100-wide
// columns and ten visible rows.
func newTestGrid(t *testing.T, rows []*testRow, configure func(*Options[*testRow, int])) *Grid[*testRow, int] {
	t.Helper()
	opts := Options[*testRow, int]{
		Columns:         abcColumns(),
		Rows:            rows,
		RowKeyGetter:    rowID,
		RowHeight:       10,
		HeaderRowHeight: 10,
		Width:           300,
		Height:          110,
		MinColumnWidth:  10,
	}
	if configure != nil {
		configure(&opts)
	}
	return New(opts)
}

func regionGrouper() RowGrouper[*testRow] {
	return GroupBy(func(r *testRow, key string) string { return r.CellValue(key) })
}

func assertPosition(t *testing.T, g *Grid[*testRow, int], idx, rowIdx int) {
	t.Helper()
	got := g.SelectedPosition().Position
	if got != (Position{Idx: idx, RowIdx: rowIdx}) {
		t.Fatalf("selected position: got {idx:%d rowIdx:%d}, want {idx:%d rowIdx:%d}", got.Idx, got.RowIdx, idx, rowIdx)
	}
}

func key(k Key) KeyEvent { return KeyEvent{Key: k} }

func ctrl(r rune) KeyEvent { return KeyEvent{Key: KeyRune, Rune: r, Ctrl: true} }
