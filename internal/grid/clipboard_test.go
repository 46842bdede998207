package grid

import (
	"reflect"
	"testing"
)

func pasteValue(source *testRow, sourceKey string, target *testRow, targetKey string) *testRow {
	value := source.CellValue(sourceKey)
	if target.CellValue(targetKey) == value {
		return target
	}
	return target.with(targetKey, value)
}

func fillValue(columnKey string, source *testRow, targets []*testRow) []*testRow {
	out := make([]*testRow, len(targets))
	for i, r := range targets {
		out[i] = r.with(columnKey, source.CellValue(columnKey))
	}
	return out
}

func TestCopyPaste(t *testing.T) {
	rows := makeRows(3)
	rows[0].a = "x"
	var calls []RowsChangeData
	var got []*testRow
	g := newTestGrid(t, rows, func(o *Options[*testRow, int]) {
		o.OnPaste = pasteValue
		o.OnRowsChange = func(r []*testRow, d RowsChangeData) {
			got = r
			calls = append(calls, d)
		}
	})

	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if !g.HandleKey(ctrl('c')) {
		t.Fatal("ctrl+c not handled")
	}
	if !g.IsCellCopied(Position{Idx: 0, RowIdx: 0}) {
		t.Fatal("copied cell not marked")
	}
	g.SelectCell(Position{Idx: 0, RowIdx: 2}, false)
	if _, ok := g.CopiedCell(); !ok {
		t.Fatal("moving the cursor must keep the copy source")
	}
	g.HandleKey(ctrl('v'))

	if len(calls) != 1 {
		t.Fatalf("OnRowsChange calls: got %d, want 1", len(calls))
	}
	if got[2].a != "x" || got[2].b != "b2" {
		t.Fatalf("pasted row: %+v", got[2])
	}
	if got[0] != rows[0] || got[1] != rows[1] {
		t.Fatal("rows other than the target must be passed through untouched")
	}
	if got[2] == rows[2] || rows[2].a != "a2" {
		t.Fatalf("paste must produce a new row and leave the input alone: %+v", rows[2])
	}
	if g.RawRows()[2] != rows[2] {
		t.Fatal("a controlled grid keeps its rows until SetRows")
	}
	if !reflect.DeepEqual(calls[0], RowsChangeData{Indexes: []int{2}, ColumnKey: "a"}) {
		t.Fatalf("change data: %+v", calls[0])
	}

	// Pasting a value the target already holds is a no-op.
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if g.Paste() {
		t.Fatal("pasting onto an identical value should not report a change")
	}

	g.HandleKey(key(KeyEscape))
	if _, ok := g.CopiedCell(); ok {
		t.Fatal("escape should clear the copy source")
	}
}

func TestPasteRequiresEditableTarget(t *testing.T) {
	calls := 0
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.Columns[1].Editable = Bool(false)
		o.OnPaste = pasteValue
		o.OnRowsChange = func([]*testRow, RowsChangeData) { calls++ }
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	g.Copy()
	g.SelectCell(Position{Idx: 1, RowIdx: 1}, false)
	if g.Paste() || calls != 0 {
		t.Fatal("paste into a read-only column must be ignored")
	}
}

func TestPasteWithoutHandler(t *testing.T) {
	g := newTestGrid(t, makeRows(3), nil)
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if !g.Copy() {
		t.Fatal("copy works without OnPaste")
	}
	g.SelectCell(Position{Idx: 0, RowIdx: 1}, false)
	if g.Paste() {
		t.Fatal("paste needs OnPaste")
	}
}

func TestFillDown(t *testing.T) {
	var got []*testRow
	var data RowsChangeData
	g := newTestGrid(t, makeRows(5), func(o *Options[*testRow, int]) {
		o.OnFill = fillValue
		o.OnRowsChange = func(r []*testRow, d RowsChangeData) { got, data = r, d }
	})
	g.SelectCell(Position{Idx: 1, RowIdx: 1}, false)
	if !g.BeginFill() {
		t.Fatal("fill handle should be available")
	}
	g.DragOverRow(3)
	for rowIdx, want := range []bool{false, false, true, true, false} {
		if g.IsDraggedOver(rowIdx) != want {
			t.Fatalf("IsDraggedOver(%d) = %v", rowIdx, !want)
		}
	}
	if !g.EndFill() {
		t.Fatal("fill reported no change")
	}
	if g.FillDrag().Active {
		t.Fatal("drag still active")
	}
	if !reflect.DeepEqual(data.Indexes, []int{2, 3}) || data.ColumnKey != "b" {
		t.Fatalf("change data: %+v", data)
	}
	if got[2].b != "b1" || got[3].b != "b1" || got[4].b != "b4" || got[0].b != "b0" {
		t.Fatalf("filled rows: %+v %+v %+v", got[2], got[3], got[4])
	}
}

func TestFillUp(t *testing.T) {
	var data RowsChangeData
	g := newTestGrid(t, makeRows(5), func(o *Options[*testRow, int]) {
		o.OnFill = fillValue
		o.OnRowsChange = func(_ []*testRow, d RowsChangeData) { data = d }
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 3}, false)
	g.BeginFill()
	g.DragOverRow(1)
	g.EndFill()
	if !reflect.DeepEqual(data.Indexes, []int{1, 2}) {
		t.Fatalf("filled indexes: %v", data.Indexes)
	}
}

func TestFillToEnd(t *testing.T) {
	g := newTestGrid(t, makeRows(5), func(o *Options[*testRow, int]) { o.OnFill = fillValue })
	g.SelectCell(Position{Idx: 2, RowIdx: 1}, false)
	if !g.FillToEnd() {
		t.Fatal("fill to end reported no change")
	}
	for i, r := range g.RawRows() {
		want := "c1"
		if i == 0 {
			want = "c0"
		}
		if r.c != want {
			t.Fatalf("row %d: got %q, want %q", i, r.c, want)
		}
	}
}

func TestFillToEndGrouped(t *testing.T) {
	rows := regionRows()
	rows[2].a = "x"
	var calls []RowsChangeData
	var g *Grid[*testRow, int]
	g = newTestGrid(t, rows, func(o *Options[*testRow, int]) {
		o.GroupBy = []string{"region"}
		o.RowGrouper = regionGrouper()
		o.ExpandedGroupIDs = map[string]bool{"north": true, "south": true}
		o.OnFill = fillValue
		o.OnRowsChange = func(r []*testRow, d RowsChangeData) {
			calls = append(calls, d)
			g.SetRows(r)
		}
	})
	// g:north r0 r2 r4 g:south r1 r3 r5
	g.SelectCell(Position{Idx: 0, RowIdx: 2}, false)
	if !g.FillToEnd() {
		t.Fatal("fill to end reported no change")
	}
	if want := []int{4, 1, 3, 5}; !reflect.DeepEqual(calls[0].Indexes, want) {
		t.Fatalf("filled raw indexes: got %v, want %v", calls[0].Indexes, want)
	}
	got := g.RawRows()
	for i, want := range []string{"", "x", "x", "x", "x", "x"} {
		if got[i].a != want {
			t.Errorf("row %d: a = %q, want %q", i, got[i].a, want)
		}
	}

	// The filled rows are new values; the fill must find them again.
	g.SelectCell(Position{Idx: 0, RowIdx: 1}, false)
	if !g.FillToEnd() {
		t.Fatal("second fill reported no change")
	}
	if want := []int{2, 4, 1, 3, 5}; !reflect.DeepEqual(calls[1].Indexes, want) {
		t.Fatalf("second fill raw indexes: got %v, want %v", calls[1].Indexes, want)
	}
	for i, r := range g.RawRows() {
		if r.a != "" {
			t.Errorf("row %d: a = %q after refilling with blanks", i, r.a)
		}
	}
}

func TestFillUnavailable(t *testing.T) {
	g := newTestGrid(t, makeRows(3), nil)
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if g.CanFill() || g.BeginFill() {
		t.Fatal("fill needs OnFill")
	}

	g = newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) { o.OnFill = fillValue })
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, true)
	if g.CanFill() {
		t.Fatal("fill is not offered while editing")
	}

	g.CloseEditor()
	g.BeginFill()
	g.DragOverRow(2)
	g.SelectCell(Position{Idx: 1, RowIdx: 0}, false)
	if g.FillDrag().Active {
		t.Fatal("moving the cursor should cancel the drag")
	}
}
