package grid

import (
	"errors"
	"testing"
)

func TestInitialSelection(t *testing.T) {
	g := newTestGrid(t, makeRows(3), nil)
	assertPosition(t, g, -1, -1)

	g = newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) { o.SelectFirstCell = true })
	assertPosition(t, g, 0, 0)
}

func TestSelectCellRejectsOutOfBounds(t *testing.T) {
	for _, mode := range []CellNavigationMode{NavigationNone, NavigationChangeRow} {
		g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) { o.CellNavigationMode = mode })
		g.SelectCell(Position{Idx: 1, RowIdx: 1}, false)

		for _, pos := range []Position{{Idx: 1, RowIdx: -1}, {Idx: 1, RowIdx: 3}, {Idx: 3, RowIdx: 0}, {Idx: -1, RowIdx: 0}} {
			g.SelectCell(pos, false)
			assertPosition(t, g, 1, 1)
		}

		g.SelectCell(Position{Idx: 1, RowIdx: 0}, false)
		g.HandleKey(key(KeyUp))
		assertPosition(t, g, 1, 0)
		g.SelectCell(Position{Idx: 1, RowIdx: 2}, false)
		g.HandleKey(key(KeyDown))
		assertPosition(t, g, 1, 2)
	}
}

func TestArrowRightChangeRow(t *testing.T) {
	g := newTestGrid(t, makeRows(2), func(o *Options[*testRow, int]) { o.CellNavigationMode = NavigationChangeRow })
	g.SelectCell(Position{Idx: 2, RowIdx: 0}, false)
	g.HandleKey(key(KeyRight))
	assertPosition(t, g, 0, 1)

	g.HandleKey(key(KeyLeft))
	assertPosition(t, g, 2, 0)

	// No row after the last one: stays put.
	g.SelectCell(Position{Idx: 2, RowIdx: 1}, false)
	g.HandleKey(key(KeyRight))
	assertPosition(t, g, 2, 1)
}

func TestArrowRightLoopOverRow(t *testing.T) {
	g := newTestGrid(t, makeRows(2), func(o *Options[*testRow, int]) { o.CellNavigationMode = NavigationLoopOverRow })
	for rowIdx := 0; rowIdx < 2; rowIdx++ {
		g.SelectCell(Position{Idx: 2, RowIdx: rowIdx}, false)
		g.HandleKey(key(KeyRight))
		assertPosition(t, g, 0, rowIdx)
		g.HandleKey(key(KeyLeft))
		assertPosition(t, g, 2, rowIdx)
	}
}

func TestArrowRightNoneStopsAtEdge(t *testing.T) {
	g := newTestGrid(t, makeRows(2), nil)
	g.SelectCell(Position{Idx: 2, RowIdx: 0}, false)
	g.HandleKey(key(KeyRight))
	assertPosition(t, g, 2, 0)
}

func TestTabNavigation(t *testing.T) {
	g := newTestGrid(t, makeRows(2), nil)

	// From nothing selected, Tab enters at the first cell and Shift+Tab at
	// the last.
	if !g.HandleKey(key(KeyTab)) {
		t.Fatal("tab into the grid should be handled")
	}
	assertPosition(t, g, 0, 0)

	g = newTestGrid(t, makeRows(2), nil)
	g.HandleKey(KeyEvent{Key: KeyTab, Shift: true})
	assertPosition(t, g, 2, 1)

	// Tab wraps rows even in NONE mode.
	g.SelectCell(Position{Idx: 2, RowIdx: 0}, false)
	g.HandleKey(key(KeyTab))
	assertPosition(t, g, 0, 1)
	g.HandleKey(KeyEvent{Key: KeyTab, Shift: true})
	assertPosition(t, g, 2, 0)

	// Leaving the grid is left to the host.
	g.SelectCell(Position{Idx: 2, RowIdx: 1}, false)
	if g.HandleKey(key(KeyTab)) {
		t.Fatal("tab out of the last cell should not be handled")
	}
	assertPosition(t, g, 2, 1)

	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if g.HandleKey(KeyEvent{Key: KeyTab, Shift: true}) {
		t.Fatal("shift+tab out of the first cell should not be handled")
	}
	assertPosition(t, g, 0, 0)
}

func TestHomeEndPaging(t *testing.T) {
	g := newTestGrid(t, makeRows(30), nil)
	g.SelectCell(Position{Idx: 1, RowIdx: 0}, false)

	g.HandleKey(key(KeyPageDown))
	assertPosition(t, g, 1, 10)
	g.HandleKey(key(KeyEnd))
	assertPosition(t, g, 2, 10)
	g.HandleKey(key(KeyHome))
	assertPosition(t, g, 0, 10)
	g.HandleKey(key(KeyPageUp))
	assertPosition(t, g, 0, 0)
	g.HandleKey(KeyEvent{Key: KeyEnd, Ctrl: true})
	assertPosition(t, g, 2, 29)
	g.HandleKey(KeyEvent{Key: KeyHome, Ctrl: true})
	assertPosition(t, g, 0, 0)

	// Paging past the end is rejected like any out-of-bounds target.
	g.SelectCell(Position{Idx: 0, RowIdx: 25}, false)
	g.HandleKey(key(KeyPageDown))
	assertPosition(t, g, 0, 25)
}

func TestSelectionScrollsIntoView(t *testing.T) {
	g := newTestGrid(t, makeRows(30), nil)
	g.SelectCell(Position{Idx: 0, RowIdx: 29}, false)
	if top, _ := g.ScrollOffset(); top != 200 {
		t.Fatalf("scroll top: got %d, want 200", top)
	}
	g.SelectCell(Position{Idx: 0, RowIdx: 3}, false)
	if top, _ := g.ScrollOffset(); top != 30 {
		t.Fatalf("scroll top: got %d, want 30", top)
	}
}

func TestEditCommitOnEnter(t *testing.T) {
	rows := makeRows(3)
	var gotRows []*testRow
	var gotData RowsChangeData
	calls := 0
	g := newTestGrid(t, rows, func(o *Options[*testRow, int]) {
		o.OnRowsChange = func(r []*testRow, d RowsChangeData) {
			calls++
			gotRows, gotData = r, d
		}
	})

	g.SelectCell(Position{Idx: 1, RowIdx: 1}, true)
	if !g.IsEditing() {
		t.Fatal("expected edit mode")
	}
	if v, ok := g.EditorValue(); !ok || v != "b1" {
		t.Fatalf("editor value: got %q ok=%v", v, ok)
	}
	if err := g.ApplyEditorValue("changed", false); err != nil {
		t.Fatal(err)
	}
	g.HandleKey(key(KeyEnter))

	if g.IsEditing() {
		t.Fatal("enter should close the editor")
	}
	if calls != 1 {
		t.Fatalf("OnRowsChange calls: got %d, want 1", calls)
	}
	if gotRows[1].b != "changed" || gotRows[0] != rows[0] || gotRows[2] != rows[2] {
		t.Fatalf("unexpected rows: %+v", gotRows)
	}
	if rows[1].b != "b1" {
		t.Fatal("caller rows were mutated in place")
	}
	if len(gotData.Indexes) != 1 || gotData.Indexes[0] != 1 || gotData.ColumnKey != "b" {
		t.Fatalf("change data: %+v", gotData)
	}
}

func TestUnchangedEditDoesNotCommit(t *testing.T) {
	calls := 0
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.OnRowsChange = func([]*testRow, RowsChangeData) { calls++ }
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, true)
	if err := g.ApplyEditorValue("a0", false); err != nil {
		t.Fatal(err)
	}
	g.SelectCell(Position{Idx: 0, RowIdx: 1}, false)
	if calls != 0 {
		t.Fatalf("unchanged edit committed %d times", calls)
	}
}

func TestMovingCommitsPendingEdit(t *testing.T) {
	g := newTestGrid(t, makeRows(3), nil)
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, true)
	if err := g.ApplyEditorValue("moved", false); err != nil {
		t.Fatal(err)
	}
	g.SelectCell(Position{Idx: 0, RowIdx: 2}, false)

	if got := g.RawRows()[0].a; got != "moved" {
		t.Fatalf("uncontrolled grid should apply the commit, got %q", got)
	}
	if g.IsEditing() {
		t.Fatal("moving without openEditor should leave edit mode")
	}
}

func TestEscapeDiscardsEdit(t *testing.T) {
	calls := 0
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.OnRowsChange = func([]*testRow, RowsChangeData) { calls++ }
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, true)
	_ = g.ApplyEditorValue("dropped", false)
	g.HandleKey(key(KeyEscape))
	if g.IsEditing() || calls != 0 {
		t.Fatalf("escape should discard: editing=%v calls=%d", g.IsEditing(), calls)
	}
	assertPosition(t, g, 0, 0)
}

func TestTypingOpensEditor(t *testing.T) {
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.Columns[2].Editable = Bool(false)
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if !g.HandleKey(KeyEvent{Key: KeyRune, Rune: 'x'}) || !g.IsEditing() {
		t.Fatal("printable key should open the editor")
	}
	if g.SelectedPosition().Key.Rune != 'x' {
		t.Fatal("opening key not recorded")
	}
	g.HandleKey(key(KeyEscape))

	g.SelectCell(Position{Idx: 2, RowIdx: 0}, false)
	g.HandleKey(KeyEvent{Key: KeyRune, Rune: 'x'})
	if g.IsEditing() {
		t.Fatal("read-only column must not open an editor")
	}
	g.SelectCell(Position{Idx: 2, RowIdx: 0}, true)
	if g.IsEditing() {
		t.Fatal("SelectCell must not open an editor on a read-only column")
	}
}

func TestEditableFunc(t *testing.T) {
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.Columns[0].EditableFunc = func(r *testRow) bool { return r.id%2 == 0 }
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 1}, true)
	if g.IsEditing() {
		t.Fatal("odd rows are read-only")
	}
	g.SelectCell(Position{Idx: 0, RowIdx: 2}, true)
	if !g.IsEditing() {
		t.Fatal("even rows are editable")
	}
}

func TestOnlyTabLeavesEditor(t *testing.T) {
	g := newTestGrid(t, makeRows(3), nil)
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, true)
	if g.HandleKey(key(KeyRight)) {
		t.Fatal("arrow keys belong to the editor")
	}
	assertPosition(t, g, 0, 0)
	_ = g.ApplyEditorValue("tabbed", false)
	g.HandleKey(key(KeyTab))
	assertPosition(t, g, 1, 0)
	if g.RawRows()[0].a != "tabbed" {
		t.Fatal("tab should commit the edit")
	}
}

func TestExternalRowChangeClosesEditor(t *testing.T) {
	rows := makeRows(3)
	calls := 0
	g := newTestGrid(t, rows, func(o *Options[*testRow, int]) {
		o.OnRowsChange = func([]*testRow, RowsChangeData) { calls++ }
	})
	g.SelectCell(Position{Idx: 1, RowIdx: 1}, true)
	_ = g.ApplyEditorValue("pending", false)

	replaced := append([]*testRow(nil), rows...)
	clone := *rows[1]
	replaced[1] = &clone
	g.SetRows(replaced)

	if g.IsEditing() {
		t.Fatal("editor should force-close when its row is replaced")
	}
	assertPosition(t, g, 1, 1)
	if calls != 0 {
		t.Fatalf("no commit expected, got %d OnRowsChange calls", calls)
	}
}

func TestExternalChangeKeepsEditorOnSameRow(t *testing.T) {
	rows := makeRows(3)
	g := newTestGrid(t, rows, nil)
	g.SelectCell(Position{Idx: 1, RowIdx: 1}, true)

	replaced := append([]*testRow(nil), rows...)
	replaced[0] = &testRow{id: 0, a: "other"}
	g.SetRows(replaced)
	if !g.IsEditing() {
		t.Fatal("editor should stay open when only other rows changed")
	}
}

func TestSelectionResetsWhenOutOfBounds(t *testing.T) {
	g := newTestGrid(t, makeRows(3), nil)
	g.SelectCell(Position{Idx: 2, RowIdx: 2}, false)

	g.SetColumns(abcColumns()[:2])
	assertPosition(t, g, -1, -1)

	g.SelectCell(Position{Idx: 1, RowIdx: 2}, false)
	g.SetRows(makeRows(2))
	assertPosition(t, g, -1, -1)
}

func TestEditorClosesWhenColumnBecomesReadOnly(t *testing.T) {
	rows := makeRows(3)
	g := newTestGrid(t, rows, nil)
	g.SelectCell(Position{Idx: 1, RowIdx: 1}, true)
	if err := g.ApplyEditorValue("pending", false); err != nil {
		t.Fatal(err)
	}
	if !g.IsEditing() {
		t.Fatal("editor should be open")
	}

	cols := abcColumns()
	cols[1].Editor = nil
	g.SetColumns(cols)
	if g.IsEditing() {
		t.Fatal("editing a column without an editor must fall back to select mode")
	}
	assertPosition(t, g, 1, 1)

	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if got := g.RawRows()[1].b; got != "b1" {
		t.Fatalf("staged value leaked into the rows: b = %q", got)
	}

	g.SelectCell(Position{Idx: 0, RowIdx: 2}, true)
	cols = abcColumns()
	cols[0].Editable = Bool(false)
	g.SetColumns(cols)
	if g.IsEditing() {
		t.Fatal("editing a column made read-only must fall back to select mode")
	}
}

func TestOutsideClickCommits(t *testing.T) {
	g := newTestGrid(t, makeRows(3), nil)
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, true)
	_ = g.ApplyEditorValue("outside", false)

	first := g.ClickOutsideEditor()
	second := g.ClickOutsideEditor()
	if g.ConfirmOutsideClick(first) {
		t.Fatal("a rescheduled check must cancel the earlier ticket")
	}
	if !g.IsEditing() {
		t.Fatal("stale ticket closed the editor")
	}

	third := g.ClickOutsideEditor()
	g.ClickInsideEditor()
	if g.ConfirmOutsideClick(third) || g.ConfirmOutsideClick(second) {
		t.Fatal("clicking inside should cancel the pending check")
	}

	ticket := g.ClickOutsideEditor()
	if !g.ConfirmOutsideClick(ticket) {
		t.Fatal("current ticket should fire")
	}
	if g.IsEditing() || g.RawRows()[0].a != "outside" {
		t.Fatal("outside click should commit and close")
	}
	if g.ClickOutsideEditor() != 0 {
		t.Fatal("no check is scheduled without an editor")
	}
}

func TestGroupRowKeyboard(t *testing.T) {
	g := newTestGrid(t, regionRows(), func(o *Options[*testRow, int]) {
		o.Columns = append([]Column[*testRow]{{Key: "region"}, {Key: "team"}}, abcColumns()...)
		o.GroupBy = []string{"region", "team"}
		o.RowGrouper = regionGrouper()
	})

	g.SelectCell(Position{Idx: -1, RowIdx: 0}, false)
	assertPosition(t, g, -1, 0)

	// ArrowRight on a collapsed group expands it instead of moving.
	g.HandleKey(key(KeyRight))
	assertPosition(t, g, -1, 0)
	if !g.DisplayRows()[0].Group.IsExpanded || g.RowCount() != 4 {
		t.Fatalf("north should be expanded, rows=%v", displayIDs(g.DisplayRows()))
	}

	// Collapsed nested group: ArrowLeft jumps to the parent header.
	g.SelectCell(Position{Idx: -1, RowIdx: 2}, false)
	if id := g.DisplayRows()[2].Group.ID; id != "north__blue" {
		t.Fatalf("unexpected row 2: %s", id)
	}
	g.HandleKey(key(KeyLeft))
	assertPosition(t, g, -1, 0)

	// ArrowLeft on the expanded parent collapses it.
	g.HandleKey(key(KeyLeft))
	if g.DisplayRows()[0].Group.IsExpanded || g.RowCount() != 2 {
		t.Fatalf("north should collapse, rows=%v", displayIDs(g.DisplayRows()))
	}

	// Group cells never edit.
	g.SelectCell(Position{Idx: 2, RowIdx: 0}, true)
	if g.IsEditing() {
		t.Fatal("group rows are not editable")
	}
}

func TestControlledExpandedGroups(t *testing.T) {
	var requested map[string]bool
	g := newTestGrid(t, regionRows(), func(o *Options[*testRow, int]) {
		o.GroupBy = []string{"region"}
		o.RowGrouper = regionGrouper()
		o.OnExpandedGroupIDsChange = func(ids map[string]bool) { requested = ids }
	})
	g.GroupToggleClick("south")
	if !requested["south"] {
		t.Fatalf("toggle not reported: %v", requested)
	}
	if g.RowCount() != 2 {
		t.Fatal("controlled grid must wait for SetExpandedGroupIDs")
	}
	g.SetExpandedGroupIDs(requested)
	if g.RowCount() != 5 {
		t.Fatalf("row count after expand: %d", g.RowCount())
	}
}

func TestBusRoutesCellClicks(t *testing.T) {
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.Columns[1].EditorOptions.EditOnClick = true
	})
	var seen []SelectCellEvent
	unsub := g.Bus().SelectCell.Subscribe(func(ev SelectCellEvent) { seen = append(seen, ev) })
	defer unsub()

	g.CellClick(Position{Idx: 0, RowIdx: 2})
	assertPosition(t, g, 0, 2)
	if g.IsEditing() {
		t.Fatal("plain click must not edit")
	}
	g.CellClick(Position{Idx: 1, RowIdx: 2})
	if !g.IsEditing() {
		t.Fatal("EditOnClick column should open on click")
	}
	if len(seen) != 2 {
		t.Fatalf("bus observer saw %d events", len(seen))
	}

	g.Close()
	g.CellDoubleClick(Position{Idx: 0, RowIdx: 0})
	assertPosition(t, g, 1, 2)
}

func TestSelectedCellCallback(t *testing.T) {
	var got []Position
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.OnSelectedCellChange = func(p Position) { got = append(got, p) }
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	g.HandleKey(key(KeyDown))
	g.SelectCell(Position{Idx: 9, RowIdx: 0}, false)
	if len(got) != 2 || got[1] != (Position{Idx: 0, RowIdx: 1}) {
		t.Fatalf("callbacks: %+v", got)
	}
}

func TestOnCellKeyDownHandled(t *testing.T) {
	g := newTestGrid(t, makeRows(3), func(o *Options[*testRow, int]) {
		o.Columns[0].EditorOptions.OnCellKeyDown = func(ev KeyEvent) bool { return ev.Rune == 'q' }
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	if !g.HandleKey(KeyEvent{Key: KeyRune, Rune: 'q'}) || g.IsEditing() {
		t.Fatal("OnCellKeyDown should swallow q")
	}
}

func TestEditorErrorsAreWrapped(t *testing.T) {
	g := newTestGrid(t, makeRows(1), func(o *Options[*testRow, int]) {
		o.Columns[0].Editor = failingEditor{}
	})
	g.SelectCell(Position{Idx: 0, RowIdx: 0}, true)
	err := g.ApplyEditorValue("boom", true)
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected wrapped errRejected, got %v", err)
	}
	if !g.IsEditing() {
		t.Fatal("a rejected value keeps the editor open")
	}
}

var errRejected = errors.New("rejected")

type failingEditor struct{}

func (failingEditor) EditValue(row *testRow, key string) string { return row.CellValue(key) }

func (failingEditor) ApplyValue(*testRow, string, string) (*testRow, error) {
	return nil, errRejected
}
