package grid

import "fmt"

// SelectedPosition returns the cursor.
func (g *Grid[R, K]) SelectedPosition() SelectedPosition[R] { return g.selected }

// SelectedColumn returns the column under the cursor, if any.
func (g *Grid[R, K]) SelectedColumn() (*CalculatedColumn[R], bool) {
	idx := g.selected.Idx
	cols := g.Columns()
	if idx < 0 || idx >= len(cols) {
		return nil, false
	}
	return &cols[idx], true
}

// IsCellSelected reports whether pos is the cursor.
func (g *Grid[R, K]) IsCellSelected(pos Position) bool {
	return g.selected.Position == pos
}

// IsEditing reports whether an editor is open.
func (g *Grid[R, K]) IsEditing() bool { return g.selected.Mode == ModeEdit }

// SelectCell moves the cursor to pos. Out-of-bounds positions are ignored.
// A pending edit is committed first. With openEditor the cell enters edit
// mode when it is editable.
func (g *Grid[R, K]) SelectCell(pos Position, openEditor bool) {
	if !g.isCellWithinBounds(pos) {
		return
	}
	g.CommitEditorChanges()
	if !g.isCellWithinBounds(pos) {
		// The commit replaced rows and pos no longer exists.
		return
	}

	if openEditor && g.isCellEditable(pos) {
		row := g.DisplayRows()[pos.RowIdx].Row
		g.selected = SelectedPosition[R]{Position: pos, Mode: ModeEdit, Row: row, OriginalRow: row}
	} else {
		g.selected = SelectedPosition[R]{Position: pos, Mode: ModeSelect}
	}
	g.drag = FillDrag{}
	g.outside.Cancel()
	g.ScrollToCell(pos)
	g.notifySelectedCell()
}

// CommitEditorChanges writes the staged row back when it differs from the
// row the editor opened with.
func (g *Grid[R, K]) CommitEditorChanges() {
	sel := g.selected
	if sel.Mode != ModeEdit || sel.Row == sel.OriginalRow {
		return
	}
	col, ok := g.SelectedColumn()
	if !ok || col.Editor == nil {
		return
	}
	rawIdx := g.rawRowIdx(sel.RowIdx)
	if rawIdx < 0 || rawIdx >= len(g.rows) {
		return
	}
	updated := append([]R(nil), g.rows...)
	updated[rawIdx] = sel.Row
	g.selected.OriginalRow = sel.Row
	g.emitRowsChange(updated, RowsChangeData{Indexes: []int{rawIdx}, ColumnKey: col.Key})
}

// CloseEditor returns to select mode at the same position and drops any
// uncommitted edit.
func (g *Grid[R, K]) CloseEditor() {
	if g.selected.Mode == ModeSelect {
		return
	}
	g.selected = SelectedPosition[R]{Position: g.selected.Position, Mode: ModeSelect}
	g.outside.Cancel()
}

// UpdateEditorRow stages row as the edited value. With commit the change is
// written back and the editor closes.
func (g *Grid[R, K]) UpdateEditorRow(row R, commit bool) {
	if g.selected.Mode != ModeEdit {
		return
	}
	g.selected.Row = row
	if commit {
		g.CommitEditorChanges()
		g.CloseEditor()
	}
}

// EditorValue is the text the selected column's editor starts from.
func (g *Grid[R, K]) EditorValue() (string, bool) {
	col, ok := g.SelectedColumn()
	if !ok || g.selected.Mode != ModeEdit || col.Editor == nil {
		return "", false
	}
	return col.Editor.EditValue(g.selected.Row, col.Key), true
}

// ApplyEditorValue runs the column editor on value and stages the result.
// Text equal to the original cell leaves the row untouched.
func (g *Grid[R, K]) ApplyEditorValue(value string, commit bool) error {
	col, ok := g.SelectedColumn()
	if !ok || g.selected.Mode != ModeEdit || col.Editor == nil {
		return nil
	}
	original := g.selected.OriginalRow
	row := original
	if value != col.Editor.EditValue(original, col.Key) {
		next, err := col.Editor.ApplyValue(original, col.Key, value)
		if err != nil {
			return fmt.Errorf("edit %s: %w", col.Key, err)
		}
		row = next
	}
	g.UpdateEditorRow(row, commit)
	return nil
}

// ClickOutsideEditor schedules the deferred outside-click check and returns
// its ticket, or zero when no editor is open.
func (g *Grid[R, K]) ClickOutsideEditor() uint64 {
	if g.selected.Mode != ModeEdit {
		return 0
	}
	return g.outside.Schedule()
}

// ClickInsideEditor cancels a pending outside-click check.
func (g *Grid[R, K]) ClickInsideEditor() {
	g.outside.Cancel()
}

// ConfirmOutsideClick runs a scheduled check. A current ticket commits and
// closes the editor; stale tickets do nothing.
func (g *Grid[R, K]) ConfirmOutsideClick(ticket uint64) bool {
	if !g.outside.Fire(ticket) {
		return false
	}
	g.CommitEditorChanges()
	g.CloseEditor()
	return true
}

// CellClick handles a click on a materialized cell.
func (g *Grid[R, K]) CellClick(pos Position) {
	openEditor := false
	cols := g.Columns()
	if pos.Idx >= 0 && pos.Idx < len(cols) {
		openEditor = cols[pos.Idx].EditorOptions.EditOnClick
	}
	g.bus.SelectCell.Dispatch(SelectCellEvent{Position: pos, OpenEditor: openEditor})
}

// CellDoubleClick selects pos and opens its editor.
func (g *Grid[R, K]) CellDoubleClick(pos Position) {
	g.bus.SelectCell.Dispatch(SelectCellEvent{Position: pos, OpenEditor: true})
}

// GroupRowClick selects the whole group row.
func (g *Grid[R, K]) GroupRowClick(rowIdx int) {
	g.bus.SelectCell.Dispatch(SelectCellEvent{Position: Position{Idx: -1, RowIdx: rowIdx}})
}

// GroupToggleClick expands or collapses a group from its header.
func (g *Grid[R, K]) GroupToggleClick(id string) {
	g.bus.ToggleGroup.Dispatch(id)
}
