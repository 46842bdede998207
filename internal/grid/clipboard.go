package grid

// CopiedCell is the source of the next paste. Row is shared with the caller,
// not cloned.
type CopiedCell[R any] struct {
	Row       R
	ColumnKey string
}

// FillDrag tracks a fill-handle drag.
type FillDrag struct {
	Active     bool
	OverRowIdx int
}

// CopiedCell returns the copy source, if any.
func (g *Grid[R, K]) CopiedCell() (CopiedCell[R], bool) {
	if g.copied == nil {
		return CopiedCell[R]{}, false
	}
	return *g.copied, true
}

// IsCellCopied reports whether pos shows the copy source.
func (g *Grid[R, K]) IsCellCopied(pos Position) bool {
	if g.copied == nil || !g.isCellWithinBounds(pos) || pos.Idx < 0 {
		return false
	}
	row := g.DisplayRows()[pos.RowIdx]
	return !row.IsGroup() && row.Row == g.copied.Row && g.Columns()[pos.Idx].Key == g.copied.ColumnKey
}

// Copy records the selected cell as the paste source.
func (g *Grid[R, K]) Copy() bool {
	pos := g.selected.Position
	if !g.isCellWithinBounds(pos) || pos.Idx < 0 {
		return false
	}
	rawIdx := g.rawRowIdx(pos.RowIdx)
	if rawIdx < 0 || rawIdx >= len(g.rows) {
		return false
	}
	g.copied = &CopiedCell[R]{Row: g.rows[rawIdx], ColumnKey: g.Columns()[pos.Idx].Key}
	return true
}

// Paste merges the copied cell into the selected cell through OnPaste.
func (g *Grid[R, K]) Paste() bool {
	if g.opts.OnPaste == nil || g.copied == nil || !g.isCellEditable(g.selected.Position) {
		return false
	}
	pos := g.selected.Position
	rawIdx := g.rawRowIdx(pos.RowIdx)
	if rawIdx < 0 || rawIdx >= len(g.rows) {
		return false
	}
	col := g.Columns()[pos.Idx]
	target := g.rows[rawIdx]
	updatedRow := g.opts.OnPaste(g.copied.Row, g.copied.ColumnKey, target, col.Key)
	if updatedRow == target {
		return false
	}
	updated := append([]R(nil), g.rows...)
	updated[rawIdx] = updatedRow
	g.emitRowsChange(updated, RowsChangeData{Indexes: []int{rawIdx}, ColumnKey: col.Key})
	return true
}

// CanFill reports whether the fill handle is available on the cursor.
func (g *Grid[R, K]) CanFill() bool {
	return g.opts.OnFill != nil && g.selected.Mode == ModeSelect && g.isCellEditable(g.selected.Position)
}

// FillDrag returns the drag state.
func (g *Grid[R, K]) FillDrag() FillDrag { return g.drag }

// BeginFill starts dragging the fill handle from the cursor.
func (g *Grid[R, K]) BeginFill() bool {
	if !g.CanFill() {
		return false
	}
	g.drag = FillDrag{Active: true, OverRowIdx: g.selected.RowIdx}
	return true
}

// DragOverRow records the row under the pointer while dragging.
func (g *Grid[R, K]) DragOverRow(rowIdx int) {
	if !g.drag.Active || !g.isRowIdxWithinBounds(rowIdx) {
		return
	}
	g.drag.OverRowIdx = rowIdx
}

// IsDraggedOver reports whether rowIdx would receive the fill.
func (g *Grid[R, K]) IsDraggedOver(rowIdx int) bool {
	if !g.drag.Active {
		return false
	}
	origin, over := g.selected.RowIdx, g.drag.OverRowIdx
	if origin < over {
		return rowIdx > origin && rowIdx <= over
	}
	return rowIdx >= over && rowIdx < origin
}

// EndFill finishes the drag and fills the rows between the cursor and the
// row under the pointer, origin excluded.
func (g *Grid[R, K]) EndFill() bool {
	if !g.drag.Active {
		return false
	}
	over := g.drag.OverRowIdx
	g.drag = FillDrag{}
	origin := g.selected.RowIdx
	if over == origin {
		return false
	}
	if origin < over {
		return g.fillRows(origin+1, over+1)
	}
	return g.fillRows(over, origin)
}

// FillToEnd fills from the row after the cursor to the last row.
func (g *Grid[R, K]) FillToEnd() bool {
	if !g.CanFill() {
		return false
	}
	return g.fillRows(g.selected.RowIdx+1, g.RowCount())
}

// fillRows fills the flattened rows in [start, end).
func (g *Grid[R, K]) fillRows(start, end int) bool {
	if g.opts.OnFill == nil {
		return false
	}
	pos := g.selected.Position
	sourceIdx := g.rawRowIdx(pos.RowIdx)
	if sourceIdx < 0 || sourceIdx >= len(g.rows) || pos.Idx < 0 {
		return false
	}
	col := g.Columns()[pos.Idx]

	var indexes []int
	var targets []R
	for i := maxInt(start, 0); i < end && i < g.RowCount(); i++ {
		if !g.isCellEditable(Position{Idx: pos.Idx, RowIdx: i}) {
			continue
		}
		rawIdx := g.rawRowIdx(i)
		if rawIdx < 0 {
			continue
		}
		indexes = append(indexes, rawIdx)
		targets = append(targets, g.rows[rawIdx])
	}
	if len(targets) == 0 {
		return false
	}

	filled := g.opts.OnFill(col.Key, g.rows[sourceIdx], targets)
	updated := append([]R(nil), g.rows...)
	var changed []int
	for j, rawIdx := range indexes {
		if j >= len(filled) {
			break
		}
		if filled[j] != g.rows[rawIdx] {
			updated[rawIdx] = filled[j]
			changed = append(changed, rawIdx)
		}
	}
	if len(changed) == 0 {
		return false
	}
	g.emitRowsChange(updated, RowsChangeData{Indexes: changed, ColumnKey: col.Key})
	return true
}
