package grid

// SelectedRows returns a copy of the selected row keys.
func (g *Grid[R, K]) SelectedRows() map[K]struct{} { return copyMap(g.selectedRows) }

// SetSelectedRows replaces the selected row keys.
func (g *Grid[R, K]) SetSelectedRows(keys map[K]struct{}) {
	g.selectedRows = copyMap(keys)
}

// IsRowSelected reports whether row's key is selected.
func (g *Grid[R, K]) IsRowSelected(row R) bool {
	_, ok := g.selectedRows[g.mustRowKeyGetter()(row)]
	return ok
}

// IsGroupSelected reports whether every child row of group is selected.
func (g *Grid[R, K]) IsGroupSelected(group *GroupRow[R]) bool {
	keyOf := g.mustRowKeyGetter()
	if len(group.ChildRows) == 0 {
		return false
	}
	for _, row := range group.ChildRows {
		if _, ok := g.selectedRows[keyOf(row)]; !ok {
			return false
		}
	}
	return true
}

// AllRowsSelected reports whether every raw row is selected.
func (g *Grid[R, K]) AllRowsSelected() bool {
	keyOf := g.mustRowKeyGetter()
	if len(g.rows) == 0 {
		return false
	}
	for _, row := range g.rows {
		if _, ok := g.selectedRows[keyOf(row)]; !ok {
			return false
		}
	}
	return true
}

// SelectRow checks or unchecks the row at rowIdx. On a group header it
// applies to every child row at once. A shift-checked row also checks the
// leaf rows between it and the previously checked row.
func (g *Grid[R, K]) SelectRow(rowIdx int, checked, isShiftClick bool) {
	keyOf := g.mustRowKeyGetter()
	display := g.DisplayRows()
	if rowIdx < 0 || rowIdx >= len(display) {
		return
	}
	next := copyMap(g.selectedRows)
	if next == nil {
		next = make(map[K]struct{})
	}

	row := display[rowIdx]
	if row.IsGroup() {
		for _, child := range row.Group.ChildRows {
			if checked {
				next[keyOf(child)] = struct{}{}
			} else {
				delete(next, keyOf(child))
			}
		}
		g.emitSelectedRows(next)
		return
	}

	if checked {
		next[keyOf(row.Row)] = struct{}{}
		previous := g.lastSelectedRowIdx
		g.lastSelectedRowIdx = rowIdx
		if isShiftClick && previous != -1 && previous != rowIdx && previous < len(display) {
			step := 1
			if rowIdx < previous {
				step = -1
			}
			for i := previous + step; i != rowIdx; i += step {
				if display[i].IsGroup() {
					continue
				}
				next[keyOf(display[i].Row)] = struct{}{}
			}
		}
	} else {
		delete(next, keyOf(row.Row))
		g.lastSelectedRowIdx = -1
	}
	g.emitSelectedRows(next)
}

// SelectAllRows checks or unchecks every raw row.
func (g *Grid[R, K]) SelectAllRows(checked bool) {
	keyOf := g.mustRowKeyGetter()
	next := copyMap(g.selectedRows)
	if next == nil {
		next = make(map[K]struct{})
	}
	for _, row := range g.rows {
		if checked {
			next[keyOf(row)] = struct{}{}
		} else {
			delete(next, keyOf(row))
		}
	}
	g.emitSelectedRows(next)
}

func (g *Grid[R, K]) emitSelectedRows(next map[K]struct{}) {
	if g.opts.OnSelectedRowsChange != nil {
		g.opts.OnSelectedRowsChange(next)
		return
	}
	g.selectedRows = next
}

// rowSelected is the render-time check; it never panics.
func (g *Grid[R, K]) rowSelected(row R) bool {
	if g.opts.RowKeyGetter == nil {
		return false
	}
	_, ok := g.selectedRows[g.opts.RowKeyGetter(row)]
	return ok
}
