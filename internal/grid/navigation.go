package grid

import (
	"fmt"
	"strings"
)

// CellNavigationMode controls what happens when movement crosses the first
// or last column.
type CellNavigationMode int

const (
	// NavigationNone stops at the grid edges.
	NavigationNone CellNavigationMode = iota
	// NavigationChangeRow wraps to the neighbouring row.
	NavigationChangeRow
	// NavigationLoopOverRow wraps within the same row.
	NavigationLoopOverRow
)

func (m CellNavigationMode) String() string {
	switch m {
	case NavigationChangeRow:
		return "CHANGE_ROW"
	case NavigationLoopOverRow:
		return "LOOP_OVER_ROW"
	default:
		return "NONE"
	}
}

// ParseCellNavigationMode accepts NONE, CHANGE_ROW and LOOP_OVER_ROW in any
// case, with dashes or underscores.
func ParseCellNavigationMode(s string) (CellNavigationMode, error) {
	switch strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_") {
	case "", "NONE":
		return NavigationNone, nil
	case "CHANGE_ROW":
		return NavigationChangeRow, nil
	case "LOOP_OVER_ROW":
		return NavigationLoopOverRow, nil
	}
	return NavigationNone, fmt.Errorf("unknown cell navigation mode %q", s)
}

// HandleKey feeds a key press to the state machine. It returns false when
// the grid leaves the key to the host, e.g. Tab out of the last cell.
func (g *Grid[R, K]) HandleKey(ev KeyEvent) bool {
	pos := g.selected.Position
	if g.isRowIdxWithinBounds(pos.RowIdx) {
		row := g.DisplayRows()[pos.RowIdx]

		if ev.Ctrl && ev.Key == KeyRune && g.selected.Mode == ModeSelect && !row.IsGroup() && g.isCellWithinBounds(pos) {
			switch ev.Rune {
			case 'c', 'C':
				g.Copy()
				return true
			case 'v', 'V':
				g.Paste()
				return true
			}
		}

		if row.IsGroup() && pos.Idx == -1 &&
			((ev.Key == KeyLeft && row.Group.IsExpanded) || (ev.Key == KeyRight && !row.Group.IsExpanded)) {
			g.ToggleGroup(row.Group.ID)
			return true
		}
	}

	switch {
	case ev.Key == KeyEscape:
		g.copied = nil
		g.drag = FillDrag{}
		g.CloseEditor()
		return true
	case ev.Key.isNavigation():
		return g.navigate(ev)
	default:
		return g.handleCellInput(ev)
	}
}

func (g *Grid[R, K]) navigate(ev KeyEvent) bool {
	if g.selected.Mode == ModeEdit {
		onNavigation := func(ev KeyEvent) bool { return ev.Key == KeyTab }
		if col, ok := g.SelectedColumn(); ok && col.EditorOptions.OnNavigation != nil {
			onNavigation = col.EditorOptions.OnNavigation
		}
		if !onNavigation(ev) {
			return false
		}
	}

	mode := g.opts.CellNavigationMode
	if ev.Key == KeyTab {
		if g.isCellAtBoundary(ev.Shift) {
			g.CommitEditorChanges()
			return false
		}
		if mode == NavigationNone {
			mode = NavigationChangeRow
		}
	}

	next := g.nextPosition(ev)
	if next == g.selected.Position {
		return true
	}
	g.SelectCell(g.wrapPosition(mode, next), false)
	return true
}

// isCellAtBoundary reports whether Tab would leave the grid.
func (g *Grid[R, K]) isCellAtBoundary(shift bool) bool {
	pos := g.selected.Position
	maxColIdx := len(g.Columns()) - 1
	maxRowIdx := g.RowCount() - 1
	if shift {
		return pos.Idx == 0 && pos.RowIdx == 0
	}
	return pos.Idx == maxColIdx && pos.RowIdx == maxRowIdx
}

func (g *Grid[R, K]) nextPosition(ev KeyEvent) Position {
	pos := g.selected.Position
	idx, rowIdx := pos.Idx, pos.RowIdx
	display := g.DisplayRows()
	columnCount := len(g.Columns())
	rowCount := len(display)
	isRowSelected := g.isCellWithinBounds(pos) && idx == -1

	// A collapsed nested group moves focus to its parent header.
	if ev.Key == KeyLeft && isRowSelected {
		if row := display[rowIdx]; row.IsGroup() && !row.Group.IsExpanded && row.Group.HasParent() {
			for i := rowIdx - 1; i >= 0; i-- {
				if parent := display[i]; parent.IsGroup() && parent.Group.ID == row.Group.ParentID {
					return Position{Idx: idx, RowIdx: i}
				}
			}
		}
	}

	switch ev.Key {
	case KeyUp:
		return Position{Idx: idx, RowIdx: rowIdx - 1}
	case KeyDown:
		return Position{Idx: idx, RowIdx: rowIdx + 1}
	case KeyLeft:
		return Position{Idx: idx - 1, RowIdx: rowIdx}
	case KeyRight:
		return Position{Idx: idx + 1, RowIdx: rowIdx}
	case KeyTab:
		if idx == -1 && rowIdx == -1 {
			if ev.Shift {
				return Position{Idx: columnCount - 1, RowIdx: rowCount - 1}
			}
			return Position{Idx: 0, RowIdx: 0}
		}
		if ev.Shift {
			return Position{Idx: idx - 1, RowIdx: rowIdx}
		}
		return Position{Idx: idx + 1, RowIdx: rowIdx}
	case KeyHome:
		if isRowSelected {
			return Position{Idx: idx, RowIdx: 0}
		}
		if ev.Ctrl {
			return Position{Idx: 0, RowIdx: 0}
		}
		return Position{Idx: 0, RowIdx: rowIdx}
	case KeyEnd:
		if isRowSelected {
			return Position{Idx: idx, RowIdx: rowCount - 1}
		}
		if ev.Ctrl {
			return Position{Idx: columnCount - 1, RowIdx: rowCount - 1}
		}
		return Position{Idx: columnCount - 1, RowIdx: rowIdx}
	case KeyPageUp:
		return Position{Idx: idx, RowIdx: rowIdx - g.pageSize()}
	case KeyPageDown:
		return Position{Idx: idx, RowIdx: rowIdx + g.pageSize()}
	}
	return pos
}

func (g *Grid[R, K]) pageSize() int {
	return g.ClientHeight() / g.opts.RowHeight
}

// wrapPosition applies the navigation mode to a candidate position that may
// sit one column past either edge.
func (g *Grid[R, K]) wrapPosition(mode CellNavigationMode, next Position) Position {
	if mode == NavigationNone {
		return next
	}
	columnCount := len(g.Columns())
	rowCount := g.RowCount()
	switch {
	case next.Idx == columnCount:
		if mode == NavigationChangeRow {
			if next.RowIdx != rowCount-1 {
				next.Idx = 0
				next.RowIdx++
			}
		} else {
			next.Idx = 0
		}
	case next.Idx == -1:
		if mode == NavigationChangeRow {
			if next.RowIdx != 0 {
				next.RowIdx--
				next.Idx = columnCount - 1
			}
		} else {
			next.Idx = columnCount - 1
		}
	}
	return next
}

func (g *Grid[R, K]) handleCellInput(ev KeyEvent) bool {
	pos := g.selected.Position
	if !g.isCellWithinBounds(pos) {
		return false
	}
	row := g.DisplayRows()[pos.RowIdx]
	if row.IsGroup() {
		return false
	}

	if g.selected.Mode == ModeEdit {
		if ev.Key == KeyEnter {
			g.CommitEditorChanges()
			g.CloseEditor()
			return true
		}
		return false
	}

	if g.opts.EnableRowSelection && ev.Shift && ev.Key == KeySpace {
		key := g.mustRowKeyGetter()(row.Row)
		_, selected := g.selectedRows[key]
		g.SelectRow(pos.RowIdx, !selected, false)
		return true
	}

	if pos.Idx < 0 {
		return false
	}
	col := g.Columns()[pos.Idx]
	if col.EditorOptions.OnCellKeyDown != nil && col.EditorOptions.OnCellKeyDown(ev) {
		return true
	}
	if g.isCellEditable(pos) && ev.opensEditor() {
		g.selected = SelectedPosition[R]{Position: pos, Mode: ModeEdit, Row: row.Row, OriginalRow: row.Row, Key: ev}
		return true
	}
	return false
}
