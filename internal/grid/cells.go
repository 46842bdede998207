package grid

// RenderHeader renders col's header cell.
func (g *Grid[R, K]) RenderHeader(col *CalculatedColumn[R]) string {
	props := HeaderProps[R]{Column: col, SortDirection: g.SortDirectionOf(col.Key)}
	if col.Key == SelectColumnKey && g.opts.RowKeyGetter != nil {
		props.AllRowsSelected = g.AllRowsSelected()
	}
	return col.HeaderRenderer(props)
}

// RenderCell renders the cell of col on the flattened row rowIdx, using the
// group formatter on group headers.
func (g *Grid[R, K]) RenderCell(rowIdx int, col *CalculatedColumn[R]) string {
	display := g.DisplayRows()
	if rowIdx < 0 || rowIdx >= len(display) {
		return ""
	}
	row := display[rowIdx]
	selected := g.IsCellSelected(Position{Idx: col.Idx, RowIdx: rowIdx})
	if row.IsGroup() {
		props := GroupFormatterProps[R]{
			Column:         col,
			Group:          row.Group,
			RowIdx:         rowIdx,
			IsCellSelected: selected,
		}
		if g.opts.RowKeyGetter != nil {
			props.IsRowSelected = g.IsGroupSelected(row.Group)
		}
		return col.GroupFormatter(props)
	}
	return col.Formatter(FormatterProps[R]{
		Column:         col,
		Row:            row.Row,
		RowIdx:         rowIdx,
		IsCellSelected: selected,
		IsRowSelected:  g.rowSelected(row.Row),
	})
}

// CellText is the plain text of a cell, as used for clipboard export.
func (g *Grid[R, K]) CellText(pos Position) string {
	cols := g.Columns()
	if pos.Idx < 0 || pos.Idx >= len(cols) {
		return ""
	}
	return g.RenderCell(pos.RowIdx, &cols[pos.Idx])
}

// RowAttributes mirrors the accessibility attributes a row would carry:
// its 1-based index and, on group headers, level, position and size.
type RowAttributes struct {
	RowIndex int
	Level    int
	PosInSet int
	SetSize  int
	Expanded *bool
	Selected bool
}

// RowAttributesAt describes the flattened row rowIdx.
func (g *Grid[R, K]) RowAttributesAt(rowIdx int) RowAttributes {
	display := g.DisplayRows()
	attrs := RowAttributes{RowIndex: rowIdx + 1}
	if rowIdx < 0 || rowIdx >= len(display) {
		return attrs
	}
	row := display[rowIdx]
	if row.IsGroup() {
		attrs.Level = row.Group.Level + 1
		attrs.PosInSet = row.Group.PosInSet + 1
		attrs.SetSize = row.Group.SetSize
		attrs.Expanded = Bool(row.Group.IsExpanded)
		if g.opts.RowKeyGetter != nil {
			attrs.Selected = g.IsGroupSelected(row.Group)
		}
		return attrs
	}
	attrs.Selected = g.rowSelected(row.Row)
	return attrs
}
