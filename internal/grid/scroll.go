package grid

// ScrollOffset returns the current scroll position.
func (g *Grid[R, K]) ScrollOffset() (top, left int) { return g.scrollTop, g.scrollLeft }

// SetSize changes the viewport size.
func (g *Grid[R, K]) SetSize(width, height int) {
	g.width = maxInt(0, width)
	g.height = maxInt(0, height)
	g.clampScroll()
}

// Scroll moves the viewport, clamped to the content.
func (g *Grid[R, K]) Scroll(top, left int) {
	g.scrollTop = top
	g.scrollLeft = left
	g.clampScroll()
}

// ScrollBy moves the viewport relative to its current position.
func (g *Grid[R, K]) ScrollBy(dTop, dLeft int) {
	g.Scroll(g.scrollTop+dTop, g.scrollLeft+dLeft)
}

// TotalHeight is the height of all data rows.
func (g *Grid[R, K]) TotalHeight() int { return g.RowCount() * g.opts.RowHeight }

func (g *Grid[R, K]) clampScroll() {
	maxTop := maxInt(0, g.TotalHeight()-g.ClientHeight())
	maxLeft := maxInt(0, g.Metrics().TotalColumnWidth-g.width)
	g.scrollTop = minInt(maxInt(0, g.scrollTop), maxTop)
	g.scrollLeft = minInt(maxInt(0, g.scrollLeft), maxLeft)
}

// ScrollToRow puts rowIdx at the top of the viewport.
func (g *Grid[R, K]) ScrollToRow(rowIdx int) {
	if !g.isRowIdxWithinBounds(rowIdx) {
		return
	}
	g.Scroll(rowIdx*g.opts.RowHeight, g.scrollLeft)
}

// ScrollToColumn brings a non-frozen column fully into view.
func (g *Grid[R, K]) ScrollToColumn(idx int) {
	m := g.Metrics()
	if idx <= m.LastFrozenColumnIndex || idx >= len(m.Columns) {
		return
	}
	col := m.Columns[idx]
	switch {
	case col.Left < g.scrollLeft+m.TotalFrozenColumnWidth:
		g.Scroll(g.scrollTop, col.Left-m.TotalFrozenColumnWidth)
	case col.Right() > g.scrollLeft+g.width:
		g.Scroll(g.scrollTop, col.Right()-g.width)
	}
}

// ScrollToCell scrolls the least amount needed to show pos.
func (g *Grid[R, K]) ScrollToCell(pos Position) {
	if g.isRowIdxWithinBounds(pos.RowIdx) {
		top := pos.RowIdx * g.opts.RowHeight
		bottom := top + g.opts.RowHeight
		switch {
		case top < g.scrollTop:
			g.Scroll(top, g.scrollLeft)
		case bottom > g.scrollTop+g.ClientHeight():
			g.Scroll(bottom-g.ClientHeight(), g.scrollLeft)
		}
	}
	if pos.Idx >= 0 {
		g.ScrollToColumn(pos.Idx)
	}
}
