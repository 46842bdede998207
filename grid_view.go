package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bekirdag/gridview/internal/grid"
	"github.com/bekirdag/gridview/internal/source"
)

type recordGrid = grid.Grid[*source.Record, int64]

type recordColumn = grid.CalculatedColumn[*source.Record]

type hitArea int

const (
	hitNone hitArea = iota
	hitHeader
	hitCell
)

// gridHit is what sits under a screen coordinate inside the grid.
type gridHit struct {
	area   hitArea
	rowIdx int
	col    *recordColumn
	// localX is the offset of the pointer inside the cell.
	localX int
}

func (h gridHit) position() grid.Position {
	if h.col == nil {
		return grid.Position{Idx: -1, RowIdx: h.rowIdx}
	}
	return grid.Position{Idx: h.col.Idx, RowIdx: h.rowIdx}
}

// hitTest maps grid-local coordinates to a header or cell.
func hitTest(g *recordGrid, x, y int) gridHit {
	width, height := g.Size()
	if x < 0 || y < 0 || x >= width || y >= height {
		return gridHit{}
	}
	col, localX := columnAt(g, x)
	if y < 1 {
		if col == nil {
			return gridHit{}
		}
		return gridHit{area: hitHeader, rowIdx: -1, col: col, localX: localX}
	}
	top, _ := g.ScrollOffset()
	rowIdx := top/g.RowHeight() + (y - 1)
	if rowIdx >= g.RowCount() {
		return gridHit{}
	}
	return gridHit{area: hitCell, rowIdx: rowIdx, col: col, localX: localX}
}

func columnAt(g *recordGrid, x int) (*recordColumn, int) {
	m := g.Metrics()
	_, left := g.ScrollOffset()
	for _, col := range g.ViewportColumns() {
		start := col.Left
		if !col.Frozen {
			start -= left
			if x < m.TotalFrozenColumnWidth {
				continue
			}
		}
		if x >= start && x < start+col.Width {
			return col, x - start
		}
	}
	return nil, 0
}

// gridPainter renders the materialized window line by line.
type gridPainter struct {
	g      *recordGrid
	styles styles
	// editor is the rendered in-cell editor, used for the cell in edit mode.
	editor string
}

func (p gridPainter) render() string {
	width, height := p.g.Size()
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := make([]string, 0, height)
	lines = append(lines, p.renderLine(-1))

	w := p.g.Window()
	top, _ := p.g.ScrollOffset()
	clientHeight := p.g.ClientHeight()
	for rowIdx := w.RowOverscanStart; rowIdx <= w.RowOverscanEnd && rowIdx >= 0; rowIdx++ {
		y := rowIdx*p.g.RowHeight() - top
		if y < 0 || y >= clientHeight {
			continue
		}
		lines = append(lines, p.renderLine(rowIdx))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// renderLine renders the header for rowIdx -1 and a data row otherwise.
func (p gridPainter) renderLine(rowIdx int) string {
	width, _ := p.g.Size()
	m := p.g.Metrics()
	_, left := p.g.ScrollOffset()

	var b strings.Builder
	x := 0
	for _, col := range p.g.ViewportColumns() {
		start := col.Left
		clipFrom := 0
		if !col.Frozen {
			start -= left
			if start < m.TotalFrozenColumnWidth {
				clipFrom = m.TotalFrozenColumnWidth - start
			}
		}
		clipTo := col.Width
		if start+clipTo > width {
			clipTo = width - start
		}
		if clipFrom >= clipTo {
			continue
		}
		text, style := p.cell(rowIdx, col)
		segment := sliceCells(fitCell(text, col.Width), clipFrom, clipTo)
		visible := clipTo - clipFrom
		switch {
		case rowIdx >= 0 && visible == col.Width && p.isEditing(rowIdx, col):
			b.WriteString(p.editor)
		case rowIdx >= 0 && clipTo == col.Width && visible > 1 && p.showFillHandle(rowIdx, col):
			b.WriteString(style.Render(sliceCells(segment, 0, visible-1)))
			b.WriteString(p.styles.fillHandle.Render("▪"))
		default:
			b.WriteString(style.Render(segment))
		}
		x = start + clipTo
	}
	if x < width {
		b.WriteString(strings.Repeat(" ", width-x))
	}
	return b.String()
}

func (p gridPainter) isEditing(rowIdx int, col *recordColumn) bool {
	sel := p.g.SelectedPosition()
	return p.g.IsEditing() && sel.RowIdx == rowIdx && sel.Idx == col.Idx
}

func (p gridPainter) showFillHandle(rowIdx int, col *recordColumn) bool {
	sel := p.g.SelectedPosition()
	return sel.RowIdx == rowIdx && sel.Idx == col.Idx && p.g.CanFill()
}

func (p gridPainter) cell(rowIdx int, col *recordColumn) (string, lipgloss.Style) {
	s := p.styles
	if rowIdx < 0 {
		style := s.header
		switch {
		case p.g.SortDirectionOf(col.Key) != grid.SortNone:
			style = s.headerSorted
		case col.IsLastFrozenColumn:
			style = s.headerFrozen
		}
		return p.g.RenderHeader(col), style
	}

	text := p.g.RenderCell(rowIdx, col)
	pos := grid.Position{Idx: col.Idx, RowIdx: rowIdx}
	attrs := p.g.RowAttributesAt(rowIdx)
	sel := p.g.SelectedPosition()
	switch {
	case p.g.IsEditing() && sel.Position == pos:
		return text, s.cellEditing
	case p.g.IsCellSelected(pos):
		return text, s.cellSelected
	case sel.Idx == -1 && sel.RowIdx == rowIdx:
		return text, s.cellSelected
	case p.g.IsCellCopied(pos):
		return text, s.cellCopied
	case p.g.IsDraggedOver(rowIdx) && col.Idx == sel.Idx:
		return text, s.cellDragOver
	case attrs.Selected:
		return text, s.rowSelected
	case attrs.Expanded != nil:
		return text, s.groupRow
	}
	return text, s.cell
}

// fitCell truncates or pads text to exactly width terminal cells.
func fitCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// sliceCells returns the terminal cells [from, to) of s. Wide runes cut by
// either edge become spaces.
func sliceCells(s string, from, to int) string {
	if from <= 0 && runewidth.StringWidth(s) <= to {
		return s
	}
	var b strings.Builder
	pos := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		switch {
		case pos >= to:
		case pos >= from && pos+w <= to:
			b.WriteRune(r)
		default:
			for i := pos; i < pos+w; i++ {
				if i >= from && i < to {
					b.WriteByte(' ')
				}
			}
		}
		pos += w
		if pos >= to {
			break
		}
	}
	return b.String()
}
