package grid

import "sort"

// MetricsInput is everything the column layout depends on. Two calls with
// equal inputs produce equal output.
type MetricsInput[R any] struct {
	Columns []Column[R]
	// ColumnWidths holds manual resize overrides by column key.
	ColumnWidths   map[string]int
	ViewportWidth  int
	MinColumnWidth int
	Defaults       DefaultColumnOptions[R]
	GroupBy        []string
}

// Metrics is the result of a column layout pass.
type Metrics[R any] struct {
	Columns                []CalculatedColumn[R]
	LastFrozenColumnIndex  int
	TotalColumnWidth       int
	TotalFrozenColumnWidth int
}

// CalculateColumns resolves widths, order and offsets for in.Columns.
func CalculateColumns[R any](in MetricsInput[R]) Metrics[R] {
	minColumnWidth := in.MinColumnWidth
	if minColumnWidth <= 0 {
		minColumnWidth = DefaultMinColumnWidth
	}

	groupIndex := make(map[string]int, len(in.GroupBy))
	for i, key := range in.GroupBy {
		if _, dup := groupIndex[key]; !dup {
			groupIndex[key] = i
		}
	}

	columns := make([]CalculatedColumn[R], len(in.Columns))
	assigned := make([]bool, len(in.Columns))
	allocatedWidth := 0
	unassignedCount := 0

	for i, col := range in.Columns {
		calc := CalculatedColumn[R]{Column: col}
		_, calc.RowGroup = groupIndex[col.Key]
		if calc.RowGroup || col.Key == SelectColumnKey {
			calc.Frozen = true
		}
		calc.Sortable = in.Defaults.Sortable
		if col.Sortable != nil {
			calc.Sortable = *col.Sortable
		}
		calc.Resizable = in.Defaults.Resizable
		if col.Resizable != nil {
			calc.Resizable = *col.Resizable
		}
		resolveRenderers(&calc, in.Defaults)

		if width, ok := specifiedWidth(col, in.ColumnWidths, in.ViewportWidth); ok {
			calc.Width = clampColumnWidth(width, col, minColumnWidth)
			allocatedWidth += calc.Width
			assigned[i] = true
		} else {
			unassignedCount++
		}
		columns[i] = calc
	}

	// Carry the assigned flag through the sort.
	type entry struct {
		col      CalculatedColumn[R]
		assigned bool
	}
	entries := make([]entry, len(columns))
	for i := range columns {
		entries[i] = entry{col: columns[i], assigned: assigned[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ti, si := columnRank(entries[i].col, groupIndex)
		tj, sj := columnRank(entries[j].col, groupIndex)
		if ti != tj {
			return ti < tj
		}
		return si < sj
	})

	unallocatedColumnWidth := minColumnWidth
	if remaining := in.ViewportWidth - allocatedWidth; unassignedCount > 0 && remaining > 0 {
		if share := remaining / unassignedCount; share > unallocatedColumnWidth {
			unallocatedColumnWidth = share
		}
	}

	out := Metrics[R]{
		Columns:               make([]CalculatedColumn[R], len(entries)),
		LastFrozenColumnIndex: -1,
	}
	left := 0
	for idx, e := range entries {
		col := e.col
		if !e.assigned {
			col.Width = clampColumnWidth(unallocatedColumnWidth, col.Column, minColumnWidth)
		}
		col.Idx = idx
		col.Left = left
		left += col.Width
		out.TotalColumnWidth += col.Width
		if col.Frozen {
			out.LastFrozenColumnIndex = idx
		}
		out.Columns[idx] = col
	}

	if last := out.LastFrozenColumnIndex; last != -1 {
		out.Columns[last].IsLastFrozenColumn = true
		out.TotalFrozenColumnWidth = out.Columns[last].Right()
	}
	return out
}

func columnRank[R any](col CalculatedColumn[R], groupIndex map[string]int) (tier, sub int) {
	if col.Key == SelectColumnKey {
		return 0, 0
	}
	if i, ok := groupIndex[col.Key]; ok {
		return 1, i
	}
	if col.Frozen {
		return 2, 0
	}
	return 3, 0
}

func specifiedWidth[R any](col Column[R], overrides map[string]int, viewportWidth int) (int, bool) {
	if w, ok := overrides[col.Key]; ok {
		return w, true
	}
	return col.Width.resolve(viewportWidth)
}

func clampColumnWidth[R any](width int, col Column[R], minColumnWidth int) int {
	floor := minColumnWidth
	if col.MinWidth > floor {
		floor = col.MinWidth
	}
	if width < floor {
		width = floor
	}
	if col.MaxWidth > 0 && width > col.MaxWidth {
		width = col.MaxWidth
	}
	return width
}
