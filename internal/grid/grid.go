// Package grid is a headless data grid engine: column layout, row grouping,
// viewport windowing and the selection/edit state machine. Rendering is left
// to the host, which feeds input through Grid methods and draws what
// Window, ViewportColumns and RenderCell report.
//
// A Grid is not safe for concurrent use. Every method runs synchronously on
// the caller's goroutine.
package grid

// Mode is the state of the selected cell.
type Mode int

const (
	ModeSelect Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "SELECT"
}

// Position addresses a cell in the flattened row sequence. Idx -1 addresses
// the whole row and is only valid while rows are grouped.
type Position struct {
	Idx    int
	RowIdx int
}

// SelectedPosition is the grid's single cursor.
type SelectedPosition[R any] struct {
	Position
	Mode Mode
	// Row is the staged value while editing; OriginalRow is the row as it
	// was when the editor opened.
	Row         R
	OriginalRow R
	// Key is the key press that opened the editor, if any.
	Key KeyEvent
}

// RowsChangeData accompanies every OnRowsChange call.
type RowsChangeData struct {
	// Indexes are raw row indexes that were replaced.
	Indexes   []int
	ColumnKey string
}

// PasteFunc merges the copied cell into the target row.
type PasteFunc[R any] func(sourceRow R, sourceColumnKey string, targetRow R, targetColumnKey string) R

// FillFunc computes the filled rows; the result is matched to targetRows by
// position.
type FillFunc[R any] func(columnKey string, sourceRow R, targetRows []R) []R

// Options configure a Grid. Every OnXChange callback turns the matching
// state into caller-owned state: the grid reports the next value and waits
// for the matching setter. When a callback is nil the grid applies the
// change itself.
type Options[R comparable, K comparable] struct {
	Columns      []Column[R]
	Rows         []R
	RowKeyGetter func(row R) K

	// RowHeight defaults to 35, HeaderRowHeight to RowHeight.
	RowHeight       int
	HeaderRowHeight int
	Width           int
	Height          int

	MinColumnWidth       int
	DefaultColumnOptions DefaultColumnOptions[R]
	ColumnWidths         map[string]int
	OnColumnResize       func(columnKey string, width int)

	GroupBy                  []string
	RowGrouper               RowGrouper[R]
	ExpandedGroupIDs         map[string]bool
	OnExpandedGroupIDsChange func(ids map[string]bool)

	SortColumnKey string
	SortDirection SortDirection
	OnSort        func(columnKey string, direction SortDirection)

	Filters         map[string]string
	OnFiltersChange func(filters map[string]string)

	EnableRowSelection   bool
	SelectedRows         map[K]struct{}
	OnSelectedRowsChange func(keys map[K]struct{})

	OnRowsChange         func(rows []R, data RowsChangeData)
	OnSelectedCellChange func(pos Position)
	OnPaste              PasteFunc[R]
	OnFill               FillFunc[R]

	CellNavigationMode CellNavigationMode
	SelectFirstCell    bool
}

const defaultRowHeight = 35

type layoutKey struct {
	columnsRev    int
	widthsRev     int
	groupByRev    int
	viewportWidth int
}

type rowsKey struct {
	rowsRev     int
	groupByRev  int
	expandedRev int
}

// Grid is the engine state for one grid instance.
type Grid[R comparable, K comparable] struct {
	opts Options[R, K]

	rows         []R
	columns      []Column[R]
	columnWidths map[string]int
	groupBy      []string
	expanded     map[string]bool
	selectedRows map[K]struct{}
	filters      map[string]string

	sortColumnKey string
	sortDirection SortDirection

	width      int
	height     int
	scrollTop  int
	scrollLeft int

	columnsRev  int
	widthsRev   int
	groupByRev  int
	rowsRev     int
	expandedRev int

	layoutValid bool
	layoutAt    layoutKey
	metrics     Metrics[R]

	displayValid bool
	displayAt    rowsKey
	display      []DisplayRow[R]

	rawIndexValid bool
	rawIndexAt    int
	rawIndex      map[R]int

	selected           SelectedPosition[R]
	lastSelectedRowIdx int
	copied             *CopiedCell[R]
	drag               FillDrag
	outside            OutsideClick

	bus  *Bus
	stop []func()
}

// New builds a Grid from opts.
func New[R comparable, K comparable](opts Options[R, K]) *Grid[R, K] {
	if opts.RowHeight <= 0 {
		opts.RowHeight = defaultRowHeight
	}
	if opts.HeaderRowHeight <= 0 {
		opts.HeaderRowHeight = opts.RowHeight
	}
	g := &Grid[R, K]{
		opts:               opts,
		rows:               opts.Rows,
		columns:            opts.Columns,
		columnWidths:       copyMap(opts.ColumnWidths),
		groupBy:            append([]string(nil), opts.GroupBy...),
		expanded:           copyMap(opts.ExpandedGroupIDs),
		selectedRows:       copyMap(opts.SelectedRows),
		filters:            copyMap(opts.Filters),
		sortColumnKey:      opts.SortColumnKey,
		sortDirection:      opts.SortDirection,
		width:              opts.Width,
		height:             opts.Height,
		selected:           SelectedPosition[R]{Position: Position{Idx: -1, RowIdx: -1}},
		lastSelectedRowIdx: -1,
		bus:                &Bus{},
	}
	g.stop = append(g.stop,
		g.bus.SelectCell.Subscribe(func(ev SelectCellEvent) {
			g.SelectCell(ev.Position, ev.OpenEditor)
		}),
		g.bus.ToggleGroup.Subscribe(g.ToggleGroup),
	)
	if opts.SelectFirstCell {
		g.SelectCell(Position{Idx: 0, RowIdx: 0}, false)
	}
	return g
}

// Close detaches the grid from its bus.
func (g *Grid[R, K]) Close() {
	for _, stop := range g.stop {
		stop()
	}
	g.stop = nil
}

// Bus is the side channel cells use to reach the grid.
func (g *Grid[R, K]) Bus() *Bus { return g.bus }

// Metrics returns the current column layout.
func (g *Grid[R, K]) Metrics() Metrics[R] {
	key := layoutKey{
		columnsRev:    g.columnsRev,
		widthsRev:     g.widthsRev,
		groupByRev:    g.groupByRev,
		viewportWidth: g.width,
	}
	if !g.layoutValid || key != g.layoutAt {
		g.metrics = CalculateColumns(MetricsInput[R]{
			Columns:        g.columns,
			ColumnWidths:   g.columnWidths,
			ViewportWidth:  g.width,
			MinColumnWidth: g.opts.MinColumnWidth,
			Defaults:       g.opts.DefaultColumnOptions,
			GroupBy:        g.groupBy,
		})
		g.layoutAt = key
		g.layoutValid = true
	}
	return g.metrics
}

// Columns returns the calculated columns in display order.
func (g *Grid[R, K]) Columns() []CalculatedColumn[R] {
	return g.Metrics().Columns
}

// DisplayRows returns the flattened row sequence.
func (g *Grid[R, K]) DisplayRows() []DisplayRow[R] {
	key := rowsKey{rowsRev: g.rowsRev, groupByRev: g.groupByRev, expandedRev: g.expandedRev}
	if !g.displayValid || key != g.displayAt {
		var grouper RowGrouper[R]
		if g.hasGroups() {
			grouper = g.opts.RowGrouper
		}
		g.display = FlattenRows(g.rows, g.groupBy, grouper, g.expanded)
		g.displayAt = key
		g.displayValid = true
	}
	return g.display
}

// RawRows returns the rows as last supplied.
func (g *Grid[R, K]) RawRows() []R { return g.rows }

// RowCount is the length of the flattened row sequence.
func (g *Grid[R, K]) RowCount() int { return len(g.DisplayRows()) }

// RowHeight is the fixed row height.
func (g *Grid[R, K]) RowHeight() int { return g.opts.RowHeight }

// ClientHeight is the height available to data rows.
func (g *Grid[R, K]) ClientHeight() int {
	return maxInt(0, g.height-g.opts.HeaderRowHeight)
}

// Size returns the viewport size.
func (g *Grid[R, K]) Size() (width, height int) { return g.width, g.height }

// Window computes the materialized region for the current scroll offsets.
func (g *Grid[R, K]) Window() Window {
	m := g.Metrics()
	var w Window
	w.RowVisibleStart, w.RowVisibleEnd, w.RowOverscanStart, w.RowOverscanEnd =
		RowWindow(g.RowCount(), g.opts.RowHeight, g.scrollTop, g.ClientHeight())
	w.ColOverscanStart, w.ColOverscanEnd =
		ColumnWindow(m.Columns, m.LastFrozenColumnIndex, m.TotalFrozenColumnWidth, g.scrollLeft, g.width)
	return w
}

// ViewportColumns returns the columns to materialize.
func (g *Grid[R, K]) ViewportColumns() []*CalculatedColumn[R] {
	m := g.Metrics()
	w := g.Window()
	return ViewportColumns(m.Columns, m.LastFrozenColumnIndex, w.ColOverscanStart, w.ColOverscanEnd)
}

// SetRows replaces the raw rows. An open editor whose row changed is closed
// without committing, and a selection that no longer fits is cleared.
func (g *Grid[R, K]) SetRows(rows []R) {
	g.rows = rows
	g.rowsRev++
	g.reconcile()
}

// SetColumns replaces the column declarations.
func (g *Grid[R, K]) SetColumns(columns []Column[R]) {
	g.columns = columns
	g.columnsRev++
	g.reconcile()
}

// SetGroupBy replaces the group-by keys.
func (g *Grid[R, K]) SetGroupBy(keys []string) {
	g.groupBy = append([]string(nil), keys...)
	g.groupByRev++
	g.reconcile()
}

// GroupBy returns the active group-by keys.
func (g *Grid[R, K]) GroupBy() []string { return g.groupBy }

// SetExpandedGroupIDs replaces the expanded group set.
func (g *Grid[R, K]) SetExpandedGroupIDs(ids map[string]bool) {
	g.expanded = copyMap(ids)
	g.expandedRev++
	g.reconcile()
}

// ExpandedGroupIDs returns a copy of the expanded group set.
func (g *Grid[R, K]) ExpandedGroupIDs() map[string]bool { return copyMap(g.expanded) }

// SetCellNavigationMode changes how movement behaves at row edges.
func (g *Grid[R, K]) SetCellNavigationMode(mode CellNavigationMode) {
	g.opts.CellNavigationMode = mode
}

// CellNavigationMode returns the active navigation mode.
func (g *Grid[R, K]) CellNavigationMode() CellNavigationMode { return g.opts.CellNavigationMode }

// ToggleGroup flips the expanded state of the group with the given id.
func (g *Grid[R, K]) ToggleGroup(id string) {
	next := copyMap(g.expanded)
	if next == nil {
		next = make(map[string]bool)
	}
	if next[id] {
		delete(next, id)
	} else {
		next[id] = true
	}
	if g.opts.OnExpandedGroupIDsChange != nil {
		g.opts.OnExpandedGroupIDsChange(next)
		return
	}
	g.SetExpandedGroupIDs(next)
}

// ResizeColumn records a manual width for a resizable column.
func (g *Grid[R, K]) ResizeColumn(columnKey string, width int) bool {
	col, ok := g.columnByKey(columnKey)
	if !ok || !col.Resizable {
		return false
	}
	width = clampColumnWidth(width, col.Column, g.minColumnWidth())
	if g.columnWidths == nil {
		g.columnWidths = make(map[string]int)
	}
	g.columnWidths[columnKey] = width
	g.widthsRev++
	if g.opts.OnColumnResize != nil {
		g.opts.OnColumnResize(columnKey, width)
	}
	g.clampScroll()
	return true
}

// ColumnWidths returns a copy of the manual width overrides.
func (g *Grid[R, K]) ColumnWidths() map[string]int { return copyMap(g.columnWidths) }

func (g *Grid[R, K]) minColumnWidth() int {
	if g.opts.MinColumnWidth > 0 {
		return g.opts.MinColumnWidth
	}
	return DefaultMinColumnWidth
}

func (g *Grid[R, K]) columnByKey(key string) (*CalculatedColumn[R], bool) {
	cols := g.Columns()
	for i := range cols {
		if cols[i].Key == key {
			return &cols[i], true
		}
	}
	return nil, false
}

func (g *Grid[R, K]) hasGroups() bool {
	return len(g.groupBy) > 0 && g.opts.RowGrouper != nil
}

func (g *Grid[R, K]) minColIdx() int {
	if g.hasGroups() {
		return -1
	}
	return 0
}

func (g *Grid[R, K]) isRowIdxWithinBounds(rowIdx int) bool {
	return rowIdx >= 0 && rowIdx < g.RowCount()
}

func (g *Grid[R, K]) isCellWithinBounds(pos Position) bool {
	return g.isRowIdxWithinBounds(pos.RowIdx) && pos.Idx >= g.minColIdx() && pos.Idx < len(g.Columns())
}

func (g *Grid[R, K]) isCellEditable(pos Position) bool {
	if !g.isCellWithinBounds(pos) || pos.Idx < 0 {
		return false
	}
	row := g.DisplayRows()[pos.RowIdx]
	if row.IsGroup() {
		return false
	}
	col := g.Columns()[pos.Idx]
	return col.IsEditable(row.Row)
}

// rawRowIdx maps a flattened row index to its index in the raw rows.
func (g *Grid[R, K]) rawRowIdx(rowIdx int) int {
	if !g.hasGroups() {
		return rowIdx
	}
	display := g.DisplayRows()
	if rowIdx < 0 || rowIdx >= len(display) || display[rowIdx].IsGroup() {
		return -1
	}
	if !g.rawIndexValid || g.rawIndexAt != g.rowsRev {
		g.rawIndex = make(map[R]int, len(g.rows))
		for i, row := range g.rows {
			if _, ok := g.rawIndex[row]; !ok {
				g.rawIndex[row] = i
			}
		}
		g.rawIndexAt = g.rowsRev
		g.rawIndexValid = true
	}
	if i, ok := g.rawIndex[display[rowIdx].Row]; ok {
		return i
	}
	return -1
}

func (g *Grid[R, K]) reconcile() {
	sel := g.selected
	if sel.Mode == ModeEdit {
		display := g.DisplayRows()
		if !g.isCellEditable(sel.Position) || display[sel.RowIdx].Row != sel.OriginalRow {
			g.CloseEditor()
		}
	}
	initial := Position{Idx: -1, RowIdx: -1}
	if g.selected.Position != initial && !g.isCellWithinBounds(g.selected.Position) {
		g.selected = SelectedPosition[R]{Position: initial}
		g.drag = FillDrag{}
		g.notifySelectedCell()
	}
	g.clampScroll()
}

func (g *Grid[R, K]) emitRowsChange(rows []R, data RowsChangeData) {
	if g.opts.OnRowsChange != nil {
		g.opts.OnRowsChange(rows, data)
		return
	}
	g.SetRows(rows)
}

func (g *Grid[R, K]) notifySelectedCell() {
	if g.opts.OnSelectedCellChange != nil {
		g.opts.OnSelectedCellChange(g.selected.Position)
	}
}

func copyMap[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return nil
	}
	out := make(M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
