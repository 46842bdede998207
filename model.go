package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/kballard/go-shellquote"

	"github.com/bekirdag/gridview/internal/grid"
	"github.com/bekirdag/gridview/internal/layout"
	"github.com/bekirdag/gridview/internal/source"
)

const (
	logsPaneHeight   = 8
	minDetailWidth   = 30
	minGridWidth     = 20
	wheelStep        = 3
	resizeStep       = 2
	doubleClickDelay = 400 * time.Millisecond
)

// dataSource says where rows come from: a sqlite table, a command whose
// output is parsed into rows, or a command imported into a table.
type dataSource struct {
	dbPath  string
	table   string
	command string
	args    []string
	split   source.Split
}

// key identifies the source in the remembered UI state.
func (s dataSource) key() string {
	if s.command != "" {
		return "exec:" + s.commandLine()
	}
	return "db:" + s.dbPath + "#" + s.table
}

func (s dataSource) label() string {
	if s.command != "" {
		return s.commandLine()
	}
	return s.table
}

func (s dataSource) commandLine() string {
	return shellquote.Join(append([]string{s.command}, s.args...)...)
}

type tableLoadedMsg struct {
	table *source.Table
	err   error
}

type saveResultMsg struct {
	table string
	rows  int
	err   error
}

type outsideClickMsg struct{ ticket uint64 }

type keyMap struct {
	quit        key.Binding
	toggleHelp  key.Binding
	toggleInfo  key.Binding
	toggleLogs  key.Binding
	cycleTheme  key.Binding
	reload      key.Binding
	sort        key.Binding
	filter      key.Binding
	group       key.Binding
	widen       key.Binding
	narrow      key.Binding
	selectAll   key.Binding
	toggleRow   key.Binding
	fillDown    key.Binding
	copyCell    key.Binding
	pasteCell   key.Binding
	editCell    key.Binding
	cancelInput key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		toggleInfo: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "row detail"),
		),
		toggleLogs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle logs"),
		),
		cycleTheme: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "cycle theme"),
		),
		reload: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("F5", "reload"),
		),
		sort: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "sort column"),
		),
		filter: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "filter column"),
		),
		group: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "group by column"),
		),
		widen: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("ctrl+→", "widen column"),
		),
		narrow: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("ctrl+←", "narrow column"),
		),
		selectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all rows"),
		),
		toggleRow: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("ctrl+space", "select row"),
		),
		fillDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "fill to end"),
		),
		copyCell: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "copy"),
		),
		pasteCell: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste"),
		),
		editCell: key.NewBinding(
			key.WithKeys("enter", "f2"),
			key.WithHelp("enter", "edit"),
		),
		cancelInput: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.editCell,
		k.sort,
		k.filter,
		k.group,
		k.copyCell,
		k.pasteCell,
		k.toggleInfo,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.editCell, k.cancelInput, k.copyCell, k.pasteCell, k.fillDown},
		{k.sort, k.filter, k.group, k.widen, k.narrow},
		{k.selectAll, k.toggleRow},
		{k.toggleInfo, k.toggleLogs, k.cycleTheme, k.reload},
		{k.toggleHelp, k.quit},
	}
}

type model struct {
	width  int
	height int

	styles  styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	loading bool

	src       dataSource
	layoutCfg *layout.Config
	store     *source.Store
	table     *source.Table
	grid      *recordGrid
	loadErr   error

	editor     textinput.Model
	editorOpen bool
	editorPos  grid.Position

	filterInput  textinput.Model
	filtering    bool
	filterColumn string

	detail      viewport.Model
	showDetail  bool
	detailDirty bool
	logs        *logsPane
	showLogs    bool

	state     *uiState
	telemetry *interactionLog
	jobs      *jobManager
	jobLines  []string
	theme     markdownTheme

	// action names the grid operation in flight so row changes are logged
	// as edits, pastes or fills.
	action   string
	pending  []tea.Cmd
	dragging bool

	lastClickAt  time.Time
	lastClickPos grid.Position

	toastMessage string
	toastExpires time.Time
	toastIsError bool
}

func initialModel(src dataSource, cfg *layout.Config, store *source.Store, state *uiState, telemetry *interactionLog) *model {
	if cfg == nil {
		cfg = &layout.Config{}
	}
	if state == nil {
		state = &uiState{}
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	editor := textinput.New()
	editor.Prompt = ""

	filter := textinput.New()
	filter.Prompt = "filter › "
	filter.Placeholder = "fuzzy match, empty clears"

	theme := markdownThemeFromString(state.Theme)
	if state.Theme == "" && cfg.Theme != "" {
		theme = markdownThemeFromString(cfg.Theme)
	}
	setMarkdownTheme(theme)

	return &model{
		styles:       newStyles(),
		keys:         newKeyMap(),
		help:         help.New(),
		spinner:      spin,
		src:          src,
		layoutCfg:    cfg,
		store:        store,
		editor:       editor,
		filterInput:  filter,
		detail:       viewport.New(0, 0),
		logs:         newLogsPane(),
		state:        state,
		telemetry:    telemetry,
		jobs:         newJobManager(),
		theme:        theme,
		lastClickPos: grid.Position{Idx: -1, RowIdx: -1},
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// loadCmd starts loading the data source: a query for tables, a job for
// commands.
func (m *model) loadCmd() tea.Cmd {
	m.loading = true
	if m.src.command != "" {
		m.jobLines = nil
		return m.jobs.Enqueue(jobRequest{
			title:   m.src.label(),
			command: m.src.command,
			args:    m.src.args,
		})
	}
	store, table := m.store, m.src.table
	return func() tea.Msg {
		if store == nil {
			return tableLoadedMsg{err: errors.New("no data source: pass -db with -table, or -exec")}
		}
		tbl, err := store.Load(table)
		return tableLoadedMsg{table: tbl, err: err}
	}
}

// importCmd parses command output. With a database and table name the rows
// are stored first so that edits persist.
func (m *model) importCmd(lines []string) tea.Cmd {
	name := m.src.table
	if name == "" {
		name = m.src.command
	}
	split, store := m.src.split, m.store
	persist := store != nil && m.src.table != ""
	return func() tea.Msg {
		tbl, err := source.ParseText(name, lines, split)
		if err != nil {
			return tableLoadedMsg{err: err}
		}
		if !persist {
			return tableLoadedMsg{table: tbl}
		}
		if err := store.Import(tbl); err != nil {
			return tableLoadedMsg{err: fmt.Errorf("import %s: %w", name, err)}
		}
		loaded, err := store.Load(name)
		return tableLoadedMsg{table: loaded, err: err}
	}
}

func saveCmd(store *source.Store, table string, columns []string, records []*source.Record) tea.Cmd {
	return func() tea.Msg {
		err := store.Save(table, columns, records)
		return saveResultMsg{table: table, rows: len(records), err: err}
	}
}

func outsideClickCmd(ticket uint64) tea.Cmd {
	return func() tea.Msg { return outsideClickMsg{ticket: ticket} }
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()

	case jobMsg:
		if cmd := m.handleJobMessage(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tableLoadedMsg:
		m.loading = false
		m.handleTableLoaded(msg)

	case saveResultMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Save failed: %v", msg.err))
			m.telemetry.Emit(interactionEvent{Event: "save_error", Rows: msg.rows, Extra: map[string]string{"error": msg.err.Error()}})
		} else {
			m.appendLog(fmt.Sprintf("saved %s %s to %s", humanize.Comma(int64(msg.rows)), plural(msg.rows, "row", "rows"), msg.table))
		}

	case outsideClickMsg:
		if m.grid != nil && m.grid.ConfirmOutsideClick(msg.ticket) {
			m.syncEditor()
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if m.handleKey(msg) {
			return m, tea.Quit
		}
	}

	if m.editorOpen {
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	if m.detailDirty {
		m.refreshDetail()
	}
	cmds = append(cmds, m.pending...)
	m.pending = nil
	return m, tea.Batch(cmds...)
}

func (m *model) handleJobMessage(msg jobMsg) tea.Cmd {
	cmd := m.jobs.Handle(msg)
	switch msg := msg.(type) {
	case jobStartedMsg:
		m.appendLog("running " + msg.Title)
	case jobLogMsg:
		m.jobLines = append(m.jobLines, msg.Line)
		m.appendLog(msg.Line)
	case jobFinishedMsg:
		lines := m.jobLines
		m.jobLines = nil
		if msg.Err != nil {
			m.appendLog(fmt.Sprintf("%s exited: %v", msg.Title, msg.Err))
			if len(lines) == 0 {
				m.loading = false
				m.loadErr = msg.Err
				m.setError(fmt.Sprintf("%s failed: %v", msg.Title, msg.Err))
				return cmd
			}
		}
		return tea.Batch(cmd, m.importCmd(lines))
	}
	return cmd
}

func (m *model) handleTableLoaded(msg tableLoadedMsg) {
	if msg.err != nil {
		m.loadErr = msg.err
		m.setError(msg.err.Error())
		m.appendLog("load failed: " + msg.err.Error())
		return
	}
	m.loadErr = nil
	m.table = msg.table
	if err := m.buildGrid(); err != nil {
		m.loadErr = err
		m.setError(err.Error())
		return
	}
	n := len(m.table.Records)
	m.telemetry.Emit(interactionEvent{Event: "load", Rows: n})
	m.appendLog(fmt.Sprintf("loaded %s %s from %s", humanize.Comma(int64(n)), plural(n, "row", "rows"), m.src.label()))
}

// buildGrid replaces the grid for the current table, keeping the remembered
// widths and grouping of the source.
func (m *model) buildGrid() error {
	cfg := *m.layoutCfg
	if len(cfg.Columns) > 0 && !cfg.Matches(m.table) {
		m.appendLog("layout columns do not match this table; showing every column")
		cfg.Columns = nil
	}
	opts, err := cfg.GridOptions(m.table)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	st := m.state.source(m.src.key())
	if len(st.GroupBy) > 0 {
		opts.GroupBy = validGroupKeys(st.GroupBy, m.table)
	}
	opts.ColumnWidths = st.ColumnWidths
	opts.Width, opts.Height = m.gridSize()

	opts.OnRowsChange = m.onRowsChange
	opts.OnSort = m.onSort
	opts.OnFiltersChange = m.onFiltersChange
	opts.OnExpandedGroupIDsChange = m.onExpandedChange
	opts.OnSelectedRowsChange = m.onSelectedRowsChange
	opts.OnColumnResize = m.onColumnResize
	opts.OnSelectedCellChange = m.onSelectedCellChange

	if m.grid != nil {
		m.grid.Close()
	}
	m.closeEditor()
	m.grid = grid.New(opts)
	m.detailDirty = true
	return nil
}

func validGroupKeys(keys []string, table *source.Table) []string {
	var out []string
	for _, k := range keys {
		if table.HasColumn(k) {
			out = append(out, k)
		}
	}
	return out
}

// applyView re-derives the displayed rows from the table: filters first,
// then the stable sort.
func (m *model) applyView() {
	if m.grid == nil || m.table == nil {
		return
	}
	rows := source.Filter(m.table.Records, m.grid.Filters())
	sortKey, dir := m.grid.Sort()
	m.grid.SetRows(grid.SortRows(rows, sortKey, dir, source.Compare))
	m.detailDirty = true
}

func (m *model) onRowsChange(rows []*source.Record, data grid.RowsChangeData) {
	prev := m.grid.RawRows()
	var changed []*source.Record
	for _, idx := range data.Indexes {
		if idx < 0 || idx >= len(rows) || idx >= len(prev) {
			continue
		}
		old, next := prev[idx], rows[idx]
		if old == next {
			continue
		}
		if m.table.Replace(old, next) {
			changed = append(changed, next)
		}
	}
	m.grid.SetRows(rows)
	m.detailDirty = true
	if len(changed) == 0 {
		return
	}

	event := m.action
	if event == "" {
		event = "cell_edit_commit"
	}
	m.telemetry.Emit(interactionEvent{Event: event, Column: data.ColumnKey, Rows: len(changed)})
	m.appendLog(fmt.Sprintf("%s %s: %s %s", strings.ReplaceAll(event, "_", " "), data.ColumnKey, humanize.Comma(int64(len(changed))), plural(len(changed), "row", "rows")))

	if m.store != nil && m.src.table != "" && m.table.HasColumn(data.ColumnKey) {
		m.pending = append(m.pending, saveCmd(m.store, m.src.table, []string{data.ColumnKey}, changed))
	}
}

func (m *model) onSort(columnKey string, direction grid.SortDirection) {
	m.grid.SetSort(columnKey, direction)
	m.applyView()
	m.telemetry.Emit(interactionEvent{Event: "sort", Column: columnKey, Extra: map[string]string{"direction": direction.String()}})
}

func (m *model) onFiltersChange(filters map[string]string) {
	m.grid.SetFilters(filters)
	m.applyView()
	m.telemetry.Emit(interactionEvent{Event: "filter", Rows: m.grid.RowCount(), Extra: filters})
}

func (m *model) onExpandedChange(ids map[string]bool) {
	m.grid.SetExpandedGroupIDs(ids)
	m.detailDirty = true
	m.telemetry.Emit(interactionEvent{Event: "group_toggle", Rows: m.grid.RowCount()})
}

func (m *model) onSelectedRowsChange(keys map[int64]struct{}) {
	m.grid.SetSelectedRows(keys)
	m.telemetry.Emit(interactionEvent{Event: "rows_selected", Rows: len(keys)})
}

func (m *model) onColumnResize(columnKey string, width int) {
	m.state.source(m.src.key()).setColumnWidth(columnKey, width)
}

func (m *model) onSelectedCellChange(grid.Position) {
	m.detailDirty = true
}

// handleKey routes a key press and reports whether the program should quit.
func (m *model) handleKey(msg tea.KeyMsg) bool {
	if key.Matches(msg, m.keys.quit) {
		return true
	}
	if m.filtering {
		m.handleFilterKey(msg)
		return false
	}

	switch {
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
		return false
	case key.Matches(msg, m.keys.toggleInfo):
		m.showDetail = !m.showDetail
		m.applyLayout()
		return false
	case key.Matches(msg, m.keys.toggleLogs):
		m.showLogs = !m.showLogs
		m.applyLayout()
		return false
	case key.Matches(msg, m.keys.cycleTheme):
		m.theme = nextMarkdownTheme(m.theme)
		setMarkdownTheme(m.theme)
		m.state.Theme = string(m.theme)
		m.detailDirty = true
		m.setToast("Theme: "+string(m.theme), 2*time.Second)
		return false
	case key.Matches(msg, m.keys.reload):
		if !m.jobs.Running() {
			m.pending = append(m.pending, m.loadCmd())
		}
		return false
	}

	if m.grid == nil {
		return false
	}
	if m.editorOpen {
		m.handleEditorKey(msg)
		return false
	}
	if !m.handleGridCommand(msg) {
		if ev, ok := toGridKey(msg); ok {
			m.grid.HandleKey(ev)
		}
	}
	m.syncEditor()
	return false
}

func (m *model) handleFilterKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeFilter()
	case tea.KeyEnter:
		value := strings.TrimSpace(m.filterInput.Value())
		column := m.filterColumn
		m.closeFilter()
		if m.grid != nil {
			m.grid.SetFilter(column, value)
		}
	default:
		m.filterInput, _ = m.filterInput.Update(msg)
	}
}

func (m *model) openFilter(columnKey string) {
	m.filtering = true
	m.filterColumn = columnKey
	m.filterInput.SetValue(m.grid.Filters()[columnKey])
	m.filterInput.CursorEnd()
	m.filterInput.Focus()
	m.applyLayout()
}

func (m *model) closeFilter() {
	m.filtering = false
	m.filterColumn = ""
	m.filterInput.Blur()
	m.applyLayout()
}

// handleGridCommand runs the shortcuts that act on the selected column or
// the whole grid rather than on the cursor.
func (m *model) handleGridCommand(msg tea.KeyMsg) bool {
	g := m.grid
	col, hasCol := g.SelectedColumn()
	dataCol := hasCol && col.Key != grid.SelectColumnKey

	switch {
	case key.Matches(msg, m.keys.sort):
		if dataCol && !g.ToggleSort(col.Key) {
			m.setToast(col.Name+" is not sortable", 2*time.Second)
		}
	case key.Matches(msg, m.keys.filter):
		if dataCol {
			m.openFilter(col.Key)
		}
	case key.Matches(msg, m.keys.group):
		if dataCol {
			m.toggleGroupBy(col.Key)
		}
	case key.Matches(msg, m.keys.widen), key.Matches(msg, m.keys.narrow):
		if !hasCol {
			break
		}
		delta := resizeStep
		if key.Matches(msg, m.keys.narrow) {
			delta = -resizeStep
		}
		if !g.ResizeColumn(col.Key, col.Width+delta) {
			m.setToast(col.Name+" is not resizable", 2*time.Second)
		}
	case key.Matches(msg, m.keys.selectAll):
		if m.layoutCfg.RowSelection {
			g.SelectAllRows(!g.AllRowsSelected())
		}
	case key.Matches(msg, m.keys.fillDown):
		m.action = "fill"
		if !g.FillToEnd() {
			m.setToast("Nothing to fill", 2*time.Second)
		}
		m.action = ""
	case key.Matches(msg, m.keys.copyCell):
		m.copySelectedCell()
	case key.Matches(msg, m.keys.pasteCell):
		m.action = "paste"
		g.Paste()
		m.action = ""
	default:
		return false
	}
	return true
}

func (m *model) copySelectedCell() {
	if !m.grid.Copy() {
		return
	}
	text := m.grid.CellText(m.grid.SelectedPosition().Position)
	if err := clipboard.WriteAll(text); err != nil {
		m.setToast("Copied in grid; system clipboard unavailable", 3*time.Second)
		return
	}
	m.setToast("Copied "+strconv.Quote(truncateText(text, 24)), 2*time.Second)
}

func (m *model) toggleGroupBy(columnKey string) {
	var keys []string
	found := false
	for _, k := range m.grid.GroupBy() {
		if k == columnKey {
			found = true
			continue
		}
		keys = append(keys, k)
	}
	if !found {
		keys = append(keys, columnKey)
	}
	m.grid.SetGroupBy(keys)
	m.state.source(m.src.key()).GroupBy = keys
	m.detailDirty = true
	m.telemetry.Emit(interactionEvent{Event: "group_toggle", Column: columnKey, Extra: map[string]string{"group_by": strings.Join(keys, ",")}})
}

func (m *model) handleEditorKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab, tea.KeyShiftTab:
		if err := m.grid.ApplyEditorValue(m.editor.Value(), false); err != nil {
			m.setError(err.Error())
			return
		}
		ev, _ := toGridKey(msg)
		if !m.grid.HandleKey(ev) {
			// Tab out of the last cell.
			m.grid.CommitEditorChanges()
			m.grid.CloseEditor()
		}
	case tea.KeyEsc:
		m.grid.HandleKey(grid.KeyEvent{Key: grid.KeyEscape})
	default:
		m.editor, _ = m.editor.Update(msg)
		return
	}
	m.syncEditor()
}

// syncEditor opens, moves or closes the text input to follow the grid's
// edit mode.
func (m *model) syncEditor() {
	if m.grid == nil || !m.grid.IsEditing() {
		m.closeEditor()
		return
	}
	sel := m.grid.SelectedPosition()
	if m.editorOpen && sel.Position == m.editorPos {
		return
	}
	value, _ := m.grid.EditorValue()
	switch sel.Key.Key {
	case grid.KeyRune:
		value = string(sel.Key.Rune)
	case grid.KeyBackspace, grid.KeyDelete:
		value = ""
	}
	m.editor.SetValue(value)
	m.editor.CursorEnd()
	m.editor.Focus()
	m.editorOpen = true
	m.editorPos = sel.Position
}

func (m *model) closeEditor() {
	if !m.editorOpen {
		return
	}
	m.editor.Blur()
	m.editor.SetValue("")
	m.editorOpen = false
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.grid == nil {
		return
	}
	gridW, gridH := m.grid.Size()
	// The grid starts below the top bar.
	x, y := msg.X, msg.Y-1
	inGrid := x >= 0 && y >= 0 && x < gridW && y < gridH

	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		step := wheelStep
		if msg.Type == tea.MouseWheelUp {
			step = -wheelStep
		}
		switch {
		case inGrid:
			m.grid.ScrollBy(step*m.grid.RowHeight(), 0)
		case m.showDetail && x >= gridW && y >= 0 && y < gridH:
			m.detail, _ = m.detail.Update(msg)
		case m.showLogs && y >= gridH:
			m.logs.Update(msg)
		}
		return

	case tea.MouseMotion:
		if m.dragging {
			if hit := hitTest(m.grid, x, y); hit.area == hitCell {
				m.grid.DragOverRow(hit.rowIdx)
			}
		}
		return

	case tea.MouseRelease:
		if m.dragging {
			m.dragging = false
			m.action = "fill"
			m.grid.EndFill()
			m.action = ""
		}
		return

	case tea.MouseLeft:
	default:
		return
	}

	hit := hitTest(m.grid, x, y)
	if m.grid.IsEditing() {
		sel := m.grid.SelectedPosition()
		if hit.area == hitCell && hit.position() == sel.Position {
			m.grid.ClickInsideEditor()
			return
		}
		if err := m.grid.ApplyEditorValue(m.editor.Value(), false); err != nil {
			m.setError(err.Error())
			return
		}
		if ticket := m.grid.ClickOutsideEditor(); ticket != 0 {
			m.pending = append(m.pending, outsideClickCmd(ticket))
		}
	}

	switch hit.area {
	case hitHeader:
		if hit.col.Key == grid.SelectColumnKey {
			if m.layoutCfg.RowSelection {
				m.grid.SelectAllRows(!m.grid.AllRowsSelected())
			}
		} else {
			m.grid.ToggleSort(hit.col.Key)
		}
	case hitCell:
		m.clickCell(hit, msg.Ctrl)
	}
	m.syncEditor()
}

func (m *model) clickCell(hit gridHit, ctrl bool) {
	if hit.col == nil {
		return
	}
	pos := hit.position()
	double := pos == m.lastClickPos && time.Since(m.lastClickAt) < doubleClickDelay
	m.lastClickPos = pos
	m.lastClickAt = time.Now()

	sel := m.grid.SelectedPosition()
	if sel.Position == pos && hit.localX == hit.col.Width-1 && m.grid.CanFill() {
		m.dragging = m.grid.BeginFill()
		return
	}

	row := m.grid.DisplayRows()[hit.rowIdx]
	switch {
	case hit.col.Key == grid.SelectColumnKey:
		var checked bool
		if row.IsGroup() {
			checked = m.grid.IsGroupSelected(row.Group)
		} else {
			checked = m.grid.IsRowSelected(row.Row)
		}
		// Mouse events carry no shift state; ctrl+click extends the range.
		m.grid.SelectRow(hit.rowIdx, !checked, ctrl)
	case row.IsGroup():
		if double || (hit.col.RowGroup && hit.localX < 2) {
			m.grid.GroupToggleClick(row.Group.ID)
		} else {
			m.grid.GroupRowClick(hit.rowIdx)
		}
	case double:
		m.grid.CellDoubleClick(pos)
	default:
		m.grid.CellClick(pos)
	}
}

func (m *model) refreshDetail() {
	m.detailDirty = false
	if !m.showDetail {
		return
	}
	title, fields := m.detailContent()
	m.detail.SetContent(renderMarkdown(rowDetailMarkdown(title, fields)))
	m.detail.GotoTop()
}

func (m *model) detailContent() (string, []detailField) {
	if m.grid == nil || m.table == nil {
		return "No data", nil
	}
	sel := m.grid.SelectedPosition()
	display := m.grid.DisplayRows()
	if sel.RowIdx < 0 || sel.RowIdx >= len(display) {
		return m.src.label(), []detailField{
			{name: "rows", value: humanize.Comma(int64(len(m.table.Records)))},
			{name: "columns", value: strconv.Itoa(len(m.table.Columns))},
		}
	}
	row := display[sel.RowIdx]
	if row.IsGroup() {
		g := row.Group
		return "Group " + g.GroupKey, []detailField{
			{name: "id", value: g.ID},
			{name: "level", value: strconv.Itoa(g.Level + 1)},
			{name: "rows", value: humanize.Comma(int64(len(g.ChildRows)))},
			{name: "position", value: fmt.Sprintf("%d of %d", g.PosInSet+1, g.SetSize)},
		}
	}
	fields := make([]detailField, 0, len(m.table.Columns))
	for _, c := range m.table.Columns {
		fields = append(fields, detailField{name: c, value: row.Row.CellValue(c)})
	}
	return fmt.Sprintf("Row %d", row.Row.ID), fields
}

func (m *model) appendLog(line string) {
	line = strings.TrimRight(line, " \r\n")
	if line == "" {
		return
	}
	m.logs.Append(time.Now().Format("15:04:05") + " " + line)
}

func (m *model) setToast(msg string, duration time.Duration) {
	m.toastIsError = false
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}

func (m *model) setError(msg string) {
	m.setToast(msg, 6*time.Second)
	m.toastIsError = m.toastMessage != ""
}

// gridSize is the space left for the grid after the bars and panes.
func (m *model) gridSize() (int, int) {
	width := m.width
	if m.showDetail {
		width -= m.detailWidth()
	}
	height := m.height - 2 - lipgloss.Height(m.help.View(m.keys))
	if m.showLogs {
		height -= logsPaneHeight
	}
	if m.filtering {
		height--
	}
	return maxInt(width, 0), maxInt(height, 2)
}

func (m *model) detailWidth() int {
	w := maxInt(minDetailWidth, m.width*2/5)
	if m.width-w < minGridWidth {
		w = maxInt(0, m.width-minGridWidth)
	}
	return w
}

func (m *model) applyLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width
	gridW, gridH := m.gridSize()
	if m.grid != nil {
		m.grid.SetSize(gridW, gridH)
	}
	if m.showDetail {
		frameW := m.styles.panel.GetHorizontalFrameSize()
		frameH := m.styles.panel.GetVerticalFrameSize()
		m.detail.Width = maxInt(1, m.detailWidth()-frameW)
		m.detail.Height = maxInt(1, gridH-frameH-1)
		setMarkdownWordWrap(maxInt(10, m.detail.Width-2))
		m.detailDirty = true
	}
	if m.showLogs {
		m.logs.SetSize(m.width, logsPaneHeight, m.styles)
	}
	m.filterInput.Width = maxInt(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var b strings.Builder

	b.WriteString(m.renderTopBar())
	b.WriteRune('\n')

	body := m.renderGrid()
	if m.showDetail {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderDetail())
	}
	b.WriteString(body)
	b.WriteRune('\n')

	if m.showLogs {
		b.WriteString(m.logs.View(m.styles))
		b.WriteRune('\n')
	}
	if m.filtering {
		b.WriteString(m.filterInput.View())
		b.WriteRune('\n')
	}
	b.WriteString(m.renderStatus())
	b.WriteRune('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *model) renderTopBar() string {
	title := "gridview • " + m.src.label()
	if m.src.dbPath != "" {
		title += " • " + m.src.dbPath
	}
	return m.styles.topBar.MaxWidth(m.width).Render(title)
}

func (m *model) renderGrid() string {
	gridW, gridH := m.gridSize()
	if m.grid == nil {
		msg := "No data"
		switch {
		case m.loading:
			msg = m.spinner.View() + " loading " + m.src.label()
		case m.loadErr != nil:
			msg = m.styles.statusError.Render(m.loadErr.Error())
		}
		return lipgloss.Place(gridW, gridH, lipgloss.Center, lipgloss.Center, msg)
	}

	painter := gridPainter{g: m.grid, styles: m.styles}
	if m.editorOpen {
		if col, ok := m.grid.SelectedColumn(); ok {
			m.editor.Width = maxInt(1, col.Width-1)
			painter.editor = m.styles.cellEditing.Copy().Width(col.Width).MaxWidth(col.Width).Render(m.editor.View())
		}
	}
	return painter.render()
}

func (m *model) renderDetail() string {
	_, gridH := m.gridSize()
	title := m.styles.panelTitle.Render("Detail")
	inner := lipgloss.JoinVertical(lipgloss.Left, title, m.detail.View())
	return m.styles.panel.Copy().
		Width(m.detailWidth() - m.styles.panel.GetHorizontalBorderSize()).
		Height(gridH - m.styles.panel.GetVerticalBorderSize()).
		MaxHeight(gridH).
		Render(inner)
}

func (m *model) renderStatus() string {
	var segments []string
	if m.grid != nil {
		segments = append(segments, m.styles.statusSeg.Render(m.grid.SelectedPosition().Mode.String()))
		segments = append(segments, m.styles.statusSeg.Render(m.rowCountLabel()))
		if pos := m.positionLabel(); pos != "" {
			segments = append(segments, m.styles.statusSeg.Render(pos))
		}
		if sortKey, dir := m.grid.Sort(); dir != grid.SortNone {
			segments = append(segments, m.styles.statusSeg.Render(fmt.Sprintf("sort %s %s", sortKey, sortArrow(dir))))
		}
		if groups := m.grid.GroupBy(); len(groups) > 0 {
			segments = append(segments, m.styles.statusSeg.Render("group "+strings.Join(groups, ", ")))
		}
		if filters := m.grid.Filters(); len(filters) > 0 {
			segments = append(segments, m.styles.statusSeg.Render("filter "+formatFilters(filters)))
		}
		if n := len(m.grid.SelectedRows()); n > 0 {
			segments = append(segments, m.styles.statusSeg.Render(humanize.Comma(int64(n))+" selected"))
		}
	}
	if m.loading || m.jobs.Running() {
		segments = append(segments, m.styles.statusSeg.Render(m.spinner.View()+" loading"))
	}
	if m.toastMessage != "" {
		if time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		} else {
			style := m.styles.statusSeg
			if m.toastIsError {
				style = m.styles.statusError
			}
			segments = append(segments, style.Render(m.toastMessage))
		}
	}
	content := strings.Join(segments, m.styles.statusHint.Render("│"))
	return m.styles.statusBar.MaxWidth(m.width).Render(content)
}

func (m *model) rowCountLabel() string {
	shown := len(m.grid.RawRows())
	total := shown
	if m.table != nil {
		total = len(m.table.Records)
	}
	if shown == total {
		return humanize.Comma(int64(shown)) + " " + plural(shown, "row", "rows")
	}
	return fmt.Sprintf("%s of %s rows", humanize.Comma(int64(shown)), humanize.Comma(int64(total)))
}

func (m *model) positionLabel() string {
	sel := m.grid.SelectedPosition()
	if sel.RowIdx < 0 {
		return ""
	}
	if sel.Idx < 0 {
		return fmt.Sprintf("R%d group", sel.RowIdx+1)
	}
	label := fmt.Sprintf("R%d C%d", sel.RowIdx+1, sel.Idx+1)
	if col, ok := m.grid.SelectedColumn(); ok && col.Key != grid.SelectColumnKey {
		label += " " + col.Name
	}
	return label
}

func sortArrow(dir grid.SortDirection) string {
	if dir == grid.SortDesc {
		return "↓"
	}
	return "↑"
}

func formatFilters(filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "~" + filters[k]
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
