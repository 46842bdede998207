package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/bekirdag/gridview/internal/grid"
	"github.com/bekirdag/gridview/internal/layout"
	"github.com/bekirdag/gridview/internal/source"
)

type snapshotOptions struct {
	width, height int
	top, left     int
	overscan      bool
	format        string
	groupBy       []string
	expand        []string
}

func main() {
	var (
		dbPath     string
		tableName  string
		inputPath  string
		splitFlag  string
		layoutPath string
		outputPath string
		groupFlag  string
		expandFlag string
		listTables bool
		initLayout bool
		opts       snapshotOptions
	)
	flag.StringVar(&dbPath, "db", "", "SQLite database to read")
	flag.StringVar(&tableName, "table", "", "table to show (with -db)")
	flag.StringVar(&inputPath, "in", "", "command output to parse instead of a database; - reads stdin")
	flag.StringVar(&splitFlag, "split", "fields", "column split for -in: fields or wide")
	flag.StringVar(&layoutPath, "layout", "", "layout file (defaults to the user layout)")
	flag.StringVar(&outputPath, "out", "", "output file path (optional, defaults to stdout)")
	flag.StringVar(&groupFlag, "group", "", "comma-separated group-by columns, overriding the layout")
	flag.StringVar(&expandFlag, "expand", "", "comma-separated group ids to expand")
	flag.BoolVar(&listTables, "list", false, "list the tables in -db and exit")
	flag.BoolVar(&initLayout, "init-layout", false, "write a starter layout for the table to -layout and exit")
	flag.IntVar(&opts.width, "width", 100, "viewport width in cells")
	flag.IntVar(&opts.height, "height", 20, "viewport height in lines, header included")
	flag.IntVar(&opts.top, "top", 0, "vertical scroll offset in rows")
	flag.IntVar(&opts.left, "left", 0, "horizontal scroll offset in cells")
	flag.BoolVar(&opts.overscan, "overscan", false, "include overscan rows and columns")
	flag.StringVar(&opts.format, "format", "styled", "output format: styled or ascii")
	flag.Parse()

	opts.groupBy = splitList(groupFlag)
	opts.expand = splitList(expandFlag)

	if listTables {
		if dbPath == "" {
			exitWithError(errors.New("-list needs -db"))
		}
		if err := printTables(dbPath, os.Stdout); err != nil {
			exitWithError(err)
		}
		return
	}

	tbl, err := loadTable(dbPath, tableName, inputPath, splitFlag)
	if err != nil {
		exitWithError(err)
	}
	if layoutPath == "" {
		layoutPath = layout.DefaultPath()
	}
	if initLayout {
		if err := layout.Save(starterLayout(tbl, opts.groupBy), layoutPath); err != nil {
			exitWithError(fmt.Errorf("write layout: %w", err))
		}
		fmt.Println(layoutPath)
		return
	}
	cfg, err := layout.Load(layoutPath)
	if err != nil {
		exitWithError(fmt.Errorf("load layout: %w", err))
	}
	if len(cfg.Columns) > 0 && !cfg.Matches(tbl) {
		cfg.Columns = nil
	}

	rendered, err := snapshot(cfg, tbl, opts)
	if err != nil {
		exitWithError(err)
	}
	if outputPath == "" {
		fmt.Println(rendered)
		return
	}
	if err := os.WriteFile(outputPath, []byte(rendered+"\n"), 0o644); err != nil {
		exitWithError(fmt.Errorf("write output: %w", err))
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "gridsnapshot: %v\n", err)
	os.Exit(1)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// starterLayout declares every column of tbl so the file can be edited by
// hand. Columns whose values all parse as numbers get the number editor.
func starterLayout(tbl *source.Table, groupBy []string) *layout.Config {
	cfg := &layout.Config{GroupBy: groupBy}
	for _, key := range tbl.Columns {
		col := layout.Column{Key: key}
		if numericColumn(tbl, key) {
			col.Type = "number"
		}
		cfg.Columns = append(cfg.Columns, col)
	}
	return cfg
}

func numericColumn(tbl *source.Table, key string) bool {
	if len(tbl.Records) == 0 {
		return false
	}
	for _, r := range tbl.Records {
		if _, err := strconv.ParseFloat(strings.TrimSpace(r.CellValue(key)), 64); err != nil {
			return false
		}
	}
	return true
}

func printTables(dbPath string, w io.Writer) error {
	store, err := source.OpenStore(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()
	names, err := store.Tables()
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

func loadTable(dbPath, tableName, inputPath, splitFlag string) (*source.Table, error) {
	switch {
	case inputPath != "":
		mode, err := source.ParseSplit(splitFlag)
		if err != nil {
			return nil, err
		}
		lines, err := readLines(inputPath)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return source.ParseText(inputPath, lines, mode)
	case dbPath != "":
		if tableName == "" {
			return nil, errors.New("missing -table")
		}
		store, err := source.OpenStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		defer store.Close()
		return store.Load(tableName)
	}
	return nil, errors.New("missing -db or -in")
}

func readLines(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// snapshot renders the part of the grid a viewport of the given size would
// materialize at the given scroll offsets.
func snapshot(cfg *layout.Config, tbl *source.Table, opts snapshotOptions) (string, error) {
	gridOpts, err := cfg.GridOptions(tbl)
	if err != nil {
		return "", err
	}
	if opts.groupBy != nil {
		gridOpts.GroupBy = opts.groupBy
	}
	if opts.expand != nil {
		gridOpts.ExpandedGroupIDs = make(map[string]bool, len(opts.expand))
		for _, id := range opts.expand {
			gridOpts.ExpandedGroupIDs[id] = true
		}
	}
	gridOpts.Width = opts.width
	gridOpts.Height = opts.height

	g := grid.New(gridOpts)
	defer g.Close()
	g.Scroll(opts.top, opts.left)

	w := g.Window()
	cols := g.ViewportColumns()
	firstRow, lastRow := w.RowVisibleStart, w.RowVisibleEnd
	if opts.overscan {
		firstRow, lastRow = w.RowOverscanStart, w.RowOverscanEnd
	} else {
		cols = visibleColumns(g, cols)
	}

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = g.RenderHeader(col)
	}
	var rows [][]string
	for rowIdx := firstRow; rowIdx <= lastRow && rowIdx >= 0; rowIdx++ {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = g.RenderCell(rowIdx, col)
		}
		rows = append(rows, row)
	}

	var body string
	switch opts.format {
	case "", "styled":
		body = renderStyled(cols, headers, rows)
	case "ascii":
		body = renderASCII(headers, rows)
	default:
		return "", fmt.Errorf("unknown format %q (want styled or ascii)", opts.format)
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteRune('\n')
	b.WriteString(summary(g, firstRow, lastRow, cols))
	return b.String(), nil
}

func renderStyled(cols []*grid.CalculatedColumn[*source.Record], headers []string, rows [][]string) string {
	tableCols := make([]table.Column, len(cols))
	for i, col := range cols {
		tableCols[i] = table.Column{Title: headers[i], Width: col.Width}
	}
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Cell = lipgloss.NewStyle()
	styles.Selected = lipgloss.NewStyle()
	t := table.New(
		table.WithColumns(tableCols),
		table.WithRows(tableRows),
		table.WithHeight(len(tableRows)+1),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
	return t.View()
}

// renderASCII draws a bordered plain-text table, for piping into files and
// diffs where terminal styling gets in the way.
func renderASCII(headers []string, rows [][]string) string {
	var b strings.Builder
	tw := tablewriter.NewWriter(&b)
	tw.SetHeader(headers)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.AppendBulk(rows)
	tw.Render()
	return strings.TrimRight(b.String(), "\n")
}

// visibleColumns drops overscan columns that lie fully outside the
// viewport. Frozen columns always stay.
func visibleColumns(g *grid.Grid[*source.Record, int64], cols []*grid.CalculatedColumn[*source.Record]) []*grid.CalculatedColumn[*source.Record] {
	m := g.Metrics()
	_, left := g.ScrollOffset()
	width, _ := g.Size()
	var out []*grid.CalculatedColumn[*source.Record]
	for _, col := range cols {
		if col.Frozen {
			out = append(out, col)
			continue
		}
		if col.Right() <= left+m.TotalFrozenColumnWidth || col.Left >= left+width {
			continue
		}
		out = append(out, col)
	}
	return out
}

func summary(g *grid.Grid[*source.Record, int64], firstRow, lastRow int, cols []*grid.CalculatedColumn[*source.Record]) string {
	total := g.RowCount()
	if total == 0 || lastRow < firstRow {
		return "no rows"
	}
	keys := make([]string, len(cols))
	for i, col := range cols {
		keys[i] = col.Key
	}
	return fmt.Sprintf("rows %s-%s of %s • columns %s",
		humanize.Comma(int64(firstRow+1)),
		humanize.Comma(int64(lastRow+1)),
		humanize.Comma(int64(total)),
		strings.Join(keys, ", "),
	)
}
