package layout

import (
	"github.com/bekirdag/gridview/internal/grid"
	"github.com/bekirdag/gridview/internal/source"
)

// RowKey identifies a record for row selection.
func RowKey(r *source.Record) int64 { return r.ID }

// GroupRecords groups records by the text of a column.
var GroupRecords = grid.GroupBy(func(r *source.Record, key string) string { return r.CellValue(key) })

// GridOptions builds the grid options for table in terminal units: one
// line per row and one cell per width unit. Rows are sorted by the
// configured sort. Size and callbacks are left to the host.
func (c *Config) GridOptions(table *source.Table) (grid.Options[*source.Record, int64], error) {
	var opts grid.Options[*source.Record, int64]
	cols, err := c.GridColumns(table)
	if err != nil {
		return opts, err
	}
	mode, err := c.NavigationMode()
	if err != nil {
		return opts, err
	}
	sortKey, sortDir, err := c.InitialSort()
	if err != nil {
		return opts, err
	}

	opts = grid.Options[*source.Record, int64]{
		Columns:              cols,
		Rows:                 grid.SortRows(table.Records, sortKey, sortDir, source.Compare),
		RowKeyGetter:         RowKey,
		RowHeight:            1,
		HeaderRowHeight:      1,
		MinColumnWidth:       c.MinWidth(),
		DefaultColumnOptions: c.Defaults(),
		GroupBy:              append([]string(nil), c.GroupBy...),
		RowGrouper:           GroupRecords,
		ExpandedGroupIDs:     c.ExpandedIDs(),
		SortColumnKey:        sortKey,
		SortDirection:        sortDir,
		EnableRowSelection:   c.RowSelection,
		CellNavigationMode:   mode,
		SelectFirstCell:      c.SelectFirstCell,
		OnPaste:              source.Paste,
		OnFill:               source.Fill,
	}
	return opts, nil
}
