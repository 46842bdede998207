package grid

import "fmt"

// CellValuer is implemented by rows that expose their cells as text. The
// default formatter uses it; rows that do not implement it render blank.
type CellValuer interface {
	CellValue(columnKey string) string
}

// FormatterProps describes one materialized leaf cell.
type FormatterProps[R any] struct {
	Column         *CalculatedColumn[R]
	Row            R
	RowIdx         int
	IsCellSelected bool
	IsRowSelected  bool
}

// Formatter renders a leaf cell.
type Formatter[R any] func(props FormatterProps[R]) string

// GroupFormatterProps describes one materialized group header cell.
type GroupFormatterProps[R any] struct {
	Column         *CalculatedColumn[R]
	Group          *GroupRow[R]
	RowIdx         int
	IsCellSelected bool
	// IsRowSelected is true when every child row is selected.
	IsRowSelected bool
}

// GroupFormatter renders a cell of a group header row.
type GroupFormatter[R any] func(props GroupFormatterProps[R]) string

// HeaderProps describes a header cell.
type HeaderProps[R any] struct {
	Column          *CalculatedColumn[R]
	SortDirection   SortDirection
	AllRowsSelected bool
}

// HeaderRenderer renders a header cell.
type HeaderRenderer[R any] func(props HeaderProps[R]) string

// Editor is the text contract of an in-place cell editor. The grid only
// checks for its presence; the host drives it.
type Editor[R any] interface {
	// EditValue is the text seeded into the editor.
	EditValue(row R, columnKey string) string
	// ApplyValue returns a new row carrying value. It must not modify row.
	ApplyValue(row R, columnKey, value string) (R, error)
}

// EditorOptions tune how a column's editor interacts with the grid.
type EditorOptions struct {
	// EditOnClick opens the editor on a single click.
	EditOnClick bool
	// OnNavigation decides whether a navigation key leaves the editor.
	// Nil means only Tab does.
	OnNavigation func(ev KeyEvent) bool
	// OnCellKeyDown sees keys on the selected cell before the grid.
	// Returning true marks the key handled.
	OnCellKeyDown func(ev KeyEvent) bool
}

// ValueFormatter renders CellValuer rows.
func ValueFormatter[R any](props FormatterProps[R]) string {
	if v, ok := any(props.Row).(CellValuer); ok {
		return v.CellValue(props.Column.Key)
	}
	return ""
}

// SelectCellFormatter renders the row selection checkbox.
func SelectCellFormatter[R any](props FormatterProps[R]) string {
	return checkbox(props.IsRowSelected)
}

// SelectGroupFormatter renders the checkbox on group headers.
func SelectGroupFormatter[R any](props GroupFormatterProps[R]) string {
	return checkbox(props.IsRowSelected)
}

// ToggleGroupFormatter renders the expand marker, key and child count.
func ToggleGroupFormatter[R any](props GroupFormatterProps[R]) string {
	marker := "▸"
	if props.Group.IsExpanded {
		marker = "▾"
	}
	return fmt.Sprintf("%s %s (%d)", marker, props.Group.GroupKey, len(props.Group.ChildRows))
}

// EmptyGroupFormatter renders nothing; used by non-grouping columns.
func EmptyGroupFormatter[R any](GroupFormatterProps[R]) string { return "" }

// DefaultHeaderRenderer renders the column name with a sort marker.
func DefaultHeaderRenderer[R any](props HeaderProps[R]) string {
	if props.Column.Key == SelectColumnKey {
		return checkbox(props.AllRowsSelected)
	}
	switch props.SortDirection {
	case SortAsc:
		return props.Column.Name + " ▲"
	case SortDesc:
		return props.Column.Name + " ▼"
	}
	return props.Column.Name
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func resolveRenderers[R any](col *CalculatedColumn[R], defaults DefaultColumnOptions[R]) {
	if col.Key == SelectColumnKey {
		if col.Formatter == nil {
			col.Formatter = SelectCellFormatter[R]
		}
		if col.GroupFormatter == nil {
			col.GroupFormatter = SelectGroupFormatter[R]
		}
	}
	if col.Formatter == nil {
		col.Formatter = defaults.Formatter
	}
	if col.Formatter == nil {
		col.Formatter = ValueFormatter[R]
	}
	if col.GroupFormatter == nil {
		if col.RowGroup {
			col.GroupFormatter = ToggleGroupFormatter[R]
		} else {
			col.GroupFormatter = EmptyGroupFormatter[R]
		}
	}
	if col.HeaderRenderer == nil {
		col.HeaderRenderer = DefaultHeaderRenderer[R]
	}
}
