package grid

import (
	"math"
	"strconv"
	"strings"
)

// SelectColumnKey is reserved for the row selection column. A column with
// this key always sorts first.
const SelectColumnKey = "select-row"

// DefaultMinColumnWidth applies when Options.MinColumnWidth is zero.
const DefaultMinColumnWidth = 80

// Width is a declared column width: a fixed size, a percentage of the
// viewport, or unset (the zero value).
type Width struct {
	px    int
	pct   string
	isPct bool
	set   bool
}

// Px declares a fixed width.
func Px(n int) Width { return Width{px: n, set: true} }

// Pct declares a width relative to the viewport, e.g. Pct("25%").
// Strings that do not parse are treated as unset.
func Pct(s string) Width { return Width{pct: s, isPct: true, set: true} }

// ParseWidth reads "120", "120px" or "25%". Anything else is unset.
func ParseWidth(s string) Width {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Width{}
	case strings.HasSuffix(s, "%"):
		return Pct(s)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "px"))
	if err != nil || n < 0 {
		return Width{}
	}
	return Px(n)
}

// IsSet reports whether a width was declared.
func (w Width) IsSet() bool { return w.set }

func (w Width) String() string {
	switch {
	case !w.set:
		return ""
	case w.isPct:
		return w.pct
	default:
		return strconv.Itoa(w.px)
	}
}

// resolve returns the concrete width for the given viewport, or false when
// the column should share the unallocated space.
func (w Width) resolve(viewportWidth int) (int, bool) {
	if !w.set {
		return 0, false
	}
	if !w.isPct {
		return w.px, true
	}
	s := strings.TrimSpace(w.pct)
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
	if err != nil || pct < 0 {
		return 0, false
	}
	return int(math.Floor(float64(viewportWidth) * pct / 100)), true
}

// Column is the caller's declaration of a grid column.
type Column[R any] struct {
	Key      string
	Name     string
	Width    Width
	MinWidth int
	// MaxWidth of zero means unbounded.
	MaxWidth int
	Frozen   bool

	// Sortable and Resizable fall back to DefaultColumnOptions when nil.
	Sortable            *bool
	Resizable           *bool
	SortDescendingFirst bool

	// Editable defaults to true for columns that carry an Editor.
	// EditableFunc, when set, wins over Editable.
	Editable     *bool
	EditableFunc func(row R) bool

	Formatter      Formatter[R]
	GroupFormatter GroupFormatter[R]
	HeaderRenderer HeaderRenderer[R]
	Editor         Editor[R]
	EditorOptions  EditorOptions
}

// DefaultColumnOptions supplies defaults for unset column flags.
type DefaultColumnOptions[R any] struct {
	Sortable  bool
	Resizable bool
	Formatter Formatter[R]
}

// CalculatedColumn is a column after layout. Values are rebuilt on every
// layout pass and must be treated as read only.
type CalculatedColumn[R any] struct {
	Column[R]

	Idx                int
	Width              int
	Left               int
	IsLastFrozenColumn bool
	RowGroup           bool
	Sortable           bool
	Resizable          bool
}

// Right is the column's right edge.
func (c *CalculatedColumn[R]) Right() int { return c.Left + c.Width }

// IsEditable reports whether the column can edit row.
func (c *CalculatedColumn[R]) IsEditable(row R) bool {
	if c.Editor == nil || c.RowGroup {
		return false
	}
	if c.EditableFunc != nil {
		return c.EditableFunc(row)
	}
	return c.Editable == nil || *c.Editable
}

// Bool returns a pointer to v, for the optional column flags.
func Bool(v bool) *bool { return &v }
