package grid

import (
	"fmt"
	"sort"
	"strings"
)

// SortDirection is a column's sort state.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "ASC"
	case SortDesc:
		return "DESC"
	default:
		return "NONE"
	}
}

// ParseSortDirection reads ASC, DESC or NONE.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return SortNone, nil
	case "ASC":
		return SortAsc, nil
	case "DESC":
		return SortDesc, nil
	}
	return SortNone, fmt.Errorf("unknown sort direction %q", s)
}

// NextSortDirection advances the tri-state cycle: ASC, DESC, NONE, or DESC,
// ASC, NONE for descending-first columns.
func NextSortDirection(current SortDirection, descendingFirst bool) SortDirection {
	first, second := SortAsc, SortDesc
	if descendingFirst {
		first, second = SortDesc, SortAsc
	}
	switch current {
	case first:
		return second
	case second:
		return SortNone
	default:
		return first
	}
}

// Sort returns the active sort column and direction.
func (g *Grid[R, K]) Sort() (columnKey string, direction SortDirection) {
	return g.sortColumnKey, g.sortDirection
}

// SetSort replaces the sort state.
func (g *Grid[R, K]) SetSort(columnKey string, direction SortDirection) {
	if direction == SortNone {
		columnKey = ""
	}
	g.sortColumnKey = columnKey
	g.sortDirection = direction
}

// SortDirectionOf returns the direction shown on columnKey's header.
func (g *Grid[R, K]) SortDirectionOf(columnKey string) SortDirection {
	if columnKey == "" || columnKey != g.sortColumnKey {
		return SortNone
	}
	return g.sortDirection
}

// ToggleSort advances the sort cycle of a sortable column and reports the
// next state through OnSort.
func (g *Grid[R, K]) ToggleSort(columnKey string) bool {
	col, ok := g.columnByKey(columnKey)
	if !ok || !col.Sortable {
		return false
	}
	next := NextSortDirection(g.SortDirectionOf(columnKey), col.SortDescendingFirst)
	if g.opts.OnSort != nil {
		g.opts.OnSort(columnKey, next)
		return true
	}
	g.SetSort(columnKey, next)
	return true
}

// SortRows returns a stably sorted copy of rows. compare orders two rows
// by columnKey and returns a negative, zero or positive number.
func SortRows[R any](rows []R, columnKey string, direction SortDirection, compare func(a, b R, columnKey string) int) []R {
	out := append([]R(nil), rows...)
	if direction == SortNone || columnKey == "" || compare == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], columnKey)
		if direction == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Filters returns a copy of the per-column filter values.
func (g *Grid[R, K]) Filters() map[string]string { return copyMap(g.filters) }

// SetFilters replaces the filter values.
func (g *Grid[R, K]) SetFilters(filters map[string]string) { g.filters = copyMap(filters) }

// SetFilter changes one column's filter value. An empty value clears it.
func (g *Grid[R, K]) SetFilter(columnKey, value string) {
	next := copyMap(g.filters)
	if next == nil {
		next = make(map[string]string)
	}
	if value == "" {
		delete(next, columnKey)
	} else {
		next[columnKey] = value
	}
	if g.opts.OnFiltersChange != nil {
		g.opts.OnFiltersChange(next)
		return
	}
	g.filters = next
}
