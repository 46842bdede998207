package grid

// RowGroup is one bucket produced by a RowGrouper.
type RowGroup[R any] struct {
	Key  string
	Rows []R
}

// RowGrouper partitions rows by the value of columnKey. The order of the
// returned groups is the display order.
type RowGrouper[R any] func(rows []R, columnKey string) []RowGroup[R]

// GroupBy builds a RowGrouper that buckets rows by value(row, columnKey),
// keeping groups in order of first appearance.
func GroupBy[R any](value func(row R, columnKey string) string) RowGrouper[R] {
	return func(rows []R, columnKey string) []RowGroup[R] {
		index := make(map[string]int)
		var groups []RowGroup[R]
		for _, row := range rows {
			key := value(row, columnKey)
			i, ok := index[key]
			if !ok {
				i = len(groups)
				index[key] = i
				groups = append(groups, RowGroup[R]{Key: key})
			}
			groups[i].Rows = append(groups[i].Rows, row)
		}
		return groups
	}
}

// GroupRow is a group header in the flattened row sequence.
type GroupRow[R any] struct {
	ID         string
	ParentID   string
	GroupKey   string
	Level      int
	IsExpanded bool
	ChildRows  []R
	PosInSet   int
	SetSize    int
	// StartRowIndex is where the group's subtree begins when every group
	// is expanded.
	StartRowIndex int
}

// HasParent reports whether the group is nested.
func (g *GroupRow[R]) HasParent() bool { return g.Level > 0 }

// DisplayRow is an entry of the flattened sequence: either a leaf row or a
// group header.
type DisplayRow[R any] struct {
	Row   R
	Group *GroupRow[R]
}

// IsGroup reports whether the entry is a group header.
func (d DisplayRow[R]) IsGroup() bool { return d.Group != nil }

// GroupNode is one node of the group tree built by GroupRows.
type GroupNode[R any] struct {
	Key           string
	ChildRows     []R
	Children      []GroupNode[R]
	StartRowIndex int
}

// GroupRows builds the group tree for rows. It returns nil when there is
// nothing to group by.
func GroupRows[R any](rows []R, groupBy []string, grouper RowGrouper[R]) []GroupNode[R] {
	if len(groupBy) == 0 || grouper == nil {
		return nil
	}
	nodes, _ := groupLevel(rows, groupBy, grouper, 0)
	return nodes
}

func groupLevel[R any](rows []R, groupBy []string, grouper RowGrouper[R], startRowIndex int) ([]GroupNode[R], int) {
	key, remaining := groupBy[0], groupBy[1:]
	count := 0
	groups := grouper(rows, key)
	nodes := make([]GroupNode[R], 0, len(groups))
	for _, g := range groups {
		node := GroupNode[R]{
			Key:           g.Key,
			ChildRows:     g.Rows,
			StartRowIndex: startRowIndex + count,
		}
		childCount := len(g.Rows)
		if len(remaining) > 0 {
			node.Children, childCount = groupLevel(g.Rows, remaining, grouper, startRowIndex+count+1)
		}
		nodes = append(nodes, node)
		count += childCount + 1
	}
	return nodes, count
}

// FlattenGroups lays the tree out depth first. Children of a group appear
// only when its id is in expanded.
func FlattenGroups[R any](nodes []GroupNode[R], expanded map[string]bool) []DisplayRow[R] {
	var out []DisplayRow[R]
	var walk func(nodes []GroupNode[R], parentID string, level int)
	walk = func(nodes []GroupNode[R], parentID string, level int) {
		for pos, node := range nodes {
			id := node.Key
			if level > 0 {
				id = parentID + "__" + node.Key
			}
			group := &GroupRow[R]{
				ID:            id,
				ParentID:      parentID,
				GroupKey:      node.Key,
				Level:         level,
				IsExpanded:    expanded[id],
				ChildRows:     node.ChildRows,
				PosInSet:      pos,
				SetSize:       len(nodes),
				StartRowIndex: node.StartRowIndex,
			}
			out = append(out, DisplayRow[R]{Group: group})
			if !group.IsExpanded {
				continue
			}
			if node.Children != nil {
				walk(node.Children, id, level+1)
				continue
			}
			for _, row := range node.ChildRows {
				out = append(out, DisplayRow[R]{Row: row})
			}
		}
	}
	walk(nodes, "", 0)
	return out
}

// FlattenRows groups and flattens rows in one step. Without grouping the
// rows pass through unchanged.
func FlattenRows[R any](rows []R, groupBy []string, grouper RowGrouper[R], expanded map[string]bool) []DisplayRow[R] {
	nodes := GroupRows(rows, groupBy, grouper)
	if nodes == nil {
		out := make([]DisplayRow[R], len(rows))
		for i, row := range rows {
			out[i] = DisplayRow[R]{Row: row}
		}
		return out
	}
	return FlattenGroups(nodes, expanded)
}
