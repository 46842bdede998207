package grid

const (
	overscanThreshold = 4
	renderBatchSize   = 8
)

// Window is the materialized region of the grid. Overscan bounds are
// inclusive; a bound of -1 means there is nothing to render.
type Window struct {
	RowVisibleStart  int
	RowVisibleEnd    int
	RowOverscanStart int
	RowOverscanEnd   int
	ColOverscanStart int
	ColOverscanEnd   int
}

// RowWindow computes the visible and overscanned row range.
func RowWindow(rowCount, rowHeight, scrollTop, clientHeight int) (visibleStart, visibleEnd, overscanStart, overscanEnd int) {
	if rowCount == 0 || rowHeight <= 0 {
		return 0, -1, 0, -1
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if clientHeight < 0 {
		clientHeight = 0
	}
	visibleStart = minInt(rowCount-1, scrollTop/rowHeight)
	visibleEnd = minInt(rowCount-1, (scrollTop+clientHeight)/rowHeight)
	overscanStart = maxInt(0, floorDiv(visibleStart-overscanThreshold, renderBatchSize)*renderBatchSize)
	overscanEnd = minInt(rowCount-1, ceilDiv(visibleEnd+overscanThreshold, renderBatchSize)*renderBatchSize)
	return visibleStart, visibleEnd, overscanStart, overscanEnd
}

// ColumnWindow computes the overscanned range of non-frozen columns.
func ColumnWindow[R any](columns []CalculatedColumn[R], lastFrozenColumnIndex, totalFrozenColumnWidth, scrollLeft, viewportWidth int) (overscanStart, overscanEnd int) {
	if len(columns) == 0 {
		return 0, -1
	}
	lastColIdx := len(columns) - 1
	firstUnfrozenColumnIdx := minInt(lastFrozenColumnIndex+1, lastColIdx)

	viewportLeft := scrollLeft + totalFrozenColumnWidth
	viewportRight := scrollLeft + viewportWidth
	if viewportLeft >= viewportRight {
		return firstUnfrozenColumnIdx, firstUnfrozenColumnIdx
	}

	visibleStart := firstUnfrozenColumnIdx
	for visibleStart < lastColIdx {
		if columns[visibleStart].Right() > viewportLeft {
			break
		}
		visibleStart++
	}
	visibleEnd := visibleStart
	for visibleEnd < lastColIdx {
		if columns[visibleEnd].Right() >= viewportRight {
			break
		}
		visibleEnd++
	}

	overscanStart = maxInt(firstUnfrozenColumnIdx, visibleStart-1)
	overscanEnd = minInt(lastColIdx, visibleEnd+1)
	return overscanStart, overscanEnd
}

// ViewportColumns returns every frozen column followed by the windowed
// slice of the rest.
func ViewportColumns[R any](columns []CalculatedColumn[R], lastFrozenColumnIndex, colOverscanStart, colOverscanEnd int) []*CalculatedColumn[R] {
	out := make([]*CalculatedColumn[R], 0, lastFrozenColumnIndex+1+colOverscanEnd-colOverscanStart+1)
	for i := 0; i <= lastFrozenColumnIndex && i < len(columns); i++ {
		out = append(out, &columns[i])
	}
	for i := maxInt(colOverscanStart, lastFrozenColumnIndex+1); i <= colOverscanEnd && i < len(columns); i++ {
		out = append(out, &columns[i])
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
