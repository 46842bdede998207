package grid

import "testing"

func TestRowWindow(t *testing.T) {
	tests := []struct {
		name                               string
		count, height, top, client         int
		visStart, visEnd, overStart, overEnd int
	}{
		{name: "top", count: 100, height: 10, top: 0, client: 100, visStart: 0, visEnd: 10, overStart: 0, overEnd: 16},
		{name: "middle", count: 100, height: 10, top: 205, client: 100, visStart: 20, visEnd: 30, overStart: 16, overEnd: 40},
		{name: "bottom", count: 100, height: 10, top: 900, client: 100, visStart: 90, visEnd: 99, overStart: 80, overEnd: 99},
		{name: "short list", count: 3, height: 10, top: 0, client: 100, visStart: 0, visEnd: 2, overStart: 0, overEnd: 2},
		{name: "empty", count: 0, height: 10, top: 0, client: 100, visStart: 0, visEnd: -1, overStart: 0, overEnd: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, ve, os, oe := RowWindow(tt.count, tt.height, tt.top, tt.client)
			if vs != tt.visStart || ve != tt.visEnd || os != tt.overStart || oe != tt.overEnd {
				t.Fatalf("got visible [%d,%d] overscan [%d,%d], want visible [%d,%d] overscan [%d,%d]",
					vs, ve, os, oe, tt.visStart, tt.visEnd, tt.overStart, tt.overEnd)
			}
		})
	}
}

func TestRowWindowContainsVisibleRows(t *testing.T) {
	const count, height, client = 500, 7, 230
	prevStart, prevEnd := 0, 0
	for top := 0; top <= count*height-client; top += 3 {
		vs, ve, os, oe := RowWindow(count, height, top, client)
		if os > vs || oe < ve {
			t.Fatalf("top %d: overscan [%d,%d] does not contain visible [%d,%d]", top, os, oe, vs, ve)
		}
		if os < 0 || oe > count-1 {
			t.Fatalf("top %d: overscan [%d,%d] out of range", top, os, oe)
		}
		if os < prevStart || oe < prevEnd {
			t.Fatalf("top %d: window moved backwards", top)
		}
		prevStart, prevEnd = os, oe
	}
}

func uniformColumns(n, width int, frozen int) []CalculatedColumn[*testRow] {
	cols := make([]Column[*testRow], n)
	for i := range cols {
		cols[i] = Column[*testRow]{Key: string(rune('a' + i)), Width: Px(width), Frozen: i < frozen}
	}
	return CalculateColumns(MetricsInput[*testRow]{Columns: cols, ViewportWidth: n * width, MinColumnWidth: 1}).Columns
}

func TestColumnWindow(t *testing.T) {
	tests := []struct {
		name                     string
		frozen, scroll, viewport int
		wantStart, wantEnd       int
		wantKeys                 string
	}{
		{name: "unfrozen at origin", frozen: 0, scroll: 0, viewport: 250, wantStart: 0, wantEnd: 3, wantKeys: "abcd"},
		{name: "unfrozen scrolled", frozen: 0, scroll: 150, viewport: 250, wantStart: 0, wantEnd: 4, wantKeys: "abcde"},
		{name: "far right", frozen: 0, scroll: 350, viewport: 150, wantStart: 2, wantEnd: 4, wantKeys: "cde"},
		{name: "one frozen", frozen: 1, scroll: 0, viewport: 250, wantStart: 1, wantEnd: 3, wantKeys: "abcd"},
		{name: "frozen kept when scrolled", frozen: 1, scroll: 200, viewport: 250, wantStart: 2, wantEnd: 4, wantKeys: "acde"},
		{name: "frozen cover viewport", frozen: 2, scroll: 0, viewport: 150, wantStart: 2, wantEnd: 2, wantKeys: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := uniformColumns(5, 100, tt.frozen)
			lastFrozen := tt.frozen - 1
			frozenWidth := tt.frozen * 100
			start, end := ColumnWindow(cols, lastFrozen, frozenWidth, tt.scroll, tt.viewport)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Fatalf("window: got [%d,%d], want [%d,%d]", start, end, tt.wantStart, tt.wantEnd)
			}
			keys := ""
			for _, c := range ViewportColumns(cols, lastFrozen, start, end) {
				keys += c.Key
			}
			if keys != tt.wantKeys {
				t.Fatalf("materialized columns: got %q, want %q", keys, tt.wantKeys)
			}
		})
	}
}

func TestGridWindowFollowsScroll(t *testing.T) {
	g := newTestGrid(t, makeRows(200), nil)
	w := g.Window()
	if w.RowVisibleStart != 0 || w.RowVisibleEnd != 10 || w.RowOverscanEnd != 16 {
		t.Fatalf("initial window: %+v", w)
	}

	g.Scroll(505, 0)
	w = g.Window()
	if w.RowVisibleStart != 50 || w.RowOverscanStart != 40 || w.RowOverscanEnd != 64 {
		t.Fatalf("scrolled window: %+v", w)
	}

	g.Scroll(1e6, 1e6)
	top, left := g.ScrollOffset()
	if top != 2000-100 || left != 0 {
		t.Fatalf("scroll not clamped: top=%d left=%d", top, left)
	}
}
