package grid

// Key names a keyboard key the grid understands. Printable input uses
// KeyRune with KeyEvent.Rune set.
type Key string

const (
	KeyUp        Key = "ArrowUp"
	KeyDown      Key = "ArrowDown"
	KeyLeft      Key = "ArrowLeft"
	KeyRight     Key = "ArrowRight"
	KeyTab       Key = "Tab"
	KeyHome      Key = "Home"
	KeyEnd       Key = "End"
	KeyPageUp    Key = "PageUp"
	KeyPageDown  Key = "PageDown"
	KeyEscape    Key = "Escape"
	KeyEnter     Key = "Enter"
	KeyF2        Key = "F2"
	KeySpace     Key = " "
	KeyBackspace Key = "Backspace"
	KeyDelete    Key = "Delete"
	KeyRune      Key = "Rune"
)

// KeyEvent is a key press delivered to the grid.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Ctrl  bool
	Shift bool
}

func (k Key) isNavigation() bool {
	switch k {
	case KeyUp, KeyDown, KeyLeft, KeyRight, KeyTab, KeyHome, KeyEnd, KeyPageUp, KeyPageDown:
		return true
	}
	return false
}

// opensEditor reports whether a key press starts editing the selected cell.
// Ctrl chords do not, except Ctrl+V which is handled as paste earlier.
func (ev KeyEvent) opensEditor() bool {
	if ev.Ctrl {
		return false
	}
	switch ev.Key {
	case KeyEnter, KeyF2, KeyBackspace, KeyDelete, KeySpace:
		return true
	case KeyRune:
		return ev.Rune != 0
	}
	return false
}
