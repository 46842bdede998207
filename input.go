package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bekirdag/gridview/internal/grid"
)

// toGridKey translates a terminal key press into a grid key event. Keys the
// grid has no use for report false.
func toGridKey(msg tea.KeyMsg) (grid.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return grid.KeyEvent{Key: grid.KeyUp}, true
	case tea.KeyDown:
		return grid.KeyEvent{Key: grid.KeyDown}, true
	case tea.KeyLeft:
		return grid.KeyEvent{Key: grid.KeyLeft}, true
	case tea.KeyRight:
		return grid.KeyEvent{Key: grid.KeyRight}, true
	case tea.KeyTab:
		return grid.KeyEvent{Key: grid.KeyTab}, true
	case tea.KeyShiftTab:
		return grid.KeyEvent{Key: grid.KeyTab, Shift: true}, true
	case tea.KeyHome:
		return grid.KeyEvent{Key: grid.KeyHome}, true
	case tea.KeyEnd:
		return grid.KeyEvent{Key: grid.KeyEnd}, true
	case tea.KeyCtrlHome:
		return grid.KeyEvent{Key: grid.KeyHome, Ctrl: true}, true
	case tea.KeyCtrlEnd:
		return grid.KeyEvent{Key: grid.KeyEnd, Ctrl: true}, true
	case tea.KeyPgUp:
		return grid.KeyEvent{Key: grid.KeyPageUp}, true
	case tea.KeyPgDown:
		return grid.KeyEvent{Key: grid.KeyPageDown}, true
	case tea.KeyEsc:
		return grid.KeyEvent{Key: grid.KeyEscape}, true
	case tea.KeyEnter:
		return grid.KeyEvent{Key: grid.KeyEnter}, true
	case tea.KeyF2:
		return grid.KeyEvent{Key: grid.KeyF2}, true
	case tea.KeyBackspace:
		return grid.KeyEvent{Key: grid.KeyBackspace}, true
	case tea.KeyDelete:
		return grid.KeyEvent{Key: grid.KeyDelete}, true
	case tea.KeySpace:
		return grid.KeyEvent{Key: grid.KeySpace}, true
	case tea.KeyCtrlAt:
		// Terminals report ctrl+space as NUL; it toggles the row checkbox.
		return grid.KeyEvent{Key: grid.KeySpace, Shift: true}, true
	case tea.KeyCtrlC:
		return grid.KeyEvent{Key: grid.KeyRune, Rune: 'c', Ctrl: true}, true
	case tea.KeyCtrlV:
		return grid.KeyEvent{Key: grid.KeyRune, Rune: 'v', Ctrl: true}, true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) != 1 {
			return grid.KeyEvent{}, false
		}
		return grid.KeyEvent{Key: grid.KeyRune, Rune: msg.Runes[0]}, true
	}
	return grid.KeyEvent{}, false
}
