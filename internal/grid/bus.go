package grid

import "github.com/bekirdag/gridview/internal/eventbus"

// SelectCellEvent asks the grid to move its cursor.
type SelectCellEvent struct {
	Position   Position
	OpenEditor bool
}

// Bus carries requests from cells to the grid that owns them. Each grid has
// its own Bus.
type Bus struct {
	SelectCell  eventbus.Topic[SelectCellEvent]
	ToggleGroup eventbus.Topic[string]
}
