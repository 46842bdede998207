package grid

import "errors"

// ErrMissingRowKeyGetter is the panic value raised when a row selection
// operation runs on a grid without Options.RowKeyGetter.
var ErrMissingRowKeyGetter = errors.New("grid: row selection requires a RowKeyGetter")

func (g *Grid[R, K]) mustRowKeyGetter() func(R) K {
	if g.opts.RowKeyGetter == nil {
		panic(ErrMissingRowKeyGetter)
	}
	return g.opts.RowKeyGetter
}
