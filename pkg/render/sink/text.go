package sink

import (
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/press/cell"
)

// MaxTextSide bounds either side of a text grid, in cells.
const MaxTextSide = 4096

// RenderText draws the layout onto a terminal grid.
// l must have been measured in cells, with cell.Press.
func RenderText(l *layout.Layout) (string, error) {
	w, h := l.Extent()
	if w > MaxTextSide || h > MaxTextSide {
		return "", errors.New(errors.ErrCodeInvalidInput, "text grid %dx%d exceeds %d cells per side", w, h, MaxTextSide)
	}
	g := cell.NewGrid(w, h)
	if err := layout.Draw(l, cell.Press{}, g); err != nil {
		return "", err
	}
	return g.String() + "\n", nil
}
