// Package cell lays tokens out on a grid of terminal cells.
//
// One layout unit is one terminal column or row. Widths come from
// github.com/mattn/go-runewidth, so wide (East Asian) runes take two cells.
package cell

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/orca/pkg/layout"
)

// Grid is a fixed-size block of terminal cells.
type Grid struct {
	w, h  int
	cells [][]rune
}

// continuation fills the second cell of a wide rune.
const continuation = 0

// NewGrid returns a blank w x h grid. Negative sizes are treated as zero.
func NewGrid(w, h int) *Grid {
	w, h = max(w, 0), max(h, 0)
	g := &Grid{w: w, h: h, cells: make([][]rune, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return g
}

// Size returns the grid's width and height in cells.
func (g *Grid) Size() (w, h int) { return g.w, g.h }

// String returns the grid rows joined by newlines, without trailing blanks.
func (g *Grid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var line strings.Builder
		for _, r := range row {
			if r != continuation {
				line.WriteRune(r)
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
	}
	return b.String()
}

// Press measures and draws tokens in terminal cells.
type Press struct{}

var _ layout.Measurer = Press{}
var _ layout.Drawer[*Grid] = Press{}

// Measure returns the token's display width by one row.
// Empty and zero-width tokens still occupy one cell.
func (Press) Measure(token string) (layout.Fit, error) {
	return layout.Fit{W: max(runewidth.StringWidth(token), 1), H: 1}, nil
}

// Blit writes token into dst starting at at. Cells outside dst are clipped.
func (Press) Blit(token string, at layout.Pos, dst *Grid) error {
	if dst == nil {
		return fmt.Errorf("no grid")
	}
	if at.Y < 0 || at.Y >= dst.h {
		return nil
	}
	row := dst.cells[at.Y]
	x := at.X
	for _, r := range token {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x >= 0 && x+rw <= dst.w {
			row[x] = r
			if rw == 2 {
				row[x+1] = continuation
			}
		}
		x += rw
	}
	return nil
}
