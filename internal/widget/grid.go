package widget

import "fmt"

// Grid places widgets in fixed cells addressed by (column, row)
type Grid struct {
	cols, rows int
	cells      []Widget
}

func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Grid{cols: cols, rows: rows, cells: make([]Widget, cols*rows)}
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// Put stores w at (col, row), replacing any previous occupant
func (g *Grid) Put(col, row int, w Widget) error {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return fmt.Errorf("cell (%d, %d) outside %dx%d grid", col, row, g.cols, g.rows)
	}
	g.cells[row*g.cols+col] = w
	return nil
}

// Get returns the widget at (col, row), or nil for an empty or invalid cell
func (g *Grid) Get(col, row int) Widget {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	return g.cells[row*g.cols+col]
}
