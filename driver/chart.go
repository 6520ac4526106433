package driver

import (
	"fmt"

	"github.com/nihei9/cyk/grammar/symbol"
)

// CellRangeError reports an access to a cell that the chart does not have.
type CellRangeError struct {
	I   int
	J   int
	Len int
}

func (e *CellRangeError) Error() string {
	return fmt.Sprintf("cell (%v, %v) is out of range; a chart of %v tokens has cells (i, j) such that 0 <= i <= j < %v", e.I, e.J, e.Len, e.Len)
}

// Chart holds the non-terminals deriving each substring of the input. Cell (i, j) covers the
// tokens i through j. Only the upper triangle exists, so the cells are packed row by row.
type Chart struct {
	n     int
	cells []*symbol.Set
}

func newChart(n int) *Chart {
	cells := make([]*symbol.Set, n*(n+1)/2)
	for i := range cells {
		cells[i] = symbol.NewSet()
	}
	return &Chart{
		n:     n,
		cells: cells,
	}
}

// index returns the position of cell (i, j). Row i starts after the n + (n-1) + ... + (n-i+1) cells
// of the preceding rows.
func (c *Chart) index(i, j int) int {
	return i*c.n - i*(i-1)/2 + (j - i)
}

func (c *Chart) cell(i, j int) *symbol.Set {
	return c.cells[c.index(i, j)]
}

func (c *Chart) setCell(i, j int, cell *symbol.Set) {
	c.cells[c.index(i, j)] = cell
}

func (c *Chart) checkRange(i, j int) error {
	if i < 0 || i > j || j >= c.n {
		return &CellRangeError{
			I:   i,
			J:   j,
			Len: c.n,
		}
	}
	return nil
}

// Len returns the number of tokens the chart covers.
func (c *Chart) Len() int {
	return c.n
}

// Cell returns a copy of cell (i, j).
func (c *Chart) Cell(i, j int) (*symbol.Set, error) {
	if err := c.checkRange(i, j); err != nil {
		return nil, err
	}
	return c.cell(i, j).Clone(), nil
}

// Contains reports whether sym derives the tokens i through j.
func (c *Chart) Contains(i, j int, sym symbol.Symbol) (bool, error) {
	if err := c.checkRange(i, j); err != nil {
		return false, err
	}
	return c.cell(i, j).Contains(sym), nil
}

func (c *Chart) Equal(d *Chart) bool {
	if c == nil || d == nil {
		return c == d
	}
	if c.n != d.n {
		return false
	}
	for i := range c.cells {
		if !c.cells[i].Equal(d.cells[i]) {
			return false
		}
	}
	return true
}
