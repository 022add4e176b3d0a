package view

import "math"

type Cell uint8

const (
	CellEmpty Cell = iota
	CellUnderside
	CellSurface
	CellObstacle
	CellPill
	CellPlayer
	CellDead
)

// Grid is a scene rasterised into character cells, row major.
type Grid struct {
	Cols, Rows int
	Cells      []Cell
}

func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
}

func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return CellEmpty
	}
	return g.Cells[y*g.Cols+x]
}

// set keeps the higher cell so the player is never hidden by terrain.
func (g *Grid) set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return
	}
	i := y*g.Cols + x
	if c > g.Cells[i] {
		g.Cells[i] = c
	}
}

// Rasterise draws a scene projected at one pixel per cell.
func Rasterise(sc Scene, cols, rows int) *Grid {
	g := NewGrid(cols, rows)
	for _, l := range sc.Underside {
		g.line(l.A, l.B, CellUnderside)
	}
	for _, l := range sc.Surface {
		g.line(l.A, l.B, CellSurface)
	}
	for _, q := range sc.Obstacles {
		g.quad(q, CellObstacle)
	}
	for _, c := range sc.Pills {
		g.set(int(math.Floor(c.Center.X)), int(math.Floor(c.Center.Y)), CellPill)
	}
	if sc.HasPlayer {
		cell := CellPlayer
		if sc.Dead {
			cell = CellDead
		}
		g.quad(sc.Player, cell)
		ctr := sc.Player.Center()
		g.set(int(math.Floor(ctr.X)), int(math.Floor(ctr.Y)), cell)
	}
	return g
}

func (g *Grid) quad(q Quad, c Cell) {
	for i := range q {
		g.line(q[i], q[(i+1)%len(q)], c)
	}
}

// line walks from a to b with Bresenham's algorithm.
func (g *Grid) line(a, b Point, c Cell) {
	x0, y0 := int(math.Floor(a.X)), int(math.Floor(a.Y))
	x1, y1 := int(math.Floor(b.X)), int(math.Floor(b.Y))
	// skip lines wholly off one side of the grid
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) || (x0 >= g.Cols && x1 >= g.Cols) || (y0 >= g.Rows && y1 >= g.Rows) {
		return
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
