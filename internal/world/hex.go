// Package world provides the hex grid, terrain, and map generation.
// Cells are addressed by offset coordinates (column, row) with odd rows
// shifted half a cell to the right. Axial coordinates (q, r) are used
// internally for neighbour and distance math.
package world

import "fmt"

// Cell is a position on the map in odd-row offset coordinates.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Axial converts an offset cell to axial coordinates.
func (c Cell) Axial() HexCoord {
	return HexCoord{Q: c.Col - (c.Row-(c.Row&1))/2, R: c.Row}
}

// Offset converts axial coordinates back to an odd-row offset cell.
func (h HexCoord) Offset() Cell {
	return Cell{Col: h.Q + (h.R-(h.R&1))/2, Row: h.R}
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Neighbors returns the six cells that share an edge with c.
// Some of them may lie outside the map.
func (c Cell) Neighbors() [6]Cell {
	var result [6]Cell
	for i, n := range c.Axial().Neighbors() {
		result[i] = n.Offset()
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

// CellDistance returns the number of hex steps between two offset cells.
func CellDistance(a, b Cell) int {
	return Distance(a.Axial(), b.Axial())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
