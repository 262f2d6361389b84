package world

import "fmt"

// TerrainGrid is a width × height grid of terrain kinds stored row-major.
// A grid returned by the generator is never modified afterwards.
type TerrainGrid struct {
	width  int
	height int
	cells  []TerrainKind
}

func newTerrainGrid(width, height int) TerrainGrid {
	return TerrainGrid{
		width:  width,
		height: height,
		cells:  make([]TerrainKind, width*height),
	}
}

// NewTerrainGrid builds a grid from rows of equal length.
func NewTerrainGrid(rows [][]TerrainKind) (TerrainGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return TerrainGrid{}, fmt.Errorf("%w: empty grid", ErrInvalidDimension)
	}
	g := newTerrainGrid(len(rows[0]), len(rows))
	for r, row := range rows {
		if len(row) != g.width {
			return TerrainGrid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimension, r, len(row), g.width)
		}
		copy(g.cells[r*g.width:], row)
	}
	return g, nil
}

// Width returns the number of columns.
func (g TerrainGrid) Width() int { return g.width }

// Height returns the number of rows.
func (g TerrainGrid) Height() int { return g.height }

// InBounds returns true if the cell lies on the grid.
func (g TerrainGrid) InBounds(col, row int) bool {
	return col >= 0 && col < g.width && row >= 0 && row < g.height
}

// At returns the terrain at (col, row). It panics when out of bounds.
func (g TerrainGrid) At(col, row int) TerrainKind {
	if !g.InBounds(col, row) {
		panic(fmt.Sprintf("world: cell (%d,%d) outside %dx%d grid", col, row, g.width, g.height))
	}
	return g.cells[row*g.width+col]
}

// Row returns a copy of one row.
func (g TerrainGrid) Row(row int) []TerrainKind {
	out := make([]TerrainKind, g.width)
	copy(out, g.cells[row*g.width:(row+1)*g.width])
	return out
}

// Rows returns a copy of the grid as a slice of rows.
func (g TerrainGrid) Rows() [][]TerrainKind {
	rows := make([][]TerrainKind, g.height)
	for r := range rows {
		rows[r] = g.Row(r)
	}
	return rows
}

func (g TerrainGrid) set(col, row int, t TerrainKind) {
	g.cells[row*g.width+col] = t
}

func (g TerrainGrid) clone() TerrainGrid {
	c := g
	c.cells = append([]TerrainKind(nil), g.cells...)
	return c
}

// Feature is an overlay tile bound to one terrain cell.
type Feature struct {
	Col  int         `json:"col"`
	Row  int         `json:"row"`
	Kind FeatureKind `json:"kind"`
}

// Cell returns the feature's position.
func (f Feature) Cell() Cell {
	return Cell{Col: f.Col, Row: f.Row}
}

// TileMap is the complete output of one generation: terrain plus features.
type TileMap struct {
	Terrain  TerrainGrid `json:"-"`
	Features []Feature   `json:"features"`
}

// FeatureAt returns the feature on a cell, if any.
func (m TileMap) FeatureAt(col, row int) (Feature, bool) {
	for _, f := range m.Features {
		if f.Col == col && f.Row == row {
			return f, true
		}
	}
	return Feature{}, false
}

// String returns a summary of the map.
func (m TileMap) String() string {
	return fmt.Sprintf("TileMap(%dx%d, features=%d)", m.Terrain.Width(), m.Terrain.Height(), len(m.Features))
}

// TerrainCounts returns a summary of terrain kind distribution.
func TerrainCounts(g TerrainGrid) map[TerrainKind]int {
	counts := make(map[TerrainKind]int)
	for _, t := range g.cells {
		counts[t]++
	}
	return counts
}

// FeatureCounts returns how many features of each kind were placed.
func FeatureCounts(m TileMap) map[FeatureKind]int {
	counts := make(map[FeatureKind]int)
	for _, f := range m.Features {
		counts[f.Kind]++
	}
	return counts
}
