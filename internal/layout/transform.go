// Package layout maps hex grid cells to pixel offsets and back.
//
// Cells use odd-row offset coordinates: columns are horizSpacing apart, rows
// are vertSpacing apart, and odd rows are shifted right by half a column.
// Pixel positions are relative to the map origin, which (0,0) maps onto.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned for non-positive tile dimensions.
var ErrInvalidGeometry = errors.New("invalid hex geometry")

// Geometry holds the tile dimensions the transform is built from.
type Geometry struct {
	HexWidth  float64 // Tile sprite width in pixels
	HexHeight float64 // Tile sprite height in pixels

	// VertRatio scales HexHeight into the row spacing. Flat art uses 1.0;
	// art that reserves a vertical margin uses 0.75.
	VertRatio float64
}

// DefaultGeometry returns the geometry of the stock 128×112 tile art.
func DefaultGeometry() Geometry {
	return Geometry{HexWidth: 128, HexHeight: 112, VertRatio: 1}
}

// Transform converts between grid cells and pixel offsets. It is a value
// type with no mutable state.
type Transform struct {
	geom  Geometry
	horiz float64
	vert  float64
}

// New builds a transform. A zero VertRatio means 1.
func New(geom Geometry) (Transform, error) {
	if geom.VertRatio == 0 {
		geom.VertRatio = 1
	}
	if !(geom.HexWidth > 0) || !(geom.HexHeight > 0) || !(geom.VertRatio > 0) {
		return Transform{}, fmt.Errorf("%w: width=%v height=%v ratio=%v",
			ErrInvalidGeometry, geom.HexWidth, geom.HexHeight, geom.VertRatio)
	}
	return Transform{
		geom:  geom,
		horiz: geom.HexWidth * 0.75,
		vert:  geom.HexHeight * geom.VertRatio,
	}, nil
}

// Geometry returns the tile dimensions the transform was built with.
func (t Transform) Geometry() Geometry { return t.geom }

// Spacing returns the distance between adjacent columns and adjacent rows.
func (t Transform) Spacing() (horiz, vert float64) {
	return t.horiz, t.vert
}

// ToPixel returns the pixel offset of a cell.
func (t Transform) ToPixel(col, row int) (x, y float64) {
	x = float64(col) * t.horiz
	y = float64(row) * t.vert
	if row&1 != 0 {
		x += t.horiz / 2
	}
	return x, y
}

// ToGrid returns the cell nearest to a pixel offset. The result may be
// negative or past the map edge; see CellAt for bounded lookups.
func (t Transform) ToGrid(x, y float64) (col, row int) {
	row = int(math.Round(y / t.vert))
	if row&1 != 0 {
		x -= t.horiz / 2
	}
	col = int(math.Round(x / t.horiz))
	return col, row
}

// CellAt hit-tests a pixel offset against a width × height map.
// ok is false when the nearest cell lies outside the map.
func (t Transform) CellAt(x, y float64, width, height int) (col, row int, ok bool) {
	col, row = t.ToGrid(x, y)
	if col < 0 || row < 0 || col >= width || row >= height {
		return 0, 0, false
	}
	return col, row, true
}

// Bounds returns the pixel extent covered by the sprites of a
// width × height map, measured from the origin.
func (t Transform) Bounds(width, height int) (w, h float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	w = float64(width-1)*t.horiz + t.geom.HexWidth
	if height > 1 {
		w += t.horiz / 2
	}
	h = float64(height-1)*t.vert + t.geom.HexHeight
	return w, h
}

// Point is a pixel offset.
type Point struct {
	X, Y float64
}

// Corners returns the six vertices of the pointy-top hexagon centred on a
// cell's pixel offset, sized so neighbouring cells share edges exactly.
// Vertices run clockwise from the top.
func (t Transform) Corners(col, row int) [6]Point {
	cx, cy := t.ToPixel(col, row)
	hw := t.horiz / 2 // half width
	q := t.vert / 3   // a pointy-top hex of row pitch v is 4v/3 tall
	return [6]Point{
		{cx, cy - 2*q},
		{cx + hw, cy - q},
		{cx + hw, cy + q},
		{cx, cy + 2*q},
		{cx - hw, cy + q},
		{cx - hw, cy - q},
	}
}
