package layout_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/talgya/hex-isle/internal/layout"
)

func mustNew(t *testing.T, geom layout.Geometry) layout.Transform {
	t.Helper()
	tr, err := layout.New(geom)
	if err != nil {
		t.Fatalf("New(%+v) failed: %v", geom, err)
	}
	return tr
}

var geometries = []layout.Geometry{
	layout.DefaultGeometry(),
	{HexWidth: 128, HexHeight: 112, VertRatio: 0.75},
	{HexWidth: 64, HexHeight: 56},
	{HexWidth: 37.3, HexHeight: 19.9, VertRatio: 1},
	{HexWidth: 1, HexHeight: 1},
}

func TestToPixelScenario(t *testing.T) {
	tr := mustNew(t, layout.Geometry{HexWidth: 128, HexHeight: 112})

	tests := []struct {
		col, row int
		x, y     float64
	}{
		{0, 0, 0, 0},
		{1, 0, 96, 0},
		{0, 1, 48, 112},
		{2, 3, 240, 336},
	}
	for _, tc := range tests {
		x, y := tr.ToPixel(tc.col, tc.row)
		if x != tc.x || y != tc.y {
			t.Errorf("ToPixel(%d,%d) = (%v,%v), want (%v,%v)", tc.col, tc.row, x, y, tc.x, tc.y)
		}
	}
}

func TestOriginMapsToOrigin(t *testing.T) {
	for _, geom := range geometries {
		tr := mustNew(t, geom)
		if x, y := tr.ToPixel(0, 0); x != 0 || y != 0 {
			t.Errorf("%+v: ToPixel(0,0) = (%v,%v)", geom, x, y)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, geom := range geometries {
		tr := mustNew(t, geom)
		for row := 0; row < 60; row++ {
			for col := 0; col < 60; col++ {
				x, y := tr.ToPixel(col, row)
				if c, r := tr.ToGrid(x, y); c != col || r != row {
					t.Fatalf("%+v: ToGrid(ToPixel(%d,%d)) = (%d,%d)", geom, col, row, c, r)
				}
			}
		}
	}
}

func TestRoundTripNegative(t *testing.T) {
	tr := mustNew(t, layout.DefaultGeometry())
	for row := -7; row < 0; row++ {
		for col := -7; col < 3; col++ {
			x, y := tr.ToPixel(col, row)
			if c, r := tr.ToGrid(x, y); c != col || r != row {
				t.Errorf("ToGrid(ToPixel(%d,%d)) = (%d,%d)", col, row, c, r)
			}
		}
	}
}

func TestOffsetParity(t *testing.T) {
	for _, geom := range geometries {
		tr := mustNew(t, geom)
		horiz, vert := tr.Spacing()
		const eps = 1e-9

		for row := 0; row < 6; row++ {
			for col := 0; col < 6; col++ {
				x0, y0 := tr.ToPixel(col, row)
				x1, y1 := tr.ToPixel(col+1, row)
				if math.Abs((x0-x1)+horiz) > eps || y0 != y1 {
					t.Errorf("%+v: column step at (%d,%d) = %v, want %v", geom, col, row, x1-x0, horiz)
				}

				x2, y2 := tr.ToPixel(col, row+1)
				shift := 0.0
				if (row%2 == 1) != ((row+1)%2 == 1) {
					shift = horiz / 2
				}
				if row%2 == 1 {
					shift = -shift
				}
				if math.Abs((x2-x0)-shift) > eps {
					t.Errorf("%+v: row step x at (%d,%d) = %v, want %v", geom, col, row, x2-x0, shift)
				}
				if math.Abs((y2-y0)-vert) > eps {
					t.Errorf("%+v: row step y at (%d,%d) = %v, want %v", geom, col, row, y2-y0, vert)
				}
			}
		}
	}
}

func TestSpacing(t *testing.T) {
	horiz, vert := mustNew(t, layout.Geometry{HexWidth: 128, HexHeight: 112, VertRatio: 0.75}).Spacing()
	if horiz != 96 || vert != 84 {
		t.Errorf("Spacing() = (%v,%v), want (96,84)", horiz, vert)
	}
}

func TestToGridNearest(t *testing.T) {
	tr := mustNew(t, layout.DefaultGeometry())

	tests := []struct {
		x, y     float64
		col, row int
	}{
		{10, 10, 0, 0},
		{50, 40, 1, 0},
		{47, 0, 0, 0},
		{60, 100, 0, 1}, // odd row: 60-48 rounds to column 0
		{100, 100, 1, 1},
		{-40, -40, 0, 0},
		{-60, 0, -1, 0},
		{0, -70, -1, -1},
	}
	for _, tc := range tests {
		if c, r := tr.ToGrid(tc.x, tc.y); c != tc.col || r != tc.row {
			t.Errorf("ToGrid(%v,%v) = (%d,%d), want (%d,%d)", tc.x, tc.y, c, r, tc.col, tc.row)
		}
	}
}

func TestCellAt(t *testing.T) {
	tr := mustNew(t, layout.DefaultGeometry())

	tests := []struct {
		x, y     float64
		col, row int
		ok       bool
	}{
		{0, 0, 0, 0, true},
		{96 * 4, 112 * 2, 4, 2, true},
		{-60, 0, 0, 0, false},
		{0, -70, 0, 0, false},
		{96 * 5, 0, 0, 0, false}, // width is 5, column 5 is past the edge
		{0, 112 * 3, 0, 0, false},
	}
	for _, tc := range tests {
		c, r, ok := tr.CellAt(tc.x, tc.y, 5, 3)
		if ok != tc.ok || c != tc.col || r != tc.row {
			t.Errorf("CellAt(%v,%v) = (%d,%d,%v), want (%d,%d,%v)", tc.x, tc.y, c, r, ok, tc.col, tc.row, tc.ok)
		}
	}
}

func TestBounds(t *testing.T) {
	tr := mustNew(t, layout.DefaultGeometry())

	tests := []struct {
		width, height int
		w, h          float64
	}{
		{1, 1, 128, 112},
		{3, 1, 96*2 + 128, 112},
		{3, 2, 96*2 + 48 + 128, 112 + 112},
		{0, 4, 0, 0},
	}
	for _, tc := range tests {
		if w, h := tr.Bounds(tc.width, tc.height); w != tc.w || h != tc.h {
			t.Errorf("Bounds(%d,%d) = (%v,%v), want (%v,%v)", tc.width, tc.height, w, h, tc.w, tc.h)
		}
	}
}

func TestCornersShareEdges(t *testing.T) {
	tr := mustNew(t, layout.DefaultGeometry())
	approx := cmpopts.EquateApprox(0, 1e-9)

	a := tr.Corners(1, 1)
	right := tr.Corners(2, 1)
	// East edge of (1,1) is the west edge of (2,1).
	if diff := cmp.Diff([]layout.Point{a[1], a[2]}, []layout.Point{right[5], right[4]}, approx); diff != "" {
		t.Errorf("east/west edge mismatch (-want +got):\n%s", diff)
	}

	below := tr.Corners(2, 2) // south-east neighbour of (1,1)
	if diff := cmp.Diff([]layout.Point{a[2], a[3]}, []layout.Point{below[0], below[5]}, approx); diff != "" {
		t.Errorf("south-east edge mismatch (-want +got):\n%s", diff)
	}
}

func TestNewInvalidGeometry(t *testing.T) {
	for _, geom := range []layout.Geometry{
		{HexWidth: 0, HexHeight: 10},
		{HexWidth: 10, HexHeight: -1},
		{HexWidth: 10, HexHeight: 10, VertRatio: -0.5},
		{HexWidth: math.NaN(), HexHeight: 10},
	} {
		if _, err := layout.New(geom); !errors.Is(err, layout.ErrInvalidGeometry) {
			t.Errorf("New(%+v) error = %v, want ErrInvalidGeometry", geom, err)
		}
	}
}
