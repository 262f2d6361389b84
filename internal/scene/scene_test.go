package scene_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-isle/internal/entropy"
	"github.com/talgya/hex-isle/internal/layout"
	"github.com/talgya/hex-isle/internal/scene"
	"github.com/talgya/hex-isle/internal/world"
)

func newScene(t *testing.T, width, height int) (*scene.Scene, layout.Transform) {
	t.Helper()
	gen, err := world.NewGenerator(world.DefaultGenConfig(), world.DefaultTables(), entropy.NewSeeded(17))
	require.NoError(t, err)
	tr, err := layout.New(layout.DefaultGeometry())
	require.NoError(t, err)

	s, err := scene.New(scene.Config{
		Width:     width,
		Height:    height,
		Generator: gen,
		Projector: tr,
		OriginX:   40,
		OriginY:   25,
	})
	require.NoError(t, err)
	return s, tr
}

func TestNewRequiresCollaborators(t *testing.T) {
	tr, err := layout.New(layout.DefaultGeometry())
	require.NoError(t, err)
	_, err = scene.New(scene.Config{Width: 3, Height: 3, Projector: tr})
	require.Error(t, err)

	gen, err := world.NewGenerator(world.DefaultGenConfig(), world.DefaultTables(), nil)
	require.NoError(t, err)
	_, err = scene.New(scene.Config{Width: 3, Height: 3, Generator: gen})
	require.Error(t, err)
}

func TestNewInvalidDimension(t *testing.T) {
	gen, err := world.NewGenerator(world.DefaultGenConfig(), world.DefaultTables(), entropy.NewSeeded(1))
	require.NoError(t, err)
	tr, err := layout.New(layout.DefaultGeometry())
	require.NoError(t, err)

	_, err = scene.New(scene.Config{Width: 0, Height: 4, Generator: gen, Projector: tr})
	require.Truef(t, errors.Is(err, world.ErrInvalidDimension), "%v", err)
}

func TestSpritesDrawOrder(t *testing.T) {
	s, _ := newScene(t, 12, 9)
	sprites := s.Sprites()

	terrain, features := 0, 0
	for i, sp := range sprites {
		switch sp.Layer {
		case scene.LayerTerrain:
			terrain++
		case scene.LayerFeature:
			features++
		}
		if i == 0 {
			continue
		}
		prev := sprites[i-1]
		if prev.Cell.Row > sp.Cell.Row {
			t.Fatalf("sprite %d row %d drawn after row %d", i, sp.Cell.Row, prev.Cell.Row)
		}
		if prev.Cell.Row == sp.Cell.Row && prev.Layer > sp.Layer {
			t.Fatalf("sprite %d: feature drawn before terrain in row %d", i, sp.Cell.Row)
		}
	}

	if terrain != 12*9 {
		t.Errorf("%d terrain sprites, want %d", terrain, 12*9)
	}
	if features != len(s.Map().Features) {
		t.Errorf("%d feature sprites, want %d", features, len(s.Map().Features))
	}
}

func TestSpritePositions(t *testing.T) {
	s, tr := newScene(t, 6, 5)
	for _, sp := range s.Sprites() {
		x, y := tr.ToPixel(sp.Cell.Col, sp.Cell.Row)
		if sp.X != x+40 || sp.Y != y+25 {
			t.Errorf("sprite %v at (%v,%v), want (%v,%v)", sp.Cell, sp.X, sp.Y, x+40, y+25)
		}
		if sp.Terrain != s.Map().Terrain.At(sp.Cell.Col, sp.Cell.Row) {
			t.Errorf("sprite %v terrain %s, map has %s", sp.Cell, sp.Terrain, s.Map().Terrain.At(sp.Cell.Col, sp.Cell.Row))
		}
	}
}

func TestPickEveryCell(t *testing.T) {
	s, _ := newScene(t, 10, 8)
	m := s.Map()

	for row := 0; row < 8; row++ {
		for col := 0; col < 10; col++ {
			c := world.Cell{Col: col, Row: row}
			x, y := s.Position(c)
			hit, ok := s.Pick(x+3, y-2)
			if !ok {
				t.Fatalf("Pick at %v missed the map", c)
			}
			if hit.Cell != c {
				t.Fatalf("Pick at %v = %v", c, hit.Cell)
			}
			f, hasFeature := m.FeatureAt(col, row)
			if hit.HasFeature != hasFeature || (hasFeature && hit.Feature != f) {
				t.Errorf("Pick at %v feature = %v/%v, want %v/%v", c, hit.Feature, hit.HasFeature, f, hasFeature)
			}
		}
	}
}

func TestPickOffMap(t *testing.T) {
	s, _ := newScene(t, 4, 4)
	for _, p := range []struct{ x, y float64 }{
		{-100, 25},  // left of column 0
		{40, -100},  // above row 0
		{5000, 25},  // right of the map
		{40, 50000}, // below the map
	} {
		if hit, ok := s.Pick(p.x, p.y); ok {
			t.Errorf("Pick(%v,%v) = %v, want miss", p.x, p.y, hit)
		}
	}
}

func TestSelect(t *testing.T) {
	s, _ := newScene(t, 4, 4)

	if _, ok := s.Selected(); ok {
		t.Fatal("new scene has a selection")
	}
	s.Select(world.Cell{Col: 2, Row: 3})
	if c, ok := s.Selected(); !ok || c != (world.Cell{Col: 2, Row: 3}) {
		t.Errorf("Selected() = %v, %v", c, ok)
	}
	s.Select(world.Cell{Col: 9, Row: 0})
	if _, ok := s.Selected(); ok {
		t.Error("off-map Select kept a selection")
	}

	s.Select(world.Cell{Col: 1, Row: 1})
	require.NoError(t, s.Regenerate())
	if _, ok := s.Selected(); ok {
		t.Error("Regenerate kept the selection")
	}
}

func TestNeighborhoodClipsToMap(t *testing.T) {
	s, _ := newScene(t, 4, 4)
	got := s.Neighborhood(world.Cell{})
	want := []world.Cell{{Col: 1, Row: 0}, {Col: 0, Row: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Neighborhood((0,0)) mismatch (-want +got):\n%s", diff)
	}
	if n := len(s.Neighborhood(world.Cell{Col: 1, Row: 1})); n != 6 {
		t.Errorf("interior cell has %d neighbours, want 6", n)
	}
}

type flakyGenerator struct {
	calls int
	inner scene.MapGenerator
}

var errFlaky = errors.New("generator unavailable")

func (g *flakyGenerator) Generate(width, height int) (world.TileMap, error) {
	g.calls++
	if g.calls > 1 {
		return world.TileMap{}, errFlaky
	}
	return g.inner.Generate(width, height)
}

func TestRegenerateKeepsMapOnError(t *testing.T) {
	gen, err := world.NewGenerator(world.DefaultGenConfig(), world.DefaultTables(), entropy.NewSeeded(4))
	require.NoError(t, err)
	tr, err := layout.New(layout.DefaultGeometry())
	require.NoError(t, err)

	s, err := scene.New(scene.Config{Width: 5, Height: 5, Generator: &flakyGenerator{inner: gen}, Projector: tr})
	require.NoError(t, err)
	before := s.Map().Terrain.Rows()

	err = s.Regenerate()
	require.Truef(t, errors.Is(err, errFlaky), "%v", err)
	if diff := cmp.Diff(before, s.Map().Terrain.Rows()); diff != "" {
		t.Errorf("failed Regenerate changed the map (-want +got):\n%s", diff)
	}
}
