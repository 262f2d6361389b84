// Package scene turns a generated tile map into positioned, depth-ordered
// sprites and answers hit-tests for the renderer. It owns no drawing code.
package scene

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/hex-isle/internal/world"
)

// MapGenerator produces tile maps.
type MapGenerator interface {
	Generate(width, height int) (world.TileMap, error)
}

// Projector maps cells to pixel offsets and back.
type Projector interface {
	ToPixel(col, row int) (x, y float64)
	ToGrid(x, y float64) (col, row int)
}

// Config is everything a scene needs, passed in explicitly.
type Config struct {
	Width     int // Map width in cells
	Height    int // Map height in cells
	Generator MapGenerator
	Projector Projector

	// Origin is the screen position of cell (0,0).
	OriginX float64
	OriginY float64
}

// Layer orders sprites that share a row.
type Layer uint8

const (
	LayerTerrain Layer = iota
	LayerFeature
)

// Sprite is one drawable tile with its screen position.
type Sprite struct {
	Cell    world.Cell
	X, Y    float64
	Layer   Layer
	Terrain world.TerrainKind
	Feature world.FeatureKind // Only meaningful on LayerFeature
}

// Scene holds the current map and its sprites.
type Scene struct {
	cfg      Config
	tiles    world.TileMap
	features map[world.Cell]world.Feature
	sprites  []Sprite

	selected *world.Cell
}

// New validates cfg, generates the first map and lays it out.
func New(cfg Config) (*Scene, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("scene: nil generator")
	}
	if cfg.Projector == nil {
		return nil, fmt.Errorf("scene: nil projector")
	}
	s := &Scene{cfg: cfg}
	if err := s.Regenerate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Regenerate replaces the map with a fresh one. On failure the current
// map is kept.
func (s *Scene) Regenerate() error {
	tiles, err := s.cfg.Generator.Generate(s.cfg.Width, s.cfg.Height)
	if err != nil {
		return fmt.Errorf("generate map: %w", err)
	}
	s.tiles = tiles
	s.features = make(map[world.Cell]world.Feature, len(tiles.Features))
	for _, f := range tiles.Features {
		s.features[f.Cell()] = f
	}
	s.sprites = s.layout()
	s.selected = nil

	slog.Debug("scene regenerated",
		"width", s.cfg.Width,
		"height", s.cfg.Height,
		"features", len(tiles.Features),
		"sprites", len(s.sprites),
	)
	return nil
}

// layout positions every terrain tile and feature and sorts them for
// back-to-front drawing: by row, then layer, then column.
func (s *Scene) layout() []Sprite {
	terrain := s.tiles.Terrain
	sprites := make([]Sprite, 0, terrain.Width()*terrain.Height()+len(s.tiles.Features))

	for row := 0; row < terrain.Height(); row++ {
		for col := 0; col < terrain.Width(); col++ {
			x, y := s.screen(col, row)
			sprites = append(sprites, Sprite{
				Cell:    world.Cell{Col: col, Row: row},
				X:       x,
				Y:       y,
				Layer:   LayerTerrain,
				Terrain: terrain.At(col, row),
			})
		}
	}
	for _, f := range s.tiles.Features {
		x, y := s.screen(f.Col, f.Row)
		sprites = append(sprites, Sprite{
			Cell:    f.Cell(),
			X:       x,
			Y:       y,
			Layer:   LayerFeature,
			Terrain: terrain.At(f.Col, f.Row),
			Feature: f.Kind,
		})
	}

	sort.SliceStable(sprites, func(i, j int) bool {
		a, b := sprites[i], sprites[j]
		if a.Cell.Row != b.Cell.Row {
			return a.Cell.Row < b.Cell.Row
		}
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.Cell.Col < b.Cell.Col
	})
	return sprites
}

func (s *Scene) screen(col, row int) (float64, float64) {
	x, y := s.cfg.Projector.ToPixel(col, row)
	return x + s.cfg.OriginX, y + s.cfg.OriginY
}

// Map returns the current tile map.
func (s *Scene) Map() world.TileMap { return s.tiles }

// Size returns the map dimensions in cells.
func (s *Scene) Size() (width, height int) { return s.cfg.Width, s.cfg.Height }

// Sprites returns the sprites in drawing order. The slice is shared;
// callers must not modify it.
func (s *Scene) Sprites() []Sprite { return s.sprites }

// Position returns the screen position of a cell.
func (s *Scene) Position(c world.Cell) (x, y float64) {
	return s.screen(c.Col, c.Row)
}

// Hit is the result of a successful pick.
type Hit struct {
	Cell       world.Cell
	Terrain    world.TerrainKind
	Feature    world.Feature
	HasFeature bool
}

// Pick returns the cell under a screen position, if it lies on the map.
func (s *Scene) Pick(x, y float64) (Hit, bool) {
	col, row := s.cfg.Projector.ToGrid(x-s.cfg.OriginX, y-s.cfg.OriginY)
	if col < 0 || row < 0 || !s.tiles.Terrain.InBounds(col, row) {
		return Hit{}, false
	}
	c := world.Cell{Col: col, Row: row}
	f, ok := s.features[c]
	return Hit{
		Cell:       c,
		Terrain:    s.tiles.Terrain.At(col, row),
		Feature:    f,
		HasFeature: ok,
	}, true
}

// Select marks a cell as selected. Cells off the map clear the selection.
func (s *Scene) Select(c world.Cell) {
	if !s.tiles.Terrain.InBounds(c.Col, c.Row) {
		s.selected = nil
		return
	}
	s.selected = &c
}

// Selected returns the selected cell, if any.
func (s *Scene) Selected() (world.Cell, bool) {
	if s.selected == nil {
		return world.Cell{}, false
	}
	return *s.selected, true
}

// Neighborhood returns the on-map hex neighbours of c.
func (s *Scene) Neighborhood(c world.Cell) []world.Cell {
	var out []world.Cell
	for _, n := range c.Neighbors() {
		if s.tiles.Terrain.InBounds(n.Col, n.Row) {
			out = append(out, n)
		}
	}
	return out
}
