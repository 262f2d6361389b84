// Package render draws a scene with ebiten. It holds only presentation
// state (camera, cached images); the map itself lives in the scene.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/talgya/hex-isle/internal/layout"
	"github.com/talgya/hex-isle/internal/scene"
	"github.com/talgya/hex-isle/internal/world"
)

// Config holds everything the renderer needs.
type Config struct {
	Scene        *scene.Scene
	Transform    layout.Transform
	ScreenWidth  int
	ScreenHeight int
	PanSpeed     float64 // Pixels per tick while a pan key is held
}

// DefaultConfig returns a window-sized configuration without a scene.
func DefaultConfig() Config {
	return Config{ScreenWidth: 1280, ScreenHeight: 800, PanSpeed: 12}
}

// Renderer implements ebiten.Game for a hex scene.
type Renderer struct {
	cfg    Config
	hex    [6]layout.Point
	marker float32

	camX, camY float64
	hover      *scene.Hit
	status     string

	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
}

// New returns a renderer ready to pass to ebiten.RunGame.
func New(cfg Config) (*Renderer, error) {
	if cfg.Scene == nil {
		return nil, errors.New("render: nil scene")
	}
	def := DefaultConfig()
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 {
		cfg.ScreenWidth, cfg.ScreenHeight = def.ScreenWidth, def.ScreenHeight
	}
	if cfg.PanSpeed <= 0 {
		cfg.PanSpeed = def.PanSpeed
	}

	_, vert := cfg.Transform.Spacing()
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	return &Renderer{
		cfg:           cfg,
		hex:           cfg.Transform.Corners(0, 0),
		marker:        float32(vert / 4),
		whiteImage:    white,
		whiteSubImage: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}, nil
}

// Update handles camera movement, selection and regeneration.
func (r *Renderer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		r.camX -= r.cfg.PanSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		r.camX += r.cfg.PanSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		r.camY -= r.cfg.PanSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		r.camY += r.cfg.PanSpeed
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := r.cfg.Scene.Regenerate(); err != nil {
			slog.Error("regenerate failed", "error", err)
			r.status = "regenerate failed"
		} else {
			r.status = "new map"
		}
	}

	mx, my := ebiten.CursorPosition()
	if hit, ok := r.cfg.Scene.Pick(float64(mx)+r.camX, float64(my)+r.camY); ok {
		r.hover = &hit
	} else {
		r.hover = nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if r.hover != nil {
			r.cfg.Scene.Select(r.hover.Cell)
			r.status = describe(*r.hover)
		} else {
			r.cfg.Scene.Select(world.Cell{Col: -1, Row: -1})
			r.status = ""
		}
	}
	return nil
}

// Draw paints terrain hexes, feature markers, the selection and a status line.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x14, B: 0x1c, A: 0xff})

	w, h := float64(r.cfg.ScreenWidth), float64(r.cfg.ScreenHeight)
	margin := r.hex[2].X * 4

	for _, sp := range r.cfg.Scene.Sprites() {
		x, y := sp.X-r.camX, sp.Y-r.camY
		if x < -margin || y < -margin || x > w+margin || y > h+margin {
			continue
		}
		switch sp.Layer {
		case scene.LayerTerrain:
			r.fillHex(screen, x, y, scene.TerrainColor(sp.Terrain))
		case scene.LayerFeature:
			vector.DrawFilledCircle(screen, float32(x), float32(y), r.marker, scene.FeatureColor(sp.Feature), true)
		}
	}

	if c, ok := r.cfg.Scene.Selected(); ok {
		for _, n := range r.cfg.Scene.Neighborhood(c) {
			r.strokeHex(screen, n, 1, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80})
		}
		r.strokeHex(screen, c, 3, color.RGBA{R: 0xff, G: 0xd7, A: 0xff})
	}
	if r.hover != nil {
		r.strokeHex(screen, r.hover.Cell, 1, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	}

	width, height := r.cfg.Scene.Size()
	line := fmt.Sprintf("%dx%d  arrows/WASD pan  click select  R regenerate  Esc quit", width, height)
	if r.hover != nil {
		line += "\nhover " + describe(*r.hover)
	}
	if r.status != "" {
		line += "\n" + r.status
	}
	ebitenutil.DebugPrint(screen, line)
}

// Layout keeps a fixed logical screen size.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.cfg.ScreenWidth, r.cfg.ScreenHeight
}

func (r *Renderer) fillHex(dst *ebiten.Image, cx, cy float64, c color.RGBA) {
	var path vector.Path
	path.MoveTo(float32(cx+r.hex[0].X), float32(cy+r.hex[0].Y))
	for _, p := range r.hex[1:] {
		path.LineTo(float32(cx+p.X), float32(cy+p.Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(c.R) / 0xff
		vs[i].ColorG = float32(c.G) / 0xff
		vs[i].ColorB = float32(c.B) / 0xff
		vs[i].ColorA = float32(c.A) / 0xff
	}
	dst.DrawTriangles(vs, is, r.whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (r *Renderer) strokeHex(dst *ebiten.Image, cell world.Cell, width float32, c color.RGBA) {
	x, y := r.cfg.Scene.Position(cell)
	x, y = x-r.camX, y-r.camY
	for i := range r.hex {
		a, b := r.hex[i], r.hex[(i+1)%len(r.hex)]
		vector.StrokeLine(dst,
			float32(x+a.X), float32(y+a.Y),
			float32(x+b.X), float32(y+b.Y),
			width, c, true)
	}
}

func describe(h scene.Hit) string {
	s := fmt.Sprintf("%v %s", h.Cell, h.Terrain)
	if h.HasFeature {
		s += " + " + h.Feature.Kind.String()
	}
	return s
}
