// Package preview rasterizes a scene into a PNG snapshot.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"time"

	strftime "github.com/ncruces/go-strftime"
	"golang.org/x/image/vector"

	"github.com/talgya/hex-isle/internal/layout"
	"github.com/talgya/hex-isle/internal/scene"
)

// FileLayout is the default snapshot file name pattern.
const FileLayout = "hexmap-%Y%m%d-%H%M%S.png"

// DefaultFileName returns the snapshot file name for time t.
func DefaultFileName(t time.Time) string {
	return strftime.Format(FileLayout, t)
}

// Render draws every sprite of s as a filled hexagon, with features as
// round markers on top. The image covers exactly the drawn hexagons.
func Render(s *scene.Scene, tr layout.Transform) *image.RGBA {
	hex := tr.Corners(0, 0)
	_, vert := tr.Spacing()
	markerRadius := vert / 4

	sprites := s.Sprites()
	if len(sprites) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sp := range sprites {
		for _, p := range hex {
			minX = math.Min(minX, sp.X+p.X)
			minY = math.Min(minY, sp.Y+p.Y)
			maxX = math.Max(maxX, sp.X+p.X)
			maxY = math.Max(maxY, sp.Y+p.Y)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(maxX-minX)), int(math.Ceil(maxY-minY))))

	for _, sp := range sprites {
		cx, cy := sp.X-minX, sp.Y-minY
		switch sp.Layer {
		case scene.LayerTerrain:
			var poly [6]layout.Point
			for i, p := range hex {
				poly[i] = layout.Point{X: cx + p.X, Y: cy + p.Y}
			}
			fillPolygon(img, poly[:], scene.TerrainColor(sp.Terrain))
		case scene.LayerFeature:
			fillCircle(img, cx, cy, markerRadius, scene.FeatureColor(sp.Feature))
		}
	}
	return img
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Save renders s and writes it to path.
func Save(path string, s *scene.Scene, tr layout.Transform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WritePNG(f, Render(s, tr)); err != nil {
		return err
	}
	return f.Close()
}

// paint rasterizes one anti-aliased shape covering the given extent. The
// path callback receives coordinates relative to the extent's origin.
func paint(img *image.RGBA, minX, minY, maxX, maxY float64, c color.RGBA, path func(z *vector.Rasterizer, ox, oy float64)) {
	r := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	path(z, float64(r.Min.X), float64(r.Min.Y))
	z.Draw(img, r, image.NewUniform(c), image.Point{})
}

func fillPolygon(img *image.RGBA, poly []layout.Point, c color.RGBA) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	paint(img, minX, minY, maxX, maxY, c, func(z *vector.Rasterizer, ox, oy float64) {
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
	})
}

// circleKappa places cubic control points so four arcs approximate a circle.
const circleKappa = 0.5522847498

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	paint(img, cx-r, cy-r, cx+r, cy+r, c, func(z *vector.Rasterizer, ox, oy float64) {
		x, y := float32(cx-ox), float32(cy-oy)
		rr, k := float32(r), float32(r*circleKappa)
		z.MoveTo(x+rr, y)
		z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
		z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
		z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
		z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
		z.ClosePath()
	})
}
