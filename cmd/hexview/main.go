// Command hexview opens a window showing a generated hex map.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/talgya/hex-isle/internal/entropy"
	"github.com/talgya/hex-isle/internal/layout"
	"github.com/talgya/hex-isle/internal/logging"
	"github.com/talgya/hex-isle/internal/render"
	"github.com/talgya/hex-isle/internal/ruleset"
	"github.com/talgya/hex-isle/internal/scene"
	"github.com/talgya/hex-isle/internal/world"
)

func main() {
	width := flag.Int("width", 24, "Map width in cells")
	height := flag.Int("height", 18, "Map height in cells")
	seed := flag.Int64("seed", 0, "Seed for reproducible maps (0 uses true randomness)")
	rules := flag.String("rules", os.Getenv(ruleset.EnvVar), "SQLite ruleset file")
	simplex := flag.Bool("simplex", false, "Sample simplex noise instead of independent draws")
	scale := flag.Float64("scale", 0.5, "Hex image scale")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	logging.Setup(*verbose)
	slog.Info("hexview starting", "width", *width, "height", *height)

	tables, err := ruleset.LoadOrDefault(*rules)
	if err != nil {
		slog.Error("failed to load rules", "path", *rules, "error", err)
		os.Exit(1)
	}

	var src entropy.Source
	if *seed != 0 {
		src = entropy.NewSeeded(*seed)
	} else {
		// A nil client still draws from crypto/rand.
		rc, err := entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY"))
		if err != nil {
			slog.Warn("random.org client unavailable, using crypto/rand", "error", err)
		}
		if rc.Enabled() {
			slog.Info("drawing map entropy from random.org")
		}
		src = rc
	}

	cfg := world.DefaultGenConfig()
	if *simplex {
		cfg.SeedField = world.FieldSimplex
	}
	gen, err := world.NewGenerator(cfg, tables, src)
	if err != nil {
		slog.Error("invalid generator configuration", "error", err)
		os.Exit(1)
	}

	geom := layout.DefaultGeometry()
	geom.HexWidth *= *scale
	geom.HexHeight *= *scale
	tr, err := layout.New(geom)
	if err != nil {
		slog.Error("invalid hex geometry", "error", err)
		os.Exit(1)
	}

	screen := render.DefaultConfig()
	// Keep the top-left hexagon fully on screen.
	corners := tr.Corners(0, 0)
	sc, err := scene.New(scene.Config{
		Width:     *width,
		Height:    *height,
		Generator: gen,
		Projector: tr,
		OriginX:   corners[2].X,
		OriginY:   -corners[0].Y,
	})
	if err != nil {
		slog.Error("failed to generate map", "error", err)
		os.Exit(1)
	}

	screen.Scene = sc
	screen.Transform = tr
	game, err := render.New(screen)
	if err != nil {
		slog.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(screen.ScreenWidth, screen.ScreenHeight)
	ebiten.SetWindowTitle("hex-isle")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		slog.Error("window closed with error", "error", err)
		os.Exit(1)
	}
}
