package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"github.com/talgya/hex-isle/internal/entropy"
	"github.com/talgya/hex-isle/internal/layout"
	"github.com/talgya/hex-isle/internal/preview"
	"github.com/talgya/hex-isle/internal/ruleset"
	"github.com/talgya/hex-isle/internal/scene"
	"github.com/talgya/hex-isle/internal/world"
)

type generateCmd struct {
	width         int
	height        int
	seed          int64
	rules         string
	field         string
	featureChance float64
	waterChance   float64
	raw           bool
	png           string
	count         int
}

func (c *generateCmd) Name() string     { return "generate" }
func (c *generateCmd) Synopsis() string { return "generate maps and print terrain statistics" }
func (c *generateCmd) Usage() string {
	return "hexmap generate [-width N -height N -seed N -rules <path> -field uniform|simplex -png auto|<path> -n N]\n"
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	def := world.DefaultGenConfig()
	f.IntVar(&c.width, "width", 40, "Map width in cells")
	f.IntVar(&c.height, "height", 30, "Map height in cells")
	f.Int64Var(&c.seed, "seed", 0, "Seed for reproducible maps (0 uses crypto/rand)")
	f.StringVar(&c.rules, "rules", "", "SQLite ruleset file (default $"+ruleset.EnvVar+" or built-in tables)")
	f.StringVar(&c.field, "field", "uniform", "Seed field: uniform or simplex")
	f.Float64Var(&c.featureChance, "features", def.FeatureChance, "Chance a cell gets a feature attempt")
	f.Float64Var(&c.waterChance, "water", def.WaterClusterChance, "Chance a cell with 2+ water neighbours floods")
	f.BoolVar(&c.raw, "raw", false, "Classify smoothed values directly, without rank equalization")
	f.StringVar(&c.png, "png", "", "Write a PNG preview: \"auto\" for a timestamped name, or a file path")
	f.IntVar(&c.count, "n", 1, "Number of maps to generate")
}

func (c *generateCmd) generator() (*world.Generator, error) {
	field, err := parseField(c.field)
	if err != nil {
		return nil, err
	}
	tables, err := loadTables(c.rules)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	cfg := world.DefaultGenConfig()
	cfg.SeedField = field
	cfg.FeatureChance = c.featureChance
	cfg.WaterClusterChance = c.waterChance
	cfg.Equalize = !c.raw

	var src entropy.Source = entropy.Crypto{}
	if c.seed != 0 {
		src = entropy.NewSeeded(c.seed)
	}
	return world.NewGenerator(cfg, tables, src)
}

func (c *generateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.count < 1 {
		slog.Error("invalid map count", "n", c.count)
		return subcommands.ExitUsageError
	}

	gen, err := c.generator()
	if err != nil {
		slog.Error("failed to build generator", "error", err)
		return subcommands.ExitFailure
	}
	tr, err := layout.New(layout.DefaultGeometry())
	if err != nil {
		slog.Error("failed to build layout", "error", err)
		return subcommands.ExitFailure
	}

	start := time.Now()
	sc, err := scene.New(scene.Config{
		Width:     c.width,
		Height:    c.height,
		Generator: gen,
		Projector: tr,
	})
	if err != nil {
		slog.Error("failed to generate map", "error", err)
		return subcommands.ExitFailure
	}

	var bar *progressbar.ProgressBar
	if c.count > 1 {
		bar = progressbar.NewOptions(c.count,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
		)
	}

	var sum summary
	for i := 0; i < c.count; i++ {
		if i > 0 {
			if err := sc.Regenerate(); err != nil {
				slog.Error("failed to generate map", "index", i, "error", err)
				return subcommands.ExitFailure
			}
		}
		sum.add(sc.Map())

		if c.png != "" {
			path := previewPath(c.png, i, c.count, start)
			if err := preview.Save(path, sc, tr); err != nil {
				slog.Error("failed to write preview", "path", path, "error", err)
				return subcommands.ExitFailure
			}
			slog.Debug("preview written", "path", path)
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	slog.Info("maps generated",
		"count", c.count,
		"width", c.width,
		"height", c.height,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	sum.write(os.Stdout)
	return subcommands.ExitSuccess
}

// previewPath names the i-th of count previews. "auto" picks a timestamped
// name; a batch gets a zero-padded index before the extension.
func previewPath(arg string, i, count int, now time.Time) string {
	path := arg
	if arg == "auto" {
		path = preview.DefaultFileName(now)
	}
	if count == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(path, ext), i+1, ext)
}

// summary accumulates terrain and feature counts over a batch of maps.
type summary struct {
	maps     int
	cells    int
	terrain  map[world.TerrainKind]int
	features map[world.FeatureKind]int
}

func (s *summary) add(m world.TileMap) {
	if s.terrain == nil {
		s.terrain = make(map[world.TerrainKind]int)
		s.features = make(map[world.FeatureKind]int)
	}
	s.maps++
	s.cells += m.Terrain.Width() * m.Terrain.Height()
	for k, n := range world.TerrainCounts(m.Terrain) {
		s.terrain[k] += n
	}
	for k, n := range world.FeatureCounts(m) {
		s.features[k] += n
	}
}

func (s *summary) write(w io.Writer) {
	fmt.Fprintf(w, "%s cells over %s map(s)\n", humanize.Comma(int64(s.cells)), humanize.Comma(int64(s.maps)))
	fmt.Fprintln(w, "terrain:")
	for _, k := range world.TerrainKinds {
		n := s.terrain[k]
		fmt.Fprintf(w, "  %-9s %10s  %5.1f%%\n", k, humanize.Comma(int64(n)), percent(n, s.cells))
	}

	placed := 0
	for _, n := range s.features {
		placed += n
	}
	fmt.Fprintf(w, "features: %s\n", humanize.Comma(int64(placed)))
	for _, k := range world.FeatureKinds {
		n := s.features[k]
		fmt.Fprintf(w, "  %-9s %10s  %5.1f%%\n", k, humanize.Comma(int64(n)), percent(n, placed))
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
