// Map generation: a smoothed noise field classified by weighted terrain
// intervals, a water clustering pass, then feature placement.
package world

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hex-isle/internal/entropy"
)

// SeedField selects how the raw noise field is sampled before smoothing.
type SeedField uint8

const (
	FieldUniform SeedField = iota // Independent uniform draw per cell
	FieldSimplex                  // Normalized simplex noise, seeded from the source
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	FeatureChance      float64   // Chance a cell gets a feature attempt (0.0–1.0)
	WaterClusterChance float64   // Chance a cell with 2+ water neighbours floods (0.0–1.0)
	SeedField          SeedField // Raw noise sampling mode
	NoiseScale         float64   // Simplex frequency per cell (FieldSimplex only)

	// Equalize spreads smoothed values back to a uniform distribution before
	// classification, so terrain proportions follow the weights. Uniform
	// fields go through the exact distribution of a mean of uniforms; simplex
	// fields are ranked with a random offset inside each rank.
	Equalize bool
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		FeatureChance:      0.2,
		WaterClusterChance: 0.7,
		SeedField:          FieldUniform,
		NoiseScale:         0.08,
		Equalize:           true,
	}
}

// SmallTestConfig returns a configuration with every feature attempt
// succeeding, for dense maps in quick checks.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.FeatureChance = 1
	return cfg
}

// Generator produces tile maps. It holds no state that changes between
// calls; concurrent use is safe as long as the source is.
type Generator struct {
	cfg      GenConfig
	tables   Tables
	src      entropy.Source
	terrain  partition
	features [terrainKindCount][]weightedFeature
}

// NewGenerator validates the configuration and tables and returns a generator
// drawing from src. A nil src falls back to crypto/rand.
func NewGenerator(cfg GenConfig, tables Tables, src entropy.Source) (*Generator, error) {
	if cfg.FeatureChance < 0 || cfg.FeatureChance > 1 {
		return nil, fmt.Errorf("%w: feature chance %v outside [0,1]", ErrConfiguration, cfg.FeatureChance)
	}
	if cfg.WaterClusterChance < 0 || cfg.WaterClusterChance > 1 {
		return nil, fmt.Errorf("%w: water cluster chance %v outside [0,1]", ErrConfiguration, cfg.WaterClusterChance)
	}
	if cfg.SeedField > FieldSimplex {
		return nil, fmt.Errorf("%w: unknown seed field %d", ErrConfiguration, cfg.SeedField)
	}
	if cfg.NoiseScale <= 0 {
		cfg.NoiseScale = DefaultGenConfig().NoiseScale
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = entropy.Crypto{}
	}

	return &Generator{
		cfg:      cfg,
		tables:   tables.clone(),
		src:      src,
		terrain:  newPartition(tables.TerrainWeights),
		features: compatibleFeatures(tables),
	}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() GenConfig { return g.cfg }

// Tables returns a copy of the rule tables in use.
func (g *Generator) Tables() Tables { return g.tables.clone() }

// Generate creates a complete tile map with terrain and features.
func (g *Generator) Generate(width, height int) (TileMap, error) {
	coarse, err := g.ClassifyTerrain(width, height)
	if err != nil {
		return TileMap{}, err
	}
	terrain := g.refineWater(coarse)
	return TileMap{
		Terrain:  terrain,
		Features: g.placeFeatures(terrain),
	}, nil
}

// ClassifyTerrain runs the smoothing and weighted classification steps only,
// returning the terrain before water refinement.
func (g *Generator) ClassifyTerrain(width, height int) (TerrainGrid, error) {
	if width <= 0 || height <= 0 {
		return TerrainGrid{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}

	field := boxBlur(g.seedField(width, height), width, height)
	if g.cfg.Equalize {
		if g.cfg.SeedField == FieldSimplex {
			equalizeRanks(field, g.src)
		} else {
			equalizeMeans(field, width, height)
		}
	}

	grid := newTerrainGrid(width, height)
	for i, v := range field {
		grid.cells[i] = g.terrain.classify(v)
	}
	return grid, nil
}

// seedField samples the raw noise, row-major.
func (g *Generator) seedField(width, height int) []float64 {
	field := make([]float64, width*height)

	if g.cfg.SeedField == FieldSimplex {
		noise := opensimplex.NewNormalized(noiseSeed(g.src))
		for row := 0; row < height; row++ {
			// Odd rows sit half a cell right, as they are drawn.
			shift := 0.5 * float64(row&1)
			for col := 0; col < width; col++ {
				x := (float64(col) + shift) * g.cfg.NoiseScale
				y := float64(row) * g.cfg.NoiseScale
				field[row*width+col] = noise.Eval2(x, y)
			}
		}
		return field
	}

	for i := range field {
		field[i] = g.src.Float()
	}
	return field
}

// noiseSeed derives a simplex seed, using the source's integer stream when
// it has one.
func noiseSeed(src entropy.Source) int64 {
	if s, ok := src.(interface{ Int63() int64 }); ok {
		return s.Int63()
	}
	return int64(src.Float() * (1 << 53))
}

// boxBlur averages each cell with its in-bounds 8-neighbours.
func boxBlur(field []float64, width, height int) []float64 {
	out := make([]float64, len(field))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sum := 0.0
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					x, y := col+dx, row+dy
					if x < 0 || x >= width || y < 0 || y >= height {
						continue
					}
					sum += field[y*width+x]
					n++
				}
			}
			out[row*width+col] = sum / float64(n)
		}
	}
	return out
}

// windowSize is the number of in-bounds cells in the 3x3 window around
// (col, row).
func windowSize(col, row, width, height int) int {
	cols := min(col+1, width-1) - max(col-1, 0) + 1
	rows := min(row+1, height-1) - max(row-1, 0) + 1
	return cols * rows
}

// equalizeMeans maps each blurred value, the mean of k independent uniform
// draws, through the CDF of that mean. The result is again uniform on [0,1]
// per cell, and neighbouring cells stay correlated.
func equalizeMeans(field []float64, width, height int) {
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			i := row*width + col
			k := windowSize(col, row, width, height)
			field[i] = irwinHallCDF(field[i]*float64(k), k)
		}
	}
}

// irwinHallCDF returns P(S <= s) for S the sum of k independent uniforms.
func irwinHallCDF(s float64, k int) float64 {
	n := float64(k)
	if s <= 0 {
		return 0
	}
	if s >= n {
		return 1
	}
	// The distribution is symmetric; the short side of the sum cancels less.
	if s > n/2 {
		return 1 - irwinHallCDF(n-s, k)
	}

	sum := 0.0
	binom := 1.0
	for j := 0; j <= int(s); j++ {
		term := binom * math.Pow(s-float64(j), n)
		if j%2 == 1 {
			sum -= term
		} else {
			sum += term
		}
		binom = binom * float64(k-j) / float64(j+1)
	}
	fact := 1.0
	for i := 2; i <= k; i++ {
		fact *= float64(i)
	}
	return min(max(sum/fact, 0), 1)
}

// equalizeRanks replaces every value with (rank + u) / len, u drawn from src
// in rank order. The ordering is kept and each value stays random.
func equalizeRanks(field []float64, src entropy.Source) {
	order := make([]int, len(field))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(field[a], field[b])
	})
	n := float64(len(field))
	for rank, i := range order {
		field[i] = (float64(rank) + src.Float()) / n
	}
}

// refineWater grows water bodies and dissolves single-cell lakes.
// Every decision reads the coarse grid; results go to a copy.
func (g *Generator) refineWater(coarse TerrainGrid) TerrainGrid {
	out := coarse.clone()

	for row := 0; row < coarse.height; row++ {
		for col := 0; col < coarse.width; col++ {
			current := coarse.At(col, row)
			water := countWaterNeighbors(coarse, col, row)

			switch {
			case water >= 2 && current != TerrainWater:
				if g.src.Float() < g.cfg.WaterClusterChance {
					out.set(col, row, TerrainWater)
				}
			case water == 0 && current == TerrainWater:
				out.set(col, row, g.terrain.classify(g.src.Float()))
			}
		}
	}
	return out
}

// countWaterNeighbors counts water cells among the in-bounds 8-neighbours.
func countWaterNeighbors(grid TerrainGrid, col, row int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := col+dx, row+dy
			if !grid.InBounds(x, y) {
				continue
			}
			if grid.At(x, y) == TerrainWater {
				count++
			}
		}
	}
	return count
}

// placeFeatures scatters features in row-major order, at most one per cell,
// each on a terrain it is compatible with.
func (g *Generator) placeFeatures(terrain TerrainGrid) []Feature {
	features := make([]Feature, 0)
	taken := make([]bool, terrain.width*terrain.height)

	for row := 0; row < terrain.height; row++ {
		for col := 0; col < terrain.width; col++ {
			i := row*terrain.width + col
			if taken[i] {
				continue
			}
			if g.src.Float() >= g.cfg.FeatureChance {
				continue
			}
			options := g.features[terrain.At(col, row)]
			if len(options) == 0 {
				continue
			}
			taken[i] = true
			features = append(features, Feature{
				Col:  col,
				Row:  row,
				Kind: pickFeature(options, g.src.Float()),
			})
		}
	}
	return features
}

// pickFeature makes a cumulative-weight draw: u scaled to [0,total) selects
// the first option whose running total reaches it.
func pickFeature(options []weightedFeature, u float64) FeatureKind {
	total := 0
	for _, o := range options {
		total += o.weight
	}
	draw := u * float64(total)
	acc := 0
	for _, o := range options {
		acc += o.weight
		if draw <= float64(acc) {
			return o.kind
		}
	}
	return options[len(options)-1].kind
}
