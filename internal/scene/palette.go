package scene

import (
	"image/color"

	"github.com/talgya/hex-isle/internal/world"
)

var terrainColors = map[world.TerrainKind]color.RGBA{
	world.TerrainGrass:    {R: 0x7c, G: 0xb3, B: 0x42, A: 0xff},
	world.TerrainForest:   {R: 0x2e, G: 0x6b, B: 0x2f, A: 0xff},
	world.TerrainMountain: {R: 0x8d, G: 0x84, B: 0x7a, A: 0xff},
	world.TerrainDesert:   {R: 0xe0, G: 0xc0, B: 0x7a, A: 0xff},
	world.TerrainWater:    {R: 0x3a, G: 0x7c, B: 0xc4, A: 0xff},
}

var featureColors = map[world.FeatureKind]color.RGBA{
	world.FeatureFruit:    {R: 0xd8, G: 0x3a, B: 0x3a, A: 0xff},
	world.FeatureAnimals:  {R: 0x8a, G: 0x5a, B: 0x2b, A: 0xff},
	world.FeatureMinerals: {R: 0x5c, G: 0xd0, B: 0xd6, A: 0xff},
	world.FeatureRuins:    {R: 0x55, G: 0x55, B: 0x55, A: 0xff},
	world.FeatureVillage:  {R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff},
}

// TerrainColor returns the flat fill colour for a terrain kind.
func TerrainColor(t world.TerrainKind) color.RGBA {
	if c, ok := terrainColors[t]; ok {
		return c
	}
	return color.RGBA{R: 0xff, B: 0xff, A: 0xff}
}

// FeatureColor returns the marker colour for a feature kind.
func FeatureColor(f world.FeatureKind) color.RGBA {
	if c, ok := featureColors[f]; ok {
		return c
	}
	return color.RGBA{R: 0xff, B: 0xff, A: 0xff}
}
