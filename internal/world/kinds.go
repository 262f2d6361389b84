package world

import (
	"fmt"
	"strings"
)

// TerrainKind is the base classification of a map cell.
type TerrainKind uint8

const (
	TerrainGrass    TerrainKind = iota // Open grassland
	TerrainForest                      // Woodland
	TerrainMountain                    // Rock and peaks
	TerrainDesert                      // Sand and scrub
	TerrainWater                       // Lakes and sea

	terrainKindCount
)

// TerrainKinds lists every terrain kind in declaration order.
// Weighted partitions walk kinds in this order.
var TerrainKinds = [terrainKindCount]TerrainKind{
	TerrainGrass, TerrainForest, TerrainMountain, TerrainDesert, TerrainWater,
}

var terrainNames = [terrainKindCount]string{"Grass", "Forest", "Mountain", "Desert", "Water"}

// String returns a human-readable name for a terrain kind.
func (t TerrainKind) String() string {
	if t < terrainKindCount {
		return terrainNames[t]
	}
	return "Unknown"
}

// Valid reports whether t is a declared terrain kind.
func (t TerrainKind) Valid() bool {
	return t < terrainKindCount
}

// ParseTerrainKind looks a terrain kind up by name, ignoring case.
func ParseTerrainKind(name string) (TerrainKind, error) {
	for i, n := range terrainNames {
		if strings.EqualFold(n, name) {
			return TerrainKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown terrain kind %q", name)
}

// FeatureKind is an overlay placed on top of a terrain cell.
type FeatureKind uint8

const (
	FeatureFruit    FeatureKind = iota // Orchards, berries
	FeatureAnimals                     // Game herds
	FeatureMinerals                    // Ore outcrops
	FeatureRuins                       // Old structures
	FeatureVillage                     // Small settlement

	featureKindCount
)

// FeatureKinds lists every feature kind in declaration order.
var FeatureKinds = [featureKindCount]FeatureKind{
	FeatureFruit, FeatureAnimals, FeatureMinerals, FeatureRuins, FeatureVillage,
}

var featureNames = [featureKindCount]string{"Fruit", "Animals", "Minerals", "Ruins", "Village"}

// String returns a human-readable name for a feature kind.
func (f FeatureKind) String() string {
	if f < featureKindCount {
		return featureNames[f]
	}
	return "Unknown"
}

// Valid reports whether f is a declared feature kind.
func (f FeatureKind) Valid() bool {
	return f < featureKindCount
}

// ParseFeatureKind looks a feature kind up by name, ignoring case.
func ParseFeatureKind(name string) (FeatureKind, error) {
	for i, n := range featureNames {
		if strings.EqualFold(n, name) {
			return FeatureKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature kind %q", name)
}
