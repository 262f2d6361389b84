package world

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned for a non-positive map width or height.
	ErrInvalidDimension = errors.New("invalid map dimension")

	// ErrConfiguration is returned when weight or compatibility tables are
	// inconsistent. It is raised when the generator is built, never mid-generation.
	ErrConfiguration = errors.New("invalid generator configuration")
)

// TerrainWeights biases random terrain selection. Missing kinds weigh zero.
type TerrainWeights map[TerrainKind]int

// FeatureWeights biases the choice among compatible features.
type FeatureWeights map[FeatureKind]int

// FeatureCompatibility lists the terrain kinds each feature may sit on.
type FeatureCompatibility map[FeatureKind][]TerrainKind

// Tables holds the static configuration consumed by the generator.
type Tables struct {
	TerrainWeights TerrainWeights
	FeatureWeights FeatureWeights
	Compatibility  FeatureCompatibility
}

// DefaultTables returns the built-in rule tables.
func DefaultTables() Tables {
	return Tables{
		TerrainWeights: TerrainWeights{
			TerrainGrass:    35,
			TerrainForest:   25,
			TerrainMountain: 15,
			TerrainDesert:   10,
			TerrainWater:    15,
		},
		FeatureWeights: FeatureWeights{
			FeatureFruit:    30,
			FeatureAnimals:  25,
			FeatureMinerals: 20,
			FeatureRuins:    10,
			FeatureVillage:  15,
		},
		Compatibility: FeatureCompatibility{
			FeatureFruit:    {TerrainGrass, TerrainForest},
			FeatureAnimals:  {TerrainGrass, TerrainForest, TerrainDesert},
			FeatureMinerals: {TerrainMountain, TerrainDesert},
			FeatureRuins:    {TerrainGrass, TerrainForest, TerrainMountain, TerrainDesert},
			FeatureVillage:  {TerrainGrass, TerrainDesert},
		},
	}
}

// Validate checks the tables for internal consistency.
func (t Tables) Validate() error {
	total := 0
	for k, w := range t.TerrainWeights {
		if !k.Valid() {
			return fmt.Errorf("%w: unknown terrain kind %d in weights", ErrConfiguration, k)
		}
		if w < 0 {
			return fmt.Errorf("%w: terrain %s has negative weight %d", ErrConfiguration, k, w)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: terrain weights sum to zero", ErrConfiguration)
	}

	total = 0
	for k, w := range t.FeatureWeights {
		if !k.Valid() {
			return fmt.Errorf("%w: unknown feature kind %d in weights", ErrConfiguration, k)
		}
		if w < 0 {
			return fmt.Errorf("%w: feature %s has negative weight %d", ErrConfiguration, k, w)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: feature weights sum to zero", ErrConfiguration)
	}

	for k := range t.Compatibility {
		if !k.Valid() {
			return fmt.Errorf("%w: unknown feature kind %d in compatibility", ErrConfiguration, k)
		}
	}
	for _, f := range FeatureKinds {
		terrains := t.Compatibility[f]
		if len(terrains) == 0 {
			return fmt.Errorf("%w: feature %s has no compatible terrain", ErrConfiguration, f)
		}
		for _, tk := range terrains {
			if !tk.Valid() {
				return fmt.Errorf("%w: feature %s lists unknown terrain %d", ErrConfiguration, f, tk)
			}
		}
	}
	return nil
}

// Allows reports whether feature f may be placed on terrain t.
func (c FeatureCompatibility) Allows(f FeatureKind, t TerrainKind) bool {
	for _, tk := range c[f] {
		if tk == t {
			return true
		}
	}
	return false
}

// partition splits [0,1] into contiguous intervals sized by terrain weight,
// in declaration order. Zero-weight kinds get no interval.
type partition struct {
	kinds  []TerrainKind
	bounds []float64 // upper bound of each interval, inclusive
}

func newPartition(weights TerrainWeights) partition {
	total := 0
	for _, k := range TerrainKinds {
		total += weights[k]
	}
	var p partition
	acc := 0
	for _, k := range TerrainKinds {
		w := weights[k]
		if w <= 0 {
			continue
		}
		acc += w
		p.kinds = append(p.kinds, k)
		p.bounds = append(p.bounds, float64(acc)/float64(total))
	}
	p.bounds[len(p.bounds)-1] = 1
	return p
}

// classify maps v to the interval that contains it. A value on a boundary
// belongs to the lower interval; anything past the end maps to the last one.
func (p partition) classify(v float64) TerrainKind {
	for i, b := range p.bounds {
		if v <= b {
			return p.kinds[i]
		}
	}
	return p.kinds[len(p.kinds)-1]
}

// weightedFeature is one entry of a per-terrain cumulative feature table.
type weightedFeature struct {
	kind   FeatureKind
	weight int
}

// compatibleFeatures builds, for each terrain kind, the positively weighted
// features allowed on it in declaration order.
func compatibleFeatures(t Tables) [terrainKindCount][]weightedFeature {
	var out [terrainKindCount][]weightedFeature
	for _, f := range FeatureKinds {
		w := t.FeatureWeights[f]
		if w <= 0 {
			continue
		}
		for _, tk := range TerrainKinds {
			if t.Compatibility.Allows(f, tk) {
				out[tk] = append(out[tk], weightedFeature{kind: f, weight: w})
			}
		}
	}
	return out
}

func (t Tables) clone() Tables {
	c := Tables{
		TerrainWeights: make(TerrainWeights, len(t.TerrainWeights)),
		FeatureWeights: make(FeatureWeights, len(t.FeatureWeights)),
		Compatibility:  make(FeatureCompatibility, len(t.Compatibility)),
	}
	for k, v := range t.TerrainWeights {
		c.TerrainWeights[k] = v
	}
	for k, v := range t.FeatureWeights {
		c.FeatureWeights[k] = v
	}
	for k, v := range t.Compatibility {
		c.Compatibility[k] = append([]TerrainKind(nil), v...)
	}
	return c
}
