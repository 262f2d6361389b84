package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-isle/internal/layout"
	"github.com/talgya/hex-isle/internal/ruleset"
	"github.com/talgya/hex-isle/internal/world"
)

func TestRulesPathPrefersFlag(t *testing.T) {
	t.Setenv(ruleset.EnvVar, "/from/env.db")

	if got := rulesPath("flag.db"); got != "flag.db" {
		t.Errorf("rulesPath(flag) = %q, want flag.db", got)
	}
	if got := rulesPath(""); got != "/from/env.db" {
		t.Errorf("rulesPath(\"\") = %q, want /from/env.db", got)
	}
}

func TestParseField(t *testing.T) {
	for name, want := range map[string]world.SeedField{
		"":        world.FieldUniform,
		"uniform": world.FieldUniform,
		"simplex": world.FieldSimplex,
	} {
		got, err := parseField(name)
		require.NoError(t, err, name)
		if got != want {
			t.Errorf("parseField(%q) = %d, want %d", name, got, want)
		}
	}
	_, err := parseField("perlin")
	require.Error(t, err)
}

func TestPreviewPath(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 5, 3, 0, time.UTC)
	tests := []struct {
		arg  string
		i, n int
		want string
	}{
		{"out.png", 0, 1, "out.png"},
		{"auto", 0, 1, "hexmap-20261017-090503.png"},
		{"maps/out.png", 0, 3, "maps/out-001.png"},
		{"maps/out.png", 2, 3, "maps/out-003.png"},
		{"auto", 9, 12, "hexmap-20261017-090503-010.png"},
	}
	for _, tt := range tests {
		if got := previewPath(tt.arg, tt.i, tt.n, now); got != tt.want {
			t.Errorf("previewPath(%q, %d, %d) = %q, want %q", tt.arg, tt.i, tt.n, got, tt.want)
		}
	}
}

func TestGeneratorFromFlags(t *testing.T) {
	t.Setenv(ruleset.EnvVar, "")
	c := &generateCmd{
		seed:          7,
		field:         "simplex",
		featureChance: 0.5,
		waterChance:   0.25,
		raw:           true,
	}
	gen, err := c.generator()
	require.NoError(t, err)

	cfg := gen.Config()
	if cfg.SeedField != world.FieldSimplex || cfg.Equalize {
		t.Errorf("config = %+v, want simplex field without equalization", cfg)
	}
	if cfg.FeatureChance != 0.5 || cfg.WaterClusterChance != 0.25 {
		t.Errorf("config chances = %v/%v, want 0.5/0.25", cfg.FeatureChance, cfg.WaterClusterChance)
	}

	c.featureChance = 2
	_, err = c.generator()
	require.ErrorIs(t, err, world.ErrConfiguration)
}

func TestSummaryAccumulates(t *testing.T) {
	grid, err := world.NewTerrainGrid([][]world.TerrainKind{
		{world.TerrainGrass, world.TerrainWater},
		{world.TerrainWater, world.TerrainWater},
	})
	require.NoError(t, err)
	m := world.TileMap{
		Terrain:  grid,
		Features: []world.Feature{{Col: 0, Row: 0, Kind: world.FeatureFruit}},
	}

	var s summary
	s.add(m)
	s.add(m)

	wantTerrain := map[world.TerrainKind]int{world.TerrainGrass: 2, world.TerrainWater: 6}
	if diff := cmp.Diff(wantTerrain, s.terrain); diff != "" {
		t.Errorf("terrain mismatch (-want +got):\n%s", diff)
	}
	wantFeatures := map[world.FeatureKind]int{world.FeatureFruit: 2}
	if diff := cmp.Diff(wantFeatures, s.features); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	s.write(&buf)
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "8 cells over 2 map(s)\n"), out)
	require.Contains(t, out, "features: 2\n")
}

func TestPickReport(t *testing.T) {
	tr, err := layout.New(layout.DefaultGeometry())
	require.NoError(t, err)

	var buf bytes.Buffer
	(&pickCmd{width: 3, height: 3}).report(&buf, tr, 0, 0)
	want := "cell (0,0) axial (0,0) centre (0.00,0.00)\n" +
		"on 3x3 map: true\n" +
		"neighbours: (1,0) (0,1)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("bounded report mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	(&pickCmd{}).report(&buf, tr, 144, 112)
	want = "cell (1,1) axial (1,1) centre (144.00,112.00)\n" +
		"neighbours: (2,1) (2,0) (1,0) (0,1) (1,2) (2,2)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("unbounded report mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpRules(t *testing.T) {
	store, err := ruleset.Open(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)
	defer store.Close()

	var buf bytes.Buffer
	require.ErrorIs(t, dumpRules(&buf, store), ruleset.ErrEmpty)

	_, err = store.Seed()
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, dumpRules(&buf, store))
	out := buf.String()
	require.Contains(t, out, "terrain weights:\n")
	require.Contains(t, out, "  Grass     35\n")
	require.Contains(t, out, "  Village   15  on [Desert Grass]\n")
}
