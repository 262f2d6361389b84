// Package ruleset stores generator rule tables in a SQLite file so they can
// be tuned without rebuilding. Only static configuration lives here; generated
// maps are never written.
package ruleset

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hex-isle/internal/world"
)

// EnvVar names the environment variable holding a default ruleset path.
const EnvVar = "HEXISLE_RULESET"

// ErrEmpty is returned by Load when the store holds no rules yet.
var ErrEmpty = errors.New("ruleset is empty")

// Store wraps a SQLite connection holding one rule set.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite rule store at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open ruleset: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS terrain_weights (
		kind TEXT PRIMARY KEY,
		weight INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feature_weights (
		kind TEXT PRIMARY KEY,
		weight INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feature_terrain (
		feature TEXT NOT NULL,
		terrain TEXT NOT NULL,
		PRIMARY KEY (feature, terrain)
	);

	CREATE TABLE IF NOT EXISTS ruleset_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

type weightRow struct {
	Kind   string `db:"kind"`
	Weight int    `db:"weight"`
}

type compatRow struct {
	Feature string `db:"feature"`
	Terrain string `db:"terrain"`
}

// Save replaces the stored rules with t. Invalid tables are rejected
// before anything is written.
func (s *Store) Save(t world.Tables) error {
	if err := t.Validate(); err != nil {
		return err
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"terrain_weights", "feature_weights", "feature_terrain"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, k := range world.TerrainKinds {
		w, ok := t.TerrainWeights[k]
		if !ok {
			continue
		}
		if _, err := tx.Exec("INSERT INTO terrain_weights (kind, weight) VALUES (?, ?)", k.String(), w); err != nil {
			return fmt.Errorf("insert terrain weight %s: %w", k, err)
		}
	}

	for _, f := range world.FeatureKinds {
		if w, ok := t.FeatureWeights[f]; ok {
			if _, err := tx.Exec("INSERT INTO feature_weights (kind, weight) VALUES (?, ?)", f.String(), w); err != nil {
				return fmt.Errorf("insert feature weight %s: %w", f, err)
			}
		}
		for _, tk := range t.Compatibility[f] {
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO feature_terrain (feature, terrain) VALUES (?, ?)",
				f.String(), tk.String(),
			); err != nil {
				return fmt.Errorf("insert compatibility %s/%s: %w", f, tk, err)
			}
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO ruleset_meta (key, value) VALUES (?, ?)",
		"updated_at", time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return tx.Commit()
}

// Load reads the stored rules and validates them.
func (s *Store) Load() (world.Tables, error) {
	var terrainRows, featureRows []weightRow
	var compatRows []compatRow

	if err := s.conn.Select(&terrainRows, "SELECT kind, weight FROM terrain_weights"); err != nil {
		return world.Tables{}, fmt.Errorf("load terrain weights: %w", err)
	}
	if len(terrainRows) == 0 {
		return world.Tables{}, ErrEmpty
	}
	if err := s.conn.Select(&featureRows, "SELECT kind, weight FROM feature_weights"); err != nil {
		return world.Tables{}, fmt.Errorf("load feature weights: %w", err)
	}
	if err := s.conn.Select(&compatRows, "SELECT feature, terrain FROM feature_terrain ORDER BY feature, terrain"); err != nil {
		return world.Tables{}, fmt.Errorf("load compatibility: %w", err)
	}

	t := world.Tables{
		TerrainWeights: make(world.TerrainWeights, len(terrainRows)),
		FeatureWeights: make(world.FeatureWeights, len(featureRows)),
		Compatibility:  make(world.FeatureCompatibility),
	}
	for _, r := range terrainRows {
		k, err := world.ParseTerrainKind(r.Kind)
		if err != nil {
			return world.Tables{}, fmt.Errorf("%w: %v", world.ErrConfiguration, err)
		}
		t.TerrainWeights[k] = r.Weight
	}
	for _, r := range featureRows {
		k, err := world.ParseFeatureKind(r.Kind)
		if err != nil {
			return world.Tables{}, fmt.Errorf("%w: %v", world.ErrConfiguration, err)
		}
		t.FeatureWeights[k] = r.Weight
	}
	for _, r := range compatRows {
		f, err := world.ParseFeatureKind(r.Feature)
		if err != nil {
			return world.Tables{}, fmt.Errorf("%w: %v", world.ErrConfiguration, err)
		}
		tk, err := world.ParseTerrainKind(r.Terrain)
		if err != nil {
			return world.Tables{}, fmt.Errorf("%w: %v", world.ErrConfiguration, err)
		}
		t.Compatibility[f] = append(t.Compatibility[f], tk)
	}

	if err := t.Validate(); err != nil {
		return world.Tables{}, err
	}
	return t, nil
}

// Seed writes the built-in tables if the store is empty. It reports
// whether anything was written.
func (s *Store) Seed() (bool, error) {
	var n int
	if err := s.conn.Get(&n, "SELECT COUNT(*) FROM terrain_weights"); err != nil {
		return false, fmt.Errorf("count rules: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.Save(world.DefaultTables()); err != nil {
		return false, fmt.Errorf("seed defaults: %w", err)
	}
	slog.Info("ruleset seeded with defaults")
	return true, nil
}

// UpdatedAt returns when the rules were last saved.
func (s *Store) UpdatedAt() (time.Time, error) {
	var value string
	if err := s.conn.Get(&value, "SELECT value FROM ruleset_meta WHERE key = ?", "updated_at"); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

// LoadOrDefault opens the store at path, seeds it if empty, and returns its
// rules. An empty path returns the built-in tables.
func LoadOrDefault(path string) (world.Tables, error) {
	if path == "" {
		return world.DefaultTables(), nil
	}
	s, err := Open(path)
	if err != nil {
		return world.Tables{}, err
	}
	defer s.Close()

	if _, err := s.Seed(); err != nil {
		return world.Tables{}, err
	}
	return s.Load()
}
