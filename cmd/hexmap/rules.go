package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"

	"github.com/talgya/hex-isle/internal/ruleset"
	"github.com/talgya/hex-isle/internal/world"
)

type rulesCmd struct {
	rules string
	reset bool
}

func (c *rulesCmd) Name() string     { return "rules" }
func (c *rulesCmd) Synopsis() string { return "create or print a SQLite ruleset" }
func (c *rulesCmd) Usage() string {
	return "hexmap rules [-rules <path>] [-reset] init|dump\n"
}

func (c *rulesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rules, "rules", "", "SQLite ruleset file (default $"+ruleset.EnvVar+")")
	f.BoolVar(&c.reset, "reset", false, "With init, overwrite existing rules with the built-in tables")
}

func (c *rulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	path := rulesPath(c.rules)
	if path == "" {
		slog.Error("no ruleset file given", "flag", "-rules", "env", ruleset.EnvVar)
		return subcommands.ExitUsageError
	}

	store, err := ruleset.Open(path)
	if err != nil {
		slog.Error("failed to open ruleset", "path", path, "error", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	switch f.Arg(0) {
	case "init":
		err = c.initRules(store, path)
	case "dump":
		err = dumpRules(os.Stdout, store)
	default:
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err != nil {
		slog.Error("rules command failed", "action", f.Arg(0), "path", path, "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *rulesCmd) initRules(store *ruleset.Store, path string) error {
	if c.reset {
		if err := store.Save(world.DefaultTables()); err != nil {
			return err
		}
		slog.Info("ruleset reset to defaults", "path", path)
		return nil
	}
	seeded, err := store.Seed()
	if err != nil {
		return err
	}
	if seeded {
		slog.Info("ruleset created", "path", path)
	} else {
		slog.Info("ruleset already populated, left unchanged", "path", path)
	}
	return nil
}

func dumpRules(w io.Writer, store *ruleset.Store) error {
	tables, err := store.Load()
	if errors.Is(err, ruleset.ErrEmpty) {
		return fmt.Errorf("%w: run \"hexmap rules init\" first", err)
	}
	if err != nil {
		return err
	}
	if updated, err := store.UpdatedAt(); err == nil {
		fmt.Fprintf(w, "updated %s\n", humanize.Time(updated))
	}
	writeTables(w, tables)
	return nil
}

func writeTables(w io.Writer, t world.Tables) {
	fmt.Fprintln(w, "terrain weights:")
	for _, k := range world.TerrainKinds {
		fmt.Fprintf(w, "  %-9s %d\n", k, t.TerrainWeights[k])
	}
	fmt.Fprintln(w, "feature weights:")
	for _, k := range world.FeatureKinds {
		fmt.Fprintf(w, "  %-9s %d  on %v\n", k, t.FeatureWeights[k], t.Compatibility[k])
	}
}
