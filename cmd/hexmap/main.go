// Command hexmap generates hex tile maps and inspects the hex layout from
// the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/talgya/hex-isle/internal/logging"
	"github.com/talgya/hex-isle/internal/ruleset"
	"github.com/talgya/hex-isle/internal/world"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&generateCmd{}, "")
	subcommands.Register(&pickCmd{}, "")
	subcommands.Register(&rulesCmd{}, "")

	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()
	logging.Setup(*verbose)

	os.Exit(int(subcommands.Execute(context.Background())))
}

// rulesPath resolves the ruleset file: the flag wins over the environment.
func rulesPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(ruleset.EnvVar)
}

func loadTables(flagValue string) (world.Tables, error) {
	return ruleset.LoadOrDefault(rulesPath(flagValue))
}

func parseField(name string) (world.SeedField, error) {
	switch name {
	case "", "uniform":
		return world.FieldUniform, nil
	case "simplex":
		return world.FieldSimplex, nil
	}
	return 0, fmt.Errorf("unknown seed field %q (want uniform or simplex)", name)
}
