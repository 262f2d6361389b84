package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/talgya/hex-isle/internal/layout"
	"github.com/talgya/hex-isle/internal/world"
)

type pickCmd struct {
	hexWidth  float64
	hexHeight float64
	vertRatio float64
	width     int
	height    int
}

func (c *pickCmd) Name() string     { return "pick" }
func (c *pickCmd) Synopsis() string { return "convert a pixel offset to a map cell" }
func (c *pickCmd) Usage() string {
	return "hexmap pick [-hw W -hh H -ratio R -width N -height N] <x> <y>\n"
}

func (c *pickCmd) SetFlags(f *flag.FlagSet) {
	def := layout.DefaultGeometry()
	f.Float64Var(&c.hexWidth, "hw", def.HexWidth, "Hex image width in pixels")
	f.Float64Var(&c.hexHeight, "hh", def.HexHeight, "Hex image height in pixels")
	f.Float64Var(&c.vertRatio, "ratio", def.VertRatio, "Vertical spacing as a fraction of hex height")
	f.IntVar(&c.width, "width", 0, "Map width for bounds checks (0 disables)")
	f.IntVar(&c.height, "height", 0, "Map height for bounds checks (0 disables)")
}

func (c *pickCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	x, err := strconv.ParseFloat(f.Arg(0), 64)
	if err != nil {
		slog.Error("invalid x", "value", f.Arg(0), "error", err)
		return subcommands.ExitUsageError
	}
	y, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		slog.Error("invalid y", "value", f.Arg(1), "error", err)
		return subcommands.ExitUsageError
	}

	tr, err := layout.New(layout.Geometry{
		HexWidth:  c.hexWidth,
		HexHeight: c.hexHeight,
		VertRatio: c.vertRatio,
	})
	if err != nil {
		slog.Error("invalid geometry", "error", err)
		return subcommands.ExitFailure
	}

	c.report(os.Stdout, tr, x, y)
	return subcommands.ExitSuccess
}

func (c *pickCmd) report(w io.Writer, tr layout.Transform, x, y float64) {
	col, row := tr.ToGrid(x, y)
	cell := world.Cell{Col: col, Row: row}
	axial := cell.Axial()
	cx, cy := tr.ToPixel(col, row)

	fmt.Fprintf(w, "cell %v axial (%d,%d) centre (%.2f,%.2f)\n", cell, axial.Q, axial.R, cx, cy)

	bounded := c.width > 0 && c.height > 0
	if bounded {
		_, _, ok := tr.CellAt(x, y, c.width, c.height)
		fmt.Fprintf(w, "on %dx%d map: %t\n", c.width, c.height, ok)
	}

	fmt.Fprint(w, "neighbours:")
	for _, n := range cell.Neighbors() {
		if bounded && (n.Col < 0 || n.Col >= c.width || n.Row < 0 || n.Row >= c.height) {
			continue
		}
		fmt.Fprintf(w, " %v", n)
	}
	fmt.Fprintln(w)
}
