package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/annel0/nbtview/internal/world/block"
)

type blockCmd struct {
	region  string
	x, y, z int
}

func (c *blockCmd) Name() string     { return "block" }
func (c *blockCmd) Synopsis() string { return "print block at world coordinates" }
func (c *blockCmd) Usage() string {
	return "nbtview block [-region <name>] -x <x> -y <y> -z <z>\n"
}
func (c *blockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.region, "region", "", "Region name (default from config)")
	f.IntVar(&c.x, "x", 0, "World X")
	f.IntVar(&c.y, "y", 0, "World Y")
	f.IntVar(&c.z, "z", 0, "World Z")
}

func (c *blockCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	stack, ok := openStack(ctx)
	if !ok {
		return subcommands.ExitFailure
	}

	w := stack.RegionWorld(regionOr(c.region, stack))
	chunk := w.ChunkCoords(c.x, c.z)
	local := w.LocalCoords(c.x, c.z)

	b, found := w.Block(c.x, c.y, c.z)
	if !found {
		fmt.Printf("(%d, %d, %d) chunk=(%d, %d) local=(%d, %d): no block\n", c.x, c.y, c.z, chunk.X, chunk.Z, local.X, local.Z)
		return closeStack(stack, subcommands.ExitFailure)
	}
	fmt.Printf("(%d, %d, %d) chunk=(%d, %d) local=(%d, %d): %d %s\n",
		c.x, c.y, c.z, chunk.X, chunk.Z, local.X, local.Z, b.BlockID(), block.ID(b.BlockID()).Name())
	return closeStack(stack, subcommands.ExitSuccess)
}
