package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"github.com/annel0/nbtview/internal/generator"
)

type generateCmd struct {
	region string
	seed   int64
	radius int
}

func (c *generateCmd) Name() string     { return "generate" }
func (c *generateCmd) Synopsis() string { return "fill a region with perlin terrain chunks" }
func (c *generateCmd) Usage() string {
	return "nbtview generate [-region <name>] [-seed <n>] [-radius <chunks>]\n"
}
func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.region, "region", "", "Region name (default from config)")
	f.Int64Var(&c.seed, "seed", 0, "Terrain seed (default from config)")
	f.IntVar(&c.radius, "radius", 4, "Radius in chunks around (0, 0)")
}

func (c *generateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	stack, ok := openStack(ctx)
	if !ok {
		return subcommands.ExitFailure
	}

	seed := c.seed
	if seed == 0 {
		seed = stack.Config.World.Seed
	}
	terrain := generator.NewTerrain(seed)

	side := 2*c.radius + 1
	bar := progressbar.New(side * side)
	err := terrain.Fill(ctx, stack.Store, regionOr(c.region, stack), c.radius, func(done, total int) {
		bar.Set(done)
	})
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return closeStack(stack, subcommands.ExitFailure)
	}
	return closeStack(stack, subcommands.ExitSuccess)
}
