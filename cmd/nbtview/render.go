package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"

	"github.com/annel0/nbtview/internal/storage"
)

type renderCmd struct {
	region string
	cx, cz int
}

func (c *renderCmd) Name() string     { return "render" }
func (c *renderCmd) Synopsis() string { return "print tag tree of a stored chunk" }
func (c *renderCmd) Usage() string {
	return "nbtview render [-region <name>] -cx <x> -cz <z>\n"
}
func (c *renderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.region, "region", "", "Region name (default from config)")
	f.IntVar(&c.cx, "cx", 0, "Chunk X")
	f.IntVar(&c.cz, "cz", 0, "Chunk Z")
}

func (c *renderCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	stack, ok := openStack(ctx)
	if !ok {
		return subcommands.ExitFailure
	}

	root, err := storage.LoadTag(ctx, stack.Store, storage.Key(regionOr(c.region, stack), c.cx, c.cz))
	if err != nil {
		log.Println(err)
		return closeStack(stack, subcommands.ExitFailure)
	}
	fmt.Println(root)
	return closeStack(stack, subcommands.ExitSuccess)
}

type listCmd struct {
	region string
}

func (c *listCmd) Name() string     { return "list" }
func (c *listCmd) Synopsis() string { return "list stored chunks of a region" }
func (c *listCmd) Usage() string {
	return "nbtview list [-region <name>]\n"
}
func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.region, "region", "", "Region name (default from config)")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	stack, ok := openStack(ctx)
	if !ok {
		return subcommands.ExitFailure
	}

	keys, err := stack.Store.List(ctx, regionOr(c.region, stack))
	if err != nil {
		log.Println(err)
		return closeStack(stack, subcommands.ExitFailure)
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return closeStack(stack, subcommands.ExitSuccess)
}
