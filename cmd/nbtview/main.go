package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/annel0/nbtview/internal/app"
	"github.com/annel0/nbtview/internal/config"
	"github.com/annel0/nbtview/internal/logging"
)

var configPath = flag.String("config", "", "Path to YAML config (default: $NBTVIEW_CONFIG)")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&blockCmd{}, "")
	subcommands.Register(&renderCmd{}, "")
	subcommands.Register(&listCmd{}, "")
	subcommands.Register(&generateCmd{}, "")
	subcommands.Register(&serveCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// openStack загружает конфигурацию и собирает стек хранилища
func openStack(ctx context.Context) (*app.Stack, bool) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("❌ config: %v", err)
		return nil, false
	}
	logging.GetWorldLogger().SetLevels(logging.ParseLevel(cfg.Logging.Level), logging.DEBUG)

	stack, err := app.Open(ctx, cfg)
	if err != nil {
		log.Printf("❌ %v", err)
		return nil, false
	}
	return stack, true
}

// closeStack закрывает стек; ошибка закрытия превращает успех в неудачу
func closeStack(stack *app.Stack, status subcommands.ExitStatus) subcommands.ExitStatus {
	if err := stack.Close(); err != nil {
		log.Printf("❌ close: %v", err)
		return subcommands.ExitFailure
	}
	return status
}

// regionOr возвращает region или регион из конфигурации
func regionOr(region string, stack *app.Stack) string {
	if region != "" {
		return region
	}
	return stack.Config.World.Region
}
