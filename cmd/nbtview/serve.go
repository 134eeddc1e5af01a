package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"github.com/annel0/nbtview/internal/api"
	"github.com/annel0/nbtview/internal/eventbus"
	"github.com/annel0/nbtview/internal/logging"
	"github.com/annel0/nbtview/internal/observability"
)

type serveCmd struct {
	port int
}

func (c *serveCmd) Name() string     { return "serve" }
func (c *serveCmd) Synopsis() string { return "run REST API over the configured store" }
func (c *serveCmd) Usage() string {
	return "nbtview serve [-port <n>]\n"
}
func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 0, "REST port (default: config, $NBTVIEW_REST_PORT, 8088)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Printf("❌ Ошибка инициализации логирования: %v", err)
		return subcommands.ExitFailure
	}
	defer logging.CloseDefaultLogger()
	logging.GetLoggerManager().EnableFileOutput(true)
	defer logging.GetLoggerManager().CloseAll()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, ok := openStack(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	cfg := stack.Config

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, observability.Config{
			ServiceName: cfg.Telemetry.ServiceName,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
		})
		if err != nil {
			logging.Error("❌ OpenTelemetry: %v", err)
			return closeStack(stack, subcommands.ExitFailure)
		}
		defer shutdown(context.Background())
	}

	exporter := eventbus.NewMetricsExporter(stack.Bus, nil)
	exporter.Start(5 * time.Second)
	defer exporter.Stop()

	port := c.port
	if port == 0 {
		port = cfg.Server.GetRESTPort()
	}
	server := api.NewServer(api.Config{
		Port:             fmt.Sprintf(":%d", port),
		Store:            stack.Store,
		CanonicalOffsets: cfg.World.CanonicalOffsets,
		Regions:          []string{cfg.World.Region},
		Cache:            stack.Cache,
		Bus:              stack.Bus,
		Tracing:          cfg.Telemetry.Enabled,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logging.Info("✅ nbtview запущен")
	logging.Info("   🌐 REST API: http://localhost:%d/api/v1/regions/%s/blocks?x=0&y=64&z=0", port, cfg.World.Region)
	logging.Info("   ❤️  Health check: http://localhost:%d/health", port)

	status := subcommands.ExitSuccess
	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал, завершение работы...")
	case err := <-errCh:
		logging.Error("❌ REST API: %v", err)
		status = subcommands.ExitFailure
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	status = closeStack(stack, status)
	logging.Info("👋 Сервер остановлен")
	return status
}
