// Package di wires the application dependency graph.
package di

import (
	"strings"

	"pluginforge.dev/cli/internal/application/marketplace"
	"pluginforge.dev/cli/internal/core/ports"
	"pluginforge.dev/cli/internal/infrastructure/config"
	"pluginforge.dev/cli/internal/infrastructure/discovery"
	"pluginforge.dev/cli/internal/infrastructure/gitops"
	"pluginforge.dev/cli/internal/infrastructure/registry"
	"pluginforge.dev/cli/internal/infrastructure/state"
	"pluginforge.dev/cli/internal/logging"
)

// Container holds the wired application dependencies.
type Container struct {
	Config  config.Config
	Logger  ports.LoggingGateway
	Service *marketplace.Service
}

// NewContainer loads configuration and wires every component.
func NewContainer() *Container {
	cfg := config.Load()
	logger := logging.NewConsoleLogger(parseLogLevel(cfg.LogLevel))

	client := registry.NewClient(cfg.RegistryURL, cfg.StatsURL, cfg.CatalogTimeout, cfg.StatsTimeout)
	cache := registry.NewCache(client, cfg.CacheTTL, logger)
	reporter := registry.NewInstallReporter(cfg.TelemetryURL, cfg.TelemetryTimeout, logger)

	acquirer := gitops.NewAcquirer(gitops.NewExecutor(), cfg.UserPluginsDir, cfg.GitTimeout, logger)
	remover := gitops.NewDirRemover(cfg.UserPluginsDir, cfg.BuiltinPluginsDir)
	disc := discovery.NewFilesystemDiscovery(cfg.BuiltinPluginsDir, cfg.UserPluginsDir, logger)
	sentinels := state.NewSentinelStore(cfg.UserPluginsDir)

	service := marketplace.NewService(cache, disc, acquirer, remover, sentinels, reporter, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Service: service,
	}
}

func parseLogLevel(level string) ports.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return ports.LogLevelDebug
	case "warn", "warning":
		return ports.LogLevelWarn
	case "error":
		return ports.LogLevelError
	default:
		return ports.LogLevelInfo
	}
}
