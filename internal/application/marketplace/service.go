package marketplace

import (
	"context"
	"fmt"

	"pluginforge.dev/cli/internal/core/domain/plugin"
	"pluginforge.dev/cli/internal/core/ports"
)

// CatalogCache is the cached view of the remote registry the service
// reconciles against.
type CatalogCache interface {
	Catalog(ctx context.Context) (*plugin.Catalog, error)
	Stats(ctx context.Context) map[string]int
}

// Service executes marketplace actions. Each call is one logical unit
// of work with no internal parallelism.
type Service struct {
	cache     CatalogCache
	discovery ports.PluginDiscovery
	acquirer  ports.Acquirer
	remover   ports.Remover
	state     ports.StateStore
	reporter  ports.InstallReporter
	logger    ports.LoggingGateway
}

// NewService wires the marketplace service from its capabilities.
func NewService(cache CatalogCache, discovery ports.PluginDiscovery, acquirer ports.Acquirer, remover ports.Remover, state ports.StateStore, reporter ports.InstallReporter, logger ports.LoggingGateway) *Service {
	return &Service{
		cache:     cache,
		discovery: discovery,
		acquirer:  acquirer,
		remover:   remover,
		state:     state,
		reporter:  reporter,
		logger:    logger,
	}
}

// InstallRequest carries the fields of an install action. PluginID and
// RepoURL are required; PluginPath defaults to the repository root.
type InstallRequest struct {
	PluginID   string `json:"plugin_id"`
	RepoURL    string `json:"repo_url"`
	PluginPath string `json:"plugin_path"`
	Branch     string `json:"branch"`
}

// List returns the merged catalog/local view. Local plugins are
// enumerated fresh on every call; only the remote documents are cached.
func (s *Service) List(ctx context.Context) ([]plugin.MergedPluginView, error) {
	catalog, err := s.cache.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	stats := s.cache.Stats(ctx)

	locals, err := s.discovery.DiscoverPlugins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate local plugins: %w", err)
	}

	return Reconcile(catalog.Plugins, locals, stats, s.state.IsDisabled), nil
}

// Install acquires the plugin and, on success, fires a best-effort
// install notification.
func (s *Service) Install(ctx context.Context, req InstallRequest) error {
	if req.PluginID == "" || req.RepoURL == "" {
		return fmt.Errorf("plugin_id and repo_url are required: %w", plugin.ErrInvalidRequest)
	}

	path := req.PluginPath
	if path == "" {
		path = "."
	}

	err := s.acquirer.Acquire(ctx, plugin.AcquireSpec{
		RepoURL:    req.RepoURL,
		PluginPath: path,
		PluginID:   req.PluginID,
		Branch:     req.Branch,
	})
	if err != nil {
		return err
	}

	s.reporter.ReportInstall(ctx, req.PluginID)

	s.logger.Log(ports.LogLevelInfo, "plugin installed", map[string]interface{}{
		"plugin": req.PluginID,
	})
	return nil
}

// Uninstall removes a user-installed plugin directory.
func (s *Service) Uninstall(ctx context.Context, pluginID string) error {
	if pluginID == "" {
		return fmt.Errorf("plugin_id is required: %w", plugin.ErrInvalidRequest)
	}

	if err := s.remover.Remove(pluginID); err != nil {
		return err
	}

	s.logger.Log(ports.LogLevelInfo, "plugin uninstalled", map[string]interface{}{
		"plugin": pluginID,
	})
	return nil
}

// Toggle enables or disables an installed plugin via its sentinel
// files. The plugin must be locally discoverable.
func (s *Service) Toggle(ctx context.Context, pluginID string, enabled bool) error {
	if pluginID == "" {
		return fmt.Errorf("plugin_id is required: %w", plugin.ErrInvalidRequest)
	}

	locals, err := s.discovery.DiscoverPlugins(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate local plugins: %w", err)
	}

	found := false
	for _, lp := range locals {
		if lp.ID == pluginID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("plugin %q: %w", pluginID, plugin.ErrNotInstalled)
	}

	if enabled {
		err = s.state.Enable(pluginID)
	} else {
		err = s.state.Disable(pluginID)
	}
	if err != nil {
		return err
	}

	s.logger.Log(ports.LogLevelInfo, "plugin toggled", map[string]interface{}{
		"plugin":  pluginID,
		"enabled": enabled,
	})
	return nil
}
