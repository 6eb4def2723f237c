// Package ports defines the capability interfaces the marketplace
// application is wired against. Infrastructure packages provide the
// implementations; tests substitute fakes.
package ports

import (
	"context"

	"pluginforge.dev/cli/internal/core/domain/plugin"
)

// GitRunner executes a single git invocation and captures its output.
// dir is the working directory for the invocation ("" for the current
// one). The returned stderr is preserved even on failure so callers can
// surface git's own diagnostics.
type GitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (stdout string, stderr string, err error)
}

// Acquirer materializes a plugin from a remote repository into the
// local plugins directory and guarantees cleanup on any failure.
type Acquirer interface {
	Acquire(ctx context.Context, spec plugin.AcquireSpec) error
}

// Remover deletes a previously acquired plugin directory. It refuses
// to touch builtin plugin locations.
type Remover interface {
	Remove(pluginID string) error
}

// CatalogSource fetches the remote catalog and install-count stats.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) (*plugin.Catalog, error)
	FetchStats(ctx context.Context) (map[string]int, error)
}

// PluginDiscovery enumerates locally present plugins. Results are not
// cached by the marketplace; every reconciliation enumerates fresh.
type PluginDiscovery interface {
	DiscoverPlugins(ctx context.Context) ([]plugin.LocalPlugin, error)
}

// StateStore persists the enabled/disabled state of a plugin as marker
// files. The two markers are mutually exclusive after any toggle.
type StateStore interface {
	Enable(pluginID string) error
	Disable(pluginID string) error
	IsDisabled(pluginID string) bool
}

// InstallReporter sends a best-effort install notification. Failures
// are absorbed by the implementation and never reach the caller.
type InstallReporter interface {
	ReportInstall(ctx context.Context, pluginID string)
}

// LogLevel represents logging severity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the human-readable level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggingGateway is the application-wide logging capability.
type LoggingGateway interface {
	Log(level LogLevel, message string, fields map[string]interface{})
	LogError(err error, message string, fields map[string]interface{})
}
