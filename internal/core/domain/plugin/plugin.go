// Package plugin holds the marketplace domain model: catalog entries
// published by the remote registry, plugins discovered on the local
// filesystem, and the merged view produced by reconciliation.
package plugin

// Status describes the lifecycle state of a plugin in the merged view.
type Status string

const (
	// StatusAvailable means the plugin is in the catalog but not installed.
	StatusAvailable Status = "available"
	// StatusActive means the plugin is installed and enabled.
	StatusActive Status = "active"
	// StatusInactive means the plugin is installed but disabled.
	StatusInactive Status = "inactive"
)

// CatalogEntry is a plugin as advertised by the remote registry.
// Entries are immutable once fetched; the catalog is replaced wholesale
// on every successful refresh.
type CatalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Version     string   `json:"version"`
	Icon        string   `json:"icon"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	RepoURL     string   `json:"repo_url"`
	Branch      string   `json:"branch"`
	PluginPath  string   `json:"plugin_path"`
}

// Catalog is the remote-published list of installable plugins.
type Catalog struct {
	Plugins []CatalogEntry `json:"plugins"`
}

// LocalPlugin is a plugin discovered on the local filesystem. It is
// enumerated fresh on every reconciliation and never cached.
type LocalPlugin struct {
	ID          string
	DisplayName string
	Description string
	Version     string
	Custom      bool // installed by the user, as opposed to shipped builtin
	HasConfig   bool // plugin provides a configuration screen
}

// MergedPluginView is one row of the reconciled catalog/local view.
// Display metadata prefers catalog values and falls back to local ones;
// source fields are empty for sideloaded (local-only) plugins.
type MergedPluginView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Author       string   `json:"author"`
	Version      string   `json:"version"`
	Icon         string   `json:"icon"`
	Tags         []string `json:"tags"`
	Featured     bool     `json:"featured"`
	InstallCount int      `json:"install_count"`
	Status       Status   `json:"status"`
	Builtin      bool     `json:"is_builtin"`
	HasConfig    bool     `json:"has_config"`
	RepoURL      string   `json:"repo_url"`
	Branch       string   `json:"branch,omitempty"`
	PluginPath   string   `json:"plugin_path"`
}

// DefaultIcon is used when a catalog entry carries no icon token.
const DefaultIcon = "extension"

// AcquireSpec carries everything the acquirer needs to materialize a
// plugin from a git repository.
type AcquireSpec struct {
	RepoURL    string
	PluginPath string // "" or "." means the repo root is the plugin
	PluginID   string
	Branch     string // empty: try main, then master
}

// IsRootPath reports whether the spec targets the repository root
// (full-clone strategy) rather than a subdirectory (sparse strategy).
func (s AcquireSpec) IsRootPath() bool {
	return s.PluginPath == "" || s.PluginPath == "."
}
