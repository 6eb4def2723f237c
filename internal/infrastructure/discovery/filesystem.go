// Package discovery enumerates locally present plugins by scanning the
// builtin and user plugin directories for manifest-carrying folders.
package discovery

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pluginforge.dev/cli/internal/core/domain/plugin"
	"pluginforge.dev/cli/internal/core/ports"
)

// manifest is the on-disk plugin descriptor. plugin.yaml is the current
// format; plugin.json is still read for plugins published before the
// switch.
type manifest struct {
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description" json:"description"`
	Version      string `yaml:"version" json:"version"`
	ConfigScreen bool   `yaml:"config_screen" json:"config_screen"`
}

// FilesystemDiscovery scans the builtin directory (shipped plugins)
// and the user directory (acquired and sideloaded plugins). A directory
// without a manifest is not a plugin; toggle state directories for
// builtin plugins live under the user dir and must not be enumerated
// as plugins of their own.
type FilesystemDiscovery struct {
	builtinDir string
	userDir    string
	logger     ports.LoggingGateway
}

// NewFilesystemDiscovery creates a discovery over the two plugin roots.
func NewFilesystemDiscovery(builtinDir, userDir string, logger ports.LoggingGateway) *FilesystemDiscovery {
	return &FilesystemDiscovery{
		builtinDir: builtinDir,
		userDir:    userDir,
		logger:     logger,
	}
}

// DiscoverPlugins enumerates local plugins, builtin first, then user
// installs. The first directory claiming an identifier wins.
func (d *FilesystemDiscovery) DiscoverPlugins(ctx context.Context) ([]plugin.LocalPlugin, error) {
	roots := []struct {
		dir    string
		custom bool
	}{
		{d.builtinDir, false},
		{d.userDir, true},
	}

	var found []plugin.LocalPlugin
	seen := make(map[string]bool)

	for _, root := range roots {
		entries, err := os.ReadDir(root.dir)
		if err != nil {
			// A missing plugins directory just means nothing installed there.
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() || seen[entry.Name()] {
				continue
			}

			local, ok := d.readPlugin(filepath.Join(root.dir, entry.Name()), entry.Name(), root.custom)
			if !ok {
				continue
			}

			seen[entry.Name()] = true
			found = append(found, local)
		}
	}

	return found, nil
}

// readPlugin loads the manifest from dir. ok is false when the
// directory carries no parseable manifest.
func (d *FilesystemDiscovery) readPlugin(dir, id string, custom bool) (plugin.LocalPlugin, bool) {
	var m manifest

	if data, err := os.ReadFile(filepath.Join(dir, "plugin.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &m); err != nil {
			d.logger.Log(ports.LogLevelWarn, "skipping plugin with malformed manifest", map[string]interface{}{
				"plugin": id,
				"error":  err.Error(),
			})
			return plugin.LocalPlugin{}, false
		}
	} else if data, err := os.ReadFile(filepath.Join(dir, "plugin.json")); err == nil {
		if err := json.Unmarshal(data, &m); err != nil {
			d.logger.Log(ports.LogLevelWarn, "skipping plugin with malformed manifest", map[string]interface{}{
				"plugin": id,
				"error":  err.Error(),
			})
			return plugin.LocalPlugin{}, false
		}
	} else {
		return plugin.LocalPlugin{}, false
	}

	display := m.Name
	if display == "" {
		display = id
	}

	return plugin.LocalPlugin{
		ID:          id,
		DisplayName: display,
		Description: m.Description,
		Version:     m.Version,
		Custom:      custom,
		HasConfig:   m.ConfigScreen,
	}, true
}
