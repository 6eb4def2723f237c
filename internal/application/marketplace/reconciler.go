// Package marketplace orchestrates the plugin lifecycle: reconciling
// the remote catalog with local state, and executing install,
// uninstall, and toggle actions.
package marketplace

import (
	"pluginforge.dev/cli/internal/core/domain/plugin"
)

// Reconcile merges the catalog with locally discovered plugins into one
// ordered view. Catalog entries come first, in catalog order; plugins
// present only locally (sideloaded) are appended afterwards, in
// enumeration order. Every identifier appears exactly once.
func Reconcile(catalog []plugin.CatalogEntry, locals []plugin.LocalPlugin, stats map[string]int, isDisabled func(pluginID string) bool) []plugin.MergedPluginView {
	localByID := make(map[string]plugin.LocalPlugin, len(locals))
	for _, lp := range locals {
		if _, ok := localByID[lp.ID]; !ok {
			localByID[lp.ID] = lp
		}
	}

	merged := make([]plugin.MergedPluginView, 0, len(catalog)+len(locals))
	seen := make(map[string]bool, len(catalog))

	for _, entry := range catalog {
		seen[entry.ID] = true

		row := plugin.MergedPluginView{
			ID:           entry.ID,
			Name:         entry.Name,
			Description:  entry.Description,
			Author:       entry.Author,
			Version:      entry.Version,
			Icon:         entry.Icon,
			Tags:         entry.Tags,
			Featured:     entry.Featured,
			InstallCount: stats[entry.ID],
			RepoURL:      entry.RepoURL,
			Branch:       entry.Branch,
			PluginPath:   entry.PluginPath,
		}
		if row.Name == "" {
			row.Name = entry.ID
		}
		if row.Icon == "" {
			row.Icon = plugin.DefaultIcon
		}
		if row.PluginPath == "" {
			row.PluginPath = "."
		}

		if local, ok := localByID[entry.ID]; ok {
			row.Status = installedStatus(entry.ID, isDisabled)
			row.Builtin = !local.Custom
			row.HasConfig = local.HasConfig
		} else {
			row.Status = plugin.StatusAvailable
		}

		merged = append(merged, row)
	}

	for _, lp := range locals {
		if seen[lp.ID] {
			continue
		}
		seen[lp.ID] = true

		name := lp.DisplayName
		if name == "" {
			name = lp.ID
		}

		merged = append(merged, plugin.MergedPluginView{
			ID:          lp.ID,
			Name:        name,
			Description: lp.Description,
			Version:     lp.Version,
			Icon:        plugin.DefaultIcon,
			Status:      installedStatus(lp.ID, isDisabled),
			Builtin:     !lp.Custom,
			HasConfig:   lp.HasConfig,
		})
	}

	return merged
}

func installedStatus(pluginID string, isDisabled func(string) bool) plugin.Status {
	if isDisabled(pluginID) {
		return plugin.StatusInactive
	}
	return plugin.StatusActive
}
