package tui

import (
	"fmt"
	"strings"

	"pluginforge.dev/cli/internal/core/domain/plugin"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.loading {
		return "Loading plugins..."
	}
	if m.err != nil {
		return m.styles.ErrorText.Render("Error: "+m.err.Error()) + "\n\nPress q to quit."
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("PluginForge Marketplace"))
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("↑/↓ move · i install · u uninstall · t toggle · / filter · r refresh · q quit"))

	return b.String()
}

func (m *Model) renderFilterLine() string {
	if m.filterActive {
		return m.styles.Normal.Render("Filter: "+m.filterText) + m.styles.Muted.Render("▌")
	}
	if m.filterText != "" {
		return m.styles.Muted.Render(fmt.Sprintf("Filter: %s (%d/%d, esc clears)", m.filterText, len(m.filtered), len(m.rows)))
	}
	return m.styles.Muted.Render(fmt.Sprintf("%d plugins", len(m.rows)))
}

func (m *Model) renderList() string {
	if len(m.filtered) == 0 {
		return m.styles.Muted.Render("  no plugins match") + "\n"
	}

	var b strings.Builder
	pageSize := m.pageSize()
	end := m.listOffset + pageSize
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := m.listOffset; i < end; i++ {
		row := m.rows[m.filtered[i]]
		line := fmt.Sprintf("%s %-24s %-10s %s", m.statusBadge(row.Status), truncate(row.Name, 24), row.Version, m.rowTags(row))

		if i == m.selectedIdx {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) statusBadge(status plugin.Status) string {
	switch status {
	case plugin.StatusActive:
		return m.styles.Active.Render("●")
	case plugin.StatusInactive:
		return m.styles.Inactive.Render("○")
	default:
		return m.styles.Available.Render("◌")
	}
}

func (m *Model) rowTags(row plugin.MergedPluginView) string {
	var tags []string
	if row.Builtin {
		tags = append(tags, "builtin")
	}
	if row.Featured {
		tags = append(tags, "featured")
	}
	if row.InstallCount > 0 {
		tags = append(tags, fmt.Sprintf("%d installs", row.InstallCount))
	}
	return m.styles.Muted.Render(strings.Join(tags, " · "))
}

func (m *Model) renderDetail() string {
	row, ok := m.selectedRow()
	if !ok {
		return ""
	}

	var lines []string
	lines = append(lines, m.styles.Title.Render(row.Name)+m.styles.Muted.Render("  "+row.ID))
	if row.Description != "" {
		lines = append(lines, m.styles.Normal.Render(truncate(row.Description, 78)))
	}

	meta := fmt.Sprintf("status: %s", row.Status)
	if row.Author != "" {
		meta += " · by " + row.Author
	}
	if len(row.Tags) > 0 {
		meta += " · " + strings.Join(row.Tags, ", ")
	}
	lines = append(lines, m.styles.Muted.Render(meta))

	if row.RepoURL != "" {
		source := row.RepoURL
		if row.PluginPath != "" && row.PluginPath != "." {
			source += " (" + row.PluginPath + ")"
		}
		lines = append(lines, m.styles.Muted.Render("source: "+source))
	}

	return m.styles.Detail.Render(strings.Join(lines, "\n"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
