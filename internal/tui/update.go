package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pluginforge.dev/cli/internal/core/domain/plugin"
)

// handleKeyPress processes keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterActive {
		return m.handleFilterKey(msg)
	}

	keys := m.keys

	switch {
	case matchesKey(msg, keys.Quit):
		return m, tea.Quit

	case matchesKey(msg, keys.Up):
		m.move(-1)

	case matchesKey(msg, keys.Down):
		m.move(1)

	case matchesKey(msg, keys.PageUp):
		m.move(-m.pageSize())

	case matchesKey(msg, keys.PageDown):
		m.move(m.pageSize())

	case matchesKey(msg, keys.Home):
		m.selectedIdx = 0
		m.listOffset = 0

	case matchesKey(msg, keys.End):
		m.selectedIdx = len(m.filtered) - 1
		m.ensureVisible()

	case matchesKey(msg, keys.Filter):
		m.filterActive = true
		m.notice = ""

	case matchesKey(msg, keys.Escape):
		m.filterText = ""
		m.applyFilter()

	case matchesKey(msg, keys.Refresh):
		m.loading = true
		m.notice = ""
		return m, m.loadRows

	case matchesKey(msg, keys.Install):
		if row, ok := m.selectedRow(); ok && !m.busy && row.Status == plugin.StatusAvailable && row.RepoURL != "" {
			m.busy = true
			return m, m.installCmd(row)
		}

	case matchesKey(msg, keys.Uninstall):
		if row, ok := m.selectedRow(); ok && !m.busy && row.Status != plugin.StatusAvailable && !row.Builtin {
			m.busy = true
			return m, m.uninstallCmd(row)
		}

	case matchesKey(msg, keys.Toggle):
		if row, ok := m.selectedRow(); ok && !m.busy && row.Status != plugin.StatusAvailable {
			m.busy = true
			return m, m.toggleCmd(row)
		}
	}

	return m, nil
}

// handleFilterKey edits the filter text.
func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterActive = false
		m.filterText = ""
		m.applyFilter()
	case tea.KeyEnter:
		m.filterActive = false
	case tea.KeyBackspace:
		if len(m.filterText) > 0 {
			m.filterText = m.filterText[:len(m.filterText)-1]
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filterText += msg.String()
		m.applyFilter()
	}
	return m, nil
}

// move shifts the selection by delta rows, clamped to the list.
func (m *Model) move(delta int) {
	m.selectedIdx += delta
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	if m.selectedIdx >= len(m.filtered) {
		m.selectedIdx = len(m.filtered) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	m.ensureVisible()
}

// pageSize returns the number of visible list rows.
func (m *Model) pageSize() int {
	if m.height == 0 {
		return 10
	}
	// Title, filter line, detail pane, help line.
	size := m.height - 9
	if size < 1 {
		size = 1
	}
	return size
}

// ensureVisible adjusts listOffset so the selection stays on screen.
func (m *Model) ensureVisible() {
	pageSize := m.pageSize()

	if m.selectedIdx < m.listOffset {
		m.listOffset = m.selectedIdx
	}
	if m.selectedIdx >= m.listOffset+pageSize {
		m.listOffset = m.selectedIdx - pageSize + 1
	}
	if m.listOffset < 0 {
		m.listOffset = 0
	}
}
