// Package tui implements the interactive marketplace browser using
// Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pluginforge.dev/cli/internal/application/marketplace"
	"pluginforge.dev/cli/internal/core/domain/plugin"
)

// Marketplace is the subset of the marketplace service the browser
// drives. Tests substitute a fake.
type Marketplace interface {
	List(ctx context.Context) ([]plugin.MergedPluginView, error)
	Install(ctx context.Context, req marketplace.InstallRequest) error
	Uninstall(ctx context.Context, pluginID string) error
	Toggle(ctx context.Context, pluginID string, enabled bool) error
}

// Model is the browse view model.
type Model struct {
	service Marketplace

	styles Styles
	keys   KeyBindings

	rows     []plugin.MergedPluginView
	filtered []int // indices into rows matching the filter

	selectedIdx int // index into filtered
	listOffset  int
	width       int
	height      int

	loading bool
	busy    bool // an action is in flight
	err     error
	notice  string

	filterText   string
	filterActive bool
}

// NewModel creates a browse model over the marketplace service.
func NewModel(service Marketplace) *Model {
	return &Model{
		service: service,
		styles:  DefaultStyles(),
		keys:    DefaultKeyBindings(),
		loading: true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadRows
}

type rowsLoadedMsg struct {
	rows []plugin.MergedPluginView
}

type rowsErrorMsg struct {
	err error
}

type actionDoneMsg struct {
	verb     string
	pluginID string
	err      error
}

// loadRows fetches the merged view.
func (m *Model) loadRows() tea.Msg {
	rows, err := m.service.List(context.Background())
	if err != nil {
		return rowsErrorMsg{err: err}
	}
	return rowsLoadedMsg{rows: rows}
}

// applyFilter recomputes the filtered index list and clamps selection.
func (m *Model) applyFilter() {
	m.filtered = m.filtered[:0]
	needle := strings.ToLower(m.filterText)

	for i, row := range m.rows {
		if needle == "" ||
			strings.Contains(strings.ToLower(row.ID), needle) ||
			strings.Contains(strings.ToLower(row.Name), needle) ||
			strings.Contains(strings.ToLower(row.Description), needle) {
			m.filtered = append(m.filtered, i)
		}
	}

	if m.selectedIdx >= len(m.filtered) {
		m.selectedIdx = len(m.filtered) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	m.listOffset = 0
}

// selectedRow returns the currently selected row, if any.
func (m *Model) selectedRow() (plugin.MergedPluginView, bool) {
	if len(m.filtered) == 0 || m.selectedIdx >= len(m.filtered) {
		return plugin.MergedPluginView{}, false
	}
	return m.rows[m.filtered[m.selectedIdx]], true
}

// installCmd installs the selected catalog row.
func (m *Model) installCmd(row plugin.MergedPluginView) tea.Cmd {
	return func() tea.Msg {
		err := m.service.Install(context.Background(), marketplace.InstallRequest{
			PluginID:   row.ID,
			RepoURL:    row.RepoURL,
			PluginPath: row.PluginPath,
			Branch:     row.Branch,
		})
		return actionDoneMsg{verb: "install", pluginID: row.ID, err: err}
	}
}

// uninstallCmd removes the selected installed row.
func (m *Model) uninstallCmd(row plugin.MergedPluginView) tea.Cmd {
	return func() tea.Msg {
		err := m.service.Uninstall(context.Background(), row.ID)
		return actionDoneMsg{verb: "uninstall", pluginID: row.ID, err: err}
	}
}

// toggleCmd flips the enabled state of the selected installed row.
func (m *Model) toggleCmd(row plugin.MergedPluginView) tea.Cmd {
	enable := row.Status == plugin.StatusInactive
	return func() tea.Msg {
		err := m.service.Toggle(context.Background(), row.ID, enable)
		verb := "disable"
		if enable {
			verb = "enable"
		}
		return actionDoneMsg{verb: verb, pluginID: row.ID, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case rowsLoadedMsg:
		m.loading = false
		m.rows = msg.rows
		m.applyFilter()
		return m, nil

	case rowsErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = m.styles.ErrorText.Render(fmt.Sprintf("%s %s failed: %v", msg.verb, msg.pluginID, msg.err))
			return m, nil
		}
		m.notice = m.styles.Notice.Render(fmt.Sprintf("%s %s: ok", msg.verb, msg.pluginID))
		// Reload so the row statuses reflect the new state.
		m.loading = true
		return m, m.loadRows

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}
