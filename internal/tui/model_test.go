package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pluginforge.dev/cli/internal/application/marketplace"
	"pluginforge.dev/cli/internal/core/domain/plugin"
)

type fakeMarketplace struct {
	rows    []plugin.MergedPluginView
	listErr error

	installed   []string
	uninstalled []string
	toggled     map[string]bool
}

func (f *fakeMarketplace) List(ctx context.Context) ([]plugin.MergedPluginView, error) {
	return f.rows, f.listErr
}

func (f *fakeMarketplace) Install(ctx context.Context, req marketplace.InstallRequest) error {
	f.installed = append(f.installed, req.PluginID)
	return nil
}

func (f *fakeMarketplace) Uninstall(ctx context.Context, pluginID string) error {
	f.uninstalled = append(f.uninstalled, pluginID)
	return nil
}

func (f *fakeMarketplace) Toggle(ctx context.Context, pluginID string, enabled bool) error {
	if f.toggled == nil {
		f.toggled = make(map[string]bool)
	}
	f.toggled[pluginID] = enabled
	return nil
}

func sampleRows() []plugin.MergedPluginView {
	return []plugin.MergedPluginView{
		{ID: "memory", Name: "Memory", Status: plugin.StatusAvailable, RepoURL: "https://github.com/acme/memory", PluginPath: "."},
		{ID: "search", Name: "Search", Status: plugin.StatusActive},
		{ID: "notes", Name: "Notes", Description: "keeps notes", Status: plugin.StatusInactive, Builtin: true},
	}
}

// loadedModel returns a model with rows already delivered.
func loadedModel(t *testing.T, svc *fakeMarketplace) *Model {
	t.Helper()
	m := NewModel(svc)
	updated, _ := m.Update(rowsLoadedMsg{rows: svc.rows})
	model, ok := updated.(*Model)
	require.True(t, ok)
	return model
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLoadsRows(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	assert.False(t, m.loading)
	assert.Len(t, m.filtered, 3)

	row, ok := m.selectedRow()
	require.True(t, ok)
	assert.Equal(t, "memory", row.ID)
}

func TestModelLoadError(t *testing.T) {
	m := NewModel(&fakeMarketplace{})
	updated, _ := m.Update(rowsErrorMsg{err: errors.New("registry unreachable")})
	model := updated.(*Model)

	assert.False(t, model.loading)
	assert.Error(t, model.err)
}

func TestModelFilter(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	m.filterText = "notes"
	m.applyFilter()
	require.Len(t, m.filtered, 1)

	row, ok := m.selectedRow()
	require.True(t, ok)
	assert.Equal(t, "notes", row.ID)

	// The description matches too.
	m.filterText = "keeps"
	m.applyFilter()
	assert.Len(t, m.filtered, 1)

	m.filterText = "nomatch"
	m.applyFilter()
	assert.Empty(t, m.filtered)
	_, ok = m.selectedRow()
	assert.False(t, ok)
}

func TestModelFilterKeyEditing(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	m.Update(keyMsg("/"))
	assert.True(t, m.filterActive)

	m.Update(keyMsg("s"))
	m.Update(keyMsg("e"))
	assert.Equal(t, "se", m.filterText)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "s", m.filterText)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filterActive)
	assert.Equal(t, "s", m.filterText)

	m.Update(keyMsg("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filterActive)
	assert.Empty(t, m.filterText)
	assert.Len(t, m.filtered, 3)
}

func TestModelNavigation(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	m.move(1)
	assert.Equal(t, 1, m.selectedIdx)

	// Clamped at both ends.
	m.move(100)
	assert.Equal(t, 2, m.selectedIdx)
	m.move(-100)
	assert.Equal(t, 0, m.selectedIdx)
}

func TestModelInstallKey(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	_, cmd := m.Update(keyMsg("i"))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	require.True(t, ok)
	assert.Equal(t, "install", done.verb)
	assert.NoError(t, done.err)
	assert.Equal(t, []string{"memory"}, svc.installed)
}

func TestModelInstallKeyIgnoredForInstalledRow(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	m.move(1) // "search", already installed
	_, cmd := m.Update(keyMsg("i"))
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestModelUninstallKeyProtectsBuiltins(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	m.move(2) // "notes", builtin
	_, cmd := m.Update(keyMsg("u"))
	assert.Nil(t, cmd)

	m.move(-1) // "search", user-installed
	_, cmd = m.Update(keyMsg("u"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"search"}, svc.uninstalled)
}

func TestModelToggleKey(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	m.move(2) // "notes", inactive: toggling enables it
	_, cmd := m.Update(keyMsg("t"))
	require.NotNil(t, cmd)
	msg := cmd()
	done := msg.(actionDoneMsg)
	assert.Equal(t, "enable", done.verb)
	assert.Equal(t, map[string]bool{"notes": true}, svc.toggled)
}

func TestModelActionDoneReloads(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)
	m.busy = true

	_, cmd := m.Update(actionDoneMsg{verb: "install", pluginID: "memory"})
	assert.False(t, m.busy)
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)
}

func TestModelActionDoneFailureDoesNotReload(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)
	m.busy = true

	_, cmd := m.Update(actionDoneMsg{verb: "install", pluginID: "memory", err: errors.New("git clone failed")})
	assert.False(t, m.busy)
	assert.False(t, m.loading)
	assert.Nil(t, cmd)
}

func TestModelQuitKey(t *testing.T) {
	svc := &fakeMarketplace{rows: sampleRows()}
	m := loadedModel(t, svc)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
