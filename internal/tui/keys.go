package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBindings defines the keyboard shortcuts of the browse view.
type KeyBindings struct {
	Up        []string
	Down      []string
	PageUp    []string
	PageDown  []string
	Home      []string
	End       []string
	Quit      []string
	Escape    []string
	Filter    []string
	Refresh   []string
	Install   []string
	Uninstall []string
	Toggle    []string // enable/disable the selected installed plugin
}

// DefaultKeyBindings returns the default key bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Up:        []string{"up", "k"},
		Down:      []string{"down", "j"},
		PageUp:    []string{"pgup", "ctrl+u"},
		PageDown:  []string{"pgdown", "ctrl+d"},
		Home:      []string{"home", "g"},
		End:       []string{"end", "G"},
		Quit:      []string{"q", "ctrl+c"},
		Escape:    []string{"esc"},
		Filter:    []string{"/"},
		Refresh:   []string{"r"},
		Install:   []string{"i"},
		Uninstall: []string{"u"},
		Toggle:    []string{"t", " "},
	}
}

// matchesKey reports whether the key message matches any of the names.
func matchesKey(msg tea.KeyMsg, keys []string) bool {
	return slices.Contains(keys, msg.String())
}
