package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pluginforge.dev/cli/internal/interfaces/di"
	"pluginforge.dev/cli/internal/tui"
)

// newBrowseCommand creates the interactive marketplace browser.
func newBrowseCommand(container *di.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the marketplace interactively",
		Long: `Browse the merged catalog/local plugin view in a terminal UI.

Install, uninstall, and toggle plugins directly from the list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := tui.NewModel(container.Service)
			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run browser: %w", err)
			}
			return nil
		},
	}
}
