// Package cli builds the cobra command tree for the pf binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pluginforge.dev/cli/internal/interfaces/di"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// NewRootCommand creates the base command when called without subcommands.
func NewRootCommand(container *di.Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pf",
		Short: "PluginForge CLI - plugin marketplace manager",
		Long: `PluginForge CLI (pf) installs, removes, and toggles plugins from the
plugin marketplace. It reconciles the remote catalog with locally
installed plugins into one view, fetches plugins by cloning their git
repositories (full or sparse subdirectory checkouts), and tracks
enabled/disabled state per plugin.`,
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\n", BuildTime))

	rootCmd.AddCommand(newPluginsCommand(container))
	rootCmd.AddCommand(newBrowseCommand(container))
	rootCmd.AddCommand(newServeCommand(container))

	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute(container *di.Container) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
