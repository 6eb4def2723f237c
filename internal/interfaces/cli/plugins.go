package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pluginforge.dev/cli/internal/application/marketplace"
	"pluginforge.dev/cli/internal/interfaces/di"
)

// newPluginsCommand creates the plugins command group.
func newPluginsCommand(container *di.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Manage marketplace plugins",
		Long: `Manage marketplace plugins.

Install plugins from git repositories, remove them, and enable or
disable installed ones. The list view merges the remote catalog with
locally installed plugins.`,
		Example: `  # List catalog and installed plugins
  pf plugins list

  # Install a plugin whose repo root is the plugin
  pf plugins install memory --repo https://github.com/acme/a0-memory

  # Install a plugin kept in a subdirectory, pinned to a branch
  pf plugins install memory --repo https://github.com/acme/plugins --path plugins/memory --branch stable

  # Disable a plugin without uninstalling it
  pf plugins disable memory`,
	}

	cmd.AddCommand(newPluginsListCommand(container))
	cmd.AddCommand(newPluginsInstallCommand(container))
	cmd.AddCommand(newPluginsUninstallCommand(container))
	cmd.AddCommand(newPluginsEnableCommand(container))
	cmd.AddCommand(newPluginsDisableCommand(container))

	return cmd
}

func newPluginsListCommand(container *di.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog and installed plugins",
		Long:  `List the merged view of the remote catalog and locally installed plugins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsList(cmd.Context(), container)
		},
	}
}

func newPluginsInstallCommand(container *di.Container) *cobra.Command {
	var repoURL, pluginPath, branch string

	cmd := &cobra.Command{
		Use:   "install <plugin-id>",
		Short: "Install a plugin from a git repository",
		Long: `Clone a plugin into the user plugins directory.

With --path the named subdirectory is fetched via sparse checkout;
without it the repository root is the plugin. Browsable GitHub URLs
(containing /tree/ or /blob/) are accepted and normalized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsInstall(cmd.Context(), container, marketplace.InstallRequest{
				PluginID:   args[0],
				RepoURL:    repoURL,
				PluginPath: pluginPath,
				Branch:     branch,
			})
		},
	}

	cmd.Flags().StringVar(&repoURL, "repo", "", "Git repository URL (required)")
	cmd.Flags().StringVar(&pluginPath, "path", ".", "Plugin subdirectory within the repository")
	cmd.Flags().StringVar(&branch, "branch", "", "Branch to clone (default: main, then master)")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}

func newPluginsUninstallCommand(container *di.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <plugin-id>",
		Short: "Remove an installed plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Service.Uninstall(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Plugin %q uninstalled.\n", args[0])
			return nil
		},
	}
}

func newPluginsEnableCommand(container *di.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <plugin-id>",
		Short: "Enable an installed plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsToggle(cmd.Context(), container, args[0], true)
		},
	}
}

func newPluginsDisableCommand(container *di.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <plugin-id>",
		Short: "Disable an installed plugin without removing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsToggle(cmd.Context(), container, args[0], false)
		},
	}
}

func runPluginsList(ctx context.Context, container *di.Container) error {
	views, err := container.Service.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plugins: %w", err)
	}

	if len(views) == 0 {
		fmt.Println("No plugins found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tSTATUS\tINSTALLS\tBUILTIN")
	fmt.Fprintln(w, "--\t----\t-------\t------\t--------\t-------")

	for _, v := range views {
		builtin := ""
		if v.Builtin {
			builtin = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			v.ID, v.Name, v.Version, v.Status, v.InstallCount, builtin)
	}

	return w.Flush()
}

func runPluginsInstall(ctx context.Context, container *di.Container, req marketplace.InstallRequest) error {
	fmt.Printf("Installing plugin %q from %s...\n", req.PluginID, req.RepoURL)

	if err := container.Service.Install(ctx, req); err != nil {
		return err
	}

	fmt.Printf("Plugin %q installed successfully.\n", req.PluginID)
	return nil
}

func runPluginsToggle(ctx context.Context, container *di.Container, pluginID string, enabled bool) error {
	if err := container.Service.Toggle(ctx, pluginID, enabled); err != nil {
		return err
	}

	if enabled {
		fmt.Printf("Plugin %q enabled.\n", pluginID)
	} else {
		fmt.Printf("Plugin %q disabled.\n", pluginID)
	}
	return nil
}
