package gitops

import (
	"fmt"
	"os"
	"path/filepath"

	"pluginforge.dev/cli/internal/core/domain/plugin"
)

// DirRemover deletes user-installed plugin directories. Builtin plugin
// locations are protected: the same code path serves user installs and
// must never delete shipped plugins.
type DirRemover struct {
	userPluginsDir    string
	builtinPluginsDir string
}

// NewDirRemover creates a remover for userPluginsDir that refuses to
// touch anything resolving into builtinPluginsDir.
func NewDirRemover(userPluginsDir, builtinPluginsDir string) *DirRemover {
	return &DirRemover{
		userPluginsDir:    userPluginsDir,
		builtinPluginsDir: builtinPluginsDir,
	}
}

// Remove deletes the plugin directory for pluginID.
func (r *DirRemover) Remove(pluginID string) error {
	target := filepath.Join(r.userPluginsDir, pluginID)
	builtin := filepath.Join(r.builtinPluginsDir, pluginID)

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve plugin path: %w", err)
	}
	absBuiltin, err := filepath.Abs(builtin)
	if err != nil {
		return fmt.Errorf("failed to resolve builtin path: %w", err)
	}

	if absTarget == absBuiltin {
		return fmt.Errorf("plugin %q: %w", pluginID, plugin.ErrProtected)
	}

	if _, err := os.Stat(target); os.IsNotExist(err) {
		return fmt.Errorf("plugin %q: %w", pluginID, plugin.ErrNotInstalled)
	}

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove plugin directory: %w", err)
	}

	return nil
}
