package gitops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pluginforge.dev/cli/internal/core/domain/plugin"
	"pluginforge.dev/cli/internal/core/ports"
)

// Manifest file names recognized at a plugin root. YAML is the current
// format; JSON is accepted for plugins published before the switch.
const (
	ManifestYAML = "plugin.yaml"
	ManifestJSON = "plugin.json"
)

// webUIMarkers are path segments that appear in browser URLs but not in
// clone URLs. Users routinely paste the former.
var webUIMarkers = []string{"/tree/", "/blob/"}

// fallbackBranches are tried in order when the caller pins no branch.
var fallbackBranches = []string{"main", "master"}

// Acquirer fetches plugin directories from git repositories. Every
// failed acquisition removes whatever it partially created; a target
// directory never survives without a valid manifest.
type Acquirer struct {
	git            ports.GitRunner
	userPluginsDir string
	networkTimeout time.Duration
	logger         ports.LoggingGateway
}

// NewAcquirer creates an acquirer installing into userPluginsDir.
// networkTimeout bounds clone and pull; local git administration
// (init, remote add, config) is not time-boxed.
func NewAcquirer(git ports.GitRunner, userPluginsDir string, networkTimeout time.Duration, logger ports.LoggingGateway) *Acquirer {
	return &Acquirer{
		git:            git,
		userPluginsDir: userPluginsDir,
		networkTimeout: networkTimeout,
		logger:         logger,
	}
}

// Acquire materializes the plugin described by spec under the user
// plugins directory. A pre-existing target fails fast with
// ErrAlreadyInstalled and mutates nothing.
func (a *Acquirer) Acquire(ctx context.Context, spec plugin.AcquireSpec) error {
	target := filepath.Join(a.userPluginsDir, spec.PluginID)

	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("plugin %q: %w", spec.PluginID, plugin.ErrAlreadyInstalled)
	}

	if err := os.MkdirAll(a.userPluginsDir, 0755); err != nil {
		return fmt.Errorf("failed to create plugins directory: %w", err)
	}

	repoURL := CleanSourceURL(spec.RepoURL)

	a.logger.Log(ports.LogLevelInfo, "acquiring plugin", map[string]interface{}{
		"plugin": spec.PluginID,
		"repo":   repoURL,
		"path":   spec.PluginPath,
	})

	var err error
	if spec.IsRootPath() {
		err = a.fullClone(ctx, repoURL, spec.Branch, target)
	} else {
		err = a.sparseClone(ctx, repoURL, spec, target)
	}

	if err != nil {
		// Cleanup invariant: never leave a partially installed plugin.
		os.RemoveAll(target)
		return err
	}

	return nil
}

// CleanSourceURL strips web-UI suffixes from repository URLs, e.g.
// "https://github.com/user/repo/tree/main" -> "https://github.com/user/repo".
func CleanSourceURL(url string) string {
	for _, marker := range webUIMarkers {
		if idx := strings.Index(url, marker); idx != -1 {
			return url[:idx]
		}
	}
	return url
}

// fullClone clones the whole repository shallowly into target and
// strips the .git metadata from the result.
func (a *Acquirer) fullClone(ctx context.Context, repoURL, branch, target string) error {
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, repoURL, target)

	cloneCtx, cancel := context.WithTimeout(ctx, a.networkTimeout)
	defer cancel()

	if _, stderr, err := a.git.Run(cloneCtx, "", args...); err != nil {
		return fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(stderr))
	}

	// The clone is a snapshot, not a working checkout.
	os.RemoveAll(filepath.Join(target, ".git"))

	return a.validateManifest(target)
}

// sparseClone fetches only spec.PluginPath via sparse checkout in a
// staging directory and moves it to target. The staging directory is
// removed on every exit path.
func (a *Acquirer) sparseClone(ctx context.Context, repoURL string, spec plugin.AcquireSpec, target string) error {
	staging := target + "_staging"
	defer os.RemoveAll(staging)

	if _, stderr, err := a.git.Run(ctx, "", "init", staging); err != nil {
		return fmt.Errorf("git init failed: %w: %s", err, strings.TrimSpace(stderr))
	}
	if _, stderr, err := a.git.Run(ctx, staging, "remote", "add", "origin", repoURL); err != nil {
		return fmt.Errorf("git remote add failed: %w: %s", err, strings.TrimSpace(stderr))
	}
	if _, stderr, err := a.git.Run(ctx, staging, "config", "core.sparseCheckout", "true"); err != nil {
		return fmt.Errorf("git config failed: %w: %s", err, strings.TrimSpace(stderr))
	}

	pluginPath := strings.TrimSuffix(spec.PluginPath, "/")
	sparseFile := filepath.Join(staging, ".git", "info", "sparse-checkout")
	if err := os.MkdirAll(filepath.Dir(sparseFile), 0755); err != nil {
		return fmt.Errorf("failed to prepare sparse-checkout file: %w", err)
	}
	if err := os.WriteFile(sparseFile, []byte(pluginPath+"/\n"), 0644); err != nil {
		return fmt.Errorf("failed to write sparse-checkout pattern: %w", err)
	}

	branches := fallbackBranches
	if spec.Branch != "" {
		branches = []string{spec.Branch}
	}

	var lastStderr string
	pulled := false
	for _, branch := range branches {
		pullCtx, cancel := context.WithTimeout(ctx, a.networkTimeout)
		_, stderr, err := a.git.Run(pullCtx, staging, "pull", "--depth", "1", "origin", branch)
		cancel()

		if err == nil {
			pulled = true
			break
		}
		lastStderr = strings.TrimSpace(stderr)

		a.logger.Log(ports.LogLevelDebug, "branch pull failed", map[string]interface{}{
			"plugin": spec.PluginID,
			"branch": branch,
		})
	}
	if !pulled {
		return fmt.Errorf("git pull failed: %s", lastStderr)
	}

	src := filepath.Join(staging, filepath.FromSlash(pluginPath))
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", spec.PluginPath, plugin.ErrPathNotFound)
	}

	// Staging is a sibling of target, so a rename stays on one filesystem.
	if err := os.Rename(src, target); err != nil {
		return fmt.Errorf("failed to move plugin into place: %w", err)
	}

	return a.validateManifest(target)
}

// validateManifest requires plugin.yaml or plugin.json at the plugin
// root. The caller removes target when an error is returned.
func (a *Acquirer) validateManifest(target string) error {
	for _, name := range []string{ManifestYAML, ManifestJSON} {
		if _, err := os.Stat(filepath.Join(target, name)); err == nil {
			return nil
		}
	}
	return plugin.ErrManifestMissing
}
