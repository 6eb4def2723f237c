// Package gitops materializes and removes plugin directories by
// orchestrating the git binary: shallow full clones for root-level
// plugins and sparse subdirectory checkouts for nested ones.
package gitops

import (
	"bytes"
	"context"
	"os/exec"
)

// Executor runs git invocations and captures their output. It is the
// production implementation of ports.GitRunner.
type Executor struct {
	gitPath string
}

// NewExecutor creates an executor using "git" from PATH.
func NewExecutor() *Executor {
	return &Executor{gitPath: "git"}
}

// NewExecutorWithPath creates an executor using the given git binary.
func NewExecutorWithPath(path string) *Executor {
	return &Executor{gitPath: path}
}

// Run executes a single git command in dir ("" for the current
// directory). stderr is returned even on failure so callers can surface
// git's diagnostics; cancellation and timeouts come from ctx.
func (e *Executor) Run(ctx context.Context, dir string, args ...string) (string, string, error) {
	// #nosec G204 -- args are assembled by the acquirer, not raw user input
	cmd := exec.CommandContext(ctx, e.gitPath, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
