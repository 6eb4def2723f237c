package plugin

import "errors"

// Sentinel errors for the marketplace operations. Callers classify
// failures with errors.Is; diagnostic context is layered on with %w.
var (
	// ErrAlreadyInstalled is returned when an install target directory
	// already exists. The pre-existence check is the only overwrite guard.
	ErrAlreadyInstalled = errors.New("plugin is already installed")

	// ErrManifestMissing is returned when an acquired plugin has no
	// plugin.yaml (or legacy plugin.json) at its root.
	ErrManifestMissing = errors.New("plugin has no plugin.yaml at root")

	// ErrPathNotFound is returned when the requested subdirectory does
	// not exist in the sparsely fetched repository.
	ErrPathNotFound = errors.New("path not found in repository")

	// ErrNotInstalled is returned when an uninstall or toggle target
	// does not exist locally.
	ErrNotInstalled = errors.New("plugin is not installed")

	// ErrProtected is returned when an uninstall resolves to a builtin
	// plugin location.
	ErrProtected = errors.New("cannot uninstall built-in plugins")

	// ErrInvalidRequest is returned when a required field is missing
	// from an action request. It classifies as a client error.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoCatalog is returned when the registry cannot be fetched and
	// no previously cached catalog exists to fall back on.
	ErrNoCatalog = errors.New("registry unavailable and no cached catalog")
)
