// Package state persists plugin enabled/disabled status as sentinel
// marker files inside each plugin's user-data directory. The mere
// existence of a marker is the signal; content is empty.
package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sentinel file names. The two markers are mutually exclusive after
// any toggle completes.
const (
	EnabledFileName  = ".enabled"
	DisabledFileName = ".disabled"
)

// SentinelStore manages sentinel files under a per-plugin directory.
type SentinelStore struct {
	baseDir string
}

// NewSentinelStore creates a store rooted at the user plugins directory.
func NewSentinelStore(baseDir string) *SentinelStore {
	return &SentinelStore{baseDir: baseDir}
}

// Enable marks the plugin enabled: the disabled marker is removed
// before the enabled marker is written.
func (s *SentinelStore) Enable(pluginID string) error {
	return s.toggle(pluginID, EnabledFileName, DisabledFileName)
}

// Disable marks the plugin disabled: the enabled marker is removed
// before the disabled marker is written.
func (s *SentinelStore) Disable(pluginID string) error {
	return s.toggle(pluginID, DisabledFileName, EnabledFileName)
}

func (s *SentinelStore) toggle(pluginID, write, remove string) error {
	dir := filepath.Join(s.baseDir, pluginID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plugin state directory: %w", err)
	}

	opposing := filepath.Join(dir, remove)
	if err := os.Remove(opposing); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s marker: %w", remove, err)
	}

	if err := os.WriteFile(filepath.Join(dir, write), nil, 0644); err != nil {
		return fmt.Errorf("failed to write %s marker: %w", write, err)
	}

	return nil
}

// IsDisabled reports whether the disabled marker exists for the plugin.
// Absence of any marker means enabled.
func (s *SentinelStore) IsDisabled(pluginID string) bool {
	_, err := os.Stat(filepath.Join(s.baseDir, pluginID, DisabledFileName))
	return err == nil
}
