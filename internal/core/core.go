// Package core holds agentshare's home-directory layout, install state, and
// shared filesystem helpers.
package core

import (
	"fmt"
	"os"
	"path/filepath"
)

const homeDirName = ".agentshare"

// Home returns agentshare's data directory, ~/.agentshare by default. The
// AGENTSHARE_HOME environment variable overrides it.
func Home() (string, error) {
	if dir := os.Getenv("AGENTSHARE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, homeDirName), nil
}

// SkillsDir returns the local skill registry directory.
func SkillsDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "skills"), nil
}

// DBPath returns the path of the shared context database.
func DBPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "context.db"), nil
}

// EnsureDirs creates the data directory tree.
func EnsureDirs() error {
	skills, err := SkillsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(skills, 0o755); err != nil {
		return fmt.Errorf("creating data directories: %w", err)
	}
	return nil
}
