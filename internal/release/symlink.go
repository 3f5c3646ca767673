package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SwitchCurrentSymlink atomically points dataDir/current at the given
// release. Serving processes follow the symlink, so a publish flips over
// without a partially-visible state.
func SwitchCurrentSymlink(dataDir, releaseID string) error {
	if releaseID == "" {
		return fmt.Errorf("release id is required")
	}
	return setCurrentSymlinkTarget(dataDir, filepath.ToSlash(filepath.Join("releases", releaseID)))
}

func setCurrentSymlinkTarget(dataDir, target string) error {
	currentPath := filepath.Join(dataDir, "current")
	tmpLinkPath := filepath.Join(dataDir, ".current.tmp")

	if err := os.Remove(tmpLinkPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp symlink %s: %w", tmpLinkPath, err)
	}
	if err := os.Symlink(target, tmpLinkPath); err != nil {
		return fmt.Errorf("create temp symlink %s -> %s: %w", tmpLinkPath, target, err)
	}
	if err := os.Rename(tmpLinkPath, currentPath); err != nil {
		_ = os.Remove(tmpLinkPath)
		return fmt.Errorf("activate current symlink %s -> %s: %w", currentPath, target, err)
	}
	return nil
}

// ReadCurrentSymlinkTarget reports where dataDir/current points, or false
// when no release has been activated yet.
func ReadCurrentSymlinkTarget(dataDir string) (string, bool, error) {
	currentPath := filepath.Join(dataDir, "current")
	target, err := os.Readlink(currentPath)
	if err == nil {
		return target, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	return "", false, fmt.Errorf("read current symlink %s: %w", currentPath, err)
}
