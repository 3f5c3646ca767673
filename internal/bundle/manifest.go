// Package bundle packages a rendered release tree into the tar archive the
// publish API transfers, with a hashed manifest so the receiving daemon can
// verify the payload before activating it.
package bundle

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

const (
	APIVersion = "foliokit.dev/v1"
	KindBundle = "Bundle"
)

type Manifest struct {
	APIVersion string    `json:"apiVersion"`
	Kind       string    `json:"kind"`
	Site       string    `json:"site"`
	Files      []FileRef `json:"files"`
}

type FileRef struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

func ParseManifest(raw []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("parse bundle manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

func (m Manifest) Validate() error {
	if m.APIVersion != APIVersion {
		return fmt.Errorf("unsupported bundle apiVersion %q", m.APIVersion)
	}
	if m.Kind != KindBundle {
		return fmt.Errorf("unsupported bundle kind %q", m.Kind)
	}
	if strings.TrimSpace(m.Site) == "" {
		return fmt.Errorf("bundle site is required")
	}
	if len(m.Files) == 0 {
		return fmt.Errorf("bundle has no files")
	}
	seen := map[string]bool{}
	for _, ref := range m.Files {
		if err := validateBundlePath(ref.Path); err != nil {
			return fmt.Errorf("bundle file %q: %w", ref.Path, err)
		}
		if !strings.HasPrefix(ref.Hash, "sha256:") {
			return fmt.Errorf("bundle file %q has unsupported hash %q", ref.Path, ref.Hash)
		}
		if seen[ref.Path] {
			return fmt.Errorf("bundle lists %q twice", ref.Path)
		}
		seen[ref.Path] = true
	}
	return nil
}

// validateBundlePath rejects entries that could escape the extraction root.
func validateBundlePath(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("absolute path not allowed")
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf("backslash not allowed")
	}
	clean := path.Clean(p)
	if clean != p {
		return fmt.Errorf("path is not clean")
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path escapes bundle root")
	}
	return nil
}
