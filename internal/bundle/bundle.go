package bundle

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

type Bundle struct {
	Manifest Manifest
	Files    map[string][]byte
}

type ValidationError struct {
	MissingFiles   []string
	HashMismatches []string
	ExtraFiles     []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if len(e.MissingFiles) > 0 {
		parts = append(parts, fmt.Sprintf("missing files: %s", strings.Join(e.MissingFiles, ", ")))
	}
	if len(e.HashMismatches) > 0 {
		parts = append(parts, fmt.Sprintf("hash mismatches: %s", strings.Join(e.HashMismatches, ", ")))
	}
	if len(e.ExtraFiles) > 0 {
		parts = append(parts, fmt.Sprintf("files not in manifest: %s", strings.Join(e.ExtraFiles, ", ")))
	}
	if len(parts) == 0 {
		return "invalid bundle"
	}
	return strings.Join(parts, "; ")
}

// ReadTar parses and verifies a publish bundle. Every file must match its
// manifest hash and every manifest entry must be present; anything else is a
// ValidationError.
func ReadTar(r io.Reader) (Bundle, error) {
	b := Bundle{Files: map[string][]byte{}}
	tr := tar.NewReader(r)
	var manifestBytes []byte

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return b, fmt.Errorf("read tar entry: %w", err)
		}
		if hdr == nil || hdr.Typeflag == tar.TypeDir {
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			return b, fmt.Errorf("unsupported tar entry type for %q", hdr.Name)
		}
		name, err := sanitizeEntryPath(hdr.Name)
		if err != nil {
			return b, fmt.Errorf("invalid tar path %q: %w", hdr.Name, err)
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return b, fmt.Errorf("read tar entry %q: %w", name, err)
		}
		if name == "manifest.json" {
			manifestBytes = content
			continue
		}
		if _, exists := b.Files[name]; exists {
			return b, fmt.Errorf("duplicate tar entry %q", name)
		}
		b.Files[name] = content
	}

	if len(manifestBytes) == 0 {
		return b, fmt.Errorf("bundle is missing manifest.json")
	}

	manifest, err := ParseManifest(manifestBytes)
	if err != nil {
		return b, err
	}
	b.Manifest = manifest

	expected := map[string]string{}
	for _, ref := range manifest.Files {
		expected[ref.Path] = ref.Hash
	}

	validation := &ValidationError{}
	for file, expectedHash := range expected {
		content, ok := b.Files[file]
		if !ok {
			validation.MissingFiles = append(validation.MissingFiles, file)
			continue
		}
		sum := sha256.Sum256(content)
		actual := "sha256:" + hex.EncodeToString(sum[:])
		if actual != expectedHash {
			validation.HashMismatches = append(validation.HashMismatches, file)
		}
	}
	for file := range b.Files {
		if _, ok := expected[file]; !ok {
			validation.ExtraFiles = append(validation.ExtraFiles, file)
		}
	}
	if len(validation.MissingFiles) > 0 || len(validation.HashMismatches) > 0 || len(validation.ExtraFiles) > 0 {
		sort.Strings(validation.MissingFiles)
		sort.Strings(validation.HashMismatches)
		sort.Strings(validation.ExtraFiles)
		return b, validation
	}

	return b, nil
}

// ExtractTo writes a verified bundle's files under dir.
func (b Bundle) ExtractTo(dir string) error {
	names := make([]string, 0, len(b.Files))
	for name := range b.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(target, b.Files[name], 0o644); err != nil {
			return fmt.Errorf("write bundle file %s: %w", name, err)
		}
	}
	return nil
}

func sanitizeEntryPath(name string) (string, error) {
	clean := path.Clean(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if err := validateBundlePath(clean); err != nil {
		return "", err
	}
	return clean, nil
}
