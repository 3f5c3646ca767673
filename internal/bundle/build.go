package bundle

import (
	"archive/tar"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const maxBundleSizeBytes = 100 * 1024 * 1024

// BuildTarFromDir packages a rendered release directory into a tar archive.
// The manifest travels as the first entry; file order is sorted so the same
// tree always produces the same archive.
func BuildTarFromDir(dir, site string) ([]byte, Manifest, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return nil, Manifest{}, fmt.Errorf("site name is required")
	}

	var rels []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("walk release directory %s: %w", dir, err)
	}
	if len(rels) == 0 {
		return nil, Manifest{}, fmt.Errorf("release directory %s is empty", dir)
	}
	sort.Strings(rels)

	manifest := Manifest{APIVersion: APIVersion, Kind: KindBundle, Site: site}
	totalBytes := int64(0)
	for _, rel := range rels {
		hash, size, err := hashFile(dir, rel)
		if err != nil {
			return nil, Manifest{}, err
		}
		totalBytes += size
		if totalBytes > maxBundleSizeBytes {
			return nil, Manifest{}, fmt.Errorf("bundle exceeds %d bytes; reduce site size or split large assets", maxBundleSizeBytes)
		}
		manifest.Files = append(manifest.Files, FileRef{Path: rel, Hash: hash, Size: size})
	}
	if err := manifest.Validate(); err != nil {
		return nil, Manifest{}, err
	}

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("marshal manifest: %w", err)
	}

	var archive bytes.Buffer
	tw := tar.NewWriter(&archive)
	if err := writeTarEntry(tw, "manifest.json", manifestBytes); err != nil {
		return nil, Manifest{}, err
	}
	for _, ref := range manifest.Files {
		if err := writeTarFileFromDisk(tw, dir, ref.Path, ref.Size); err != nil {
			return nil, Manifest{}, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, Manifest{}, fmt.Errorf("close tar archive: %w", err)
	}

	return archive.Bytes(), manifest, nil
}

func writeTarEntry(tw *tar.Writer, rel string, content []byte) error {
	hdr := &tar.Header{
		Name: rel,
		Mode: 0o644,
		Size: int64(len(content)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write tar header %s: %w", rel, err)
	}
	if _, err := tw.Write(content); err != nil {
		return fmt.Errorf("write tar content %s: %w", rel, err)
	}
	return nil
}

func writeTarFileFromDisk(tw *tar.Writer, root, rel string, size int64) error {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("open release file %s: %w", abs, err)
	}
	defer f.Close()

	hdr := &tar.Header{
		Name: rel,
		Mode: 0o644,
		Size: size,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write tar header %s: %w", rel, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("write tar content %s: %w", rel, err)
	}
	return nil
}

func hashFile(root, rel string) (string, int64, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	f, err := os.Open(abs)
	if err != nil {
		return "", 0, fmt.Errorf("open release file %s: %w", abs, err)
	}
	defer f.Close()

	hasher := sha256.New()
	n, err := io.Copy(hasher, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash release file %s: %w", abs, err)
	}
	return "sha256:" + hex.EncodeToString(hasher.Sum(nil)), n, nil
}
