package server

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/foliokit/folioctl/internal/diff"
)

type releaseFilesResponse struct {
	ActiveReleaseID *string           `json:"activeReleaseId,omitempty"`
	Files           []diff.FileRecord `json:"files"`
}

// handleReleaseFiles returns the hashed file listing of the active release,
// which folioctl diffs against a local build. An empty listing means nothing
// has been published yet.
func (s *Server) handleReleaseFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	resp := releaseFilesResponse{Files: []diff.FileRecord{}}
	active := s.activeRelease()
	if active == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	records, err := hashReleaseTree(active.dir)
	if err != nil {
		s.writeInternalAPIError(w, r, "hash active release", err)
		return
	}
	resp.ActiveReleaseID = &active.id
	resp.Files = records

	writeJSON(w, http.StatusOK, resp)
}

func hashReleaseTree(root string) ([]diff.FileRecord, error) {
	records := []diff.FileRecord{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hash, err := hashFileSHA256(path)
		if err != nil {
			return err
		}
		records = append(records, diff.FileRecord{
			Path: filepath.ToSlash(rel),
			Hash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func hashFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}
