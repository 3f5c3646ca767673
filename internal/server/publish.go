package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/foliokit/folioctl/internal/bundle"
	dbpkg "github.com/foliokit/folioctl/internal/db"
	"github.com/foliokit/folioctl/internal/release"
	"github.com/foliokit/folioctl/pkg/renderer"
)

const maxPublishBytes = 100 << 20

type publishResponse struct {
	Site              string  `json:"site"`
	ReleaseID         string  `json:"releaseId"`
	PreviousReleaseID *string `json:"previousReleaseId,omitempty"`
	PageCount         int     `json:"pageCount"`
	DryRun            bool    `json:"dryRun"`
}

// handlePublish accepts a release bundle tar, verifies it, extracts it as a
// new release, and atomically activates it. One publish at a time.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	if !s.publishMu.TryLock() {
		writeAPIError(w, http.StatusConflict, "another publish is in progress", nil)
		return
	}
	defer s.publishMu.Unlock()

	dryRun := r.URL.Query().Get("dry_run") == "true"

	b, err := bundle.ReadTar(io.LimitReader(r.Body, maxPublishBytes))
	if err != nil {
		var validationErr *bundle.ValidationError
		if errors.As(err, &validationErr) {
			writeAPIError(w, http.StatusBadRequest, "bundle verification failed", validationErrDetails(validationErr))
			return
		}
		writeAPIError(w, http.StatusBadRequest, "invalid bundle: "+err.Error(), nil)
		return
	}

	manifest, err := bundleRouteManifest(b)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	previousID := s.activeReleaseID()

	if dryRun {
		writeJSON(w, http.StatusOK, publishResponse{
			Site:              b.Manifest.Site,
			PreviousReleaseID: previousID,
			PageCount:         len(manifest.Routes),
			DryRun:            true,
		})
		return
	}

	releaseID, err := release.NewReleaseID(time.Now())
	if err != nil {
		s.writeInternalAPIError(w, r, "allocate release id", err)
		return
	}
	releaseDir := filepath.Join(s.dataPaths.ReleasesRoot, releaseID)
	if err := b.ExtractTo(releaseDir); err != nil {
		_ = os.RemoveAll(releaseDir)
		s.writeInternalAPIError(w, r, "extract bundle", err, "release_id", releaseID)
		return
	}

	if err := release.SwitchCurrentSymlink(s.cfg.DataDir, releaseID); err != nil {
		_ = os.RemoveAll(releaseDir)
		s.writeInternalAPIError(w, r, "activate release", err, "release_id", releaseID)
		return
	}

	err = dbpkg.NewQueries(s.db).InsertRelease(r.Context(), dbpkg.ReleaseRow{
		ID:        releaseID,
		SiteName:  b.Manifest.Site,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		PageCount: len(manifest.Routes),
	})
	if err != nil {
		s.writeInternalAPIError(w, r, "record release", err, "release_id", releaseID)
		return
	}

	if err := s.loadActiveRelease(); err != nil {
		s.writeInternalAPIError(w, r, "load activated release", err, "release_id", releaseID)
		return
	}

	s.logger.Info("release published",
		"release_id", releaseID,
		"site", b.Manifest.Site,
		"page_count", len(manifest.Routes),
		"actor", actorFromRequest(r),
	)

	writeJSON(w, http.StatusCreated, publishResponse{
		Site:              b.Manifest.Site,
		ReleaseID:         releaseID,
		PreviousReleaseID: previousID,
		PageCount:         len(manifest.Routes),
	})
}

// bundleRouteManifest parses the rendered route manifest that must ship
// inside every bundle.
func bundleRouteManifest(b bundle.Bundle) (renderer.Manifest, error) {
	raw, ok := b.Files[renderer.ManifestName]
	if !ok {
		return renderer.Manifest{}, errors.New("bundle is missing " + renderer.ManifestName)
	}
	manifest, err := release.ParseRouteManifest(raw)
	if err != nil {
		return renderer.Manifest{}, errors.New("invalid " + renderer.ManifestName + ": " + err.Error())
	}
	return manifest, nil
}

func (s *Server) activeReleaseID() *string {
	active := s.activeRelease()
	if active == nil {
		return nil
	}
	id := active.id
	return &id
}

func validationErrDetails(err *bundle.ValidationError) []string {
	details := make([]string, 0, 3)
	for _, f := range err.MissingFiles {
		details = append(details, "missing file: "+f)
	}
	for _, f := range err.HashMismatches {
		details = append(details, "hash mismatch: "+f)
	}
	for _, f := range err.ExtraFiles {
		details = append(details, "file not in manifest: "+f)
	}
	return details
}
