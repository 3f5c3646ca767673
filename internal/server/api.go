package server

import (
	"database/sql"
	"errors"
	"net/http"

	dbpkg "github.com/foliokit/folioctl/internal/db"
)

const maxReleaseListing = 100

type statusResponse struct {
	Site            string  `json:"site"`
	ActiveReleaseID *string `json:"activeReleaseId,omitempty"`
	CreatedAt       *string `json:"createdAt,omitempty"`
	PageCount       int     `json:"pageCount"`
}

type releaseEntry struct {
	ReleaseID string `json:"releaseId"`
	SiteName  string `json:"siteName"`
	CreatedAt string `json:"createdAt"`
	PageCount int    `json:"pageCount"`
	Active    bool   `json:"active"`
}

type releasesResponse struct {
	ActiveReleaseID *string        `json:"activeReleaseId,omitempty"`
	Releases        []releaseEntry `json:"releases"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	resp := statusResponse{ActiveReleaseID: s.activeReleaseID()}

	row, err := dbpkg.NewQueries(s.db).LatestRelease(r.Context())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Status without a publish yet is not an error.
	case err != nil:
		s.writeInternalAPIError(w, r, "read latest release", err)
		return
	default:
		resp.Site = row.SiteName
		resp.CreatedAt = &row.CreatedAt
		resp.PageCount = row.PageCount
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReleases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	rows, err := dbpkg.NewQueries(s.db).ListReleases(r.Context(), maxReleaseListing)
	if err != nil {
		s.writeInternalAPIError(w, r, "list releases", err)
		return
	}

	activeID := s.activeReleaseID()
	resp := releasesResponse{
		ActiveReleaseID: activeID,
		Releases:        make([]releaseEntry, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Releases = append(resp.Releases, releaseEntry{
			ReleaseID: row.ID,
			SiteName:  row.SiteName,
			CreatedAt: row.CreatedAt,
			PageCount: row.PageCount,
			Active:    activeID != nil && *activeID == row.ID,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
