package client

import "github.com/foliokit/folioctl/internal/diff"

// HealthResponse reports daemon liveness.
type HealthResponse struct {
	Status  string `json:"status" yaml:"status"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// StatusResponse describes the currently served release.
type StatusResponse struct {
	Site            string  `json:"site" yaml:"site"`
	ActiveReleaseID *string `json:"activeReleaseId,omitempty" yaml:"activeReleaseId,omitempty"`
	CreatedAt       *string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	PageCount       int     `json:"pageCount" yaml:"pageCount"`
}

// Release is a published release entry.
type Release struct {
	ReleaseID string `json:"releaseId" yaml:"releaseId"`
	SiteName  string `json:"siteName" yaml:"siteName"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	PageCount int    `json:"pageCount" yaml:"pageCount"`
	Active    bool   `json:"active" yaml:"active"`
}

type ReleasesResponse struct {
	ActiveReleaseID *string   `json:"activeReleaseId,omitempty" yaml:"activeReleaseId,omitempty"`
	Releases        []Release `json:"releases" yaml:"releases"`
}

// PublishResponse is returned after a bundle upload is extracted and
// activated.
type PublishResponse struct {
	Site              string  `json:"site" yaml:"site"`
	ReleaseID         string  `json:"releaseId" yaml:"releaseId"`
	PreviousReleaseID *string `json:"previousReleaseId,omitempty" yaml:"previousReleaseId,omitempty"`
	PageCount         int     `json:"pageCount" yaml:"pageCount"`
	DryRun            bool    `json:"dryRun" yaml:"dryRun"`
}

// ReleaseFilesResponse is the hashed file listing of the active release. An
// empty listing means nothing has been published yet.
type ReleaseFilesResponse struct {
	ActiveReleaseID *string           `json:"activeReleaseId,omitempty" yaml:"activeReleaseId,omitempty"`
	Files           []diff.FileRecord `json:"files" yaml:"files"`
}

type SectionCount struct {
	SectionID string `json:"sectionId" yaml:"sectionId"`
	Count     int64  `json:"count" yaml:"count"`
}

type Visit struct {
	ID        string `json:"id" yaml:"id"`
	Path      string `json:"path" yaml:"path"`
	SectionID string `json:"sectionId" yaml:"sectionId"`
	Referrer  string `json:"referrer,omitempty" yaml:"referrer,omitempty"`
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

type VisitsSummaryResponse struct {
	Total       int64          `json:"total" yaml:"total"`
	TopSections []SectionCount `json:"topSections" yaml:"topSections"`
	Recent      []Visit        `json:"recent" yaml:"recent"`
}
