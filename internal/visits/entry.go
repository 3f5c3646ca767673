// Package visits records which sections of the published portfolio get seen.
// The daemon feeds it from the client's reveal events; writes go through a
// bounded async queue so logging never blocks request handling.
package visits

import (
	"context"
	"time"
)

type Visit struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	SectionID string    `json:"sectionId"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Summary struct {
	Total       int            `json:"total"`
	TopSections []SectionCount `json:"topSections"`
	Recent      []Visit        `json:"recent"`
}

type SectionCount struct {
	SectionID string `json:"sectionId"`
	Count     int    `json:"count"`
}

type Logger interface {
	Log(ctx context.Context, visit Visit) error
	Summarize(ctx context.Context, recentLimit int) (Summary, error)
}
