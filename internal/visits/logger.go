package visits

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	dbpkg "github.com/foliokit/folioctl/internal/db"
)

const (
	defaultRecentLimit   = 50
	maxRecentLimit       = 1000
	visitTimestampLayout = "2006-01-02T15:04:05.000000000Z"
)

type SQLiteLogger struct {
	db *sql.DB
}

func NewSQLiteLogger(db *sql.DB) (*SQLiteLogger, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &SQLiteLogger{db: db}, nil
}

func (l *SQLiteLogger) Log(ctx context.Context, visit Visit) error {
	sectionID := strings.TrimSpace(visit.SectionID)
	if sectionID == "" {
		return fmt.Errorf("section id is required")
	}
	path := strings.TrimSpace(visit.Path)
	if path == "" {
		path = "/"
	}
	ts := visit.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	id := visit.ID
	if id == "" {
		id = ulid.Make().String()
	}

	q := dbpkg.NewQueries(l.db)
	err := q.InsertVisit(ctx, dbpkg.VisitRow{
		ID:        id,
		Path:      path,
		SectionID: sectionID,
		Referrer:  visit.Referrer,
		UserAgent: visit.UserAgent,
		Timestamp: ts.UTC().Format(visitTimestampLayout),
	})
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

func (l *SQLiteLogger) Summarize(ctx context.Context, recentLimit int) (Summary, error) {
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	if recentLimit > maxRecentLimit {
		recentLimit = maxRecentLimit
	}

	q := dbpkg.NewQueries(l.db)

	total, err := q.CountVisits(ctx)
	if err != nil {
		return Summary{}, err
	}

	topRows, err := q.TopSections(ctx, 10)
	if err != nil {
		return Summary{}, err
	}
	top := make([]SectionCount, 0, len(topRows))
	for _, row := range topRows {
		top = append(top, SectionCount{SectionID: row.SectionID, Count: row.Count})
	}

	recentRows, err := q.RecentVisits(ctx, recentLimit)
	if err != nil {
		return Summary{}, err
	}
	recent := make([]Visit, 0, len(recentRows))
	for _, row := range recentRows {
		ts, err := parseVisitTimestamp(row.Timestamp)
		if err != nil {
			return Summary{}, fmt.Errorf("parse visit timestamp %q: %w", row.Timestamp, err)
		}
		recent = append(recent, Visit{
			ID:        row.ID,
			Path:      row.Path,
			SectionID: row.SectionID,
			Referrer:  row.Referrer,
			UserAgent: row.UserAgent,
			Timestamp: ts,
		})
	}

	return Summary{Total: total, TopSections: top, Recent: recent}, nil
}

func parseVisitTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(visitTimestampLayout, raw); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
