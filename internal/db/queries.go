package db

import (
	"context"
	"database/sql"
	"fmt"
)

type queryer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db queryer
}

func NewQueries(db queryer) *Queries {
	return &Queries{db: db}
}

func (q *Queries) InsertVisit(ctx context.Context, in VisitRow) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO visits(id, path, section_id, referrer, user_agent, timestamp) VALUES(?, ?, ?, ?, ?, ?)`,
		in.ID, in.Path, in.SectionID, in.Referrer, in.UserAgent, in.Timestamp)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

func (q *Queries) CountVisits(ctx context.Context) (int, error) {
	var total int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return total, nil
}

func (q *Queries) RecentVisits(ctx context.Context, limit int) ([]VisitRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, path, section_id, referrer, user_agent, timestamp FROM visits ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent visits: %w", err)
	}
	defer rows.Close()

	out := []VisitRow{}
	for rows.Next() {
		var row VisitRow
		if err := rows.Scan(&row.ID, &row.Path, &row.SectionID, &row.Referrer, &row.UserAgent, &row.Timestamp); err != nil {
			return nil, fmt.Errorf("scan visit row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visit rows: %w", err)
	}
	return out, nil
}

func (q *Queries) TopSections(ctx context.Context, limit int) ([]SectionCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT section_id, COUNT(*) AS n FROM visits GROUP BY section_id ORDER BY n DESC, section_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top sections: %w", err)
	}
	defer rows.Close()

	out := []SectionCount{}
	for rows.Next() {
		var row SectionCount
		if err := rows.Scan(&row.SectionID, &row.Count); err != nil {
			return nil, fmt.Errorf("scan section count: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate section counts: %w", err)
	}
	return out, nil
}

func (q *Queries) InsertRelease(ctx context.Context, in ReleaseRow) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO releases(id, site_name, created_at, page_count) VALUES(?, ?, ?, ?)`,
		in.ID, in.SiteName, in.CreatedAt, in.PageCount)
	if err != nil {
		return fmt.Errorf("insert release: %w", err)
	}
	return nil
}

func (q *Queries) LatestRelease(ctx context.Context) (ReleaseRow, error) {
	var out ReleaseRow
	err := q.db.QueryRowContext(ctx,
		`SELECT id, site_name, created_at, page_count FROM releases ORDER BY id DESC LIMIT 1`).
		Scan(&out.ID, &out.SiteName, &out.CreatedAt, &out.PageCount)
	if err != nil {
		return out, fmt.Errorf("latest release: %w", err)
	}
	return out, nil
}

func (q *Queries) ListReleases(ctx context.Context, limit int) ([]ReleaseRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, site_name, created_at, page_count FROM releases ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer rows.Close()

	out := []ReleaseRow{}
	for rows.Next() {
		var row ReleaseRow
		if err := rows.Scan(&row.ID, &row.SiteName, &row.CreatedAt, &row.PageCount); err != nil {
			return nil, fmt.Errorf("scan release row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate release rows: %w", err)
	}
	return out, nil
}
