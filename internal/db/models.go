package db

type VisitRow struct {
	ID        string
	Path      string
	SectionID string
	Referrer  string
	UserAgent string
	Timestamp string
}

type ReleaseRow struct {
	ID        string
	SiteName  string
	CreatedAt string
	PageCount int
}

type SectionCount struct {
	SectionID string
	Count     int
}
