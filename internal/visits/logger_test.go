package visits

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	dbpkg "github.com/foliokit/folioctl/internal/db"
)

func newTestLogger(t *testing.T) *SQLiteLogger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foliod.db")
	conn, err := dbpkg.Open(dbpkg.DefaultOptions(path))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := dbpkg.RunMigrations(context.Background(), conn); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	logger, err := NewSQLiteLogger(conn)
	if err != nil {
		t.Fatalf("NewSQLiteLogger() error = %v", err)
	}
	return logger
}

func TestLogAndSummarize(t *testing.T) {
	logger := newTestLogger(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	visitsIn := []Visit{
		{Path: "/", SectionID: "intro", Timestamp: base},
		{Path: "/work", SectionID: "work", Timestamp: base.Add(time.Hour)},
		{Path: "/work", SectionID: "work", Timestamp: base.Add(2 * time.Hour)},
		{Path: "/work/portfolio", SectionID: "case-portfolio", Referrer: "https://example.com/", Timestamp: base.Add(3 * time.Hour)},
	}
	for i, v := range visitsIn {
		if err := logger.Log(ctx, v); err != nil {
			t.Fatalf("Log(%d) error = %v", i, err)
		}
	}

	summary, err := logger.Summarize(ctx, 2)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Total != 4 {
		t.Fatalf("Total = %d, want 4", summary.Total)
	}
	if len(summary.TopSections) != 3 || summary.TopSections[0].SectionID != "work" || summary.TopSections[0].Count != 2 {
		t.Fatalf("TopSections = %#v", summary.TopSections)
	}
	if len(summary.Recent) != 2 || summary.Recent[0].SectionID != "case-portfolio" {
		t.Fatalf("Recent = %#v", summary.Recent)
	}
	if summary.Recent[0].ID == "" {
		t.Fatalf("visit id was not assigned")
	}
	if !summary.Recent[0].Timestamp.Equal(base.Add(3 * time.Hour)) {
		t.Fatalf("timestamp not round-tripped: %v", summary.Recent[0].Timestamp)
	}
}

func TestLogRequiresSectionID(t *testing.T) {
	logger := newTestLogger(t)
	if err := logger.Log(context.Background(), Visit{Path: "/"}); err == nil {
		t.Fatalf("expected error for missing section id")
	}
}

func TestAsyncLoggerFlushes(t *testing.T) {
	sink := newTestLogger(t)
	var errs []error
	async := NewAsyncLogger(sink, 8, func(err error) { errs = append(errs, err) })

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := async.Log(ctx, Visit{Path: "/", SectionID: "intro"}); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := async.WaitIdle(waitCtx); err != nil {
		t.Fatalf("WaitIdle() error = %v", err)
	}
	if err := async.Close(waitCtx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("sink errors: %v", errs)
	}

	summary, err := sink.Summarize(ctx, 10)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Total != 5 {
		t.Fatalf("Total = %d, want 5", summary.Total)
	}
}

func TestAsyncLoggerRejectsAfterClose(t *testing.T) {
	sink := newTestLogger(t)
	async := NewAsyncLogger(sink, 8, nil)

	ctx := context.Background()
	if err := async.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := async.Log(ctx, Visit{SectionID: "intro"}); err == nil {
		t.Fatalf("expected error after close")
	}
}
