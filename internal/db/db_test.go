package db

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *Queries {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foliod.db")
	conn, err := Open(DefaultOptions(path))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := RunMigrations(context.Background(), conn); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return NewQueries(conn)
}

func TestOpenAppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foliod.db")
	conn, err := Open(DefaultOptions(path))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	mode, err := JournalMode(context.Background(), conn)
	if err != nil {
		t.Fatalf("JournalMode() error = %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal mode = %q, want wal", mode)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foliod.db")
	conn, err := Open(DefaultOptions(path))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := RunMigrations(ctx, conn); err != nil {
		t.Fatalf("first RunMigrations() error = %v", err)
	}
	if err := RunMigrations(ctx, conn); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		t.Fatalf("appliedVersions() error = %v", err)
	}
	if len(applied) != len(migrationList()) {
		t.Fatalf("applied %d migrations, want %d", len(applied), len(migrationList()))
	}
}
