package diff

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTableFormatsGroupedOutputAndSummary(t *testing.T) {
	var buf bytes.Buffer
	result := Result{
		Changes: []FileChange{
			{
				Path:       "index.html",
				Group:      "pages",
				ChangeType: ChangeModified,
				OldHash:    "sha256:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				NewHash:    "sha256:bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
			},
			{
				Path:       "og/intro.png",
				Group:      "assets",
				ChangeType: ChangeAdded,
				NewHash:    "sha256:cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc",
			},
		},
		Summary: Summary{
			Added:     1,
			Modified:  1,
			Removed:   0,
			Unchanged: 3,
		},
	}

	if err := WriteTable(&buf, result, DisplayOptions{}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PAGES:", "ASSETS:", "aaaaaaaa", "bbbbbbbb", "cccccccc", "1 added, 1 modified, 0 removed, 3 unchanged"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes, got:\n%s", out)
	}
}

func TestWriteTableNoChanges(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, Result{Summary: Summary{Unchanged: 9}}, DisplayOptions{}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No changes detected.") {
		t.Fatalf("expected no-changes notice, got:\n%s", out)
	}
	if !strings.Contains(out, "9 unchanged") {
		t.Fatalf("expected unchanged count, got:\n%s", out)
	}
}

func TestColorizeWrapsChangeTypes(t *testing.T) {
	if got := colorize("added", ChangeAdded, true); got != "\x1b[32madded\x1b[0m" {
		t.Fatalf("colorize(added) = %q", got)
	}
	if got := colorize("removed", ChangeRemoved, false); got != "removed" {
		t.Fatalf("expected passthrough when disabled, got %q", got)
	}
}
