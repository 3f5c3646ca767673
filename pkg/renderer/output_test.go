package renderer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashedFilename(t *testing.T) {
	a := hashedFilename("tokens.css", []byte("body{}"))
	b := hashedFilename("tokens.css", []byte("body{}"))
	c := hashedFilename("tokens.css", []byte("main{}"))

	if a != b {
		t.Fatalf("same content must hash to the same name: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("different content must hash to different names")
	}
	if filepath.Ext(a) != ".css" {
		t.Fatalf("extension not preserved: %q", a)
	}

	bare := hashedFilename("LICENSE", []byte("x"))
	if filepath.Ext(bare) != "" {
		t.Fatalf("extensionless name grew an extension: %q", bare)
	}
}

func TestNormalizeLF(t *testing.T) {
	if got := normalizeLF("a\r\nb\nc"); got != "a\nb\nc" {
		t.Fatalf("normalizeLF() = %q", got)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")
	if err := writeFileAtomic(path, []byte("hello")); err != nil {
		t.Fatalf("writeFileAtomic() error = %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil || string(content) != "hello" {
		t.Fatalf("read back: %q, %v", content, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
