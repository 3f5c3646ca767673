package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearFoliodEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FOLIOD_BIND", "FOLIOD_PORT", "FOLIOD_DATA_DIR",
		"FOLIOD_LOG_LEVEL", "FOLIOD_DB_PATH", "FOLIOD_DB_WAL", "FOLIOD_API_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearFoliodEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BindAddr != DefaultBindAddr || cfg.Port != DefaultPort {
		t.Fatalf("listen defaults = %s:%d", cfg.BindAddr, cfg.Port)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
	if !cfg.DBWAL {
		t.Fatal("WAL should default on")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearFoliodEnv(t)

	path := filepath.Join(t.TempDir(), "foliod.yaml")
	content := "bind: 0.0.0.0\nport: 9500\ndataDir: /srv/folio\napiToken: file-token\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BindAddr != "0.0.0.0" || cfg.Port != 9500 || cfg.DataDir != "/srv/folio" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.APIToken != "file-token" {
		t.Fatalf("api token = %q", cfg.APIToken)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearFoliodEnv(t)

	path := filepath.Join(t.TempDir(), "foliod.yaml")
	if err := os.WriteFile(path, []byte("port: 9500\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FOLIOD_PORT", "9600")
	t.Setenv("FOLIOD_DATA_DIR", "/tmp/folio-data")
	t.Setenv("FOLIOD_DB_WAL", "false")
	t.Setenv("FOLIOD_API_TOKEN", "env-token")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9600 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if cfg.DataDir != "/tmp/folio-data" {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
	if cfg.DBWAL {
		t.Fatal("WAL should be disabled via env")
	}
	if cfg.APIToken != "env-token" {
		t.Fatalf("api token = %q", cfg.APIToken)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	clearFoliodEnv(t)

	t.Setenv("FOLIOD_PORT", "not-a-number")
	if _, err := LoadConfig(""); err == nil || !strings.Contains(err.Error(), "FOLIOD_PORT") {
		t.Fatalf("err = %v", err)
	}

	t.Setenv("FOLIOD_PORT", "")
	t.Setenv("FOLIOD_LOG_LEVEL", "loud")
	if _, err := LoadConfig(""); err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Fatalf("err = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected port range error")
	}

	cfg = DefaultConfig()
	cfg.DataDir = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected data dir error")
	}
}
