package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleConfig = `current-context: prod
contexts:
  - name: prod
    server: ssh://deploy@folio.example.com
    port: 9400
    token: prod-token
  - name: local
    server: local
`

func TestLoadFromPath(t *testing.T) {
	cfg, err := LoadFromPath(writeConfigFile(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIVersion != DefaultAPIVersion {
		t.Fatalf("apiVersion = %q", cfg.APIVersion)
	}
	if cfg.CurrentContext != "prod" || len(cfg.Contexts) != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadFromPathRejectsDuplicateContexts(t *testing.T) {
	content := `contexts:
  - name: prod
    server: local
  - name: prod
    server: local
`
	_, err := LoadFromPath(writeConfigFile(t, content))
	if err == nil || !strings.Contains(err.Error(), "duplicate context") {
		t.Fatalf("err = %v", err)
	}
}

func TestResolvePathPrecedence(t *testing.T) {
	t.Setenv(EnvConfigPath, "/env/config.yaml")

	if got, err := ResolvePath("/explicit.yaml"); err != nil || got != "/explicit.yaml" {
		t.Fatalf("explicit: %q %v", got, err)
	}
	if got, err := ResolvePath(""); err != nil || got != "/env/config.yaml" {
		t.Fatalf("env: %q %v", got, err)
	}

	t.Setenv(EnvConfigPath, "")
	got, err := ResolvePath("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, filepath.Join(".folioctl", "config.yaml")) {
		t.Fatalf("default path = %q", got)
	}
}

func TestResolveContext(t *testing.T) {
	cfg, err := LoadFromPath(writeConfigFile(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	info, err := ResolveContext(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "prod" || info.Server != "ssh://deploy@folio.example.com" || info.RemotePort != 9400 {
		t.Fatalf("info = %+v", info)
	}
	if info.Token != "prod-token" {
		t.Fatalf("token = %q", info.Token)
	}
	if info.Local() {
		t.Fatal("ssh context should not be local")
	}

	local, err := ResolveContext(cfg, "local")
	if err != nil {
		t.Fatal(err)
	}
	if !local.Local() {
		t.Fatal("local context should be local")
	}

	if _, err := ResolveContext(cfg, "staging"); err == nil || !strings.Contains(err.Error(), "available contexts: local, prod") {
		t.Fatalf("err = %v", err)
	}

	if _, err := ResolveContext(Config{}, ""); err == nil || !strings.Contains(err.Error(), "no context selected") {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Config{
		CurrentContext: "local",
		Contexts: []Context{
			{Name: "local", Server: "local"},
		},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config file mode = %o", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.CurrentContext != "local" || len(loaded.Contexts) != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Config{Contexts: []Context{{Name: "", Server: "local"}}}
	if err := Save(path, cfg); err == nil {
		t.Fatal("expected validation error")
	}
}
