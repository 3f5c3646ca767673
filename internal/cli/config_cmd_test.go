package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foliokit/folioctl/internal/config"
)

func writeTestConfigFile(t *testing.T, currentContext string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `apiVersion: foliokit.dev/v1
current-context: ` + currentContext + `
contexts:
  - name: staging
    server: ssh://deploy@staging.example.com
  - name: prod
    server: ssh://deploy@prod.example.com
    port: 9400
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestConfigViewCommandPrintsYAML(t *testing.T) {
	t.Setenv(config.EnvConfigPath, writeTestConfigFile(t, "staging"))

	out, err := runCommand(t, "config", "view")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "current-context: staging") {
		t.Fatalf("expected current-context in output, got: %s", out)
	}
	if !strings.Contains(out, "name: prod") {
		t.Fatalf("expected contexts in output, got: %s", out)
	}
}

func TestConfigCurrentContextCommandPrintsActiveName(t *testing.T) {
	t.Setenv(config.EnvConfigPath, writeTestConfigFile(t, "prod"))

	out, err := runCommand(t, "config", "current-context")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "prod" {
		t.Fatalf("expected prod current context, got: %q", out)
	}
}

func TestConfigCurrentContextCommandRespectsContextOverrideFlag(t *testing.T) {
	t.Setenv(config.EnvConfigPath, writeTestConfigFile(t, "staging"))

	out, err := runCommand(t, "--context", "prod", "config", "current-context")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "prod" {
		t.Fatalf("expected context override to resolve prod, got: %q", out)
	}
}

func TestConfigUseContextUpdatesCurrentContext(t *testing.T) {
	configPath := writeTestConfigFile(t, "staging")
	t.Setenv(config.EnvConfigPath, configPath)

	out, err := runCommand(t, "config", "use-context", "prod")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, `Switched to context "prod"`) {
		t.Fatalf("expected switch confirmation, got: %s", out)
	}

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.CurrentContext != "prod" {
		t.Fatalf("expected current-context to be updated to prod, got %q", cfg.CurrentContext)
	}
}

func TestConfigUseContextUnknownContextFailsWithAvailableList(t *testing.T) {
	t.Setenv(config.EnvConfigPath, writeTestConfigFile(t, "staging"))

	_, err := runCommand(t, "config", "use-context", "qa")
	if err == nil {
		t.Fatalf("expected missing context error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "available contexts") {
		t.Fatalf("expected available contexts in error, got %v", err)
	}
	if !strings.Contains(msg, "staging") || !strings.Contains(msg, "prod") {
		t.Fatalf("expected known contexts in error, got %v", err)
	}
}

func TestConfigSetContextCreatesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.EnvConfigPath, configPath)

	out, err := runCommand(t, "config", "set-context", "prod",
		"--server", "ssh://deploy@folio.example.com", "--port", "9400", "--token", "tok")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, `Created context "prod"`) {
		t.Fatalf("output = %q", out)
	}

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.CurrentContext != "prod" || len(cfg.Contexts) != 1 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Contexts[0].Token != "tok" || cfg.Contexts[0].Port != 9400 {
		t.Fatalf("context = %+v", cfg.Contexts[0])
	}
}

func TestConfigSetContextRejectsBadServerURL(t *testing.T) {
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))

	_, err := runCommand(t, "config", "set-context", "prod", "--server", "ftp://nope")
	if err == nil || !strings.Contains(err.Error(), "expected ssh") {
		t.Fatalf("err = %v", err)
	}
}

func TestConfigCurrentContextMissingConfigFailsWithHelpfulError(t *testing.T) {
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing-config.yaml"))

	_, err := runCommand(t, "config", "current-context")
	if err == nil {
		t.Fatalf("expected missing config error")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected helpful missing config message, got %v", err)
	}
	if !strings.Contains(err.Error(), config.EnvConfigPath) {
		t.Fatalf("expected env var hint in error, got %v", err)
	}
}
