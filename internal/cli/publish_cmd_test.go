package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/foliokit/folioctl/internal/config"
	"github.com/foliokit/folioctl/internal/server"
)

// startTestFoliod runs a real daemon on an ephemeral loopback port and points
// the CLI config at it, so remote commands go through the full HTTP path.
func startTestFoliod(t *testing.T) *server.Server {
	t.Helper()

	cfg := server.DefaultConfig()
	cfg.Port = 0
	cfg.DataDir = t.TempDir()
	cfg.DBWAL = false

	logger, err := server.NewLogger("error")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	srv, err := server.New(cfg, logger, "test")
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("server.Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `apiVersion: foliokit.dev/v1
current-context: test
contexts:
  - name: test
    server: http://` + srv.Addr() + `
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, configPath)

	return srv
}

func TestPublishCommandPushesBuiltSite(t *testing.T) {
	startTestFoliod(t)

	out, err := runCommand(t, "publish", "-f", fixtureSiteDir)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, `Published "janedoe" as release `) {
		t.Fatalf("publish output = %q", out)
	}
	if !strings.Contains(out, `6 pages, context "test"`) {
		t.Fatalf("publish output = %q", out)
	}
	if strings.Contains(out, "Previous release") {
		t.Fatalf("first publish should have no previous release, got %q", out)
	}

	out, err = runCommand(t, "publish", "-f", fixtureSiteDir)
	if err != nil {
		t.Fatalf("second publish error = %v", err)
	}
	if !strings.Contains(out, "Previous release: ") {
		t.Fatalf("second publish output = %q", out)
	}
}

func TestPublishCommandDryRunReportsWithoutActivating(t *testing.T) {
	startTestFoliod(t)

	out, err := runCommand(t, "publish", "-f", fixtureSiteDir, "--dry-run")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, `Dry run: bundle for "janedoe" verified`) {
		t.Fatalf("dry run output = %q", out)
	}

	out, err = runCommand(t, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(out, "no release published yet") {
		t.Fatalf("status after dry run = %q", out)
	}
}

func TestPublishCommandRequiresFromFlag(t *testing.T) {
	_, err := runCommand(t, "publish")
	if err == nil || !strings.Contains(err.Error(), `"from" not set`) {
		t.Fatalf("err = %v", err)
	}
}

func TestStatusAndReleasesCommandsAfterPublish(t *testing.T) {
	startTestFoliod(t)

	if _, err := runCommand(t, "publish", "-f", fixtureSiteDir); err != nil {
		t.Fatalf("publish error = %v", err)
	}

	out, err := runCommand(t, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	for _, want := range []string{"Context:", "test", "Site:", "janedoe", "Pages:", "6"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q: %s", want, out)
		}
	}

	out, err = runCommand(t, "status", "-o", "json")
	if err != nil {
		t.Fatalf("status -o json error = %v", err)
	}
	if !strings.Contains(out, `"site": "janedoe"`) {
		t.Fatalf("status json = %q", out)
	}

	out, err = runCommand(t, "releases")
	if err != nil {
		t.Fatalf("releases error = %v", err)
	}
	if !strings.Contains(out, "RELEASE") || !strings.Contains(out, "janedoe") {
		t.Fatalf("releases output = %q", out)
	}
	if !strings.Contains(out, "*") {
		t.Fatalf("expected active marker in releases output, got %q", out)
	}
}

func TestDiffCommandAgainstLiveDaemon(t *testing.T) {
	startTestFoliod(t)

	out, err := runCommand(t, "diff", "-f", fixtureSiteDir)
	if err != nil {
		t.Fatalf("diff error = %v", err)
	}
	if !strings.Contains(out, "added") || strings.Contains(out, "No changes detected.") {
		t.Fatalf("diff before publish = %q", out)
	}

	if _, err := runCommand(t, "publish", "-f", fixtureSiteDir); err != nil {
		t.Fatalf("publish error = %v", err)
	}

	out, err = runCommand(t, "diff", "-f", fixtureSiteDir)
	if err != nil {
		t.Fatalf("diff after publish error = %v", err)
	}
	if !strings.Contains(out, "No changes detected.") {
		t.Fatalf("diff after publish = %q", out)
	}
}

func TestReleasesCommandEmptyDaemon(t *testing.T) {
	startTestFoliod(t)

	out, err := runCommand(t, "releases")
	if err != nil {
		t.Fatalf("releases error = %v", err)
	}
	if !strings.Contains(out, "No releases published yet") {
		t.Fatalf("releases output = %q", out)
	}
}

func TestVisitsCommandEmptySummary(t *testing.T) {
	startTestFoliod(t)

	out, err := runCommand(t, "visits")
	if err != nil {
		t.Fatalf("visits error = %v", err)
	}
	if !strings.Contains(out, "Total visits: 0") {
		t.Fatalf("visits output = %q", out)
	}
}

func TestRemoteCommandsFailWithoutConfig(t *testing.T) {
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := runCommand(t, "status")
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("err = %v", err)
	}
}
