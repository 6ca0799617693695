package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scormbridge/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	testsupport.WriteConnectorAssets(t, cfg)

	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
connector_assets_dir = %q
api_bind = "127.0.0.1:0"

[connector]
player_url = %q
`, cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.ConnectorAssetsDir, cfg.Connector.PlayerURL)

	path := filepath.Join(t.TempDir(), "scormbridge.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestIngestListShowConnector(t *testing.T) {
	configPath := writeTestConfig(t)

	zipPath := filepath.Join(t.TempDir(), "course-a.zip")
	if err := os.WriteFile(zipPath, testsupport.SamplePackageZip(t), 0o644); err != nil {
		t.Fatalf("write sample zip: %v", err)
	}

	out, err := runCommand(t, "--config", configPath, "ingest", zipPath)
	if err != nil {
		t.Fatalf("ingest: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Ingested "Course A"`) {
		t.Fatalf("unexpected ingest output:\n%s", out)
	}

	out, err = runCommand(t, "--config", configPath, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Course A") || !strings.Contains(out, "1 of 1 package(s)") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	out, err = runCommand(t, "--config", configPath, "show", "1")
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Intro") || !strings.Contains(out, "index.html") {
		t.Fatalf("unexpected show output:\n%s", out)
	}

	outputDir := t.TempDir()
	out, err = runCommand(t, "--config", configPath, "connector", "1", "--customer", "cust-123", "-o", outputDir)
	if err != nil {
		t.Fatalf("connector: %v\n%s", err, out)
	}
	target := filepath.Join(outputDir, "Course A_connector.zip")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("connector file missing: %v\n%s", err, out)
	}
}

func TestListEmpty(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No packages stored") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestShowNotFound(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", configPath, "show", "missing-guid"); err == nil {
		t.Fatal("show should fail for unknown package")
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "-p", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "-p", target); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}
}

func TestConfigShowAndPath(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "connector_assets_dir") || !strings.Contains(out, "player_url") {
		t.Fatalf("unexpected show output:\n%s", out)
	}

	out, err = runCommand(t, "--config", configPath, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v\n%s", err, out)
	}
	if !strings.Contains(out, configPath) {
		t.Fatalf("unexpected path output:\n%s", out)
	}
}

func TestStatusReportsReadiness(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Connector assets") || !strings.Contains(out, "[OK]") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
}
