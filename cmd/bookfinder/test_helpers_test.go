package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bookfinder/internal/config"
	"bookfinder/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	catalog    *testsupport.CatalogServer
	configPath string
	workDir    string
}

// setupCLITestEnv isolates HOME and the working directory, starts a fake
// catalog, and writes a config pointing at it. mutate runs before the config
// file is written.
func setupCLITestEnv(t *testing.T, mutate func(*config.Config)) *cliTestEnv {
	t.Helper()

	catalog := testsupport.NewCatalogServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalog))
	cfg.Logging.Level = "error"
	if mutate != nil {
		mutate(cfg)
	}

	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	workDir := filepath.Join(base, "work")
	for _, dir := range []string{homeDir, workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", homeDir)
	t.Chdir(workDir)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, catalog: catalog, configPath: configPath, workDir: workDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func countPrefix(paths []string, prefix string) int {
	n := 0
	for _, p := range paths {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}
