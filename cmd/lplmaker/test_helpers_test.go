package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lplmaker/internal/config"
	"lplmaker/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	romsDir    string
}

// setupCLITestEnv writes a config with one NES playlist whose ROM directory
// holds game1.nes and game2.nes.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := testsupport.NewConfig(t, testsupport.WithoutTitleCache())
	romsDir := filepath.Join(cfg.RomsDir, "NES")
	testsupport.TouchFiles(t, romsDir, "game1.nes", "game2.nes", "readme.txt")

	configPath := filepath.Join(testsupport.BaseDir(cfg), "lplmaker.toml")
	writeTestConfig(t, configPath, cfg, `
[playlist.nes]
RomsDir = "NES"
CoreLib = "DETECT"
CoreName = "DETECT"
PlaylistName = "Nintendo - NES"
SupportedExtensions = ["nes"]
`)
	return &cliTestEnv{cfg: cfg, configPath: configPath, romsDir: romsDir}
}

func (e *cliTestEnv) playlistPath(name string) string {
	return filepath.Join(e.cfg.PlaylistsDir(), name+".lpl")
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, playlists string) {
	t.Helper()
	content := fmt.Sprintf(
		"RomsDir = %q\nCoresDir = %q\nRetroArchDir = %q\nMame = %q\nStateDir = %q\nScratchDir = %q\nTitleCache = %t\n\n[Logging]\nLevel = \"info\"\n%s",
		cfg.RomsDir,
		cfg.CoresDir,
		cfg.RetroArchDir,
		cfg.Mame,
		cfg.StateDir,
		cfg.ScratchDir,
		cfg.TitleCache,
		playlists,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
