package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckPassesForValidEnvironment(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check"}, env.configPath, "")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "ROM directory:")
	requireContains(t, out, "Nintendo - NES source:")
	requireContains(t, out, "All checks passed")
}

func TestCheckReportsMissingLookupExecutable(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, env.cfg, `
[playlist.mame]
RomsDir = "NES"
CoreLib = "DETECT"
CoreName = "DETECT"
PlaylistName = "MAME"
SupportedExtensions = ["zip"]
QueryMame = true
`)
	out, _, err := runCLI(t, []string{"check"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected check failure for missing lookup executable")
	}
	requireContains(t, out, "Title lookup:")
	requireContains(t, out, "[ERROR]")

	script := env.cfg.Mame
	if err := os.MkdirAll(filepath.Dir(script), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if out, _, err := runCLI(t, []string{"check"}, env.configPath, ""); err != nil {
		t.Fatalf("check with lookup executable: %v\n%s", err, out)
	}
}

func TestCheckReportsInvalidExcludePattern(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, env.cfg, `
[playlist.nes]
RomsDir = "NES"
CoreLib = "DETECT"
CoreName = "DETECT"
PlaylistName = "Nintendo - NES"
SupportedExtensions = ["nes"]
Exclude = ["[unclosed"]
`)
	out, _, err := runCLI(t, []string{"check"}, env.configPath, "")
	if err == nil {
		t.Fatalf("expected check failure for invalid exclude pattern\n%s", out)
	}
	requireContains(t, out, "Playlist definition:")
	requireContains(t, out, "[unclosed")

	out, _, err = runCLI(t, nil, env.configPath, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Contains(out, "Nintendo - NES") {
		t.Fatalf("invalid playlist should be skipped before generation:\n%s", out)
	}
}
