package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SUPERCILEX/forkfs/internal/forkfs"
)

func TestConfigDirPrefersXDG(t *testing.T) {
	env := map[string]string{"XDG_CONFIG_HOME": "/xdg", "HOME": "/home/alice"}

	if got, want := configDir(env), filepath.Join("/xdg", "forkfs"); got != want {
		t.Errorf("configDir() = %q, want %q", got, want)
	}
}

func TestConfigDirFallsBackToHome(t *testing.T) {
	env := map[string]string{"HOME": "/home/alice"}

	if got, want := configDir(env), filepath.Join("/home/alice", ".config", "forkfs"); got != want {
		t.Errorf("configDir() = %q, want %q", got, want)
	}
}

func TestConfigDirFallsBackToTmp(t *testing.T) {
	env := map[string]string{}

	if got, want := configDir(env), filepath.Join("/tmp", "forkfs"); got != want {
		t.Errorf("configDir() = %q, want %q", got, want)
	}
}

func TestParseConfigFileMissingIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hujson")

	cfg, found, err := parseConfigFile(path)
	if err != nil {
		t.Fatalf("parseConfigFile() error = %v", err)
	}

	if found {
		t.Error("parseConfigFile() found = true, want false for a missing file")
	}

	if diff := cmp.Diff(forkfs.Config{}, cfg); diff != "" {
		t.Errorf("parseConfigFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigFileHujsonWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hujson")

	content := `{
  // the session used when --session is omitted
  "defaultSession": "work",
  "extraPseudoMounts": ["sys"], // the trailing comma here is allowed too
}
`

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, found, err := parseConfigFile(path)
	if err != nil {
		t.Fatalf("parseConfigFile() error = %v", err)
	}

	if !found {
		t.Fatal("parseConfigFile() found = false, want true")
	}

	want := forkfs.Config{DefaultSession: "work", ExtraPseudoMounts: []string{"sys"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("parseConfigFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigFileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hujson")

	if err := os.WriteFile(path, []byte(`{"notARealField": true}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, _, err := parseConfigFile(path); err == nil {
		t.Fatal("parseConfigFile() error = nil, want an error for an unknown field")
	}
}

func TestLoadConfigMergesFileThenCLI(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.hujson")

	if err := os.WriteFile(configPath, []byte(`{"defaultSession": "from-file"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := loadConfig(map[string]string{}, configPath, forkfs.Config{DefaultSession: "from-cli"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.DefaultSession != "from-cli" {
		t.Errorf("loadConfig().DefaultSession = %q, want %q (CLI overrides file)", cfg.DefaultSession, "from-cli")
	}
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	_, err := loadConfig(map[string]string{}, filepath.Join(t.TempDir(), "nope.hujson"), forkfs.Config{})
	if err == nil {
		t.Fatal("loadConfig() error = nil, want error for a missing explicit config path")
	}
}
