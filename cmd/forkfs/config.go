package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/SUPERCILEX/forkfs/internal/forkfs"
)

// configDir resolves $XDG_CONFIG_HOME/forkfs, falling back to
// $HOME/.config/forkfs and finally /tmp/forkfs, mirroring the cache-root
// resolver's fallback chain.
func configDir(env map[string]string) string {
	if dir := strings.TrimSpace(env["XDG_CONFIG_HOME"]); dir != "" && filepath.IsAbs(dir) {
		return filepath.Join(dir, "forkfs")
	}

	if home := strings.TrimSpace(env["HOME"]); home != "" {
		return filepath.Join(home, ".config", "forkfs")
	}

	return filepath.Join("/tmp", "forkfs")
}

// loadConfig assembles the effective configuration: built-in defaults,
// layered with the optional config file, layered with explicit CLI flag
// overrides. Absence of the config file is not an error.
func loadConfig(env map[string]string, explicitPath string, cliOverride forkfs.Config) (forkfs.Config, error) {
	cfg := forkfs.DefaultConfig()

	path := explicitPath
	if path == "" {
		path = filepath.Join(configDir(env), "config.hujson")
	}

	fileCfg, found, err := parseConfigFile(path)
	if err != nil {
		return forkfs.Config{}, err
	}

	if found {
		cfg = cfg.Merge(fileCfg)
	} else if explicitPath != "" {
		return forkfs.Config{}, fmt.Errorf("config file %q not found", explicitPath)
	}

	return cfg.Merge(cliOverride), nil
}

// parseConfigFile loads and parses a HUJSON config file (comments and
// trailing commas permitted). A missing file is reported via found=false,
// not an error.
func parseConfigFile(path string) (forkfs.Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return forkfs.Config{}, false, nil
		}

		return forkfs.Config{}, false, fmt.Errorf("reading config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return forkfs.Config{}, false, fmt.Errorf("parsing config %s: %w", path, err)
	}

	var cfg forkfs.Config

	decoder := json.NewDecoder(bytes.NewReader(standardized))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&cfg); err != nil {
		return forkfs.Config{}, false, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, true, nil
}
