// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfigFile writes content as config.cue inside dir.
func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	writeConfigFileAt(t, filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), content)
}

// writeConfigFileAt writes content to an explicit config file path.
func writeConfigFileAt(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("BLDR_ROOT", "")
	t.Setenv("HAB_BIN", "")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ContainerEngine != ContainerEngineAuto {
		t.Errorf("ContainerEngine = %q, want %q", cfg.ContainerEngine, ContainerEngineAuto)
	}
	if cfg.Export.BldrRoot != "/opt/bldr" {
		t.Errorf("Export.BldrRoot = %q, want %q", cfg.Export.BldrRoot, "/opt/bldr")
	}
	if cfg.Build.VersionFile != "VERSION" {
		t.Errorf("Build.VersionFile = %q, want %q", cfg.Build.VersionFile, "VERSION")
	}
	if len(cfg.Build.Packages) != 0 {
		t.Errorf("Build.Packages = %v, want empty", cfg.Build.Packages)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("BLDR_ROOT", "")
	t.Setenv("HAB_BIN", "")

	dir := t.TempDir()
	writeConfigFile(t, dir, `
container_engine: "podman"
export: bldr_root: "/hab"
build: packages: ["core/openssl", "core/zeromq"]
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ContainerEngine != ContainerEnginePodman {
		t.Errorf("ContainerEngine = %q, want %q", cfg.ContainerEngine, ContainerEnginePodman)
	}
	if cfg.Export.BldrRoot != "/hab" {
		t.Errorf("Export.BldrRoot = %q, want %q", cfg.Export.BldrRoot, "/hab")
	}
	if len(cfg.Build.Packages) != 2 || cfg.Build.Packages[0] != "core/openssl" {
		t.Errorf("Build.Packages = %v, want [core/openssl core/zeromq]", cfg.Build.Packages)
	}
	// Unset fields keep their defaults.
	if cfg.Build.VersionFile != "VERSION" {
		t.Errorf("Build.VersionFile = %q, want %q", cfg.Build.VersionFile, "VERSION")
	}
}

func TestLoad_RejectsOutOfRangeEngine(t *testing.T) {
	t.Setenv("BLDR_ROOT", "")
	t.Setenv("HAB_BIN", "")

	dir := t.TempDir()
	writeConfigFile(t, dir, `container_engine: "rocket"`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("Load() succeeded with out-of-range container_engine")
	}
}

func TestLoad_SchemaErrorNamesFile(t *testing.T) {
	t.Setenv("BLDR_ROOT", "")
	t.Setenv("HAB_BIN", "")

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	writeConfigFileAt(t, path, `container_engine: "rocket"`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("Load() succeeded with out-of-range container_engine")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the config file", err)
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	t.Setenv("BLDR_ROOT", "")
	t.Setenv("HAB_BIN", "")

	dir := t.TempDir()
	writeConfigFile(t, dir, `registry_url: "https://example.com"`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("Load() succeeded with unknown config field")
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	t.Setenv("BLDR_ROOT", "")
	t.Setenv("HAB_BIN", "")

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("Load() succeeded with a nonexistent explicit config file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("BLDR_ROOT", "/srv/bldr")
	t.Setenv("HAB_BIN", "/usr/local/bin/hab")

	dir := t.TempDir()
	writeConfigFile(t, dir, `export: bldr_root: "/hab"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Export.BldrRoot != "/srv/bldr" {
		t.Errorf("Export.BldrRoot = %q, want env override %q", cfg.Export.BldrRoot, "/srv/bldr")
	}
	if cfg.HabBin != "/usr/local/bin/hab" {
		t.Errorf("HabBin = %q, want env override %q", cfg.HabBin, "/usr/local/bin/hab")
	}
}

func TestLoad_RejectsRelativeEnvBldrRoot(t *testing.T) {
	t.Setenv("BLDR_ROOT", "relative/path")
	t.Setenv("HAB_BIN", "")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() succeeded with a relative BLDR_ROOT override")
	}
	if !errors.Is(err, ErrInvalidInstallRootPath) {
		t.Errorf("Load() error = %v, want ErrInvalidInstallRootPath in chain", err)
	}
}

func TestGenerateCUE_Roundtrip(t *testing.T) {
	t.Setenv("BLDR_ROOT", "")
	t.Setenv("HAB_BIN", "")

	want := DefaultConfig()
	want.ContainerEngine = ContainerEngineDocker
	want.Build.Packages = []string{"core/cacerts"}

	dir := t.TempDir()
	writeConfigFile(t, dir, GenerateCUE(want))

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() of generated config failed: %v", err)
	}

	if got.ContainerEngine != want.ContainerEngine {
		t.Errorf("ContainerEngine = %q, want %q", got.ContainerEngine, want.ContainerEngine)
	}
	if len(got.Build.Packages) != 1 || got.Build.Packages[0] != "core/cacerts" {
		t.Errorf("Build.Packages = %v, want [core/cacerts]", got.Build.Packages)
	}
	if got.Export.BldrRoot != want.Export.BldrRoot {
		t.Errorf("Export.BldrRoot = %q, want %q", got.Export.BldrRoot, want.Export.BldrRoot)
	}
}
