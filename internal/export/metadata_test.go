// SPDX-License-Identifier: MPL-2.0

package export

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/fifthecho/habitat/pkg/ident"
)

func mustParse(t *testing.T, s string) ident.PackageIdent {
	t.Helper()
	p, err := ident.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return p
}

// writePackageTree lays out a minimal materialized context: the bootstrap
// script plus the primary package's install tree with an IDENT file and,
// optionally, an EXPOSES file.
func writePackageTree(t *testing.T, contextDir, fullIdent, exposes string) {
	t.Helper()

	rootfs := filepath.Join(contextDir, "rootfs")
	initScript := "#!/bin/sh\nexport PATH=/opt/bldr/pkgs/acme/widget/1.2.0/20200101000000/bin\nexec \"$@\"\n"
	if err := os.MkdirAll(rootfs, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rootfs, "init.sh"), []byte(initScript), 0o755); err != nil {
		t.Fatal(err)
	}

	p := mustParse(t, fullIdent)
	pkgDir := filepath.Join(rootfs, "opt", "bldr", "pkgs", p.Origin, p.Name, p.Version, p.Release)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "IDENT"), []byte(fullIdent+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if exposes != "" {
		if err := os.WriteFile(filepath.Join(pkgDir, "EXPOSES"), []byte(exposes), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDeriveMetadata_Tags(t *testing.T) {
	t.Parallel()

	contextDir := t.TempDir()
	writePackageTree(t, contextDir, "acme/widget/1.2.0/20200101000000", "")

	meta, err := DeriveMetadata(contextDir, "/opt/bldr", mustParse(t, "acme/widget"))
	if err != nil {
		t.Fatalf("DeriveMetadata() failed: %v", err)
	}

	if meta.Name != "widget" {
		t.Errorf("Name = %q, want %q", meta.Name, "widget")
	}
	if meta.VersionTag != "acme/widget:1.2.0-20200101000000" {
		t.Errorf("VersionTag = %q, want %q", meta.VersionTag, "acme/widget:1.2.0-20200101000000")
	}
	if meta.LatestTag != "acme/widget:latest" {
		t.Errorf("LatestTag = %q, want %q", meta.LatestTag, "acme/widget:latest")
	}
}

func TestDeriveMetadata_NoExposesFile(t *testing.T) {
	t.Parallel()

	contextDir := t.TempDir()
	writePackageTree(t, contextDir, "acme/widget/1.2.0/20200101000000", "")

	meta, err := DeriveMetadata(contextDir, "/opt/bldr", mustParse(t, "acme/widget"))
	if err != nil {
		t.Fatalf("DeriveMetadata() failed: %v", err)
	}
	if len(meta.Exposes) != 0 {
		t.Errorf("Exposes = %v, want empty", meta.Exposes)
	}
}

func TestDeriveMetadata_ExposesOrderPreserved(t *testing.T) {
	t.Parallel()

	contextDir := t.TempDir()
	writePackageTree(t, contextDir, "acme/widget/1.2.0/20200101000000", "8080\n9090")

	meta, err := DeriveMetadata(contextDir, "/opt/bldr", mustParse(t, "acme/widget"))
	if err != nil {
		t.Fatalf("DeriveMetadata() failed: %v", err)
	}
	if !slices.Equal(meta.Exposes, []string{"8080", "9090"}) {
		t.Errorf("Exposes = %v, want [8080 9090]", meta.Exposes)
	}
}

func TestDeriveMetadata_MissingIdentFile(t *testing.T) {
	t.Parallel()

	contextDir := t.TempDir()
	// No tree at all: the package subtree does not exist.
	_, err := DeriveMetadata(contextDir, "/opt/bldr", mustParse(t, "acme/widget"))
	if !errors.Is(err, ErrIdentFileNotFound) {
		t.Errorf("DeriveMetadata() error = %v, want ErrIdentFileNotFound", err)
	}
}

func TestDeriveMetadata_PartialIdent(t *testing.T) {
	t.Parallel()

	contextDir := t.TempDir()
	rootfs := filepath.Join(contextDir, "rootfs", "opt", "bldr", "pkgs", "acme", "widget", "1.2.0", "20200101000000")
	if err := os.MkdirAll(rootfs, 0o755); err != nil {
		t.Fatal(err)
	}
	// IDENT missing its release segment.
	if err := os.WriteFile(filepath.Join(rootfs, "IDENT"), []byte("acme/widget/1.2.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := DeriveMetadata(contextDir, "/opt/bldr", mustParse(t, "acme/widget")); err == nil {
		t.Error("DeriveMetadata() succeeded with partial IDENT, want error")
	}
}

func TestPathEnvLine(t *testing.T) {
	t.Parallel()

	contextDir := t.TempDir()
	writePackageTree(t, contextDir, "acme/widget/1.2.0/20200101000000", "")

	line, err := pathEnvLine(contextDir)
	if err != nil {
		t.Fatalf("pathEnvLine() failed: %v", err)
	}
	expected := "PATH=/opt/bldr/pkgs/acme/widget/1.2.0/20200101000000/bin"
	if line != expected {
		t.Errorf("pathEnvLine() = %q, want %q", line, expected)
	}
}

func TestPathEnvLine_MissingScript(t *testing.T) {
	t.Parallel()

	if _, err := pathEnvLine(t.TempDir()); err == nil {
		t.Error("pathEnvLine() succeeded without init.sh, want error")
	}
}

func TestPathEnvLine_NoPathDeclaration(t *testing.T) {
	t.Parallel()

	contextDir := t.TempDir()
	rootfs := filepath.Join(contextDir, "rootfs")
	if err := os.MkdirAll(rootfs, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rootfs, "init.sh"), []byte("#!/bin/sh\nexec \"$@\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := pathEnvLine(contextDir); err == nil {
		t.Error("pathEnvLine() succeeded without a PATH line, want error")
	}
}
