// SPDX-License-Identifier: MPL-2.0

package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fifthecho/habitat/internal/container"
	"github.com/fifthecho/habitat/pkg/ident"
)

const (
	// identFileName is the marker file recording a package's fully
	// qualified identifier inside its install tree.
	identFileName = "IDENT"

	// exposesFileName is the optional file declaring the network ports a
	// package's service listens on.
	exposesFileName = "EXPOSES"
)

// ErrIdentFileNotFound is returned when the materialized tree has no IDENT
// file for the primary package.
var ErrIdentFileNotFound = errors.New("IDENT file not found in materialized tree")

// Metadata is the image metadata derived from the primary package's subtree
// of a materialized root filesystem. It is recomputed on every run, never
// stored.
type Metadata struct {
	// Name is the package name (second identifier segment).
	Name string
	// VersionTag is origin/name:version-release.
	VersionTag container.ImageTag
	// LatestTag is origin/name:latest.
	LatestTag container.ImageTag
	// Exposes are the ports declared by the package's EXPOSES file, in
	// file order. Empty when the file is absent.
	Exposes []string
}

// DeriveMetadata inspects the materialized tree under contextDir for the
// primary package and computes the image metadata. The package subtree is
// <contextDir>/rootfs/<bldrRoot>/pkgs/<origin>/<name>; a missing IDENT file
// is an error, a missing EXPOSES file is not.
func DeriveMetadata(contextDir, bldrRoot string, primary ident.PackageIdent) (*Metadata, error) {
	if err := primary.Validate(); err != nil {
		return nil, err
	}

	pkgTree := packageTree(contextDir, bldrRoot, primary)

	identPath, err := findFile(pkgTree, identFileName)
	if err != nil {
		return nil, err
	}
	if identPath == "" {
		return nil, fmt.Errorf("%w: searched %s", ErrIdentFileNotFound, pkgTree)
	}

	content, err := os.ReadFile(identPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", identPath, err)
	}
	installed, err := ident.Parse(strings.TrimSpace(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", identPath, err)
	}
	if !installed.FullyQualified() {
		return nil, fmt.Errorf("parse %s: identifier %s is not fully qualified", identPath, installed)
	}

	meta := &Metadata{
		Name: primary.Name,
		VersionTag: container.ImageTag(fmt.Sprintf("%s/%s:%s-%s",
			installed.Origin, installed.Name, installed.Version, installed.Release)),
		LatestTag: container.ImageTag(fmt.Sprintf("%s/%s:latest",
			installed.Origin, installed.Name)),
	}

	if err := meta.VersionTag.Validate(); err != nil {
		return nil, err
	}
	if err := meta.LatestTag.Validate(); err != nil {
		return nil, err
	}

	exposesPath, err := findFile(pkgTree, exposesFileName)
	if err != nil {
		return nil, err
	}
	if exposesPath != "" {
		content, err := os.ReadFile(exposesPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", exposesPath, err)
		}
		meta.Exposes = strings.Fields(string(content))
	}

	return meta, nil
}

// pathEnvLine extracts the PATH declaration from the materialized bootstrap
// script, verbatim minus any leading "export ". The returned string has the
// form "PATH=...".
func pathEnvLine(contextDir string) (string, error) {
	initPath := filepath.Join(contextDir, "rootfs", "init.sh")
	content, err := os.ReadFile(initPath)
	if err != nil {
		return "", fmt.Errorf("read bootstrap script %s: %w", initPath, err)
	}

	for line := range strings.Lines(string(content)) {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "export ")
		if strings.HasPrefix(line, "PATH=") {
			return line, nil
		}
	}
	return "", fmt.Errorf("bootstrap script %s declares no PATH line", initPath)
}

// packageTree returns the primary package's directory inside the
// materialized root filesystem.
func packageTree(contextDir, bldrRoot string, pkg ident.PackageIdent) string {
	// bldrRoot is an absolute in-image path; strip the leading separator
	// before joining it under the context directory.
	rel := strings.TrimPrefix(filepath.FromSlash(bldrRoot), string(filepath.Separator))
	return filepath.Join(contextDir, "rootfs", rel, "pkgs", pkg.Origin, pkg.Name)
}

// findFile walks root for a file with the given base name and returns the
// first match. An empty string (no error) means no match; a missing root
// directory also means no match.
func findFile(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search %s for %s: %w", root, name, err)
	}
	return found, nil
}
