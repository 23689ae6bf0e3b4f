// SPDX-License-Identifier: MPL-2.0

package pkgmgr

import (
	"context"
	"errors"
	"fmt"

	"github.com/fifthecho/habitat/pkg/ident"
)

// ErrPackageNotInstalled is returned by Path when the package has no
// installed artifact on this machine.
var ErrPackageNotInstalled = errors.New("package not installed")

type (
	// Manager defines the package manager operations used by image synthesis
	// and build environment initialization.
	Manager interface {
		// ListInstalled returns the installed packages matching the given
		// identifier prefix. An empty result is not an error.
		ListInstalled(ctx context.Context, prefix ident.PackageIdent) ([]ident.PackageIdent, error)
		// Install installs the given package and its dependencies.
		Install(ctx context.Context, pkg ident.PackageIdent) error
		// Path resolves the install root directory of an installed package.
		Path(ctx context.Context, pkg ident.PackageIdent) (string, error)
	}

	// MockManager is a test helper implementing Manager with canned data.
	// Installed holds the packages ListInstalled reports; Paths maps an
	// identifier string to the root Path returns. Install appends to
	// InstallCalls and also records the package as installed.
	MockManager struct {
		Installed    []ident.PackageIdent
		Paths        map[string]string
		InstallCalls []ident.PackageIdent
		// InstallErr, when non-nil, is returned by every Install call.
		InstallErr error
	}
)

// ListInstalled returns the subset of Installed satisfying the prefix.
func (m *MockManager) ListInstalled(_ context.Context, prefix ident.PackageIdent) ([]ident.PackageIdent, error) {
	var matches []ident.PackageIdent
	for _, p := range m.Installed {
		if p.Satisfies(prefix) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Install records the call and marks the package installed.
func (m *MockManager) Install(_ context.Context, pkg ident.PackageIdent) error {
	m.InstallCalls = append(m.InstallCalls, pkg)
	if m.InstallErr != nil {
		return m.InstallErr
	}
	m.Installed = append(m.Installed, pkg)
	return nil
}

// Path resolves from the Paths map.
func (m *MockManager) Path(_ context.Context, pkg ident.PackageIdent) (string, error) {
	if root, ok := m.Paths[pkg.String()]; ok {
		return root, nil
	}
	return "", fmt.Errorf("resolve path for %s: %w", pkg, ErrPackageNotInstalled)
}
