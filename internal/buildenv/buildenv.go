// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fifthecho/habitat/internal/pkgmgr"
	"github.com/fifthecho/habitat/pkg/ident"
)

// DefaultPackages is the dependency set the native toolchain needs when no
// explicit list is given.
var DefaultPackages = []ident.PackageIdent{
	{Origin: "core", Name: "libarchive"},
	{Origin: "core", Name: "openssl"},
	{Origin: "core", Name: "zeromq"},
	{Origin: "core", Name: "cacerts"},
}

type (
	// EnvSet is the composed build environment. Vars hold absolute values
	// that overwrite any pre-existing variable; Prepends hold ordered path
	// lists that are joined with the platform list separator and placed in
	// front of any pre-existing value, so newly resolved paths take
	// precedence.
	EnvSet struct {
		Vars     map[string]string
		Prepends map[string][]string
	}

	// LookupFunc reports the current value of an environment variable.
	// os.LookupEnv satisfies it.
	LookupFunc func(key string) (string, bool)
)

// Initialize ensures every package in pkgs is installed (in order,
// fail-fast), resolves each install root, and composes the build environment.
// Packages already installed are skipped, not reinstalled.
func Initialize(ctx context.Context, mgr pkgmgr.Manager, pkgs []ident.PackageIdent) (*EnvSet, error) {
	if err := EnsureInstalled(ctx, mgr, pkgs); err != nil {
		return nil, err
	}

	env := &EnvSet{
		Vars:     map[string]string{"HAB_LICENSE": "accept-no-persist"},
		Prepends: make(map[string][]string),
	}

	for _, pkg := range pkgs {
		root, err := mgr.Path(ctx, pkg)
		if err != nil {
			return nil, err
		}
		env.addPackage(pkg, root)
	}

	return env, nil
}

// EnsureInstalled installs each package that is not already present, in the
// given order. The first install failure aborts the whole sequence.
func EnsureInstalled(ctx context.Context, mgr pkgmgr.Manager, pkgs []ident.PackageIdent) error {
	for _, pkg := range pkgs {
		installed, err := mgr.ListInstalled(ctx, pkg)
		if err != nil {
			return fmt.Errorf("query installed packages for %s: %w", pkg, err)
		}
		if len(installed) > 0 {
			log.Info("package already installed, skipping", "pkg", pkg)
			continue
		}
		if err := mgr.Install(ctx, pkg); err != nil {
			return err
		}
	}
	return nil
}

// addPackage composes the variables contributed by one resolved package root.
func (e *EnvSet) addPackage(pkg ident.PackageIdent, root string) {
	e.prepend("PATH", filepath.Join(root, "bin"))
	e.prepend("LIB", filepath.Join(root, "lib"))
	e.prepend("INCLUDE", filepath.Join(root, "include"))
	e.prepend("LD_LIBRARY_PATH", filepath.Join(root, "lib"))

	switch pkg.Name {
	case "libarchive":
		e.Vars["LIBARCHIVE_INCLUDE_DIR"] = filepath.Join(root, "include")
		e.Vars["LIBARCHIVE_LIB_DIR"] = filepath.Join(root, "lib")
	case "openssl":
		e.Vars["OPENSSL_LIB_DIR"] = filepath.Join(root, "lib")
		e.Vars["OPENSSL_INCLUDE_DIR"] = filepath.Join(root, "include")
		e.Vars["OPENSSL_LIBS"] = "ssl:crypto"
		e.Vars["OPENSSL_STATIC"] = "true"
	case "zeromq":
		e.Vars["LIBZMQ_PREFIX"] = root
	case "cacerts":
		e.Vars["SSL_CERT_FILE"] = filepath.Join(root, "ssl", "certs", "cacert.pem")
	}
}

func (e *EnvSet) prepend(key, path string) {
	e.Prepends[key] = append(e.Prepends[key], path)
}

// Resolve merges the set against the existing environment reported by lookup
// and returns the final variable values. Prepend lists are joined with the
// platform list separator; a pre-existing value is kept behind the new paths.
func (e *EnvSet) Resolve(lookup LookupFunc) map[string]string {
	resolved := make(map[string]string, len(e.Vars)+len(e.Prepends))

	for k, v := range e.Vars {
		resolved[k] = v
	}

	sep := string(os.PathListSeparator)
	for k, paths := range e.Prepends {
		value := strings.Join(paths, sep)
		if existing, ok := lookup(k); ok && existing != "" {
			value = value + sep + existing
		}
		resolved[k] = value
	}

	return resolved
}

// Apply resolves the set against the process environment and overwrites the
// process environment variables with the result. Re-applying always
// overwrites; only the ensure-installed step is idempotent.
func (e *EnvSet) Apply() error {
	for k, v := range e.Resolve(os.LookupEnv) {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// Environ renders the resolved set as KEY=VALUE pairs in sorted key order,
// suitable for composing an exec.Cmd environment.
func (e *EnvSet) Environ(lookup LookupFunc) []string {
	resolved := e.Resolve(lookup)

	pairs := make([]string, 0, len(resolved))
	for _, k := range sortedKeys(resolved) {
		pairs = append(pairs, k+"="+resolved[k])
	}
	return pairs
}

// ExportLines renders the resolved set as sorted shell export statements,
// suitable for eval'ing in a build pipeline.
func (e *EnvSet) ExportLines(lookup LookupFunc) []string {
	resolved := e.Resolve(lookup)

	lines := make([]string, 0, len(resolved))
	for _, k := range sortedKeys(resolved) {
		lines = append(lines, fmt.Sprintf("export %s=%q", k, resolved[k]))
	}
	return lines
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
