// SPDX-License-Identifier: MPL-2.0

package pkgmgr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fifthecho/habitat/internal/issue"
	"github.com/fifthecho/habitat/pkg/ident"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// CLIManagerOption configures a CLIManager.
	CLIManagerOption func(*CLIManager)

	// CLIManager implements Manager by shelling out to the `hab` binary.
	//
	// Every spawned command carries HAB_LICENSE=accept-no-persist and
	// HAB_NONINTERACTIVE=true so installs never block on a license or
	// confirmation prompt.
	CLIManager struct {
		binaryPath   string
		execCommand  ExecCommandFunc
		envOverrides map[string]string
	}
)

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) CLIManagerOption {
	return func(m *CLIManager) {
		m.execCommand = fn
	}
}

// WithEnvOverride adds an environment variable override applied to every
// spawned hab command.
func WithEnvOverride(key, value string) CLIManagerOption {
	return func(m *CLIManager) {
		m.envOverrides[key] = value
	}
}

// NewCLIManager creates a Manager backed by the hab binary at binaryPath.
// When binaryPath is empty, the binary is resolved from PATH.
func NewCLIManager(binaryPath string, opts ...CLIManagerOption) *CLIManager {
	if binaryPath == "" {
		binaryPath, _ = exec.LookPath("hab")
	}

	m := &CLIManager{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
		envOverrides: map[string]string{
			"HAB_LICENSE":        "accept-no-persist",
			"HAB_NONINTERACTIVE": "true",
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BinaryPath returns the path to the hab binary.
func (m *CLIManager) BinaryPath() string {
	return m.binaryPath
}

// Available checks if the hab binary can be resolved.
func (m *CLIManager) Available() bool {
	return m.binaryPath != ""
}

// ListInstalled runs `hab pkg list <prefix>` and parses one identifier per
// output line. Blank lines and unparsable lines are skipped.
func (m *CLIManager) ListInstalled(ctx context.Context, prefix ident.PackageIdent) ([]ident.PackageIdent, error) {
	out, err := m.runWithOutput(ctx, "pkg", "list", prefix.String())
	if err != nil {
		return nil, fmt.Errorf("list installed packages for %s: %w", prefix, err)
	}

	var pkgs []ident.PackageIdent
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p, err := ident.Parse(line)
		if err != nil {
			log.Debug("skipping unparsable package list line", "line", line)
			continue
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}

// Install runs `hab pkg install <pkg>`.
func (m *CLIManager) Install(ctx context.Context, pkg ident.PackageIdent) error {
	cmd := m.createCommand(ctx, "pkg", "install", pkg.String())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug("running package install", "binary", m.binaryPath, "pkg", pkg)
	if err := cmd.Run(); err != nil {
		return issue.NewErrorContext().
			WithOperation("install package").
			WithResource(pkg.String()).
			WithSuggestion("Check network access to the package depot").
			WithSuggestion("Verify the identifier names a published package").
			Wrap(err).
			BuildError()
	}
	return nil
}

// Path runs `hab pkg path <pkg>` and returns the trimmed output line.
func (m *CLIManager) Path(ctx context.Context, pkg ident.PackageIdent) (string, error) {
	out, err := m.runWithOutput(ctx, "pkg", "path", pkg.String())
	if err != nil {
		return "", fmt.Errorf("resolve path for %s: %w", pkg, ErrPackageNotInstalled)
	}

	root := strings.TrimSpace(out)
	if root == "" {
		return "", fmt.Errorf("resolve path for %s: %w", pkg, ErrPackageNotInstalled)
	}
	return root, nil
}

func (m *CLIManager) runWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := m.createCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	log.Debug("running package manager command", "binary", m.binaryPath, "args", args)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", m.binaryPath, args, err)
	}
	return out.String(), nil
}

func (m *CLIManager) createCommand(ctx context.Context, args ...string) *exec.Cmd {
	cmd := m.execCommand(ctx, m.binaryPath, args...)
	if len(m.envOverrides) > 0 {
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		for k, v := range m.envOverrides {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	return cmd
}
