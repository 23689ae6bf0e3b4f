// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fifthecho/habitat/internal/issue"
	"github.com/fifthecho/habitat/pkg/ident"
)

type (
	// RootfsBuilder materializes a root filesystem tree for a package list
	// under <contextDir>/rootfs. The produced tree contains each package's
	// files plus an init.sh bootstrap script.
	RootfsBuilder interface {
		BuildRoot(ctx context.Context, contextDir string, pkgs []ident.PackageIdent) error
	}

	// StudioExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	StudioExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// StudioRootfsBuilderOption configures a StudioRootfsBuilder.
	StudioRootfsBuilderOption func(*StudioRootfsBuilder)

	// StudioRootfsBuilder implements RootfsBuilder by invoking the studio
	// tool: `hab studio -r <contextDir>/rootfs -t baseimage new`, with the
	// package list passed through the PKGS environment variable and
	// NO_MOUNT=1 set so the studio never bind-mounts host directories.
	StudioRootfsBuilder struct {
		binaryPath  string
		execCommand StudioExecCommandFunc
	}
)

// WithStudioExecCommand sets a custom exec command function for testing.
func WithStudioExecCommand(fn StudioExecCommandFunc) StudioRootfsBuilderOption {
	return func(b *StudioRootfsBuilder) {
		b.execCommand = fn
	}
}

// NewStudioRootfsBuilder creates a RootfsBuilder backed by the hab binary at
// binaryPath. When binaryPath is empty, the binary is resolved from PATH.
func NewStudioRootfsBuilder(binaryPath string, opts ...StudioRootfsBuilderOption) *StudioRootfsBuilder {
	if binaryPath == "" {
		binaryPath, _ = exec.LookPath("hab")
	}

	b := &StudioRootfsBuilder{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildRoot materializes the root filesystem for pkgs under contextDir.
func (b *StudioRootfsBuilder) BuildRoot(ctx context.Context, contextDir string, pkgs []ident.PackageIdent) error {
	idents := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		idents = append(idents, p.String())
	}

	rootfsDir := filepath.Join(contextDir, "rootfs")
	cmd := b.execCommand(ctx, b.binaryPath, "studio", "-r", rootfsDir, "-t", "baseimage", "new")
	cmd.Env = append(os.Environ(),
		"PKGS="+strings.Join(idents, " "),
		"NO_MOUNT=1",
		"HAB_LICENSE=accept-no-persist",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug("materializing root filesystem", "binary", b.binaryPath, "rootfs", rootfsDir, "pkgs", idents)
	if err := cmd.Run(); err != nil {
		return issue.NewErrorContext().
			WithOperation("materialize root filesystem").
			WithResource(rootfsDir).
			WithSuggestion("Verify every package in the list is installed or resolvable").
			WithSuggestion("Check that the studio tool supports the baseimage type").
			Wrap(err).
			BuildError()
	}
	return nil
}
