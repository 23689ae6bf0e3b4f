// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/fifthecho/habitat/internal/container"
	"github.com/fifthecho/habitat/pkg/ident"
)

// DefaultBldrRoot is the root of the package tree inside synthesized images.
const DefaultBldrRoot = "/opt/bldr"

type (
	// Config holds the synthesis knobs not derived from the package list.
	Config struct {
		// BldrRoot is the in-image package tree root (BLDR_ROOT).
		BldrRoot string
		// TempDir is the parent for build contexts; empty means the
		// system default.
		TempDir string
		// BuildOutput receives the container engine's build output.
		// Nil discards it.
		BuildOutput io.Writer
	}

	// Synthesizer builds and tags a container image from installed
	// packages. The linear step sequence is: create context, materialize
	// rootfs, derive metadata, write Dockerfile, build, tag latest. Any
	// step's failure aborts synthesis; the context directory is removed
	// in every case.
	Synthesizer struct {
		rootfs RootfsBuilder
		engine container.Engine
		cfg    Config
	}
)

// DefaultConfig returns a Config with the default package tree root.
func DefaultConfig() Config {
	return Config{BldrRoot: DefaultBldrRoot}
}

// NewSynthesizer creates a Synthesizer. A zero-value cfg.BldrRoot falls back
// to DefaultBldrRoot.
func NewSynthesizer(rootfs RootfsBuilder, engine container.Engine, cfg Config) *Synthesizer {
	if cfg.BldrRoot == "" {
		cfg.BldrRoot = DefaultBldrRoot
	}
	return &Synthesizer{
		rootfs: rootfs,
		engine: engine,
		cfg:    cfg,
	}
}

// Synthesize builds and tags an image, returning the derived metadata. The
// full package list all flows into the root filesystem; only primary
// determines image metadata and the default command.
func (s *Synthesizer) Synthesize(ctx context.Context, primary ident.PackageIdent, all []ident.PackageIdent) (meta *Metadata, err error) {
	if err := primary.Validate(); err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("synthesize %s: package list must be non-empty", primary)
	}

	contextDir, err := os.MkdirTemp(s.cfg.TempDir, "hab-pkg-dockerize-")
	if err != nil {
		return nil, fmt.Errorf("create build context: %w", err)
	}
	defer func() {
		// Removal is unconditional: a failed build must not leave
		// contexts accumulating under the temp root.
		if rmErr := os.RemoveAll(contextDir); rmErr != nil && err == nil {
			meta = nil
			err = fmt.Errorf("remove build context %s: %w", contextDir, rmErr)
		}
	}()

	log.Debug("created build context", "dir", contextDir)

	if err := s.rootfs.BuildRoot(ctx, contextDir, all); err != nil {
		return nil, err
	}

	meta, err = DeriveMetadata(contextDir, s.cfg.BldrRoot, primary)
	if err != nil {
		return nil, err
	}

	pathLine, err := pathEnvLine(contextDir)
	if err != nil {
		return nil, err
	}

	dockerfile := generateDockerfile(meta, pathLine, s.cfg.BldrRoot, primary)
	dockerfilePath := filepath.Join(contextDir, "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(dockerfile), 0o644); err != nil {
		return nil, fmt.Errorf("write build descriptor: %w", err)
	}

	log.Info("building image", "tag", meta.VersionTag, "engine", s.engine.Name())
	buildErr := s.engine.Build(ctx, container.BuildOptions{
		ContextDir: container.HostFilesystemPath(contextDir),
		Tag:        meta.VersionTag,
		NoCache:    true,
		ForceRm:    true,
		Stdout:     s.cfg.BuildOutput,
		Stderr:     s.cfg.BuildOutput,
	})
	if buildErr != nil {
		return nil, buildErr
	}

	if err := s.engine.Tag(ctx, meta.VersionTag, meta.LatestTag); err != nil {
		return nil, err
	}

	log.Info("image built", "version", meta.VersionTag, "latest", meta.LatestTag)
	return meta, nil
}
