// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/fifthecho/habitat/internal/config"
	"github.com/fifthecho/habitat/internal/container"
	"github.com/fifthecho/habitat/internal/export"
	"github.com/fifthecho/habitat/pkg/ident"

	"github.com/spf13/cobra"
)

var (
	// dockerizeEngine overrides the configured container engine.
	dockerizeEngine string

	dockerizeCmd = &cobra.Command{
		Use:   "dockerize PKG [PKG...]",
		Short: "Export packages as a container image",
		Long: `Export one or more Habitat packages as a container image built from scratch.

The image is named after the first package: it receives both an
origin/name:version-release tag and an origin/name:latest tag. Any
additional packages are installed into the same root filesystem but do
not affect the image name or its default command.`,
		Example: `  habitat dockerize acme/widget
  habitat dockerize acme/widget core/jdk11
  habitat dockerize --engine podman acme/widget`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDockerize,
	}
)

func init() {
	dockerizeCmd.Flags().StringVar(&dockerizeEngine, "engine", "", "container engine to use (docker, podman, auto)")
}

func runDockerize(cmd *cobra.Command, args []string) error {
	pkgs, err := ident.ParseList(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	enginePref := cfg.ContainerEngine
	if dockerizeEngine != "" {
		enginePref = config.ContainerEngine(dockerizeEngine)
		if valid, errs := enginePref.IsValid(); !valid {
			return errs[0]
		}
	}

	engine, err := resolveEngine(enginePref)
	if err != nil {
		return err
	}

	rootfs := export.NewStudioRootfsBuilder(cfg.HabBin.String())
	synth := export.NewSynthesizer(rootfs, engine, export.Config{
		BldrRoot:    cfg.Export.BldrRoot.String(),
		TempDir:     cfg.Export.TempDir.String(),
		BuildOutput: os.Stdout,
	})

	meta, err := synth.Synthesize(cmd.Context(), pkgs[0], pkgs)
	if err != nil {
		return err
	}

	fmt.Printf("%s Image built with %s\n", SuccessStyle.Render("✓"), engine.Name())
	fmt.Printf("  %s\n", CmdStyle.Render(meta.VersionTag.String()))
	fmt.Printf("  %s\n", CmdStyle.Render(meta.LatestTag.String()))
	return nil
}

// resolveEngine maps the configured engine preference to a live engine,
// probing for availability.
func resolveEngine(pref config.ContainerEngine) (container.Engine, error) {
	switch pref {
	case config.ContainerEngineDocker:
		return container.NewEngine(container.EngineTypeDocker)
	case config.ContainerEnginePodman:
		return container.NewEngine(container.EngineTypePodman)
	default:
		return container.AutoDetectEngine()
	}
}
