// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/fifthecho/habitat/internal/buildenv"
	"github.com/fifthecho/habitat/internal/config"
	"github.com/fifthecho/habitat/internal/pkgmgr"
	"github.com/fifthecho/habitat/pkg/ident"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// buildenvApply applies the environment to the current process instead
	// of printing export lines.
	buildenvApply bool

	buildenvCmd = &cobra.Command{
		Use:   "buildenv [PKG...]",
		Short: "Prepare the native build environment",
		Long: `Prepare a native build environment from installed Habitat packages.

Missing packages are installed first; already-installed packages are
skipped. The composed environment (PATH, library and include paths, and
per-package variables such as OPENSSL_LIB_DIR) is printed as shell
export lines suitable for eval. With no arguments the default native
build dependency set is used.`,
		Example: `  eval "$(habitat buildenv)"
  habitat buildenv core/openssl core/zeromq`,
		RunE: runBuildenv,
	}
)

func init() {
	buildenvCmd.Flags().BoolVar(&buildenvApply, "apply", false, "apply the environment to this process instead of printing it")
}

func runBuildenv(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pkgs, err := buildenvPackages(args, cfg)
	if err != nil {
		return err
	}

	if version, verr := buildenv.LoadVersion(cfg.Build.VersionFile.String()); verr == nil {
		log.Info("preparing build environment", "version", version)
	} else {
		log.Debug("no project version available", "file", cfg.Build.VersionFile, "err", verr)
	}

	mgr := pkgmgr.NewCLIManager(cfg.HabBin.String())
	env, err := buildenv.Initialize(cmd.Context(), mgr, pkgs)
	if err != nil {
		return err
	}

	if buildenvApply {
		return env.Apply()
	}

	for _, line := range env.ExportLines(os.LookupEnv) {
		fmt.Println(line)
	}
	return nil
}

// buildenvPackages picks the dependency set: explicit arguments win, then
// the configured package list, then the built-in defaults.
func buildenvPackages(args []string, cfg *config.Config) ([]ident.PackageIdent, error) {
	switch {
	case len(args) > 0:
		return ident.ParseList(args)
	case len(cfg.Build.Packages) > 0:
		return ident.ParseList(cfg.Build.Packages)
	default:
		return buildenv.DefaultPackages, nil
	}
}
