// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fifthecho/habitat/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage habitat configuration",
	Long: `Manage habitat configuration.

Configuration is stored in:
  - Linux: ~/.config/habitat/config.cue
  - macOS: ~/Library/Application Support/habitat/config.cue
  - Windows: %APPDATA%\habitat\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path := config.GetConfigPath(); path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("container_engine"), valueStyle.Render(cfg.ContainerEngine.String()))
	if cfg.HabBin != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("hab_bin"), valueStyle.Render(cfg.HabBin.String()))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("hab_bin"), SubtitleStyle.Render("(resolved from PATH)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("export"))
	fmt.Printf("  bldr_root: %s\n", valueStyle.Render(cfg.Export.BldrRoot.String()))
	if cfg.Export.TempDir != "" {
		fmt.Printf("  temp_dir: %s\n", valueStyle.Render(cfg.Export.TempDir.String()))
	} else {
		fmt.Printf("  temp_dir: %s\n", SubtitleStyle.Render("(system temp dir)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("build"))
	if len(cfg.Build.Packages) == 0 {
		fmt.Printf("  packages: %s\n", SubtitleStyle.Render("(built-in defaults)"))
	} else {
		fmt.Printf("  packages: %s\n", valueStyle.Render(strings.Join(cfg.Build.Packages, ", ")))
	}
	fmt.Printf("  version_file: %s\n", valueStyle.Render(cfg.Build.VersionFile.String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	cuePath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	if _, err := os.Stat(cuePath); os.IsNotExist(err) {
		fmt.Println(SubtitleStyle.Render("(no config file present; defaults in effect)"))
	}

	return nil
}
