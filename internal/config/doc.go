// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/habitat/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/habitat/config.cue on macOS, %APPDATA%\habitat\config.cue
// on Windows). The package provides type-safe configuration access and supports container
// engine selection, hab binary resolution, export image layout, and build environment
// package lists.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations. The BLDR_ROOT
// and HAB_BIN environment variables override their config-file counterparts.
package config
