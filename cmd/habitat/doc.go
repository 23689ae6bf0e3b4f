// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for habitat.
//
// This package implements the Cobra command hierarchy for the habitat CLI,
// including the root command and the subcommands for build environment
// preparation, container image export, and configuration management.
package cmd
