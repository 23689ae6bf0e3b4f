// SPDX-License-Identifier: MPL-2.0

// Package pkgmgr abstracts the Habitat package manager CLI.
//
// The Manager interface exposes the three operations the rest of the tool
// needs: listing installed packages by identifier prefix, installing a
// package, and resolving an installed package's root path. CLIManager shells
// out to the `hab` binary; MockManager backs tests.
package pkgmgr
