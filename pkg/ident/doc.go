// SPDX-License-Identifier: MPL-2.0

// Package ident defines the package identifier type shared across the CLI.
//
// A package identifier names a buildable unit as origin/name with an optional
// version and release, e.g. "core/redis" or "core/busybox-static/1.42.2" or
// "acme/widget/1.2.0/20200101000000". Identifiers are used both as install
// targets for the package manager and as filesystem path fragments inside a
// materialized root filesystem.
package ident
