// SPDX-License-Identifier: MPL-2.0

// Package export synthesizes a container image from installed packages.
//
// The Synthesizer assembles a minimal root filesystem for a package list
// inside an isolated temporary build context, derives image metadata (name,
// version tag, exposed ports) by inspecting the materialized tree, writes a
// Dockerfile, and drives a container engine to build and tag the image. The
// temporary context is removed when synthesis finishes, whether it succeeded
// or failed.
//
// The first-class split between the primary package (metadata, default
// command) and the full package list (root filesystem contents) is explicit
// in the Synthesize signature.
package export
