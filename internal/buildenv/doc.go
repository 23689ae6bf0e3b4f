// SPDX-License-Identifier: MPL-2.0

// Package buildenv prepares the environment for compiling against
// Habitat-packaged native dependencies.
//
// Initialize ensures the required packages are installed (querying before
// installing to avoid redundant work), resolves each package's install root,
// and composes the compiler- and linker-facing environment variables into an
// explicit EnvSet. The caller decides whether to apply the set to the process
// environment or render it as shell export lines; nothing mutates global
// state implicitly.
package buildenv
