// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems this tool distinguishes,
// chiefly for resolving per-platform configuration directories.
package platform
