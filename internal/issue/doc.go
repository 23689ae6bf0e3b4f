// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// External tool failures (package manager installs, container builds) surface
// as ActionableError values carrying the failed operation, the resource
// involved, and remediation suggestions printed beneath the error message.
package issue
