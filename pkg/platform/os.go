// SPDX-License-Identifier: MPL-2.0

package platform

// Named runtime.GOOS values, so callers switch on identifiers instead of
// repeating the raw strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
