// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"fmt"
	"os"
	"strings"
)

// LoadVersion reads the toolchain version identifier from the given file
// (conventionally a VERSION file next to the build pipeline). Only the first
// line is significant; surrounding whitespace is trimmed.
func LoadVersion(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read version file %s: %w", path, err)
	}

	line, _, _ := strings.Cut(string(content), "\n")
	version := strings.TrimSpace(line)
	if version == "" {
		return "", fmt.Errorf("version file %s is empty", path)
	}
	return version, nil
}
