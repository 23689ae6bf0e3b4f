// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fifthecho/habitat/pkg/ident"
)

const (
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineAuto probes for an available runtime, Docker first.
	ContainerEngineAuto ContainerEngine = "auto"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidInstallRootPath is returned when an InstallRootPath is empty or not absolute.
	ErrInvalidInstallRootPath = errors.New("invalid install root path")
	// ErrInvalidTempDirPath is returned when a TempDirPath value is whitespace-only.
	ErrInvalidTempDirPath = errors.New("invalid temp dir path")
	// ErrInvalidVersionFilePath is returned when a VersionFilePath value is whitespace-only.
	ErrInvalidVersionFilePath = errors.New("invalid version file path")
	// ErrInvalidExportConfig is the sentinel error wrapped by InvalidExportConfigError.
	ErrInvalidExportConfig = errors.New("invalid export config")
	// ErrInvalidBuildConfig is the sentinel error wrapped by InvalidBuildConfigError.
	ErrInvalidBuildConfig = errors.New("invalid build config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// BinaryFilePath represents a filesystem path to a binary executable.
	// A valid path must be non-empty and not whitespace-only.
	// The zero value ("") is valid and means "resolve the binary from PATH".
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// InstallRootPath is the absolute path under which packages and service
	// state live inside an exported image (e.g., "/opt/bldr"). Images always
	// use Unix path conventions regardless of the host platform, so a valid
	// value must be non-empty and start with "/".
	InstallRootPath string

	// InvalidInstallRootPathError is returned when an InstallRootPath value is
	// empty or not absolute. It wraps ErrInvalidInstallRootPath for errors.Is().
	InvalidInstallRootPathError struct {
		Value InstallRootPath
	}

	// TempDirPath represents a filesystem path for scratch build contexts.
	// The zero value ("") is valid and means "use the system temp directory".
	// Non-zero values must not be whitespace-only.
	TempDirPath string

	// InvalidTempDirPathError is returned when a TempDirPath value is
	// non-empty but whitespace-only.
	InvalidTempDirPathError struct {
		Value TempDirPath
	}

	// VersionFilePath represents the path to the file holding the project
	// version string. The zero value ("") is valid and means "use VERSION
	// in the working directory". Non-zero values must not be whitespace-only.
	VersionFilePath string

	// InvalidVersionFilePathError is returned when a VersionFilePath value is
	// non-empty but whitespace-only.
	InvalidVersionFilePathError struct {
		Value VersionFilePath
	}

	// InvalidExportConfigError is returned when an ExportConfig has invalid fields.
	// It wraps ErrInvalidExportConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidExportConfigError struct {
		FieldErrors []error
	}

	// InvalidBuildConfigError is returned when a BuildConfig has invalid fields.
	// It wraps ErrInvalidBuildConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidBuildConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine selects "docker", "podman", or "auto" detection
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine"`
		// HabBin overrides the path to the hab binary
		HabBin BinaryFilePath `json:"hab_bin" mapstructure:"hab_bin"`
		// Export configures container image export
		Export ExportConfig `json:"export" mapstructure:"export"`
		// Build configures the build environment
		Build BuildConfig `json:"build" mapstructure:"build"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ExportConfig configures container image export.
	ExportConfig struct {
		// BldrRoot is the install root inside exported images
		BldrRoot InstallRootPath `json:"bldr_root" mapstructure:"bldr_root"`
		// TempDir overrides where scratch build contexts are created
		TempDir TempDirPath `json:"temp_dir" mapstructure:"temp_dir"`
	}

	// BuildConfig configures the build environment.
	BuildConfig struct {
		// Packages overrides the default build dependency list. Each entry
		// must be a parseable package identifier (origin/name[/version[/release]]).
		Packages []string `json:"packages" mapstructure:"packages"`
		// VersionFile is the file holding the project version string
		VersionFile VersionFilePath `json:"version_file" mapstructure:"version_file"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman, auto)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error {
	return ErrInvalidContainerEngine
}

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEngineDocker, ContainerEnginePodman, ContainerEngineAuto:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value ("") is valid (means "resolve the binary from PATH").
// Non-zero values must not be whitespace-only.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryFilePathError.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// String returns the string representation of the InstallRootPath.
func (p InstallRootPath) String() string { return string(p) }

// IsValid returns whether the InstallRootPath is valid.
// A valid path must be non-empty and start with "/".
func (p InstallRootPath) IsValid() (bool, []error) {
	if !strings.HasPrefix(string(p), "/") {
		return false, []error{&InvalidInstallRootPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidInstallRootPathError.
func (e *InvalidInstallRootPathError) Error() string {
	return fmt.Sprintf("invalid install root path %q: must be an absolute Unix path", e.Value)
}

// Unwrap returns ErrInvalidInstallRootPath for errors.Is() compatibility.
func (e *InvalidInstallRootPathError) Unwrap() error { return ErrInvalidInstallRootPath }

// String returns the string representation of the TempDirPath.
func (p TempDirPath) String() string { return string(p) }

// IsValid returns whether the TempDirPath is valid.
// The zero value ("") is valid (means "use the system temp directory").
// Non-zero values must not be whitespace-only.
func (p TempDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidTempDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTempDirPathError.
func (e *InvalidTempDirPathError) Error() string {
	return fmt.Sprintf("invalid temp dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidTempDirPath for errors.Is() compatibility.
func (e *InvalidTempDirPathError) Unwrap() error { return ErrInvalidTempDirPath }

// String returns the string representation of the VersionFilePath.
func (p VersionFilePath) String() string { return string(p) }

// IsValid returns whether the VersionFilePath is valid.
// The zero value ("") is valid (means "use VERSION in the working directory").
// Non-zero values must not be whitespace-only.
func (p VersionFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidVersionFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidVersionFilePathError.
func (e *InvalidVersionFilePathError) Error() string {
	return fmt.Sprintf("invalid version file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidVersionFilePath for errors.Is() compatibility.
func (e *InvalidVersionFilePathError) Unwrap() error { return ErrInvalidVersionFilePath }

// IsValid returns whether the ExportConfig has valid fields.
// It delegates to BldrRoot.IsValid() and TempDir.IsValid().
func (c ExportConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.BldrRoot.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.TempDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidExportConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidExportConfigError.
func (e *InvalidExportConfigError) Error() string {
	return fmt.Sprintf("invalid export config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidExportConfig for errors.Is() compatibility.
func (e *InvalidExportConfigError) Unwrap() error { return ErrInvalidExportConfig }

// IsValid returns whether the BuildConfig has valid fields.
// Each package entry must parse as a package identifier, and VersionFile
// must be a valid path value.
func (c BuildConfig) IsValid() (bool, []error) {
	var errs []error
	for _, pkg := range c.Packages {
		if _, err := ident.Parse(pkg); err != nil {
			errs = append(errs, err)
		}
	}
	if valid, fieldErrs := c.VersionFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidBuildConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBuildConfigError.
func (e *InvalidBuildConfigError) Error() string {
	return fmt.Sprintf("invalid build config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidBuildConfig for errors.Is() compatibility.
func (e *InvalidBuildConfigError) Unwrap() error { return ErrInvalidBuildConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ContainerEngine.IsValid(), HabBin.IsValid(),
// Export.IsValid(), Build.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ContainerEngine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.HabBin.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Export.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Build.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineAuto,
		HabBin:          "", // Will resolve from PATH if empty
		Export: ExportConfig{
			BldrRoot: "/opt/bldr",
			TempDir:  "", // Will use the system temp dir if empty
		},
		Build: BuildConfig{
			Packages:    []string{},
			VersionFile: "VERSION",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
