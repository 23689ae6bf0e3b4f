// SPDX-License-Identifier: MPL-2.0

package ident

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPackageIdent is the sentinel error wrapped by InvalidPackageIdentError.
var ErrInvalidPackageIdent = errors.New("invalid package identifier")

type (
	// PackageIdent identifies a buildable unit as origin/name with an
	// optional version and release. The zero value is invalid.
	PackageIdent struct {
		Origin  string
		Name    string
		Version string
		Release string
	}

	// InvalidPackageIdentError is returned when an identifier string cannot
	// be parsed or fails validation.
	InvalidPackageIdentError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidPackageIdentError) Error() string {
	return fmt.Sprintf("invalid package identifier %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPackageIdent so callers can use errors.Is for
// programmatic detection.
func (e *InvalidPackageIdentError) Unwrap() error { return ErrInvalidPackageIdent }

// Parse parses an identifier of the form origin/name[/version[/release]].
// Only the origin/name pair is required; no further structure is enforced on
// the version or release segments.
func Parse(s string) (PackageIdent, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 4 {
		return PackageIdent{}, &InvalidPackageIdentError{
			Value:  s,
			Reason: "must be origin/name[/version[/release]]",
		}
	}

	p := PackageIdent{Origin: parts[0], Name: parts[1]}
	if len(parts) > 2 {
		p.Version = parts[2]
	}
	if len(parts) > 3 {
		p.Release = parts[3]
	}

	if err := p.Validate(); err != nil {
		return PackageIdent{}, err
	}
	return p, nil
}

// Validate returns an error if the identifier is structurally invalid.
// Origin and name must be non-empty, and a release requires a version.
func (p PackageIdent) Validate() error {
	switch {
	case p.Origin == "":
		return &InvalidPackageIdentError{Value: p.String(), Reason: "origin must be non-empty"}
	case p.Name == "":
		return &InvalidPackageIdentError{Value: p.String(), Reason: "name must be non-empty"}
	case p.Release != "" && p.Version == "":
		return &InvalidPackageIdentError{Value: p.String(), Reason: "release requires a version"}
	default:
		return nil
	}
}

// String renders the identifier in its canonical slash-delimited form,
// omitting empty trailing segments.
func (p PackageIdent) String() string {
	var sb strings.Builder
	sb.WriteString(p.Origin)
	sb.WriteString("/")
	sb.WriteString(p.Name)
	if p.Version != "" {
		sb.WriteString("/")
		sb.WriteString(p.Version)
		if p.Release != "" {
			sb.WriteString("/")
			sb.WriteString(p.Release)
		}
	}
	return sb.String()
}

// FullyQualified reports whether all four segments are present.
func (p PackageIdent) FullyQualified() bool {
	return p.Origin != "" && p.Name != "" && p.Version != "" && p.Release != ""
}

// Satisfies reports whether p names the same package as prefix, at least as
// specifically. An installed "core/redis/4.0.14/20200101000000" satisfies the
// prefix "core/redis" and "core/redis/4.0.14", but not "core/redis/5.0.0".
func (p PackageIdent) Satisfies(prefix PackageIdent) bool {
	if p.Origin != prefix.Origin || p.Name != prefix.Name {
		return false
	}
	if prefix.Version != "" && p.Version != prefix.Version {
		return false
	}
	if prefix.Release != "" && p.Release != prefix.Release {
		return false
	}
	return true
}

// ParseList parses a slice of identifier strings, failing on the first
// invalid entry.
func ParseList(args []string) ([]PackageIdent, error) {
	pkgs := make([]PackageIdent, 0, len(args))
	for _, arg := range args {
		p, err := Parse(arg)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}
