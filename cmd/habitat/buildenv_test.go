// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"slices"
	"testing"

	"github.com/fifthecho/habitat/internal/buildenv"
	"github.com/fifthecho/habitat/internal/config"
)

func TestBuildenvPackages(t *testing.T) {
	t.Parallel()

	cfgWithPackages := &config.Config{
		Build: config.BuildConfig{Packages: []string{"acme/tool", "core/openssl"}},
	}
	cfgEmpty := &config.Config{}

	t.Run("arguments win", func(t *testing.T) {
		t.Parallel()
		pkgs, err := buildenvPackages([]string{"core/zeromq"}, cfgWithPackages)
		if err != nil {
			t.Fatalf("buildenvPackages() failed: %v", err)
		}
		if len(pkgs) != 1 || pkgs[0].String() != "core/zeromq" {
			t.Errorf("buildenvPackages() = %v, want [core/zeromq]", pkgs)
		}
	})

	t.Run("config list when no arguments", func(t *testing.T) {
		t.Parallel()
		pkgs, err := buildenvPackages(nil, cfgWithPackages)
		if err != nil {
			t.Fatalf("buildenvPackages() failed: %v", err)
		}
		if len(pkgs) != 2 || pkgs[0].String() != "acme/tool" {
			t.Errorf("buildenvPackages() = %v, want config package list", pkgs)
		}
	})

	t.Run("defaults as last resort", func(t *testing.T) {
		t.Parallel()
		pkgs, err := buildenvPackages(nil, cfgEmpty)
		if err != nil {
			t.Fatalf("buildenvPackages() failed: %v", err)
		}
		if !slices.Equal(pkgs, buildenv.DefaultPackages) {
			t.Errorf("buildenvPackages() = %v, want the default dependency set", pkgs)
		}
	})

	t.Run("malformed argument rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := buildenvPackages([]string{"not an ident"}, cfgEmpty); err == nil {
			t.Error("buildenvPackages() accepted a malformed identifier")
		}
	})
}
