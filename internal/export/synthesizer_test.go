// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fifthecho/habitat/internal/container"
	"github.com/fifthecho/habitat/pkg/ident"
)

type (
	// fakeRootfsBuilder materializes the minimal tree the synthesizer
	// inspects and records the package list it was given.
	fakeRootfsBuilder struct {
		fullIdent string
		exposes   string
		received  []ident.PackageIdent
		err       error
	}

	// fakeEngine records build and tag operations. Because the build
	// context is removed after synthesis, the Dockerfile content is
	// captured at Build time.
	fakeEngine struct {
		buildOpts  []container.BuildOptions
		dockerfile string
		contextDir string
		tags       [][2]container.ImageTag
		buildErr   error
	}
)

func (f *fakeRootfsBuilder) BuildRoot(_ context.Context, contextDir string, pkgs []ident.PackageIdent) error {
	f.received = append(f.received, pkgs...)
	if f.err != nil {
		return f.err
	}
	writePackageTreeForIdent(contextDir, f.fullIdent, f.exposes)
	return nil
}

// writePackageTreeForIdent is the non-testing.T twin of writePackageTree,
// usable from inside a fake.
func writePackageTreeForIdent(contextDir, fullIdent, exposes string) {
	p, err := ident.Parse(fullIdent)
	if err != nil {
		panic(err)
	}

	rootfs := filepath.Join(contextDir, "rootfs")
	_ = os.MkdirAll(rootfs, 0o755)
	initScript := "#!/bin/sh\nexport PATH=/opt/bldr/pkgs/" + fullIdent + "/bin\nexec \"$@\"\n"
	_ = os.WriteFile(filepath.Join(rootfs, "init.sh"), []byte(initScript), 0o755)

	pkgDir := filepath.Join(rootfs, "opt", "bldr", "pkgs", p.Origin, p.Name, p.Version, p.Release)
	_ = os.MkdirAll(pkgDir, 0o755)
	_ = os.WriteFile(filepath.Join(pkgDir, "IDENT"), []byte(fullIdent+"\n"), 0o644)
	if exposes != "" {
		_ = os.WriteFile(filepath.Join(pkgDir, "EXPOSES"), []byte(exposes), 0o644)
	}
}

func (f *fakeEngine) Name() string                            { return "fake" }
func (f *fakeEngine) Available() bool                         { return true }
func (f *fakeEngine) Version(context.Context) (string, error) { return "0.0.0-test", nil }

func (f *fakeEngine) Build(_ context.Context, opts container.BuildOptions) error {
	f.buildOpts = append(f.buildOpts, opts)
	f.contextDir = string(opts.ContextDir)
	if content, err := os.ReadFile(filepath.Join(string(opts.ContextDir), "Dockerfile")); err == nil {
		f.dockerfile = string(content)
	}
	return f.buildErr
}

func (f *fakeEngine) Tag(_ context.Context, source, target container.ImageTag) error {
	f.tags = append(f.tags, [2]container.ImageTag{source, target})
	return nil
}

func (f *fakeEngine) ImageExists(context.Context, container.ImageTag) (bool, error) {
	return false, nil
}

func (f *fakeEngine) RemoveImage(context.Context, container.ImageTag, bool) error {
	return nil
}

func TestSynthesize_EndToEnd(t *testing.T) {
	t.Parallel()

	rootfs := &fakeRootfsBuilder{fullIdent: "acme/widget/1.2.0/20200101000000"}
	engine := &fakeEngine{}
	synth := NewSynthesizer(rootfs, engine, Config{BldrRoot: "/opt/bldr", TempDir: t.TempDir()})

	primary := mustParse(t, "acme/widget")
	meta, err := synth.Synthesize(context.Background(), primary, []ident.PackageIdent{primary})
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if meta == nil || meta.VersionTag != "acme/widget:1.2.0-20200101000000" {
		t.Fatalf("Synthesize() metadata = %+v, want version tag for the primary", meta)
	}

	if len(engine.buildOpts) != 1 {
		t.Fatalf("Build called %d times, want 1", len(engine.buildOpts))
	}
	opts := engine.buildOpts[0]
	if opts.Tag != "acme/widget:1.2.0-20200101000000" {
		t.Errorf("build tag = %q, want version tag", opts.Tag)
	}
	if !opts.NoCache || !opts.ForceRm {
		t.Error("build must disable the cache and force intermediate removal")
	}

	if len(engine.tags) != 1 {
		t.Fatalf("Tag called %d times, want 1", len(engine.tags))
	}
	if engine.tags[0] != [2]container.ImageTag{"acme/widget:1.2.0-20200101000000", "acme/widget:latest"} {
		t.Errorf("Tag() = %v, want version->latest", engine.tags[0])
	}

	if engine.dockerfile == "" {
		t.Fatal("no Dockerfile present in the build context at build time")
	}

	// The temporary context must no longer exist after synthesis.
	if _, statErr := os.Stat(engine.contextDir); !os.IsNotExist(statErr) {
		t.Errorf("build context %s still exists after synthesis", engine.contextDir)
	}
}

func TestSynthesize_PrimaryAndFullListSplit(t *testing.T) {
	t.Parallel()

	rootfs := &fakeRootfsBuilder{fullIdent: "acme/widget/1.2.0/20200101000000"}
	engine := &fakeEngine{}
	synth := NewSynthesizer(rootfs, engine, Config{TempDir: t.TempDir()})

	a := mustParse(t, "acme/widget")
	b := mustParse(t, "core/cacerts")
	if _, err := synth.Synthesize(context.Background(), a, []ident.PackageIdent{a, b}); err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}

	// Materialization receives the full list.
	if len(rootfs.received) != 2 {
		t.Fatalf("materializer received %d packages, want 2", len(rootfs.received))
	}

	// Metadata and the default command use only the primary.
	if engine.buildOpts[0].Tag != "acme/widget:1.2.0-20200101000000" {
		t.Errorf("build tag = %q, want primary package tag", engine.buildOpts[0].Tag)
	}
	if want := `CMD ["start", "acme/widget"]` + "\n"; !strings.Contains(engine.dockerfile, want) {
		t.Errorf("descriptor CMD does not name the primary package:\n%s", engine.dockerfile)
	}
}

func TestSynthesize_ContextRemovedOnFailure(t *testing.T) {
	t.Parallel()

	tempRoot := t.TempDir()
	rootfs := &fakeRootfsBuilder{fullIdent: "acme/widget/1.2.0/20200101000000"}
	engine := &fakeEngine{buildErr: errors.New("daemon unavailable")}
	synth := NewSynthesizer(rootfs, engine, Config{TempDir: tempRoot})

	primary := mustParse(t, "acme/widget")
	_, err := synth.Synthesize(context.Background(), primary, []ident.PackageIdent{primary})
	if err == nil {
		t.Fatal("Synthesize() succeeded, want build error")
	}

	entries, readErr := os.ReadDir(tempRoot)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("temp root still holds %d entries after failed synthesis", len(entries))
	}
}

func TestSynthesize_MaterializationFailureAborts(t *testing.T) {
	t.Parallel()

	rootfs := &fakeRootfsBuilder{err: errors.New("studio unavailable")}
	engine := &fakeEngine{}
	synth := NewSynthesizer(rootfs, engine, Config{TempDir: t.TempDir()})

	primary := mustParse(t, "acme/widget")
	_, err := synth.Synthesize(context.Background(), primary, []ident.PackageIdent{primary})
	if err == nil {
		t.Fatal("Synthesize() succeeded, want materialization error")
	}
	if len(engine.buildOpts) != 0 {
		t.Error("Build invoked after materialization failure")
	}
}

func TestSynthesize_EmptyPackageList(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(&fakeRootfsBuilder{}, &fakeEngine{}, DefaultConfig())
	_, err := synth.Synthesize(context.Background(), mustParse(t, "acme/widget"), nil)
	if err == nil {
		t.Fatal("Synthesize() succeeded with empty package list, want error")
	}
}
