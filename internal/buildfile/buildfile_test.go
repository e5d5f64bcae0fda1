package buildfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goplus/autotools/pkgs/buildsys/autotools"
	"github.com/goplus/autotools/pkgs/toolchain"
)

const sample = `
source: libxmp
out_dir: out
reconf: -v
insource: true
shared: true
enable: [foo, "bar=baz"]
disable: [qux]
with: ["zlib=/opt/zlib"]
without: [ssl]
config_args: [--sysconfdir=/etc]
cflags: [-O2]
env:
  FOO: "1"
jobs: 4
make_args: [V=1]
make_targets: [lib/libxmp.a]
forbid: [--disable-static]
`

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse([]byte("sauce: x\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadApply(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libxmp")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "build.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"CC", "CXX", "CFLAGS", "CXXFLAGS", "LDFLAGS", "MAKE"} {
		t.Setenv(key, "")
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.SourceDir() != src {
		t.Fatalf("SourceDir = %q, want %q", f.SourceDir(), src)
	}

	triple := "x86_64-unknown-linux-gnu"
	c := autotools.New(f.SourceDir()).
		Ambient(toolchain.Static{Target: triple, Host: triple}).
		Compilers(&toolchain.Resolver{Host: triple, PathList: t.TempDir()})
	f.Apply(c)
	if want := filepath.Join(dir, "out"); c.OutputDir() != want {
		t.Fatalf("OutputDir = %q, want %q", c.OutputDir(), want)
	}

	specs, err := c.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var steps []string
	for _, s := range specs {
		steps = append(steps, s.Step)
		if s.Dir != src && s.Step != autotools.StepAutoreconf {
			t.Errorf("%s runs in %q, want in-source %q", s.Step, s.Dir, src)
		}
		if s.Env["FOO"] != "1" {
			t.Errorf("%s env FOO = %q, want %q", s.Step, s.Env["FOO"], "1")
		}
	}
	if diff := cmp.Diff([]string{"autoreconf", "configure", "make", "install"}, steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	wantConf := []string{
		"--prefix=" + filepath.Join(dir, "out"),
		"--enable-shared",
		"--enable-static",
		"--enable-foo",
		"--enable-bar=baz",
		"--disable-qux",
		"--with-zlib=/opt/zlib",
		"--without-ssl",
		"--sysconfdir=/etc",
		"CFLAGS=-O2",
	}
	if diff := cmp.Diff(wantConf, specs[1].Args); diff != "" {
		t.Errorf("configure args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"-j4", "V=1", "lib/libxmp.a"}, specs[2].Args); diff != "" {
		t.Errorf("make args mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitFeature(t *testing.T) {
	name, value := splitFeature("a=b=c")
	if name != "a" || len(value) != 1 || value[0] != "b=c" {
		t.Fatalf("splitFeature(a=b=c) = %q, %q", name, value)
	}
	name, value = splitFeature("plain")
	if name != "plain" || value != nil {
		t.Fatalf("splitFeature(plain) = %q, %q", name, value)
	}
}
