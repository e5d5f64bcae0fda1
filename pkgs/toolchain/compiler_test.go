package toolchain

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fakeTools(t *testing.T, names ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake executables need unix permissions")
	}
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	return dir
}

func noenv(string) (string, bool) { return "", false }

func TestResolveNative(t *testing.T) {
	dir := fakeTools(t, "gcc", "g++")
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: dir}
	got, err := r.ResolveCompilers("x86_64-pc-linux-gnu", noenv)
	if err != nil {
		t.Fatalf("ResolveCompilers: %v", err)
	}
	want := &Compilers{
		CC:  Compiler{Path: filepath.Join(dir, "gcc"), Flags: []string{"-ffunction-sections", "-fdata-sections", "-fPIC"}},
		CXX: Compiler{Path: filepath.Join(dir, "g++"), Flags: []string{"-ffunction-sections", "-fdata-sections", "-fPIC"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("compilers mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveNativeDebianTriple(t *testing.T) {
	dir := fakeTools(t, "cc", "x86_64-linux-gnu-gcc")
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: dir}
	got, err := r.ResolveCompilers("x86_64-linux-gnu", noenv)
	if err != nil {
		t.Fatalf("ResolveCompilers: %v", err)
	}
	if want := filepath.Join(dir, "cc"); got.CC.Path != want {
		t.Fatalf("CC = %q, want %q", got.CC.Path, want)
	}
}

func TestResolveCrossVendorless(t *testing.T) {
	dir := fakeTools(t, "aarch64-linux-gnu-gcc", "gcc", "g++")
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: dir}
	got, err := r.ResolveCompilers("aarch64-unknown-linux-gnu", noenv)
	if err != nil {
		t.Fatalf("ResolveCompilers: %v", err)
	}
	if want := filepath.Join(dir, "aarch64-linux-gnu-gcc"); got.CC.Path != want {
		t.Fatalf("CC = %q, want %q", got.CC.Path, want)
	}
	if got.CXX.Path != "" {
		t.Fatalf("CXX = %q, want none", got.CXX.Path)
	}
}

func TestResolveCrossVersioned(t *testing.T) {
	dir := fakeTools(t, "arm-none-eabi-gcc-9", "arm-none-eabi-gcc-12", "arm-none-eabi-gcc-12.2")
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: dir}
	got, err := r.ResolveCompilers("arm-none-eabi", noenv)
	if err != nil {
		t.Fatalf("ResolveCompilers: %v", err)
	}
	if want := filepath.Join(dir, "arm-none-eabi-gcc-12.2"); got.CC.Path != want {
		t.Fatalf("CC = %q, want %q", got.CC.Path, want)
	}
}

func TestResolveCrossClangFallback(t *testing.T) {
	dir := fakeTools(t, "clang")
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: dir}
	got, err := r.ResolveCompilers("aarch64-apple-darwin", noenv)
	if err != nil {
		t.Fatalf("ResolveCompilers: %v", err)
	}
	want := []string{"--target=aarch64-apple-darwin", "-ffunction-sections", "-fdata-sections", "-fPIC"}
	if diff := cmp.Diff(want, got.CC.Flags); diff != "" {
		t.Fatalf("CC flags mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEnvOverride(t *testing.T) {
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: t.TempDir()}
	env := map[string]string{"CC": `"/opt/my cc/bin/gcc" -m32`}
	got, err := r.ResolveCompilers("x86_64-w64-mingw32", func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("ResolveCompilers: %v", err)
	}
	want := Compiler{Path: "/opt/my cc/bin/gcc", Flags: []string{"-m32", "-ffunction-sections", "-fdata-sections"}}
	if diff := cmp.Diff(want, got.CC); diff != "" {
		t.Fatalf("CC mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEmscripten(t *testing.T) {
	dir := fakeTools(t, "emcc", "em++", "gcc")
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: dir}
	got, err := r.ResolveCompilers("wasm32-unknown-emscripten", noenv)
	if err != nil {
		t.Fatalf("ResolveCompilers: %v", err)
	}
	if got.CC.Path != filepath.Join(dir, "emcc") || got.CXX.Path != filepath.Join(dir, "em++") {
		t.Fatalf("compilers = %q/%q, want emcc/em++", got.CC.Path, got.CXX.Path)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := &Resolver{Host: "x86_64-unknown-linux-gnu", PathList: t.TempDir()}
	_, err := r.ResolveCompilers("aarch64-unknown-linux-gnu", noenv)
	if !errors.Is(err, ErrCompilerNotFound) {
		t.Fatalf("err = %v, want ErrCompilerNotFound", err)
	}
}

func TestHostFromCompiler(t *testing.T) {
	for _, tt := range []struct {
		path, want string
		ok         bool
	}{
		{"/usr/bin/aarch64-linux-gnu-gcc", "aarch64-linux-gnu", true},
		{"arm-none-eabi-gcc-12", "arm-none-eabi", true},
		{"x86_64-w64-mingw32-cc", "x86_64-w64-mingw32", true},
		{"musl-gcc", "", false},
		{"/usr/bin/gcc", "", false},
		{"gcc-13", "", false},
		{"clang", "", false},
	} {
		got, ok := HostFromCompiler(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("HostFromCompiler(%q) = %q, %v, want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
