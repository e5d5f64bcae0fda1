package toolchain

import "testing"

func TestTripleFor(t *testing.T) {
	for _, tt := range []struct {
		goos, goarch, want string
	}{
		{"linux", "amd64", "x86_64-unknown-linux-gnu"},
		{"linux", "arm64", "aarch64-unknown-linux-gnu"},
		{"linux", "arm", "armv7-unknown-linux-gnueabihf"},
		{"linux", "386", "i686-pc-linux-gnu"},
		{"darwin", "arm64", "aarch64-apple-darwin"},
		{"windows", "amd64", "x86_64-w64-mingw32"},
		{"freebsd", "amd64", "x86_64-unknown-freebsd"},
		{"android", "arm64", "aarch64-linux-android"},
		{"js", "wasm", "wasm32-unknown-emscripten"},
	} {
		if got := TripleFor(tt.goos, tt.goarch); got != tt.want {
			t.Errorf("TripleFor(%q, %q) = %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
}

func TestIsEmscripten(t *testing.T) {
	if !IsEmscripten("wasm32-unknown-emscripten") {
		t.Error("wasm32-unknown-emscripten should be emscripten")
	}
	if IsEmscripten("wasm32-unknown-wasi") {
		t.Error("wasm32-unknown-wasi should not be emscripten")
	}
}

func TestSameMachine(t *testing.T) {
	for _, tt := range []struct {
		a, b string
		want bool
	}{
		{"x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu", true},
		{"x86_64-pc-linux-gnu", "x86_64-unknown-linux-gnu", true},
		{"aarch64-apple-darwin", "arm64-apple-darwin", true},
		{"aarch64-unknown-linux-gnu", "x86_64-unknown-linux-gnu", false},
		{"x86_64-unknown-linux-musl", "x86_64-unknown-linux-gnu", false},
		{"x86_64", "x86_64-unknown-linux-gnu", false},
		{"x86_64-linux-gnu", "x86_64-unknown-linux-gnu", true},
		{"x86_64-unknown-linux-gnu", "x86_64-linux-gnu", true},
		{"aarch64-linux-gnu", "x86_64-unknown-linux-gnu", false},
		{"x86_64-linux-musl", "x86_64-unknown-linux-gnu", false},
		{"x86_64-apple-darwin", "x86_64-unknown-darwin", true},
		{"arm-none-eabi", "arm-unknown-linux-gnueabihf", false},
	} {
		if got := SameMachine(tt.a, tt.b); got != tt.want {
			t.Errorf("SameMachine(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEnvAmbient(t *testing.T) {
	t.Setenv("TARGET", "aarch64-unknown-linux-gnu")
	t.Setenv("HOST", "x86_64-unknown-linux-gnu")
	var e Env
	if got := e.TargetTriple(); got != "aarch64-unknown-linux-gnu" {
		t.Fatalf("TargetTriple = %q, want %q", got, "aarch64-unknown-linux-gnu")
	}
	if got := e.HostTriple(); got != "x86_64-unknown-linux-gnu" {
		t.Fatalf("HostTriple = %q, want %q", got, "x86_64-unknown-linux-gnu")
	}
}

func TestEnvAmbientFromGOOS(t *testing.T) {
	t.Setenv("TARGET", "")
	t.Setenv("GOOS", "windows")
	t.Setenv("GOARCH", "amd64")
	if got := (Env{}).TargetTriple(); got != "x86_64-w64-mingw32" {
		t.Fatalf("TargetTriple = %q, want %q", got, "x86_64-w64-mingw32")
	}
}

func TestNative(t *testing.T) {
	n := Native()
	if n == "" {
		t.Fatal("Native returned empty triple")
	}
	t.Setenv("TARGET", "")
	t.Setenv("GOOS", "")
	t.Setenv("GOARCH", "")
	if got := (Env{}).TargetTriple(); got != n {
		t.Fatalf("TargetTriple without overrides = %q, want %q", got, n)
	}
}
