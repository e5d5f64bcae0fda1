// Package toolchain answers the two questions a configure-based build asks
// about its environment: which triples are involved, and which C/C++
// compilers serve a given triple.
package toolchain

import (
	"os"
	"runtime"
	"strings"
)

// Ambient supplies target metadata provided by the surrounding build.
type Ambient interface {
	// TargetTriple is the triple the built artifacts will run on.
	TargetTriple() string
	// HostTriple is the triple of the machine running the build.
	HostTriple() string
}

// Env reads the ambient triples from the process environment.
//
// TARGET and HOST win when set. Otherwise the target follows GOOS/GOARCH
// (so a cross-compiling `go generate` sees the same target as cgo does)
// and the host is the native machine.
type Env struct{}

var _ Ambient = Env{}

func (Env) TargetTriple() string {
	if t := os.Getenv("TARGET"); t != "" {
		return t
	}
	goos, goarch := os.Getenv("GOOS"), os.Getenv("GOARCH")
	if goos == "" && goarch == "" {
		return Native()
	}
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	return TripleFor(goos, goarch)
}

func (Env) HostTriple() string {
	if h := os.Getenv("HOST"); h != "" {
		return h
	}
	return Native()
}

// Static is an Ambient with fixed answers.
type Static struct {
	Target string
	Host   string
}

func (s Static) TargetTriple() string { return s.Target }
func (s Static) HostTriple() string   { return s.Host }

var archs = map[string]string{
	"amd64":    "x86_64",
	"386":      "i686",
	"arm64":    "aarch64",
	"arm":      "armv7",
	"riscv64":  "riscv64",
	"ppc64le":  "powerpc64le",
	"ppc64":    "powerpc64",
	"s390x":    "s390x",
	"loong64":  "loongarch64",
	"mips64le": "mips64el",
	"mipsle":   "mipsel",
	"wasm":     "wasm32",
}

// TripleFor maps a GOOS/GOARCH pair onto the GNU triple configure expects.
func TripleFor(goos, goarch string) string {
	arch, ok := archs[goarch]
	if !ok {
		arch = goarch
	}
	switch goos {
	case "linux":
		switch goarch {
		case "arm":
			return arch + "-unknown-linux-gnueabihf"
		case "386":
			return arch + "-pc-linux-gnu"
		}
		return arch + "-unknown-linux-gnu"
	case "android":
		if goarch == "arm" {
			return "armv7a-linux-androideabi"
		}
		return arch + "-linux-android"
	case "darwin":
		return arch + "-apple-darwin"
	case "ios":
		return arch + "-apple-ios"
	case "windows":
		return arch + "-w64-mingw32"
	case "freebsd", "netbsd", "openbsd", "dragonfly":
		return arch + "-unknown-" + goos
	case "js":
		return "wasm32-unknown-emscripten"
	case "wasip1":
		return "wasm32-unknown-wasi"
	}
	return arch + "-unknown-" + goos
}

// IsEmscripten reports whether triple targets Emscripten, in which case
// configure and make have to run under emconfigure/emmake.
func IsEmscripten(triple string) bool {
	return strings.Contains(triple, "emscripten")
}

// IsWindows reports whether triple produces Windows binaries.
func IsWindows(triple string) bool {
	return strings.Contains(triple, "windows") || strings.Contains(triple, "mingw")
}

// SameMachine reports whether two triples describe the same machine. Vendor
// fields are ignored since "x86_64-pc-linux-gnu", "x86_64-unknown-linux-gnu"
// and the Debian form "x86_64-linux-gnu" name the same system.
func SameMachine(a, b string) bool {
	if a == b {
		return true
	}
	archA, sysA, okA := machine(a)
	archB, sysB, okB := machine(b)
	return okA && okB && archA == archB && sysA == sysB
}

var vendors = map[string]bool{
	"unknown": true, "pc": true, "apple": true, "w64": true, "none": true,
}

// machine splits a triple into its normalized arch and its os[-abi] part,
// dropping the vendor field when there is one.
func machine(triple string) (arch, sys string, ok bool) {
	parts := strings.Split(triple, "-")
	switch {
	case len(parts) < 3:
		return "", "", false
	case len(parts) >= 4 || vendors[parts[1]]:
		parts = append(parts[:1], parts[2:]...)
	}
	return normArch(parts[0]), strings.Join(parts[1:], "-"), true
}

func normArch(a string) string {
	switch a {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "i386", "i486", "i586":
		return "i686"
	}
	return a
}
