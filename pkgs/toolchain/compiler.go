package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/qiniu/x/log"
	"golang.org/x/mod/semver"
)

// ErrCompilerNotFound is returned when no C compiler serves a target.
var ErrCompilerNotFound = errors.New("toolchain: no C compiler found")

// Compiler is an executable plus the flags it needs for a target.
type Compiler struct {
	Path  string
	Flags []string
}

// Compilers is the answer of a CompilerResolver. CXX.Path is empty when no
// C++ compiler was found.
type Compilers struct {
	CC  Compiler
	CXX Compiler
}

// CompilerResolver finds the C and C++ compilers for a target triple.
// getenv is consulted for CC/CXX overrides before any PATH search.
type CompilerResolver interface {
	ResolveCompilers(target string, getenv func(string) (string, bool)) (*Compilers, error)
}

// Resolver is the default CompilerResolver. It honors $CC/$CXX, then
// searches PATH using the usual naming conventions: plain cc/gcc/clang for
// native builds, <triple>-gcc and friends for cross builds, emcc/em++ for
// Emscripten.
type Resolver struct {
	// Host is the triple of the build machine. Targets that are not the
	// same machine are treated as cross builds.
	Host string
	// PathList is searched instead of $PATH when non-empty.
	PathList string
}

var _ CompilerResolver = (*Resolver)(nil)

// NewResolver returns a Resolver for the native machine.
func NewResolver() *Resolver {
	return &Resolver{Host: Native()}
}

func (r *Resolver) ResolveCompilers(target string, getenv func(string) (string, bool)) (*Compilers, error) {
	if getenv == nil {
		getenv = os.LookupEnv
	}
	cross := r.Host != "" && target != "" && !SameMachine(target, r.Host)
	baseline := baselineFlags(target)

	cc, err := r.resolve("CC", getenv, r.ccCandidates(target, cross))
	if err != nil {
		return nil, err
	}
	if cc == nil {
		return nil, fmt.Errorf("%w for %s", ErrCompilerNotFound, target)
	}
	cc.Flags = append(cc.Flags, baseline...)

	out := &Compilers{CC: *cc}
	cxx, err := r.resolve("CXX", getenv, r.cxxCandidates(target, cross))
	if err != nil {
		return nil, err
	}
	if cxx != nil {
		cxx.Flags = append(cxx.Flags, baseline...)
		out.CXX = *cxx
	} else {
		log.Debugf("toolchain: no C++ compiler for %s", target)
	}
	return out, nil
}

type candidate struct {
	name  string
	flags []string
}

func (r *Resolver) resolve(envKey string, getenv func(string) (string, bool), cands []candidate) (*Compiler, error) {
	if v, ok := getenv(envKey); ok && strings.TrimSpace(v) != "" {
		words, err := shellquote.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: parse $%s %q: %w", envKey, v, err)
		}
		return &Compiler{Path: words[0], Flags: words[1:]}, nil
	}
	for _, c := range cands {
		if p, ok := r.find(c.name); ok {
			return &Compiler{Path: p, Flags: append([]string(nil), c.flags...)}, nil
		}
		if p, ok := r.findVersioned(c.name); ok {
			return &Compiler{Path: p, Flags: append([]string(nil), c.flags...)}, nil
		}
	}
	return nil, nil
}

func (r *Resolver) ccCandidates(target string, cross bool) []candidate {
	if IsEmscripten(target) {
		return []candidate{{name: "emcc"}}
	}
	if !cross {
		return []candidate{{name: "cc"}, {name: "gcc"}, {name: "clang"}}
	}
	var out []candidate
	for _, p := range crossPrefixes(target) {
		out = append(out,
			candidate{name: p + "-gcc"},
			candidate{name: p + "-cc"},
			candidate{name: p + "-clang"},
		)
	}
	return append(out, candidate{name: "clang", flags: []string{"--target=" + target}})
}

func (r *Resolver) cxxCandidates(target string, cross bool) []candidate {
	if IsEmscripten(target) {
		return []candidate{{name: "em++"}}
	}
	if !cross {
		return []candidate{{name: "c++"}, {name: "g++"}, {name: "clang++"}}
	}
	var out []candidate
	for _, p := range crossPrefixes(target) {
		out = append(out,
			candidate{name: p + "-g++"},
			candidate{name: p + "-c++"},
			candidate{name: p + "-clang++"},
		)
	}
	return append(out, candidate{name: "clang++", flags: []string{"--target=" + target}})
}

// crossPrefixes lists the tool prefixes a cross toolchain for triple may use.
// Debian-style toolchains omit the vendor field ("aarch64-linux-gnu-gcc").
func crossPrefixes(triple string) []string {
	parts := strings.Split(triple, "-")
	if len(parts) == 4 && (parts[1] == "unknown" || parts[1] == "pc") {
		return []string{triple, strings.Join([]string{parts[0], parts[2], parts[3]}, "-")}
	}
	return []string{triple}
}

func baselineFlags(target string) []string {
	flags := []string{"-ffunction-sections", "-fdata-sections"}
	if !IsWindows(target) {
		flags = append(flags, "-fPIC")
	}
	return flags
}

func (r *Resolver) dirs() []string {
	list := r.PathList
	if list == "" {
		list = os.Getenv("PATH")
	}
	return filepath.SplitList(list)
}

func (r *Resolver) find(name string) (string, bool) {
	for _, dir := range r.dirs() {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, name)
		if isExecutable(p) {
			return p, true
		}
		if runtime.GOOS == "windows" && isExecutable(p+".exe") {
			return p + ".exe", true
		}
	}
	return "", false
}

// findVersioned picks the newest "<name>-<version>" in PATH, e.g.
// aarch64-linux-gnu-gcc-13 over aarch64-linux-gnu-gcc-12.
func (r *Resolver) findVersioned(name string) (string, bool) {
	best, bestVer := "", ""
	for _, dir := range r.dirs() {
		if dir == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, name+"-*"))
		if err != nil {
			continue
		}
		for _, m := range matches {
			ver := "v" + strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), name+"-"), ".exe")
			if !semver.IsValid(ver) || !isExecutable(m) {
				continue
			}
			if best == "" || semver.Compare(ver, bestVer) > 0 {
				best, bestVer = m, ver
			}
		}
	}
	return best, best != ""
}

func isExecutable(p string) bool {
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return fi.Mode().Perm()&0o111 != 0
}

// HostFromCompiler derives the autotools --host value from a cross compiler
// name such as "aarch64-linux-gnu-gcc" or "arm-none-eabi-gcc-12".
func HostFromCompiler(path string) (string, bool) {
	name := strings.TrimSuffix(filepath.Base(path), ".exe")
	if name == "musl-gcc" {
		return "", false
	}
	if i := strings.LastIndexByte(name, '-'); i > 0 && semver.IsValid("v"+name[i+1:]) {
		name = name[:i]
	}
	for _, suffix := range []string{"-gcc", "-cc"} {
		if host, ok := strings.CutSuffix(name, suffix); ok && host != "" {
			return host, true
		}
	}
	return "", false
}
