// Package autotools drives configure/make/make-install builds of C and C++
// libraries.
//
// A Config accumulates options through chained calls and is consumed by
// Build, which runs (optionally) autoreconf, then configure, make and
// make install, and returns the install prefix:
//
//	dst, err := autotools.New("libfoo").
//		Reconf("-ivf").
//		Enable("feature").
//		With("dep").
//		Without("otherdep").
//		CFlag("-Wall").
//		Build(ctx)
//
// Triples use their autotools meaning: Host is the machine the artifacts run
// on, BuildTriple is the machine running the compiler.
package autotools

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/goplus/autotools/internal/env"
	"github.com/goplus/autotools/pkgs/buildsys"
	"github.com/goplus/autotools/pkgs/toolchain"
)

type flagKind int

const (
	kindEnable flagKind = iota
	kindDisable
	kindWith
	kindWithout
	numKinds
)

var kindPrefix = [numKinds]string{"--enable-", "--disable-", "--with-", "--without-"}

type option struct {
	name     string
	value    string
	hasValue bool
}

func newOption(name string, value []string) option {
	if len(value) > 0 {
		return option{name: name, value: value[0], hasValue: true}
	}
	return option{name: name}
}

func (o option) render(prefix string) string {
	if o.hasValue {
		return prefix + o.name + "=" + o.value
	}
	return prefix + o.name
}

// Config is the builder state of a pending autotools build. The zero value
// is not usable; call New.
type Config struct {
	sourceDir string
	outDir    string

	reconf    string
	hasReconf bool

	flags      [numKinds][]option
	raw        []string
	configHost bool

	cflags   []string
	cxxflags []string
	ldflags  []string
	env      map[string]string
	uses     []string

	host   string
	build  string
	target string

	jobs        int
	makeArgs    []string
	makeTargets []string

	shared    bool
	static    bool
	insource  bool
	fastBuild bool
	forbidden map[string]bool

	ambient   toolchain.Ambient
	compilers toolchain.CompilerResolver
	runner    Runner
}

var _ buildsys.BuildSystem = (*Config)(nil)

// New returns a Config for the source tree at path. Relative paths are
// resolved against the current directory.
func New(path string) *Config {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Config{
		sourceDir: path,
		static:    true,
		env:       make(map[string]string),
		forbidden: make(map[string]bool),
	}
}

// Source overrides the source directory.
func (c *Config) Source(dir string) *Config {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	c.sourceDir = dir
	return c
}

// SourceDir returns the source directory.
func (c *Config) SourceDir() string { return c.sourceDir }

// OutDir sets the install prefix and out-of-source build root. It defaults
// to $OUT_DIR, or a per-user scratch directory when that is unset.
func (c *Config) OutDir(dir string) *Config {
	c.outDir = dir
	return c
}

// Reconf runs autoreconf with flags in the source tree before configure.
func (c *Config) Reconf(flags string) *Config {
	c.reconf, c.hasReconf = flags, true
	return c
}

// Enable passes --enable-<name>[=<value>] to configure.
func (c *Config) Enable(name string, value ...string) *Config {
	return c.addFlag(kindEnable, name, value)
}

// Disable passes --disable-<name>[=<value>] to configure.
func (c *Config) Disable(name string, value ...string) *Config {
	return c.addFlag(kindDisable, name, value)
}

// With passes --with-<name>[=<value>] to configure.
func (c *Config) With(name string, value ...string) *Config {
	return c.addFlag(kindWith, name, value)
}

// Without passes --without-<name>[=<value>] to configure.
func (c *Config) Without(name string, value ...string) *Config {
	return c.addFlag(kindWithout, name, value)
}

func (c *Config) addFlag(kind flagKind, name string, value []string) *Config {
	c.flags[kind] = append(c.flags[kind], newOption(name, value))
	return c
}

// ConfigOption passes --<opt>[=<value>] to configure. Setting "host" this
// way replaces the automatically derived --host.
func (c *Config) ConfigOption(opt string, value ...string) *Config {
	if opt == "host" {
		c.configHost = true
	}
	c.raw = append(c.raw, newOption(opt, value).render("--"))
	return c
}

// ConfigArg passes arg to configure verbatim.
func (c *Config) ConfigArg(arg string) *Config {
	c.raw = append(c.raw, arg)
	return c
}

// CFlag adds a flag for the C compiler. Compiler defaults come first, then
// $CFLAGS, then flags added here.
func (c *Config) CFlag(flag string) *Config {
	c.cflags = append(c.cflags, flag)
	return c
}

// CXXFlag adds a flag for the C++ compiler, ordered like CFlag.
func (c *Config) CXXFlag(flag string) *Config {
	c.cxxflags = append(c.cxxflags, flag)
	return c
}

// LDFlag adds a linker flag after any $LDFLAGS.
func (c *Config) LDFlag(flag string) *Config {
	c.ldflags = append(c.ldflags, flag)
	return c
}

// Env sets an environment variable for every spawned step. The current
// process environment is left untouched.
//
// CC, CXX, CFLAGS, CXXFLAGS and LDFLAGS set here are read as defaults for
// compiler selection; prefer CFlag and friends to add flags.
func (c *Config) Env(key, value string) *Config {
	c.env[key] = value
	return c
}

// Host sets the triple the built artifacts run on (configure --host).
func (c *Config) Host(triple string) *Config {
	c.host = triple
	return c
}

// BuildTriple sets the triple of the machine running the build
// (configure --build).
func (c *Config) BuildTriple(triple string) *Config {
	c.build = triple
	return c
}

// Target sets configure --target, only meaningful for packages that are
// themselves compilers.
func (c *Config) Target(triple string) *Config {
	c.target = triple
	return c
}

// Jobs passes -j<n> to make. n <= 0 leaves parallelism to make.
func (c *Config) Jobs(n int) *Config {
	c.jobs = n
	return c
}

// MakeArgs appends arguments to the make invocation of the build step.
func (c *Config) MakeArgs(args ...string) *Config {
	c.makeArgs = append(c.makeArgs, args...)
	return c
}

// MakeTarget adds a goal to the make invocation of the build step.
func (c *Config) MakeTarget(target string) *Config {
	c.makeTargets = append(c.makeTargets, target)
	return c
}

// EnableShared builds shared libraries (--enable-shared).
func (c *Config) EnableShared() *Config { c.shared = true; return c }

// DisableShared skips shared libraries (--disable-shared). This is the default.
func (c *Config) DisableShared() *Config { c.shared = false; return c }

// EnableStatic builds static libraries (--enable-static). This is the default.
func (c *Config) EnableStatic() *Config { c.static = true; return c }

// DisableStatic skips static libraries (--disable-static).
func (c *Config) DisableStatic() *Config { c.static = false; return c }

// Insource builds inside the source tree instead of <out>/build. Needed by
// packages whose nested Makefiles do not support VPATH builds.
func (c *Config) Insource(v bool) *Config {
	c.insource = v
	return c
}

// Forbid drops every configure argument whose key (the text before '=')
// equals arg, for configure scripts that reject standard options.
func (c *Config) Forbid(arg string) *Config {
	c.forbidden[arg] = true
	return c
}

// FastBuild skips configure when the build directory was already configured
// with an identical command line.
func (c *Config) FastBuild(v bool) *Config {
	c.fastBuild = v
	return c
}

// Use makes an installed dependency rooted at root visible to the build
// through CPPFLAGS, LDFLAGS, PKG_CONFIG_PATH and CMAKE_PREFIX_PATH.
func (c *Config) Use(root string) *Config {
	c.uses = append(c.uses, root)
	return c
}

// Ambient replaces the source of ambient target metadata.
func (c *Config) Ambient(a toolchain.Ambient) *Config {
	c.ambient = a
	return c
}

// Compilers replaces the compiler detection used for CC/CXX.
func (c *Config) Compilers(r toolchain.CompilerResolver) *Config {
	c.compilers = r
	return c
}

// Runner replaces the process runner.
func (c *Config) Runner(r Runner) *Config {
	c.runner = r
	return c
}

// Output sends the output of spawned steps to stdout and stderr instead of
// the process's own streams. It replaces any Runner set before.
func (c *Config) Output(stdout, stderr io.Writer) *Config {
	c.runner = &ExecRunner{Stdout: stdout, Stderr: stderr, Shell: runtime.GOOS == "windows"}
	return c
}

// OutputDir returns the install prefix the build will use.
func (c *Config) OutputDir() string {
	dir, _ := c.resolveOutDir()
	return dir
}

// BuildDir returns the directory configure and make run in: <out>/build,
// or the source tree for in-source builds. It is empty when the out dir
// cannot be resolved.
func (c *Config) BuildDir() string {
	l, err := c.layout()
	if err != nil {
		return ""
	}
	return l.build
}

func (c *Config) resolveOutDir() (string, error) {
	if c.outDir != "" {
		return filepath.Abs(c.outDir)
	}
	if dir := os.Getenv("OUT_DIR"); dir != "" {
		return filepath.Abs(dir)
	}
	return env.ScratchDir(c.sourceDir)
}
