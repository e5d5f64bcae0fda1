package autotools

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goplus/autotools/pkgs/toolchain"
	"github.com/kballard/go-shellquote"
)

// Step names reported in ProcessSpec.Step and StepFailedError.Step.
const (
	StepAutoreconf = "autoreconf"
	StepConfigure  = "configure"
	StepMake       = "make"
	StepInstall    = "install"
)

// ProcessSpec is one process of the pipeline.
type ProcessSpec struct {
	Step    string
	Program string
	Args    []string
	Dir     string
	// Env is laid over the inherited environment.
	Env map[string]string
}

// String renders the command line with shell quoting.
func (p ProcessSpec) String() string {
	return shellquote.Join(append([]string{p.Program}, p.Args...)...)
}

// layout is where a build reads and writes.
type layout struct {
	source string
	prefix string
	build  string
}

func (c *Config) layout() (layout, error) {
	out, err := c.resolveOutDir()
	if err != nil {
		return layout{}, &IOError{Op: "resolve out dir for", Path: c.sourceDir, Err: err}
	}
	l := layout{source: c.sourceDir, prefix: out, build: filepath.Join(out, "build")}
	if c.insource || filepath.Clean(out) == filepath.Clean(c.sourceDir) {
		l.build = c.sourceDir
	}
	return l, nil
}

// checkSource verifies the source tree and reports whether a configure
// script is already present.
func (c *Config) checkSource() (hasConfigure bool, err error) {
	fi, err := os.Stat(c.sourceDir)
	if err != nil {
		return false, &ConfigurationError{Path: c.sourceDir, Reason: "source directory not accessible", Err: err}
	}
	if !fi.IsDir() {
		return false, &ConfigurationError{Path: c.sourceDir, Reason: "source path is not a directory"}
	}
	if _, err := os.Stat(filepath.Join(c.sourceDir, "configure")); err == nil {
		return true, nil
	}
	if _, err := os.Stat(filepath.Join(c.sourceDir, "configure.ac")); err == nil {
		return false, nil
	}
	return false, &ConfigurationError{Path: c.sourceDir, Reason: "neither configure nor configure.ac found"}
}

// reconfArgs returns the autoreconf arguments and whether autoreconf runs.
// A tree with only configure.ac gets "autoreconf -fi" unless Reconf was
// called.
func (c *Config) reconfArgs(hasConfigure bool) ([]string, bool, error) {
	if c.hasReconf {
		args, err := shellquote.Split(c.reconf)
		if err != nil {
			return nil, false, &ConfigurationError{Path: c.sourceDir, Reason: "invalid reconf flags", Err: err}
		}
		return args, true, nil
	}
	if !hasConfigure {
		return []string{"-fi"}, true, nil
	}
	return nil, false, nil
}

// Plan validates the source tree and returns the processes Build would run,
// without running anything.
func (c *Config) Plan() ([]ProcessSpec, error) {
	specs, _, err := c.plan()
	return specs, err
}

func (c *Config) plan() ([]ProcessSpec, layout, error) {
	hasConfigure, err := c.checkSource()
	if err != nil {
		return nil, layout{}, err
	}
	reconf, runReconf, err := c.reconfArgs(hasConfigure)
	if err != nil {
		return nil, layout{}, err
	}
	l, err := c.layout()
	if err != nil {
		return nil, layout{}, err
	}
	t, comps := c.resolveTarget()
	return c.synthesize(l, reconf, runReconf, t, comps), l, nil
}

type envVar struct{ key, value string }

// toolVars returns the compiler selection variables, in the order they are
// appended to configure.
func (c *Config) toolVars(comps *toolchain.Compilers, u usePaths) []envVar {
	var ccFlags, cxxFlags []string
	var vars []envVar
	if comps != nil {
		vars = append(vars, envVar{"CC", comps.CC.Path})
		ccFlags = comps.CC.Flags
		if comps.CXX.Path != "" {
			vars = append(vars, envVar{"CXX", comps.CXX.Path})
			cxxFlags = comps.CXX.Flags
		}
	}
	add := func(key, value string) {
		if value != "" {
			vars = append(vars, envVar{key, value})
		}
	}
	add("CFLAGS", joinFlags(ccFlags, c.envFlags("CFLAGS"), c.cflags))
	add("CXXFLAGS", joinFlags(cxxFlags, c.envFlags("CXXFLAGS"), c.cxxflags))
	if len(u.cppflags) > 0 {
		add("CPPFLAGS", joinFlags(c.envFlags("CPPFLAGS"), u.cppflags))
	}
	add("LDFLAGS", joinFlags(c.envFlags("LDFLAGS"), u.ldflags, c.ldflags))
	return vars
}

func (c *Config) configureArgs(l layout, t ResolvedTarget, vars []envVar) []string {
	args := []string{"--prefix=" + l.prefix}
	if t.Host != "" {
		args = append(args, "--host="+t.Host)
	}
	if t.Build != "" {
		args = append(args, "--build="+t.Build)
	}
	if t.Target != "" {
		args = append(args, "--target="+t.Target)
	}
	if c.shared {
		args = append(args, "--enable-shared")
	} else {
		args = append(args, "--disable-shared")
	}
	if c.static {
		args = append(args, "--enable-static")
	} else {
		args = append(args, "--disable-static")
	}
	for kind := flagKind(0); kind < numKinds; kind++ {
		for _, o := range c.flags[kind] {
			args = append(args, o.render(kindPrefix[kind]))
		}
	}
	args = append(args, c.raw...)
	for _, v := range vars {
		args = append(args, v.key+"="+v.value)
	}
	if len(c.forbidden) == 0 {
		return args
	}
	kept := args[:0]
	for _, a := range args {
		key, _, _ := strings.Cut(a, "=")
		if !c.forbidden[key] {
			kept = append(kept, a)
		}
	}
	return kept
}

// synthesize turns the option store, the resolved target and the compilers
// into the ordered processes of a build.
func (c *Config) synthesize(l layout, reconf []string, runReconf bool, t ResolvedTarget, comps *toolchain.Compilers) []ProcessSpec {
	u := c.resolveUses()
	overlay := func(extra []envVar) map[string]string {
		m := make(map[string]string, len(c.env)+len(u.vars)+len(extra))
		for k, v := range c.env {
			m[k] = v
		}
		for k, v := range u.vars {
			m[k] = v
		}
		for _, v := range extra {
			m[v.key] = v.value
		}
		return m
	}

	var specs []ProcessSpec
	if runReconf {
		specs = append(specs, ProcessSpec{
			Step:    StepAutoreconf,
			Program: "autoreconf",
			Args:    reconf,
			Dir:     l.source,
			Env:     overlay(nil),
		})
	}

	vars := c.toolVars(comps, u)
	configure := ProcessSpec{
		Step:    StepConfigure,
		Program: filepath.Join(l.source, "configure"),
		Args:    c.configureArgs(l, t, vars),
		Dir:     l.build,
		Env:     overlay(vars),
	}
	if t.Emscripten {
		configure.Args = append([]string{configure.Program}, configure.Args...)
		configure.Program = "emconfigure"
	}
	specs = append(specs, configure)

	makeProg := "make"
	if m, ok := c.getenv("MAKE"); ok && m != "" {
		makeProg = m
	}
	var makeArgs []string
	if c.jobs > 0 {
		makeArgs = append(makeArgs, "-j"+strconv.Itoa(c.jobs))
	}
	makeArgs = append(makeArgs, c.makeArgs...)
	makeArgs = append(makeArgs, c.makeTargets...)
	build := ProcessSpec{Step: StepMake, Program: makeProg, Args: makeArgs, Dir: l.build, Env: overlay(nil)}
	if t.Emscripten {
		build.Args = append([]string{makeProg}, build.Args...)
		build.Program = "emmake"
	}
	specs = append(specs, build)

	specs = append(specs, ProcessSpec{
		Step:    StepInstall,
		Program: makeProg,
		Args:    []string{"install"},
		Dir:     l.build,
		Env:     overlay(nil),
	})
	return specs
}

// envLines renders an overlay as sorted KEY=VALUE lines.
func envLines(env map[string]string) []string {
	lines := make([]string, 0, len(env))
	for k, v := range env {
		lines = append(lines, k+"="+v)
	}
	sort.Strings(lines)
	return lines
}
