package internal

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/goplus/autotools/internal/buildfile"
	"github.com/goplus/autotools/pkgs/buildsys/autotools"
	"github.com/spf13/cobra"
)

// options are the flags shared by build, configure and plan.
type options struct {
	file        string
	outDir      string
	reconf      string
	enable      []string
	disable     []string
	with        []string
	without     []string
	configArgs  []string
	cflags      []string
	cxxflags    []string
	ldflags     []string
	env         []string
	host        string
	buildTriple string
	target      string
	jobs        int
	makeArgs    []string
	makeTargets []string
	shared      bool
	static      bool
	insource    bool
	fast        bool
	forbid      []string
	use         []string
}

func addBuildFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "YAML build file; flags are applied after it")
	f.StringVar(&o.outDir, "out-dir", "", "Install prefix and build root (default $OUT_DIR or a cache directory)")
	f.StringVar(&o.reconf, "reconf", "", "Run autoreconf with these flags before configure")
	f.StringArrayVar(&o.enable, "enable", nil, "Pass --enable-NAME[=VALUE] to configure")
	f.StringArrayVar(&o.disable, "disable", nil, "Pass --disable-NAME[=VALUE] to configure")
	f.StringArrayVar(&o.with, "with", nil, "Pass --with-NAME[=VALUE] to configure")
	f.StringArrayVar(&o.without, "without", nil, "Pass --without-NAME[=VALUE] to configure")
	f.StringArrayVar(&o.configArgs, "config-arg", nil, "Pass an argument to configure verbatim")
	f.StringArrayVar(&o.cflags, "cflag", nil, "Add a C compiler flag")
	f.StringArrayVar(&o.cxxflags, "cxxflag", nil, "Add a C++ compiler flag")
	f.StringArrayVar(&o.ldflags, "ldflag", nil, "Add a linker flag")
	f.StringArrayVarP(&o.env, "env", "e", nil, "Set KEY=VALUE in the environment of every step")
	f.StringVar(&o.host, "host", "", "Triple the artifacts run on (configure --host)")
	f.StringVar(&o.buildTriple, "build-triple", "", "Triple of the build machine (configure --build)")
	f.StringVar(&o.target, "target", "", "configure --target, for compiler packages")
	f.IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "Parallel make jobs (0 leaves it to make)")
	f.StringArrayVar(&o.makeArgs, "make-arg", nil, "Extra argument for make")
	f.StringArrayVar(&o.makeTargets, "make-target", nil, "Goal for the make step")
	f.BoolVar(&o.shared, "shared", false, "Build shared libraries")
	f.BoolVar(&o.static, "static", true, "Build static libraries")
	f.BoolVar(&o.insource, "insource", false, "Build inside the source tree")
	f.BoolVar(&o.fast, "fast", false, "Skip configure when the build tree is configured identically")
	f.StringArrayVar(&o.forbid, "forbid", nil, "Drop configure arguments with this key")
	f.StringArrayVar(&o.use, "use", nil, "Make an installed dependency prefix visible to the build")
}

// newConfig builds the Config described by the build file, the flags and the
// optional source argument, in that order of precedence.
func (o *options) newConfig(cmd *cobra.Command, args []string) (*autotools.Config, error) {
	var file *buildfile.File
	if o.file != "" {
		var err error
		if file, err = buildfile.Load(o.file); err != nil {
			return nil, err
		}
	}

	var src string
	switch {
	case len(args) > 0:
		src = args[0]
	case file != nil && file.SourceDir() != "":
		src = file.SourceDir()
	default:
		return nil, errors.New("no source directory given")
	}

	c := autotools.New(src)
	if file != nil {
		file.Apply(c)
	}

	changed := cmd.Flags().Changed
	if o.outDir != "" {
		c.OutDir(o.outDir)
	}
	if changed("reconf") {
		c.Reconf(o.reconf)
	}
	for _, kv := range []struct {
		values []string
		add    func(string, ...string) *autotools.Config
	}{
		{o.enable, c.Enable},
		{o.disable, c.Disable},
		{o.with, c.With},
		{o.without, c.Without},
	} {
		for _, v := range kv.values {
			if name, value, ok := strings.Cut(v, "="); ok {
				kv.add(name, value)
			} else {
				kv.add(v)
			}
		}
	}
	for _, a := range o.configArgs {
		c.ConfigArg(a)
	}
	for _, f := range o.cflags {
		c.CFlag(f)
	}
	for _, f := range o.cxxflags {
		c.CXXFlag(f)
	}
	for _, f := range o.ldflags {
		c.LDFlag(f)
	}
	for _, e := range o.env {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --env %q, want KEY=VALUE", e)
		}
		c.Env(k, v)
	}
	if o.host != "" {
		c.Host(o.host)
	}
	if o.buildTriple != "" {
		c.BuildTriple(o.buildTriple)
	}
	if o.target != "" {
		c.Target(o.target)
	}
	if changed("jobs") || file == nil || file.Jobs == 0 {
		c.Jobs(o.jobs)
	}
	c.MakeArgs(o.makeArgs...)
	for _, t := range o.makeTargets {
		c.MakeTarget(t)
	}
	if changed("shared") {
		if o.shared {
			c.EnableShared()
		} else {
			c.DisableShared()
		}
	}
	if changed("static") {
		if o.static {
			c.EnableStatic()
		} else {
			c.DisableStatic()
		}
	}
	if o.insource {
		c.Insource(true)
	}
	if o.fast {
		c.FastBuild(true)
	}
	for _, a := range o.forbid {
		c.Forbid(a)
	}
	for _, u := range o.use {
		c.Use(u)
	}
	return c, nil
}
