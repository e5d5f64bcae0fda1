package autotools

import (
	"os"

	"github.com/goplus/autotools/pkgs/toolchain"
	"github.com/qiniu/x/log"
)

// ResolvedTarget is the outcome of target resolution for one build.
type ResolvedTarget struct {
	// Triple is the machine the artifacts run on.
	Triple string
	// Host, Build and Target are the values for configure's --host, --build
	// and --target. Empty values are not passed.
	Host   string
	Build  string
	Target string
	// Cross is set when Triple is not the build machine.
	Cross bool
	// Emscripten routes configure and make through emconfigure/emmake.
	Emscripten bool
}

// getenv looks key up in the Env overrides first, then in the process
// environment.
func (c *Config) getenv(key string) (string, bool) {
	if v, ok := c.env[key]; ok {
		return v, true
	}
	return os.LookupEnv(key)
}

func (c *Config) ambientInfo() toolchain.Ambient {
	if c.ambient != nil {
		return c.ambient
	}
	return toolchain.Env{}
}

func (c *Config) compilerResolver(buildTriple string) toolchain.CompilerResolver {
	if c.compilers != nil {
		return c.compilers
	}
	return &toolchain.Resolver{Host: buildTriple}
}

// resolveTarget decides the triples handed to configure and finds the
// compilers for them. It never fails: missing information leaves the
// corresponding option out so configure can guess, and a missing compiler
// is left for configure to report.
func (c *Config) resolveTarget() (ResolvedTarget, *toolchain.Compilers) {
	amb := c.ambientInfo()
	triple := c.host
	if triple == "" {
		triple = amb.TargetTriple()
	}
	buildTriple := c.build
	if buildTriple == "" {
		buildTriple = amb.HostTriple()
	}

	t := ResolvedTarget{
		Triple:     triple,
		Target:     c.target,
		Cross:      triple != "" && buildTriple != "" && !toolchain.SameMachine(triple, buildTriple),
		Emscripten: toolchain.IsEmscripten(triple),
	}

	comps, err := c.compilerResolver(buildTriple).ResolveCompilers(triple, c.getenv)
	if err != nil {
		log.Debugf("autotools: %v, leaving CC unset", err)
		comps = nil
	}

	switch {
	case c.host != "":
		t.Host = c.host
	case c.configHost, t.Emscripten:
	default:
		if comps != nil {
			if h, ok := toolchain.HostFromCompiler(comps.CC.Path); ok {
				t.Host = h
				break
			}
		}
		if t.Cross {
			t.Host = triple
		}
	}

	if c.build != "" {
		t.Build = c.build
	} else if t.Cross && t.Host != "" {
		t.Build = buildTriple
	}
	return t, comps
}
