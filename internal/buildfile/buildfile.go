// Package buildfile loads a YAML description of an autotools build:
//
//	source: ./libxmp
//	reconf: -v
//	insource: true
//	enable: [static, "debug=no"]
//	with: ["zlib=/opt/zlib"]
//	cflags: [-O2]
//	env:
//	  PKG_CONFIG: pkg-config
//	make_targets: [lib/libxmp.a]
//
// Feature lists take "name" or "name=value" entries.
package buildfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/autotools/pkgs/buildsys/autotools"
	"gopkg.in/yaml.v3"
)

// File is a parsed build file.
type File struct {
	Source string  `yaml:"source"`
	OutDir string  `yaml:"out_dir"`
	Reconf *string `yaml:"reconf"`

	Enable     []string `yaml:"enable"`
	Disable    []string `yaml:"disable"`
	With       []string `yaml:"with"`
	Without    []string `yaml:"without"`
	ConfigArgs []string `yaml:"config_args"`

	CFlags   []string          `yaml:"cflags"`
	CXXFlags []string          `yaml:"cxxflags"`
	LDFlags  []string          `yaml:"ldflags"`
	Env      map[string]string `yaml:"env"`

	Host   string `yaml:"host"`
	Build  string `yaml:"build"`
	Target string `yaml:"target"`

	Jobs        int      `yaml:"jobs"`
	MakeArgs    []string `yaml:"make_args"`
	MakeTargets []string `yaml:"make_targets"`

	Shared    *bool    `yaml:"shared"`
	Static    *bool    `yaml:"static"`
	Insource  bool     `yaml:"insource"`
	FastBuild bool     `yaml:"fast_build"`
	Forbid    []string `yaml:"forbid"`
	Use       []string `yaml:"use"`

	dir string
}

// Load reads the build file at path. Relative paths inside it are resolved
// against the file's directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse build file %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f.dir = filepath.Dir(abs)
	return f, nil
}

// Parse decodes a build file. Unknown keys are an error.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) path(p string) string {
	if p == "" || filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

// SourceDir returns the source directory named by the file, if any.
func (f *File) SourceDir() string { return f.path(f.Source) }

// Apply copies every option in the file onto c. List options accumulate
// after whatever c already holds.
func (f *File) Apply(c *autotools.Config) {
	if f.OutDir != "" {
		c.OutDir(f.path(f.OutDir))
	}
	if f.Reconf != nil {
		c.Reconf(*f.Reconf)
	}
	for _, e := range f.Enable {
		name, value := splitFeature(e)
		c.Enable(name, value...)
	}
	for _, e := range f.Disable {
		name, value := splitFeature(e)
		c.Disable(name, value...)
	}
	for _, e := range f.With {
		name, value := splitFeature(e)
		c.With(name, value...)
	}
	for _, e := range f.Without {
		name, value := splitFeature(e)
		c.Without(name, value...)
	}
	for _, a := range f.ConfigArgs {
		c.ConfigArg(a)
	}
	for _, v := range f.CFlags {
		c.CFlag(v)
	}
	for _, v := range f.CXXFlags {
		c.CXXFlag(v)
	}
	for _, v := range f.LDFlags {
		c.LDFlag(v)
	}
	for k, v := range f.Env {
		c.Env(k, v)
	}
	if f.Host != "" {
		c.Host(f.Host)
	}
	if f.Build != "" {
		c.BuildTriple(f.Build)
	}
	if f.Target != "" {
		c.Target(f.Target)
	}
	if f.Jobs > 0 {
		c.Jobs(f.Jobs)
	}
	c.MakeArgs(f.MakeArgs...)
	for _, t := range f.MakeTargets {
		c.MakeTarget(t)
	}
	if f.Shared != nil {
		if *f.Shared {
			c.EnableShared()
		} else {
			c.DisableShared()
		}
	}
	if f.Static != nil {
		if *f.Static {
			c.EnableStatic()
		} else {
			c.DisableStatic()
		}
	}
	if f.Insource {
		c.Insource(true)
	}
	if f.FastBuild {
		c.FastBuild(true)
	}
	for _, a := range f.Forbid {
		c.Forbid(a)
	}
	for _, u := range f.Use {
		c.Use(f.path(u))
	}
}

// splitFeature splits "name=value" into name and an optional value.
func splitFeature(s string) (string, []string) {
	if name, value, ok := strings.Cut(s, "="); ok {
		return name, []string{value}
	}
	return s, nil
}
