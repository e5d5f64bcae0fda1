package autotools

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// mergeEnv returns base with every key in overrides replaced or appended.
// Appended keys are sorted so the result is deterministic.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := append([]string(nil), base...)
	idx := make(map[string]int, len(out))
	for i, kv := range out {
		if k, _, ok := strings.Cut(kv, "="); ok {
			idx[k] = i
		}
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if i, ok := idx[k]; ok {
			out[i] = k + "=" + overrides[k]
		} else {
			out = append(out, k+"="+overrides[k])
		}
	}
	return out
}

// prependPath prepends value to a PATH-style list.
func prependPath(list, value string) string {
	if list == "" {
		return value
	}
	return value + string(os.PathListSeparator) + list
}

// joinFlags joins non-empty flag groups with single spaces.
func joinFlags(groups ...[]string) string {
	var flags []string
	for _, g := range groups {
		for _, f := range g {
			if f = strings.TrimSpace(f); f != "" {
				flags = append(flags, f)
			}
		}
	}
	return strings.Join(flags, " ")
}

// envFlags reads a space-separated flags variable.
func (c *Config) envFlags(key string) []string {
	v, _ := c.getenv(key)
	return strings.Fields(v)
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// usePaths holds what Use contributes to the build environment.
type usePaths struct {
	vars     map[string]string
	cppflags []string
	ldflags  []string
}

// resolveUses computes the environment contributed by Use. Later
// dependencies are searched first.
func (c *Config) resolveUses() usePaths {
	u := usePaths{vars: make(map[string]string)}
	get := func(key string) string {
		if v, ok := u.vars[key]; ok {
			return v
		}
		v, _ := c.getenv(key)
		return v
	}
	for _, root := range c.uses {
		includeDir := filepath.Join(root, "include")
		libDir := filepath.Join(root, "lib")
		pkgconfigDir := filepath.Join(libDir, "pkgconfig")

		if isDir(pkgconfigDir) {
			u.vars["PKG_CONFIG_PATH"] = prependPath(get("PKG_CONFIG_PATH"), pkgconfigDir)
		}
		u.vars["CMAKE_PREFIX_PATH"] = prependPath(get("CMAKE_PREFIX_PATH"), root)

		if runtime.GOOS == "windows" {
			if isDir(includeDir) {
				u.vars["INCLUDE"] = prependPath(get("INCLUDE"), includeDir)
			}
			if isDir(libDir) {
				u.vars["LIB"] = prependPath(get("LIB"), libDir)
			}
			continue
		}
		if isDir(includeDir) {
			u.cppflags = append(u.cppflags, "-I"+includeDir)
		}
		if isDir(libDir) {
			u.ldflags = append(u.ldflags, "-L"+libDir)
		}
	}
	return u
}
