package env

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWorkDir(t *testing.T) {
	dir, err := WorkDir()
	if err != nil {
		t.Fatalf("WorkDir() returned error: %v", err)
	}
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		t.Fatalf("os.UserCacheDir() returned error: %v", err)
	}
	if want := filepath.Join(userCacheDir, ".autotools"); dir != want {
		t.Errorf("WorkDir() = %q, want %q", dir, want)
	}
}

// TestScratchDir verifies the scratch directory layout and that distinct
// trees sharing a base name do not collide.
func TestScratchDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
	}
	work, err := WorkDir()
	if err != nil {
		t.Fatalf("WorkDir() returned error: %v", err)
	}

	a, err := ScratchDir(filepath.Join("one", "libfoo"))
	if err != nil {
		t.Fatalf("ScratchDir() returned error: %v", err)
	}
	b, err := ScratchDir(filepath.Join("two", "libfoo"))
	if err != nil {
		t.Fatalf("ScratchDir() returned error: %v", err)
	}
	if a == b {
		t.Fatalf("ScratchDir() = %q for two different trees", a)
	}
	for _, dir := range []string{a, b} {
		if filepath.Dir(dir) != filepath.Join(work, "build") {
			t.Errorf("ScratchDir() = %q, want a child of %q", dir, filepath.Join(work, "build"))
		}
		base := filepath.Base(dir)
		if !strings.HasPrefix(base, "libfoo-") || !strings.HasSuffix(base, "-"+runtime.GOARCH+"-"+runtime.GOOS) {
			t.Errorf("ScratchDir() base = %q, want libfoo-<hash>-%s-%s", base, runtime.GOARCH, runtime.GOOS)
		}
	}

	again, err := ScratchDir(filepath.Join("one", "libfoo"))
	if err != nil {
		t.Fatalf("ScratchDir() returned error: %v", err)
	}
	if again != a {
		t.Errorf("ScratchDir() not stable: %q then %q", a, again)
	}
	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Errorf("ScratchDir() should not create %q", a)
	}
}
