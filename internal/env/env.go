package env

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
)

// WorkDir returns the per-user cache directory used for build trees.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".autotools"), nil
}

// ScratchDir returns the default out dir for the source tree at sourceDir:
//
//	WorkDir()/build/<base>-<hash>-<goarch>-<goos>
//
// The hash keeps two trees with the same base name apart. The directory is
// not created.
func ScratchDir(sourceDir string) (string, error) {
	work, err := WorkDir()
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	name := filepath.Base(abs) + "-" + hex.EncodeToString(sum[:4]) + "-" + runtime.GOARCH + "-" + runtime.GOOS
	return filepath.Join(work, "build", name), nil
}
