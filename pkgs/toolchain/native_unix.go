//go:build unix

package toolchain

import (
	"runtime"
	"strings"

	"golang.org/x/sys/unix"
)

// Native returns the triple of the running machine. The architecture comes
// from uname(2) so a 32-bit binary on a 64-bit kernel still reports the
// kernel's machine.
func Native() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return TripleFor(runtime.GOOS, runtime.GOARCH)
	}
	machine := normArch(unix.ByteSliceToString(u.Machine[:]))
	if machine == "" {
		return TripleFor(runtime.GOOS, runtime.GOARCH)
	}
	triple := TripleFor(runtime.GOOS, runtime.GOARCH)
	if _, rest, ok := strings.Cut(triple, "-"); ok {
		return machine + "-" + rest
	}
	return triple
}
