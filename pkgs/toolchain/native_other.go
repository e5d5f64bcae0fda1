//go:build !unix

package toolchain

import "runtime"

// Native returns the triple of the running machine.
func Native() string {
	return TripleFor(runtime.GOOS, runtime.GOARCH)
}
