// Command autotools builds a configure/make source tree and prints where it
// was installed.
package main

import "github.com/goplus/autotools/cmd/autotools/internal"

func main() {
	internal.Execute()
}
