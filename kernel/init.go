// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package kernel implements the stage entered once the boot core has a stack
// and zeroed static storage, together with the fatal-error path.
package kernel

import (
	"fmt"
	"log"
	"runtime"

	"github.com/coreos/go-semver/semver"

	"github.com/dyseos/dyseos/console"
)

// Version is the kernel release, set at link time with:
//
//	-ldflags "-X github.com/dyseos/dyseos/kernel.Version=x.y.z"
var Version string

const devel = "devel"

// version returns the normalized kernel release, or devel when Version is
// not a semantic version.
func version() string {
	v, err := semver.NewVersion(Version)

	if err != nil {
		return devel
	}

	return v.String()
}

// Banner returns the line logged when the kernel starts.
func Banner() string {
	return fmt.Sprintf("%s/%s (%s) • kernel %s", runtime.GOOS, runtime.GOARCH, runtime.Version(), version())
}

// Start is the first kernel code executed on the boot core, it does not
// return.
//
// Start runs before the Go runtime is initialized, it must not allocate nor
// depend on package initialization.
func Start() {
	console.Puts("Kernel initializing: ...\n")

	Panic(&Record{Message: "Reached end of existing kernel... more coming soon!"})
}

// Init logs the kernel banner and enters Start, it requires an initialized Go
// runtime.
func Init() {
	defer Recover()

	log.SetFlags(0)
	log.SetOutput(console.Output)

	log.Println(Banner())

	Start()
}
